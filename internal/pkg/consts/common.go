package consts

const (
	DefaultAvatarURL = "default_avatar.png"
)

// gin Context 中的键
const (
	UserIDKey = "user_id"
	RolesKey  = "roles"
)

const (
	RoleAdmin = "ADMIN"
)
