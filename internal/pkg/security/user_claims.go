package security

import (
	"Haven/internal/model"
	"Haven/internal/pkg/consts"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims Token 中携带的用户身份与资料
type UserClaims struct {
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	AvatarURL string   `json:"avatar_url"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// User 转换为身份模型
func (c *UserClaims) User() model.User {
	avatar := c.AvatarURL
	if avatar == "" {
		avatar = consts.DefaultAvatarURL
	}
	return model.User{ID: c.UserID, Name: c.Name, AvatarURL: avatar}
}
