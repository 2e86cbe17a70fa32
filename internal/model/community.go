package model

import "time"

// Community 社区，种子目录同时映射 MySQL 表
type Community struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:varchar(1000)" json:"description"`
	Category    string    `gorm:"type:varchar(50);index" json:"category"`
	ImageURL    string    `gorm:"type:varchar(255)" json:"imageUrl"`
	CreatorID   string    `gorm:"type:varchar(64)" json:"creatorId"`
	SortOrder   int       `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`

	Members []Member `gorm:"foreignKey:CommunityID;references:ID" json:"members"`
}

func (Community) TableName() string { return "communities" }

// Member 社区成员
type Member struct {
	CommunityID string `gorm:"primaryKey;type:varchar(64)" json:"-"`
	ID          string `gorm:"primaryKey;column:user_id;type:varchar(64)" json:"id"`
	Name        string `gorm:"type:varchar(100)" json:"name"`
	AvatarURL   string `gorm:"type:varchar(255)" json:"avatarUrl"`
}

func (Member) TableName() string { return "community_members" }

// CommunityDraft 创建社区的输入
type CommunityDraft struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=1000"`
	Category    string `validate:"max=50"`
	ImageURL    string `validate:"omitempty,max=255"`
}

func (c *Community) Clone() *Community {
	cp := *c
	cp.Members = append([]Member(nil), c.Members...)
	return &cp
}

// HasMember 判断成员列表中是否存在该用户
func (c *Community) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
