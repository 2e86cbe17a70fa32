package dto

import "time"

// CreateCommunityReq 创建社区请求体
type CreateCommunityReq struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
	Category    string `json:"category" binding:"max=50"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=255"`
}

// MemberDTO 社区成员
type MemberDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// CommunityDTO 社区，附带当前用户的成员与通知状态
type CommunityDTO struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	Category             string      `json:"category"`
	ImageURL             string      `json:"image_url"`
	CreatorID            string      `json:"creator_id"`
	CreatedAt            time.Time   `json:"created_at"`
	Members              []MemberDTO `json:"members"`
	IsMember             bool        `json:"is_member"`
	NotificationsEnabled bool        `json:"notifications_enabled"`
}

// NotificationToggleDTO 通知开关结果
type NotificationToggleDTO struct {
	Enabled bool `json:"enabled"`
}
