package dto

import (
	"Haven/internal/model"
	"time"
)

// ConnectionRequestDTO 好友请求
type ConnectionRequestDTO struct {
	ID          string              `json:"id"`
	From        string              `json:"from"`
	FromName    string              `json:"from_name"`
	FromImage   string              `json:"from_image"`
	To          string              `json:"to"`
	ToName      string              `json:"to_name"`
	ToImage     string              `json:"to_image"`
	Status      model.RequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	RespondedAt *time.Time          `json:"responded_at"`
}

// ConnectionStatusDTO 关系状态，只有 accepted 时允许发消息
type ConnectionStatusDTO struct {
	UserID     string              `json:"user_id"`
	Status     model.RequestStatus `json:"status"`
	CanMessage bool                `json:"can_message"`
}
