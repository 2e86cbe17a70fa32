package dto

import (
	"Haven/internal/model"
	"time"
)

// PeerReq 指定对方用户
type PeerReq struct {
	UserID    string `json:"user_id" binding:"required,max=64"`
	Name      string `json:"name" binding:"max=100"`
	AvatarURL string `json:"avatar_url" binding:"max=255"`
}

// SendMessageReq 发送消息请求体
type SendMessageReq struct {
	Content string `json:"content"`
}

// MessageDTO 消息
type MessageDTO struct {
	ID             string              `json:"id"`
	ConversationID string              `json:"conversation_id"`
	SenderID       string              `json:"sender_id"`
	Content        string              `json:"content"`
	Status         model.MessageStatus `json:"status"`
	IsOwn          bool                `json:"is_own"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ParticipantDTO 会话参与者
type ParticipantDTO struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ConversationDTO 会话详情
type ConversationDTO struct {
	ID                  string                   `json:"id"`
	Participants        []ParticipantDTO         `json:"participants"`
	Messages            []MessageDTO             `json:"messages"`
	LastMessage         string                   `json:"last_message"`
	LastMessageAt       *time.Time               `json:"last_message_at"`
	LastMessageSenderID string                   `json:"last_message_sender_id"`
	UnreadCount         int                      `json:"unread_count"`
	Status              model.ConversationStatus `json:"status"`
	CreatedAt           time.Time                `json:"created_at"`
}

// ConversationPreviewDTO 会话列表项
type ConversationPreviewDTO struct {
	ID                  string                   `json:"id"`
	OtherUserID         string                   `json:"other_user_id"`
	OtherName           string                   `json:"other_name"`
	OtherImage          string                   `json:"other_image"`
	LastMessage         string                   `json:"last_message"`
	LastMessageAt       *time.Time               `json:"last_message_at"`
	LastMessageSenderID string                   `json:"last_message_sender_id"`
	UnreadCount         int                      `json:"unread_count"`
	Status              model.ConversationStatus `json:"status"`
	Archived            bool                     `json:"archived"`
	CreatedAt           time.Time                `json:"created_at"`
}
