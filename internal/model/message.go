package model

import "time"

// MessageStatus 消息投递状态，只能前进
type MessageStatus string

const (
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageSeen      MessageStatus = "seen"
)

// Rank 返回状态序号，未知状态为 -1
func (s MessageStatus) Rank() int {
	switch s {
	case MessageSent:
		return 0
	case MessageDelivered:
		return 1
	case MessageSeen:
		return 2
	}
	return -1
}

// Message 会话中的单条消息
type Message struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversationId"`
	SenderID       string        `json:"senderId"`
	Content        string        `json:"content"`
	CreatedAt      time.Time     `json:"createdAt"`
	Status         MessageStatus `json:"status"`
}
