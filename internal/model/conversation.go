package model

import "time"

type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "active"
	ConversationArchived ConversationStatus = "archived"
)

// Conversation 双人会话
type Conversation struct {
	ID                  string             `json:"id"`
	Participants        [2]string          `json:"participants"`
	ParticipantNames    [2]string          `json:"participantNames"`
	ParticipantImages   [2]string          `json:"participantImages"`
	Messages            []Message          `json:"messages"`
	LastMessage         string             `json:"lastMessage"`
	LastMessageAt       *time.Time         `json:"lastMessageAt"`
	LastMessageSenderID string             `json:"lastMessageSenderId"`
	UnreadCount         map[string]int     `json:"unreadCount"` // 按参与者计数
	Status              ConversationStatus `json:"status"`
	CreatedAt           time.Time          `json:"createdAt"`
}

// IndexOf 返回用户在参与者中的位置，不存在为 -1
func (c *Conversation) IndexOf(userID string) int {
	for i, p := range c.Participants {
		if p == userID {
			return i
		}
	}
	return -1
}

// Other 返回对方参与者的位置
func (c *Conversation) Other(userID string) int {
	switch c.IndexOf(userID) {
	case 0:
		return 1
	case 1:
		return 0
	}
	return -1
}

// Clone 深拷贝，包含消息列表
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = append([]Message(nil), c.Messages...)
	cp.UnreadCount = make(map[string]int, len(c.UnreadCount))
	for k, v := range c.UnreadCount {
		cp.UnreadCount[k] = v
	}
	if c.LastMessageAt != nil {
		t := *c.LastMessageAt
		cp.LastMessageAt = &t
	}
	return &cp
}

// ConversationPreview 会话列表项，对方信息已按位置解析
type ConversationPreview struct {
	ID                  string             `json:"id"`
	OtherUserID         string             `json:"otherUserId"`
	OtherName           string             `json:"otherName"`
	OtherImage          string             `json:"otherImage"`
	LastMessage         string             `json:"lastMessage"`
	LastMessageAt       *time.Time         `json:"lastMessageAt"`
	LastMessageSenderID string             `json:"lastMessageSenderId"`
	UnreadCount         int                `json:"unreadCount"`
	Status              ConversationStatus `json:"status"`
	Archived            bool               `json:"archived"`
	CreatedAt           time.Time          `json:"createdAt"`
}
