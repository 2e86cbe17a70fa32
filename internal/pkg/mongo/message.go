package mongo

import (
	"Haven/internal/model"
	"time"
)

// ArchivedMessage 消息归档文档
type ArchivedMessage struct {
	ID             string              `bson:"_id"`
	ConversationID string              `bson:"conversation_id"`
	SenderID       string              `bson:"sender_id"`
	Content        string              `bson:"content"`
	Status         model.MessageStatus `bson:"status"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
}

func toArchivedMessage(m *model.Message) *ArchivedMessage {
	return &ArchivedMessage{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      time.Now(),
	}
}
