package mongo

import (
	"Haven/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageArchiveRepo 消息归档，只写不读回内存
type MessageArchiveRepo interface {
	SaveMessage(ctx context.Context, msg *model.Message) error
	UpdateStatus(ctx context.Context, messageID string, status model.MessageStatus) error
	DeleteConversation(ctx context.Context, conversationID string) error
}

type messageArchiveRepoImpl struct {
	col *mongo.Collection
}

func NewMessageArchiveRepo(db *mongo.Database) MessageArchiveRepo {
	return &messageArchiveRepoImpl{
		col: db.Collection("message"),
	}
}

// SaveMessage 写入消息，重试或状态先到时不会覆盖已推进的状态
func (s *messageArchiveRepoImpl) SaveMessage(ctx context.Context, msg *model.Message) error {
	doc := toArchivedMessage(msg)
	update := bson.M{
		"$setOnInsert": bson.M{"status": doc.Status},
		"$set": bson.M{
			"conversation_id": doc.ConversationID,
			"sender_id":       doc.SenderID,
			"content":         doc.Content,
			"created_at":      doc.CreatedAt,
			"updated_at":      doc.UpdatedAt,
		},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, options.Update().SetUpsert(true))
	return err
}

// UpdateStatus 更新投递状态，状态只前进
func (s *messageArchiveRepoImpl) UpdateStatus(ctx context.Context, messageID string, status model.MessageStatus) error {
	older := make([]model.MessageStatus, 0, 2)
	for _, st := range []model.MessageStatus{model.MessageSent, model.MessageDelivered, model.MessageSeen} {
		if st.Rank() < status.Rank() {
			older = append(older, st)
		}
	}
	filter := bson.M{"_id": messageID, "status": bson.M{"$in": older}}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	// 消息尚未写入时先插入占位，已有更新的状态时主键冲突
	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// DeleteConversation 删除会话下所有消息
func (s *messageArchiveRepoImpl) DeleteConversation(ctx context.Context, conversationID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"conversation_id": conversationID})
	return err
}
