package service

import (
	"Haven/internal/model"
	"context"
	log "log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	DefaultMaxContentLength = 5000
	DefaultDeliveredAfter   = time.Second
	DefaultSeenAfter        = 3 * time.Second
)

// MessageService 消息投递流水线
type MessageService interface {
	Send(ctx context.Context, conversationID, content string) (*model.Message, error)
	History(ctx context.Context, conversationID string) ([]model.Message, error)
}

type messageServiceImpl struct {
	conversations *conversationServiceImpl
	connections   *connectionServiceImpl
	identity      Identity
	bus           *Bus
	scheduler     Scheduler
	archive       *archiveQueue
	now           Clock

	maxContentLength int
	deliveredAfter   time.Duration
	seenAfter        time.Duration
}

// Send 发送消息，状态随后异步推进为 delivered、seen
func (s *messageServiceImpl) Send(ctx context.Context, conversationID, content string) (*model.Message, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	if utf8.RuneCountInString(content) > s.maxContentLength {
		return nil, ErrMessageTooLong
	}

	peer, err := s.conversations.peerOf(conversationID, me.ID)
	if err != nil {
		return nil, err
	}
	if s.connections.statusBetween(me.ID, peer) != model.RequestAccepted {
		return nil, ErrConnectionRequired
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	msg := model.Message{
		ID:             id.String(),
		ConversationID: conversationID,
		SenderID:       me.ID,
		Content:        content,
		CreatedAt:      s.now(),
		Status:         model.MessageSent,
	}

	participants, err := s.conversations.appendMessage(msg)
	if err != nil {
		return nil, err
	}

	s.archive.saveMessage(msg)
	s.bus.Notify(Event{
		Type:           EventMessageSent,
		UserIDs:        participants[:],
		ConversationID: conversationID,
		MessageID:      msg.ID,
		Status:         msg.Status,
		At:             msg.CreatedAt,
	})

	s.scheduler.AfterFunc(s.deliveredAfter, func() {
		if !s.advance(conversationID, msg.ID, model.MessageDelivered) {
			return
		}
		next := s.seenAfter - s.deliveredAfter
		if next < 0 {
			next = 0
		}
		s.scheduler.AfterFunc(next, func() {
			s.advance(conversationID, msg.ID, model.MessageSeen)
		})
	})

	return &msg, nil
}

// advance 定时器回调：会话或消息已删除时静默忽略
func (s *messageServiceImpl) advance(conversationID, messageID string, status model.MessageStatus) bool {
	participants, ok := s.conversations.advance(conversationID, messageID, status)
	if !ok {
		log.Debug("skip message status advance", "conversation_id", conversationID, "message_id", messageID, "status", string(status))
		return false
	}

	s.archive.updateStatus(messageID, status)
	s.bus.Notify(Event{
		Type:           EventMessageStatus,
		UserIDs:        participants[:],
		ConversationID: conversationID,
		MessageID:      messageID,
		Status:         status,
		At:             s.now(),
	})
	return true
}

// History 获取会话消息列表
func (s *messageServiceImpl) History(ctx context.Context, conversationID string) ([]model.Message, error) {
	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}
