package service

import (
	"Haven/internal/model"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ConversationService 会话注册表
type ConversationService interface {
	FindOrCreate(ctx context.Context, otherUserID, otherName, otherImage string) (*model.Conversation, error)
	Get(ctx context.Context, conversationID string) (*model.Conversation, error)
	List(ctx context.Context) ([]*model.ConversationPreview, error)
	MarkRead(ctx context.Context, conversationID string) error
	Archive(ctx context.Context, conversationID string) error
	Delete(ctx context.Context, conversationID string) error
}

// pairKey 无序用户对，lo <= hi
type pairKey struct {
	lo, hi string
}

func newPairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

type conversationServiceImpl struct {
	mu       sync.RWMutex
	byID     map[string]*model.Conversation
	byPair   map[pairKey]string
	identity Identity
	bus      *Bus
	archive  *archiveQueue
	now      Clock

	// open 经好友关系校验后获取或创建会话
	open func(a, b model.User) (*model.Conversation, bool, error)
}

func newConversationService(identity Identity, bus *Bus, archive *archiveQueue, now Clock) *conversationServiceImpl {
	return &conversationServiceImpl{
		byID:     make(map[string]*model.Conversation),
		byPair:   make(map[pairKey]string),
		identity: identity,
		bus:      bus,
		archive:  archive,
		now:      now,
	}
}

// FindOrCreate 获取或创建与对方的会话，新建会话要求双方已通过好友请求
func (s *conversationServiceImpl) FindOrCreate(ctx context.Context, otherUserID, otherName, otherImage string) (*model.Conversation, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}
	if otherUserID == "" {
		return nil, ErrParamInvalid
	}
	if otherUserID == me.ID {
		return nil, ErrConversationSelf
	}

	conv, created, err := s.open(me, model.User{ID: otherUserID, Name: otherName, AvatarURL: otherImage})
	if err != nil {
		return nil, err
	}
	if created {
		s.bus.Notify(Event{
			Type:           EventConversationCreated,
			UserIDs:        conv.Participants[:],
			ConversationID: conv.ID,
			At:             s.now(),
		})
	}
	return conv, nil
}

// findOrCreate 查找与创建在同一把锁内完成，不广播
func (s *conversationServiceImpl) findOrCreate(a, b model.User) (*model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := newPairKey(a.ID, b.ID)
	if id, ok := s.byPair[key]; ok {
		return s.byID[id].Clone(), false
	}

	conv := &model.Conversation{
		ID:                uuid.NewString(),
		Participants:      [2]string{a.ID, b.ID},
		ParticipantNames:  [2]string{a.Name, b.Name},
		ParticipantImages: [2]string{a.AvatarURL, b.AvatarURL},
		Messages:          []model.Message{},
		UnreadCount:       map[string]int{a.ID: 0, b.ID: 0},
		Status:            model.ConversationActive,
		CreatedAt:         s.now(),
	}
	s.byID[conv.ID] = conv
	s.byPair[key] = conv.ID
	return conv.Clone(), true
}

// Get 获取会话详情，包含完整消息列表
func (s *conversationServiceImpl) Get(ctx context.Context, conversationID string) (*model.Conversation, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.byID[conversationID]
	if !ok || conv.IndexOf(me.ID) < 0 {
		return nil, ErrConversationNotFound
	}
	return conv.Clone(), nil
}

// List 获取当前用户的会话列表
func (s *conversationServiceImpl) List(ctx context.Context) ([]*model.ConversationPreview, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	res := make([]*model.ConversationPreview, 0)
	for _, conv := range s.byID {
		other := conv.Other(me.ID)
		if other < 0 {
			continue
		}
		p := &model.ConversationPreview{
			ID:                  conv.ID,
			OtherUserID:         conv.Participants[other],
			OtherName:           conv.ParticipantNames[other],
			OtherImage:          conv.ParticipantImages[other],
			LastMessage:         conv.LastMessage,
			LastMessageSenderID: conv.LastMessageSenderID,
			UnreadCount:         conv.UnreadCount[me.ID],
			Status:              conv.Status,
			Archived:            conv.Status == model.ConversationArchived,
			CreatedAt:           conv.CreatedAt,
		}
		if conv.LastMessageAt != nil {
			t := *conv.LastMessageAt
			p.LastMessageAt = &t
		}
		res = append(res, p)
	}
	s.mu.RUnlock()

	sortPreviews(res)
	return res, nil
}

// sortPreviews 有消息的按最后消息时间倒序在前，空会话按创建时间倒序在后
func sortPreviews(res []*model.ConversationPreview) {
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if (a.LastMessageAt == nil) != (b.LastMessageAt == nil) {
			return a.LastMessageAt != nil
		}
		if a.LastMessageAt != nil && !a.LastMessageAt.Equal(*b.LastMessageAt) {
			return a.LastMessageAt.After(*b.LastMessageAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// MarkRead 清空当前用户的未读数
func (s *conversationServiceImpl) MarkRead(ctx context.Context, conversationID string) error {
	return s.mutate(ctx, conversationID, EventConversationRead, func(conv *model.Conversation, me string) {
		conv.UnreadCount[me] = 0
	})
}

// Archive 归档会话，归档后仍出现在列表中
func (s *conversationServiceImpl) Archive(ctx context.Context, conversationID string) error {
	return s.mutate(ctx, conversationID, EventConversationArchived, func(conv *model.Conversation, _ string) {
		conv.Status = model.ConversationArchived
	})
}

// Delete 删除会话及其全部消息
func (s *conversationServiceImpl) Delete(ctx context.Context, conversationID string) error {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	conv, ok := s.byID[conversationID]
	if !ok || conv.IndexOf(me.ID) < 0 {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	delete(s.byID, conversationID)
	delete(s.byPair, newPairKey(conv.Participants[0], conv.Participants[1]))
	participants := conv.Participants
	s.mu.Unlock()

	s.archive.deleteConversation(conversationID)
	s.bus.Notify(Event{
		Type:           EventConversationDeleted,
		UserIDs:        participants[:],
		ConversationID: conversationID,
		At:             s.now(),
	})
	return nil
}

func (s *conversationServiceImpl) mutate(ctx context.Context, conversationID string, typ EventType, fn func(conv *model.Conversation, me string)) error {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	conv, ok := s.byID[conversationID]
	if !ok || conv.IndexOf(me.ID) < 0 {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	fn(conv, me.ID)
	participants := conv.Participants
	s.mu.Unlock()

	s.bus.Notify(Event{
		Type:           typ,
		UserIDs:        participants[:],
		ConversationID: conversationID,
		At:             s.now(),
	})
	return nil
}

// between 返回两人之间的会话状态
func (s *conversationServiceImpl) between(a, b string) (exists bool, active bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPair[newPairKey(a, b)]
	if !ok {
		return false, false
	}
	return true, s.byID[id].Status == model.ConversationActive
}

// peerOf 校验成员并返回对方 ID
func (s *conversationServiceImpl) peerOf(conversationID, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.byID[conversationID]
	if !ok {
		return "", ErrConversationNotFound
	}
	other := conv.Other(userID)
	if other < 0 {
		return "", ErrConversationNotFound
	}
	return conv.Participants[other], nil
}

// appendMessage 追加消息并同步更新会话的最后消息缓存
func (s *conversationServiceImpl) appendMessage(msg model.Message) ([2]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.byID[msg.ConversationID]
	if !ok {
		return [2]string{}, ErrConversationNotFound
	}
	other := conv.Other(msg.SenderID)
	if other < 0 {
		return [2]string{}, ErrConversationNotFound
	}

	conv.Messages = append(conv.Messages, msg)
	at := msg.CreatedAt
	conv.LastMessage = msg.Content
	conv.LastMessageAt = &at
	conv.LastMessageSenderID = msg.SenderID
	conv.UnreadCount[conv.Participants[other]]++
	return conv.Participants, nil
}

// advance 仅当状态前进时写入，会话或消息不存在时静默返回
func (s *conversationServiceImpl) advance(conversationID, messageID string, status model.MessageStatus) ([2]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.byID[conversationID]
	if !ok {
		return [2]string{}, false
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		m := &conv.Messages[i]
		if m.ID != messageID {
			continue
		}
		if status.Rank() <= m.Status.Rank() {
			return [2]string{}, false
		}
		m.Status = status
		return conv.Participants, true
	}
	return [2]string{}, false
}

// refreshProfile 更新会话中缓存的用户名与头像
func (s *conversationServiceImpl) refreshProfile(user model.User) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected []string
	for _, conv := range s.byID {
		i := conv.IndexOf(user.ID)
		if i < 0 {
			continue
		}
		if conv.ParticipantNames[i] == user.Name && conv.ParticipantImages[i] == user.AvatarURL {
			continue
		}
		conv.ParticipantNames[i] = user.Name
		conv.ParticipantImages[i] = user.AvatarURL
		affected = append(affected, conv.Participants[1-i])
	}
	return affected
}

func (s *conversationServiceImpl) stats() (conversations, messages int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, conv := range s.byID {
		messages += len(conv.Messages)
	}
	return len(s.byID), messages
}
