package service

import (
	"Haven/internal/model"
	"context"
	"sync"

	"github.com/google/uuid"
)

// ConnectionService 好友请求注册表
type ConnectionService interface {
	Send(ctx context.Context, toUserID, toName, toImage string) (*model.ConnectionRequest, error)
	Accept(ctx context.Context, requestID string) (*model.Conversation, error)
	Reject(ctx context.Context, requestID string) error
	ListPending(ctx context.Context) ([]*model.ConnectionRequest, error)
	ListSent(ctx context.Context) ([]*model.ConnectionRequest, error)
	StatusBetween(ctx context.Context, otherUserID string) (model.RequestStatus, error)
}

// 加锁顺序：connection -> conversation
type connectionServiceImpl struct {
	mu            sync.RWMutex
	requests      map[string]*model.ConnectionRequest
	order         []string
	conversations *conversationServiceImpl
	identity      Identity
	bus           *Bus
	now           Clock
}

func newConnectionService(conversations *conversationServiceImpl, identity Identity, bus *Bus, now Clock) *connectionServiceImpl {
	return &connectionServiceImpl{
		requests:      make(map[string]*model.ConnectionRequest),
		conversations: conversations,
		identity:      identity,
		bus:           bus,
		now:           now,
	}
}

// Send 发送好友请求
func (s *connectionServiceImpl) Send(ctx context.Context, toUserID, toName, toImage string) (*model.ConnectionRequest, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}
	if toUserID == "" {
		return nil, ErrParamInvalid
	}
	if toUserID == me.ID {
		return nil, ErrRequestSelf
	}

	now := s.now()
	s.mu.Lock()
	// 已有活跃会话，直接返回已通过的请求，不入库
	if _, active := s.conversations.between(me.ID, toUserID); active {
		s.mu.Unlock()
		return &model.ConnectionRequest{
			ID:          uuid.NewString(),
			From:        me.ID,
			FromName:    me.Name,
			FromImage:   me.AvatarURL,
			To:          toUserID,
			ToName:      toName,
			ToImage:     toImage,
			Status:      model.RequestAccepted,
			CreatedAt:   now,
			RespondedAt: &now,
		}, nil
	}
	if pending := s.pendingLocked(me.ID, toUserID); pending != nil {
		res := pending.Clone()
		s.mu.Unlock()
		return res, nil
	}

	req := &model.ConnectionRequest{
		ID:        uuid.NewString(),
		From:      me.ID,
		FromName:  me.Name,
		FromImage: me.AvatarURL,
		To:        toUserID,
		ToName:    toName,
		ToImage:   toImage,
		Status:    model.RequestPending,
		CreatedAt: now,
	}

	s.requests[req.ID] = req
	s.order = append(s.order, req.ID)
	res := req.Clone()
	s.mu.Unlock()

	s.bus.Notify(Event{
		Type:      EventRequestSent,
		UserIDs:   []string{req.From, req.To},
		RequestID: req.ID,
		At:        now,
	})
	return res, nil
}

// Accept 通过请求并创建会话
func (s *connectionServiceImpl) Accept(ctx context.Context, requestID string) (*model.Conversation, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	req, err := s.respondableLocked(requestID, me.ID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	from := model.User{ID: req.From, Name: req.FromName, AvatarURL: req.FromImage}
	to := model.User{ID: req.To, Name: me.Name, AvatarURL: me.AvatarURL}

	if req.Status == model.RequestAccepted {
		conv, created := s.conversations.findOrCreate(from, to)
		s.mu.Unlock()
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

	now := s.now()
	req.Status = model.RequestAccepted
	req.RespondedAt = &now
	conv, _ := s.conversations.findOrCreate(from, to)
	s.mu.Unlock()

	s.bus.Notify(Event{
		Type:           EventRequestAccepted,
		UserIDs:        []string{req.From, req.To},
		RequestID:      req.ID,
		ConversationID: conv.ID,
		At:             now,
	})
	return conv, nil
}

// Reject 拒绝请求，不创建会话
func (s *connectionServiceImpl) Reject(ctx context.Context, requestID string) error {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	req, err := s.respondableLocked(requestID, me.ID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if req.Status != model.RequestPending {
		s.mu.Unlock()
		return ErrRequestResolved
	}
	now := s.now()
	req.Status = model.RequestRefused
	req.RespondedAt = &now
	users := []string{req.From, req.To}
	s.mu.Unlock()

	s.bus.Notify(Event{
		Type:      EventRequestRefused,
		UserIDs:   users,
		RequestID: requestID,
		At:        now,
	})
	return nil
}

// respondableLocked 校验请求存在、接收者为当前用户且未被拒绝
func (s *connectionServiceImpl) respondableLocked(requestID, me string) (*model.ConnectionRequest, error) {
	req, ok := s.requests[requestID]
	if !ok {
		return nil, ErrRequestNotFound
	}
	if req.To != me {
		return nil, ErrRequestForbidden
	}
	if req.Status == model.RequestRefused {
		return nil, ErrRequestResolved
	}
	return req, nil
}

// ListPending 发给当前用户且待处理的请求，按时间正序
func (s *connectionServiceImpl) ListPending(ctx context.Context) ([]*model.ConnectionRequest, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]*model.ConnectionRequest, 0)
	for _, id := range s.order {
		req := s.requests[id]
		if req.To == me.ID && req.Status == model.RequestPending {
			res = append(res, req.Clone())
		}
	}
	return res, nil
}

// ListSent 当前用户发出的请求，按时间倒序
func (s *connectionServiceImpl) ListSent(ctx context.Context) ([]*model.ConnectionRequest, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]*model.ConnectionRequest, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		req := s.requests[s.order[i]]
		if req.From == me.ID {
			res = append(res, req.Clone())
		}
	}
	return res, nil
}

// StatusBetween 当前用户与对方的关系状态，只有 accepted 允许发消息
func (s *connectionServiceImpl) StatusBetween(ctx context.Context, otherUserID string) (model.RequestStatus, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return model.RequestNone, err
	}
	if otherUserID == "" {
		return model.RequestNone, ErrParamInvalid
	}
	return s.statusBetween(me.ID, otherUserID), nil
}

func (s *connectionServiceImpl) statusBetween(a, b string) model.RequestStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked(a, b)
}

// statusLocked 活跃会话优先，其次是待处理请求，最后取最近一条请求的状态
func (s *connectionServiceImpl) statusLocked(a, b string) model.RequestStatus {
	if _, active := s.conversations.between(a, b); active {
		return model.RequestAccepted
	}
	if s.pendingLocked(a, b) != nil {
		return model.RequestPending
	}
	for i := len(s.order) - 1; i >= 0; i-- {
		req := s.requests[s.order[i]]
		if req.Involves(a, b) {
			return req.Status
		}
	}
	return model.RequestNone
}

// openConversation 已有会话直接返回，新建会话要求双方已通过好友请求
func (s *connectionServiceImpl) openConversation(a, b model.User) (*model.Conversation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if exists, _ := s.conversations.between(a.ID, b.ID); !exists && s.statusLocked(a.ID, b.ID) != model.RequestAccepted {
		return nil, false, ErrConnectionRequired
	}
	conv, created := s.conversations.findOrCreate(a, b)
	return conv, created, nil
}

func (s *connectionServiceImpl) pendingLocked(a, b string) *model.ConnectionRequest {
	for _, id := range s.order {
		req := s.requests[id]
		if req.Status == model.RequestPending && req.Involves(a, b) {
			return req
		}
	}
	return nil
}

func (s *connectionServiceImpl) refreshProfile(user model.User) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected []string
	for _, req := range s.requests {
		switch {
		case req.From == user.ID && (req.FromName != user.Name || req.FromImage != user.AvatarURL):
			req.FromName, req.FromImage = user.Name, user.AvatarURL
			affected = append(affected, req.To)
		case req.To == user.ID && (req.ToName != user.Name || req.ToImage != user.AvatarURL):
			req.ToName, req.ToImage = user.Name, user.AvatarURL
			affected = append(affected, req.From)
		}
	}
	return affected
}

func (s *connectionServiceImpl) pendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, req := range s.requests {
		if req.Status == model.RequestPending {
			n++
		}
	}
	return n
}
