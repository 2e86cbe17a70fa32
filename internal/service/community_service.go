package service

import (
	"Haven/internal/model"
	"Haven/internal/pkg/util"
	"context"
	"fmt"
	log "log/slog"
	"sync"

	"github.com/google/uuid"
)

// CatalogSource 社区种子目录来源
type CatalogSource interface {
	LoadCatalog(ctx context.Context) ([]*model.Community, error)
}

// StaticCatalog 配置文件中的静态目录
type StaticCatalog []*model.Community

func (c StaticCatalog) LoadCatalog(context.Context) ([]*model.Community, error) {
	return c, nil
}

// CommunityService 社区注册表
type CommunityService interface {
	Create(ctx context.Context, draft model.CommunityDraft) (*model.Community, error)
	ListAll(ctx context.Context) ([]*model.Community, error)
	GetByID(ctx context.Context, communityID string) (*model.Community, error)
	Join(ctx context.Context, communityID string) error
	Leave(ctx context.Context, communityID string) error
	IsMember(ctx context.Context, communityID string) (bool, error)
	NotificationsEnabled(ctx context.Context, communityID string) (bool, error)
	ToggleNotifications(ctx context.Context, communityID string) (bool, error)
	ReloadCatalog(ctx context.Context) error
}

type communityServiceImpl struct {
	mu       sync.RWMutex
	created  []*model.Community
	catalog  []*model.Community
	members  map[string]map[string]struct{} // userID -> communityID
	notify   map[string]map[string]struct{}
	source   CatalogSource
	identity Identity
	bus      *Bus
	now      Clock
}

func newCommunityService(source CatalogSource, identity Identity, bus *Bus, now Clock) *communityServiceImpl {
	return &communityServiceImpl{
		members:  make(map[string]map[string]struct{}),
		notify:   make(map[string]map[string]struct{}),
		source:   source,
		identity: identity,
		bus:      bus,
		now:      now,
	}
}

// Create 创建社区，创建者自动加入
func (s *communityServiceImpl) Create(ctx context.Context, draft model.CommunityDraft) (*model.Community, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return nil, err
	}
	if err = util.ValidateDTO(&draft); err != nil {
		return nil, ErrParamInvalid
	}

	c := &model.Community{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Description: draft.Description,
		Category:    draft.Category,
		ImageURL:    draft.ImageURL,
		CreatorID:   me.ID,
		CreatedAt:   s.now(),
		Members:     []model.Member{},
	}
	if !c.HasMember(me.ID) {
		c.Members = append(c.Members, model.Member{CommunityID: c.ID, ID: me.ID, Name: me.Name, AvatarURL: me.AvatarURL})
	}

	s.mu.Lock()
	s.created = append([]*model.Community{c}, s.created...)
	addTo(s.members, me.ID, c.ID)
	res := c.Clone()
	s.mu.Unlock()

	s.bus.Notify(Event{Type: EventCommunityCreated, CommunityID: c.ID, At: c.CreatedAt})
	return res, nil
}

// ListAll 用户创建的社区在前（新的在前），随后是种子目录
func (s *communityServiceImpl) ListAll(ctx context.Context) ([]*model.Community, error) {
	if _, err := currentUser(ctx, s.identity); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]*model.Community, 0, len(s.created)+len(s.catalog))
	for _, c := range s.created {
		res = append(res, c.Clone())
	}
	for _, c := range s.catalog {
		res = append(res, c.Clone())
	}
	return res, nil
}

func (s *communityServiceImpl) GetByID(ctx context.Context, communityID string) (*model.Community, error) {
	if _, err := currentUser(ctx, s.identity); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.findLocked(communityID)
	if c == nil {
		return nil, ErrCommunityNotFound
	}
	return c.Clone(), nil
}

// Join 加入社区
func (s *communityServiceImpl) Join(ctx context.Context, communityID string) error {
	_, err := s.mutate(ctx, communityID, EventCommunityJoined, func(me string) bool {
		addTo(s.members, me, communityID)
		return true
	})
	return err
}

// Leave 退出社区，同时关闭通知
func (s *communityServiceImpl) Leave(ctx context.Context, communityID string) error {
	_, err := s.mutate(ctx, communityID, EventCommunityLeft, func(me string) bool {
		removeFrom(s.members, me, communityID)
		removeFrom(s.notify, me, communityID)
		return false
	})
	return err
}

// ToggleNotifications 切换通知开关，未加入的社区也允许设置
func (s *communityServiceImpl) ToggleNotifications(ctx context.Context, communityID string) (bool, error) {
	return s.mutate(ctx, communityID, EventCommunityNotify, func(me string) bool {
		if contains(s.notify, me, communityID) {
			removeFrom(s.notify, me, communityID)
			return false
		}
		addTo(s.notify, me, communityID)
		return true
	})
}

func (s *communityServiceImpl) IsMember(ctx context.Context, communityID string) (bool, error) {
	return s.query(ctx, s.members, communityID)
}

func (s *communityServiceImpl) NotificationsEnabled(ctx context.Context, communityID string) (bool, error) {
	return s.query(ctx, s.notify, communityID)
}

func (s *communityServiceImpl) query(ctx context.Context, set map[string]map[string]struct{}, communityID string) (bool, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(set, me.ID, communityID), nil
}

func (s *communityServiceImpl) mutate(ctx context.Context, communityID string, typ EventType, fn func(me string) bool) (bool, error) {
	me, err := currentUser(ctx, s.identity)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.findLocked(communityID) == nil {
		s.mu.Unlock()
		return false, ErrCommunityNotFound
	}
	res := fn(me.ID)
	s.mu.Unlock()

	s.bus.Notify(Event{Type: typ, UserIDs: []string{me.ID}, CommunityID: communityID, At: s.now()})
	return res, nil
}

// ReloadCatalog 重新加载种子目录
func (s *communityServiceImpl) ReloadCatalog(ctx context.Context) error {
	if err := s.loadCatalog(ctx); err != nil {
		return err
	}
	s.bus.Notify(Event{Type: EventCommunityCatalog, At: s.now()})
	return nil
}

func (s *communityServiceImpl) loadCatalog(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	list, err := s.source.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load community catalog: %w", err)
	}
	catalog := make([]*model.Community, 0, len(list))
	for _, c := range list {
		catalog = append(catalog, c.Clone())
	}

	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()

	log.InfoContext(ctx, "Community catalog loaded", "count", len(catalog))
	return nil
}

func (s *communityServiceImpl) findLocked(id string) *model.Community {
	for _, c := range s.created {
		if c.ID == id {
			return c
		}
	}
	for _, c := range s.catalog {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *communityServiceImpl) refreshProfile(user model.User) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, list := range [][]*model.Community{s.created, s.catalog} {
		for _, c := range list {
			for i := range c.Members {
				m := &c.Members[i]
				if m.ID == user.ID && (m.Name != user.Name || m.AvatarURL != user.AvatarURL) {
					m.Name, m.AvatarURL = user.Name, user.AvatarURL
					changed = true
				}
			}
		}
	}
	if changed {
		return []string{user.ID}
	}
	return nil
}

func (s *communityServiceImpl) stats() (created, catalog int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.created), len(s.catalog)
}

func addTo(set map[string]map[string]struct{}, userID, communityID string) {
	if set[userID] == nil {
		set[userID] = make(map[string]struct{})
	}
	set[userID][communityID] = struct{}{}
}

func removeFrom(set map[string]map[string]struct{}, userID, communityID string) {
	delete(set[userID], communityID)
}

func contains(set map[string]map[string]struct{}, userID, communityID string) bool {
	_, ok := set[userID][communityID]
	return ok
}
