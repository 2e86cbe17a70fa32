package service

import (
	"context"
	"time"
)

// StoreConfig 存储层参数
type StoreConfig struct {
	DeliveredAfter   time.Duration
	SeenAfter        time.Duration
	MaxContentLength int
	ArchiveWorkers   int
	ArchiveQueueSize int
	ArchiveRetries   int
	ArchiveBackoff   time.Duration
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.DeliveredAfter <= 0 {
		c.DeliveredAfter = DefaultDeliveredAfter
	}
	if c.SeenAfter <= 0 {
		c.SeenAfter = DefaultSeenAfter
	}
	if c.MaxContentLength <= 0 {
		c.MaxContentLength = DefaultMaxContentLength
	}
	if c.ArchiveWorkers <= 0 {
		c.ArchiveWorkers = 5
	}
	if c.ArchiveQueueSize <= 0 {
		c.ArchiveQueueSize = 2048
	}
	if c.ArchiveRetries < 0 {
		c.ArchiveRetries = 0
	}
	if c.ArchiveBackoff <= 0 {
		c.ArchiveBackoff = time.Second
	}
	return c
}

type storeOptions struct {
	scheduler Scheduler
	archiver  MessageArchiver
	catalog   CatalogSource
	clock     Clock
}

type StoreOption func(*storeOptions)

func WithScheduler(s Scheduler) StoreOption {
	return func(o *storeOptions) { o.scheduler = s }
}

func WithArchiver(a MessageArchiver) StoreOption {
	return func(o *storeOptions) { o.archiver = a }
}

func WithCatalog(c CatalogSource) StoreOption {
	return func(o *storeOptions) { o.catalog = c }
}

func WithClock(c Clock) StoreOption {
	return func(o *storeOptions) { o.clock = c }
}

// Store 聚合所有注册表，共享同一条总线
type Store struct {
	Bus           *Bus
	Conversations ConversationService
	Messages      MessageService
	Connections   ConnectionService
	Communities   CommunityService
	Profiles      ProfileService

	conversations *conversationServiceImpl
	connections   *connectionServiceImpl
	communities   *communityServiceImpl
	archive       *archiveQueue
}

// StoreStats 运行时统计
type StoreStats struct {
	Conversations      int `json:"conversations"`
	Messages           int `json:"messages"`
	PendingRequests    int `json:"pending_requests"`
	CreatedCommunities int `json:"created_communities"`
	CatalogCommunities int `json:"catalog_communities"`
	Subscribers        int `json:"subscribers"`
}

func NewStore(cfg StoreConfig, identity Identity, opts ...StoreOption) *Store {
	cfg = cfg.withDefaults()
	o := storeOptions{
		scheduler: TimerScheduler{},
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	bus := NewBus()
	archive := newArchiveQueue(o.archiver, cfg.ArchiveWorkers, cfg.ArchiveQueueSize, cfg.ArchiveRetries, cfg.ArchiveBackoff)
	conversations := newConversationService(identity, bus, archive, o.clock)
	connections := newConnectionService(conversations, identity, bus, o.clock)
	conversations.open = connections.openConversation
	communities := newCommunityService(o.catalog, identity, bus, o.clock)

	messages := &messageServiceImpl{
		conversations:    conversations,
		connections:      connections,
		identity:         identity,
		bus:              bus,
		scheduler:        o.scheduler,
		archive:          archive,
		now:              o.clock,
		maxContentLength: cfg.MaxContentLength,
		deliveredAfter:   cfg.DeliveredAfter,
		seenAfter:        cfg.SeenAfter,
	}
	profiles := &profileServiceImpl{
		conversations: conversations,
		connections:   connections,
		communities:   communities,
		bus:           bus,
		now:           o.clock,
	}

	return &Store{
		Bus:           bus,
		Conversations: conversations,
		Messages:      messages,
		Connections:   connections,
		Communities:   communities,
		Profiles:      profiles,
		conversations: conversations,
		connections:   connections,
		communities:   communities,
		archive:       archive,
	}
}

// LoadCatalog 启动时加载社区种子目录，不广播
func (s *Store) LoadCatalog(ctx context.Context) error {
	return s.communities.loadCatalog(ctx)
}

func (s *Store) Stats() StoreStats {
	convs, msgs := s.conversations.stats()
	created, catalog := s.communities.stats()
	return StoreStats{
		Conversations:      convs,
		Messages:           msgs,
		PendingRequests:    s.connections.pendingCount(),
		CreatedCommunities: created,
		CatalogCommunities: catalog,
		Subscribers:        s.Bus.Len(),
	}
}

// Close 等待归档队列退出
func (s *Store) Close() {
	s.archive.close()
}
