package wire

import (
	"Haven/internal/api"
	"Haven/internal/api/config"
	"Haven/internal/api/handler"
	"Haven/internal/job"
	"Haven/internal/model"
	"Haven/internal/pkg/cron"
	"Haven/internal/pkg/kafka"
	"Haven/internal/pkg/mongo"
	"Haven/internal/pkg/redis"
	"Haven/internal/pkg/security"
	"Haven/internal/repository"
	"Haven/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Infra 已初始化的外部依赖，未启用的为 nil
type Infra struct {
	DB    *gorm.DB
	Mongo *mongodriver.Database
	Redis bool
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	Store        *service.Store
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager

	catalogRepo   repository.CommunityCatalogRepo
	seeds         []*model.Community
	stopPublisher func()
}

func BuildApplication(cfg *config.Config, infra Infra) (*ApplicationContainer, error) {
	seeds := SeedCommunities(cfg.Communities, time.Now())

	opts := []service.StoreOption{service.WithCatalog(service.StaticCatalog(seeds))}
	var catalogRepo repository.CommunityCatalogRepo
	if infra.DB != nil {
		catalogRepo = repository.NewCommunityCatalogRepo(infra.DB)
		opts = append(opts, service.WithCatalog(catalogRepo))
	}
	if infra.Mongo != nil {
		opts = append(opts, service.WithArchiver(mongo.NewMessageArchiveRepo(infra.Mongo)))
	}
	store := service.NewStore(StoreConfig(cfg), security.ContextIdentity{}, opts...)

	var feed handler.ChangeFeed = service.BusFeed{Bus: store.Bus}
	var sink job.MetricsSink
	stopPublisher := func() {}
	if infra.Redis {
		stopPublisher = service.NewEventPublisher(store.Bus, redis.NewPublisher(redis.GetRdbClient()), 0)
		feed = redis.Feed{}
		sink = redis.MetricsSink{}
	}

	handlers := &api.HandlersGroup{
		ConversationHandler: handler.NewConversationHandler(store.Conversations),
		MessageHandler:      handler.NewMessageHandler(store.Messages),
		ConnectionHandler:   handler.NewConnectionHandler(store.Connections),
		CommunityHandler:    handler.NewCommunityHandler(store.Communities),
		WsHandler:           handler.NewWsHandler(feed),
	}
	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(cfg.Cron.MetricsSpec, job.NewStoreMetricsJob(store, sink))

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, store.Profiles)
		if err != nil {
			stopPublisher()
			store.Close()
			return nil, err
		}
	}

	return &ApplicationContainer{
		Router:        router,
		Store:         store,
		CronMgr:       cronMgr,
		KafkaManager:  kafkaMgr,
		catalogRepo:   catalogRepo,
		seeds:         seeds,
		stopPublisher: stopPublisher,
	}, nil
}

// Prepare 数据库目录为空时写入配置中的社区，随后加载目录
func (a *ApplicationContainer) Prepare(ctx context.Context) error {
	if a.catalogRepo != nil {
		n, err := a.catalogRepo.SeedIfEmpty(ctx, a.seeds)
		if err != nil {
			return err
		}
		if n > 0 {
			log.InfoContext(ctx, "Community catalog seeded", "count", n)
		}
	}
	return a.Store.LoadCatalog(ctx)
}

// Close 停止事件转发并等待归档队列退出
func (a *ApplicationContainer) Close() {
	a.stopPublisher()
	a.Store.Close()
}

// StoreConfig 将配置转换为存储层参数
func StoreConfig(cfg *config.Config) service.StoreConfig {
	return service.StoreConfig{
		DeliveredAfter:   time.Duration(cfg.Delivery.DeliveredAfterMs) * time.Millisecond,
		SeenAfter:        time.Duration(cfg.Delivery.SeenAfterMs) * time.Millisecond,
		MaxContentLength: cfg.Delivery.MaxContentLength,
		ArchiveWorkers:   cfg.Archive.Workers,
		ArchiveQueueSize: cfg.Archive.QueueSize,
		ArchiveRetries:   cfg.Archive.Retries,
		ArchiveBackoff:   time.Duration(cfg.Archive.BackoffMs) * time.Millisecond,
	}
}

// SeedCommunities 配置中的静态社区，按出现顺序排序
func SeedCommunities(list []config.CommunitySeedConfig, now time.Time) []*model.Community {
	res := make([]*model.Community, 0, len(list))
	for i, c := range list {
		res = append(res, &model.Community{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Category:    c.Category,
			ImageURL:    c.ImageURL,
			SortOrder:   i,
			CreatedAt:   now,
			Members:     []model.Member{},
		})
	}
	return res
}
