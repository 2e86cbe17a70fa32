package job

import (
	"Haven/internal/pkg/consts"
	"Haven/internal/pkg/logger"
	"Haven/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// MetricsSink 指标快照的落地位置
type MetricsSink interface {
	Write(ctx context.Context, key string, values map[string]interface{}) error
}

// StoreMetricsJob 定时采集注册表规模
type StoreMetricsJob struct {
	store *service.Store
	sink  MetricsSink
}

// NewStoreMetricsJob sink 为空时只记录日志
func NewStoreMetricsJob(store *service.Store, sink MetricsSink) *StoreMetricsJob {
	return &StoreMetricsJob{store: store, sink: sink}
}

func (s *StoreMetricsJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	stats := s.store.Stats()
	log.InfoContext(ctx, "store metrics",
		"conversations", stats.Conversations,
		"messages", stats.Messages,
		"pending_requests", stats.PendingRequests,
		"created_communities", stats.CreatedCommunities,
		"catalog_communities", stats.CatalogCommunities,
		"subscribers", stats.Subscribers,
	)

	if s.sink == nil {
		return
	}
	values := map[string]interface{}{
		"conversations":       stats.Conversations,
		"messages":            stats.Messages,
		"pending_requests":    stats.PendingRequests,
		"created_communities": stats.CreatedCommunities,
		"catalog_communities": stats.CatalogCommunities,
		"subscribers":         stats.Subscribers,
		"collected_at":        time.Now().Unix(),
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.sink.Write(ctx, consts.StoreMetricsKey, values); err != nil {
		log.ErrorContext(ctx, "write store metrics error", "err", err)
	}
}
