package cron

import (
	"Haven/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultMetricsSpec = "0 */5 * * * *"

type Manager struct {
	engine          *cron.Cron
	metricsSpec     string
	storeMetricsJob *job.StoreMetricsJob
}

func NewCronManager(metricsSpec string, storeMetricsJob *job.StoreMetricsJob) *Manager {
	if metricsSpec == "" {
		metricsSpec = defaultMetricsSpec
	}
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		metricsSpec:     metricsSpec,
		storeMetricsJob: storeMetricsJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.metricsSpec, s.storeMetricsJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
