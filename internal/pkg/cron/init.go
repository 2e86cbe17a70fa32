package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册指标任务并启动引擎，表达式非法时不启动
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register store metrics job %q: %w", mgr.metricsSpec, err)
	}
	log.Info("Cron Jobs starting...", "metrics_spec", mgr.metricsSpec, "entries", len(mgr.engine.Entries()))
	mgr.Start()
	return nil
}
