package main

import (
	"Haven/internal/api/config"
	"Haven/internal/pkg/cron"
	"Haven/internal/pkg/database"
	"Haven/internal/pkg/logger"
	"Haven/internal/pkg/mongo"
	"Haven/internal/pkg/redis"
	"Haven/internal/pkg/security"
	"Haven/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger()
	security.InitJWT(cfg.JWT)
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	var infra wire.Infra

	// 数据库连接
	if cfg.DB.Enable {
		dbCfg := cfg.DB
		db, err := database.NewGormDB(&dbCfg)
		if err != nil {
			log.Error("Fatal error: failed to create database connection", "err", err)
			panic(err)
		}
		infra.DB = db
	}

	// Redis 连接
	if cfg.Redis.Enable {
		if err := redis.InitRedis(cfg.Redis); err != nil {
			log.Error("Fatal error: failed to create redis connection", "err", err)
			panic(err)
		}
		defer func() {
			_ = redis.Close()
		}()
		infra.Redis = true
	}

	// Mongo 连接
	if cfg.Mongo.Enable {
		mongoConn, err := mongo.InitMongo(cfg.Mongo)
		if err != nil {
			log.Error("Fatal error: failed to create mongo connection", "err", err)
			panic(err)
		}
		defer func() {
			_ = mongoConn.Client().Disconnect(context.Background())
		}()
		infra.Mongo = mongoConn
	}

	// 依赖注入
	app, err := wire.BuildApplication(cfg, infra)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}
	defer app.Close()

	prepareCtx, prepareCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = app.Prepare(prepareCtx)
	prepareCancel()
	if err != nil {
		log.Error("Fatal error: failed to load community catalog", "err", err)
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	err = cron.InitCron(app.CronMgr)
	if err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		panic(err)
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	// Kafka 消费者
	if app.KafkaManager != nil {
		g.Go(func() error {
			log.Info("Kafka Consumers starting...")
			return app.KafkaManager.Start(ctx)
		})
	}

	// HTTP 服务器
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: app.Router,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}
	log.Info("App exited successfully.")
}
