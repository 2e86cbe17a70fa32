package logger

import (
	"Haven/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"
)

var LogWriter io.Writer = os.Stdout

// InitLogger 初始化全局 slog，配置了 remote_addr 时同时上报带 trace_id 的日志
func InitLogger() {
	var cfg config.LoggerConfig
	if config.Cfg != nil {
		cfg = config.Cfg.Logger
	}
	level := ParseLevel(cfg.Level)

	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: level})
	var finalHandler log.Handler = hStdout

	if cfg.RemoteAddr != "" {
		conn, err := net.DialTimeout("tcp", cfg.RemoteAddr, 3*time.Second)
		if err == nil {
			hRemote := log.NewJSONHandler(conn, &log.HandlerOptions{Level: level}).
				WithAttrs([]log.Attr{
					log.String("target_index", cfg.Index),
					log.String("log_token", cfg.Token),
				})
			finalHandler = NewTeeHandler(hStdout, &RemoteFilterHandler{next: hRemote})
			LogWriter = io.MultiWriter(os.Stdout, conn)
		} else {
			log.Warn("Failed to connect to remote log sink, logging to stdout only", "addr", cfg.RemoteAddr, "err", err)
		}
	}

	log.SetDefault(log.New(&ContextHandler{finalHandler}))
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	}
	return log.LevelInfo
}
