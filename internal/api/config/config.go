package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 ./configs 加载配置并填充到 Cfg
func LoadConfig() error {
	cfg, err := Load("./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load 读取 .env、config.yaml 与 HAVEN_ 前缀的环境变量
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("HAVEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 5)
	v.SetDefault("logger.level", "info")
	v.SetDefault("jwt.issuer", "Haven")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("delivery.delivered_after_ms", 1000)
	v.SetDefault("delivery.seen_after_ms", 3000)
	v.SetDefault("delivery.max_content_length", 5000)
	v.SetDefault("archive.workers", 5)
	v.SetDefault("archive.queue_size", 2048)
	v.SetDefault("archive.retries", 3)
	v.SetDefault("archive.backoff_ms", 1000)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("mongo.database", "haven")
	v.SetDefault("kafka_profile_consumer.table", "user_detail")
	v.SetDefault("cron.metrics_spec", "0 */5 * * * *")
}
