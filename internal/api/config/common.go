package config

// Config 配置主体
type Config struct {
	Server               ServerConfig          `mapstructure:"server"`
	Logger               LoggerConfig          `mapstructure:"logger"`
	JWT                  JWTConfig             `mapstructure:"jwt"`
	Delivery             DeliveryConfig        `mapstructure:"delivery"`
	Archive              ArchiveConfig         `mapstructure:"archive"`
	DB                   DBConfig              `mapstructure:"database"`
	Redis                RedisConfig           `mapstructure:"redis"`
	Mongo                MongoConfig           `mapstructure:"mongo"`
	Kafka                KafkaConfig           `mapstructure:"kafka"`
	KafkaProfileConsumer KafkaProfileConsumer  `mapstructure:"kafka_profile_consumer"`
	Cron                 CronConfig            `mapstructure:"cron"`
	Communities          []CommunitySeedConfig `mapstructure:"communities"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// LoggerConfig 日志配置，remote_addr 为空时只输出到 stdout
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	RemoteAddr string `mapstructure:"remote_addr"`
	Index      string `mapstructure:"index"`
	Token      string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	Issuer          string `mapstructure:"issuer"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

// DeliveryConfig 消息状态推进延时（毫秒）
type DeliveryConfig struct {
	DeliveredAfterMs int `mapstructure:"delivered_after_ms"`
	SeenAfterMs      int `mapstructure:"seen_after_ms"`
	MaxContentLength int `mapstructure:"max_content_length"`
}

type ArchiveConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
	Retries   int `mapstructure:"retries"`
	BackoffMs int `mapstructure:"backoff_ms"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Enable      bool   `mapstructure:"enable"`
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	Enable   bool   `mapstructure:"enable"`
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaProfileConsumer 用户资料变更消费者
type KafkaProfileConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
	Table   string `mapstructure:"table"`
}

// CronConfig 定时任务配置
type CronConfig struct {
	MetricsSpec string `mapstructure:"metrics_spec"`
}

// CommunitySeedConfig 静态社区目录
type CommunitySeedConfig struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Category    string `mapstructure:"category"`
	ImageURL    string `mapstructure:"image_url"`
}
