package kafka

import (
	"Haven/internal/api/config"
	"Haven/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	profileConsumer sarama.ConsumerGroup
	profileHandler  sarama.ConsumerGroupHandler
	topic           string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, profiles service.ProfileService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	profileConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaProfileConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		profileConsumer: profileConsumer,
		profileHandler:  NewProfileHandler(cfg.KafkaProfileConsumer.Table, profiles),
		topic:           cfg.KafkaProfileConsumer.Topic,
	}, nil
}

// Start 启动消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.profileConsumer.Errors() {
			log.Error("Error from profile consumer group", "err", err)
		}
	}()

	go func() {
		log.Info("Profile consumer started", "topic", m.topic)
		for {
			if err := m.profileConsumer.Consume(ctx, []string{m.topic}, m.profileHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.profileConsumer.Close(); err != nil {
		log.Error("Failed to close profile consumer", "err", err)
	}
	return nil
}
