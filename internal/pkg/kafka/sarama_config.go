package kafka

import (
	"Haven/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

const clientID = "haven-profile-consumer"

// newSaramaConfig 资料消费者配置，未配置的超时使用 sarama 默认值，偏移量由批处理手动提交
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = clientID

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Offsets.AutoCommit.Enable = false

	consumer := kafkaCfg.Consumer
	seconds(&c.Consumer.Group.Session.Timeout, consumer.SessionTimeout)
	seconds(&c.Consumer.Group.Heartbeat.Interval, consumer.HeartbeatInterval)
	seconds(&c.Consumer.Group.Rebalance.Timeout, consumer.RebalanceTimeout)
	seconds(&c.Consumer.MaxProcessingTime, consumer.MaxProcessingTime)
	return c
}

func seconds(dst *time.Duration, n int) {
	if n > 0 {
		*dst = time.Duration(n) * time.Second
	}
}
