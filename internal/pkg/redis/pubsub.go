package redis

import (
	"Haven/internal/pkg/consts"
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Subscribe 订阅一个或多个频道
func Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return Rdb.Subscribe(ctx, channels...)
}

// Publisher 将总线事件发布到 redis 频道
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}

// MetricsSink 指标快照写入哈希，保留一小时
type MetricsSink struct{}

func (MetricsSink) Write(ctx context.Context, key string, values map[string]interface{}) error {
	return HSetWithExpiration(ctx, key, values, time.Hour)
}

// Feed 订阅用户个人频道与广播频道
type Feed struct{}

func (Feed) Open(ctx context.Context, userID string) (<-chan []byte, func(), error) {
	pubsub := Subscribe(ctx, consts.HavenUserChannelKey+userID, consts.HavenBroadcastChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan []byte)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}, nil
}
