package service

import (
	"Haven/internal/pkg/consts"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Publisher 外部消息通道，如 redis pub/sub
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// UserChannel 用户个人推送频道
func UserChannel(userID string) string {
	return consts.HavenUserChannelKey + userID
}

// NewEventPublisher 将总线事件转发到 Publisher，返回停止函数
func NewEventPublisher(bus *Bus, publisher Publisher, buffer int) func() {
	if buffer <= 0 {
		buffer = 1024
	}
	events := make(chan Event, buffer)
	stop := make(chan struct{})
	done := make(chan struct{})

	unsubscribe := bus.Subscribe(func(e Event) {
		select {
		case <-stop:
			return
		default:
		}
		select {
		case events <- e:
		default:
			log.Warn("Event publisher buffer full, event dropped", "type", string(e.Type))
		}
	})

	go func() {
		defer close(done)
		for {
			select {
			case e := <-events:
				publishEvent(publisher, e)
			case <-stop:
				for {
					select {
					case e := <-events:
						publishEvent(publisher, e)
					default:
						return
					}
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			close(stop)
			<-done
		})
	}
}

func publishEvent(publisher Publisher, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error("Failed to marshal event", "type", string(e.Type), "err", err)
		return
	}

	channels := []string{consts.HavenBroadcastChannel}
	if len(e.UserIDs) > 0 {
		channels = channels[:0]
		for _, id := range e.UserIDs {
			channels = append(channels, UserChannel(id))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, ch := range channels {
		if err = publisher.Publish(ctx, ch, data); err != nil {
			log.Error("Failed to publish event", "channel", ch, "err", err)
		}
	}
}
