package service

import (
	"context"
	log "log/slog"
	"sync"

	"github.com/goccy/go-json"
)

// BusFeed 未启用 redis 时直接订阅进程内总线
type BusFeed struct {
	Bus    *Bus
	Buffer int
}

func (f BusFeed) Open(_ context.Context, userID string) (<-chan []byte, func(), error) {
	buffer := f.Buffer
	if buffer <= 0 {
		buffer = 64
	}
	out := make(chan []byte, buffer)
	done := make(chan struct{})

	unsubscribe := f.Bus.Subscribe(func(e Event) {
		if !e.Targets(userID) {
			return
		}
		payload, err := json.Marshal(e)
		if err != nil {
			log.Error("marshal event failed", "type", string(e.Type), "err", err)
			return
		}
		select {
		case <-done:
		case out <- payload:
		default:
			log.Warn("feed buffer full, event dropped", "user_id", userID, "type", string(e.Type))
		}
	})

	var once sync.Once
	return out, func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}, nil
}
