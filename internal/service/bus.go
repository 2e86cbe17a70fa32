package service

import (
	log "log/slog"
	"sync"
)

type Listener func(Event)

type subscription struct {
	id       uint64
	listener Listener
}

// Bus 进程内发布订阅，registry 变更后广播
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe 注册监听器，返回幂等的取消函数
func (b *Bus) Subscribe(listener Listener) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, listener: listener})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Notify 按订阅顺序同步调用所有监听器，单个监听器 panic 不影响其它
func (b *Bus) Notify(event Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.call(s, event)
	}
}

func (b *Bus) call(s subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Bus listener panic", "subscription", s.id, "event", string(event.Type), "panic", r)
		}
	}()
	s.listener(event)
}

// Len 当前订阅数
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
