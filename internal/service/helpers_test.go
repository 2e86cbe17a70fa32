package service

import (
	"Haven/internal/model"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testUserKey struct{}

type testIdentity struct{}

func (testIdentity) CurrentUser(ctx context.Context) (model.User, error) {
	u, ok := ctx.Value(testUserKey{}).(model.User)
	if !ok {
		return model.User{}, errors.New("no user")
	}
	return u, nil
}

func as(id, name string) context.Context {
	return context.WithValue(context.Background(), testUserKey{}, model.User{ID: id, Name: name, AvatarURL: id + ".png"})
}

// manualScheduler 手动触发的调度器，回调中新加入的任务在下一轮执行
type manualScheduler struct {
	mu    sync.Mutex
	tasks []func()
	delay []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, f)
	s.delay = append(s.delay, d)
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Step 执行当前排队的任务，返回执行数量
func (s *manualScheduler) Step() int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks, s.delay = nil, nil
	s.mu.Unlock()
	for _, f := range tasks {
		f()
	}
	return len(tasks)
}

func (s *manualScheduler) RunAll() {
	for s.Step() > 0 {
	}
}

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		res = append(res, e.Type)
	}
	return res
}

func (r *recorder) count(typ EventType) int {
	n := 0
	for _, t := range r.types() {
		if t == typ {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type testEnv struct {
	store     *Store
	scheduler *manualScheduler
	events    *recorder
}

func newTestEnv(t *testing.T, opts ...StoreOption) *testEnv {
	t.Helper()
	env := &testEnv{scheduler: &manualScheduler{}, events: &recorder{}}
	clock := &stepClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	opts = append([]StoreOption{WithScheduler(env.scheduler), WithClock(clock.Now)}, opts...)
	env.store = NewStore(StoreConfig{}, testIdentity{}, opts...)
	env.store.Bus.Subscribe(env.events.listen)
	t.Cleanup(env.store.Close)
	return env
}

// connect 建立已通过的好友关系并返回会话
func (env *testEnv) connect(t *testing.T, a, b string) *model.Conversation {
	t.Helper()
	req, err := env.store.Connections.Send(as(a, a), b, b, "")
	require.NoError(t, err)
	conv, err := env.store.Connections.Accept(as(b, b), req.ID)
	require.NoError(t, err)
	return conv
}
