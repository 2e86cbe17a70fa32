package service

import (
	"Haven/internal/pkg/consts"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (f *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{channel: channel, payload: payload})
	return nil
}

func (f *fakePublisher) channels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]string, 0, len(f.msgs))
	for _, m := range f.msgs {
		res = append(res, m.channel)
	}
	return res
}

func TestEventPublisher_Routing(t *testing.T) {
	bus := NewBus()
	pub := &fakePublisher{}
	stop := NewEventPublisher(bus, pub, 8)

	bus.Notify(Event{Type: EventMessageSent, UserIDs: []string{"u1", "u2"}, MessageID: "m1", At: time.Now()})
	bus.Notify(Event{Type: EventCommunityCatalog})
	stop()

	assert.Equal(t, []string{
		UserChannel("u1"),
		UserChannel("u2"),
		consts.HavenBroadcastChannel,
	}, pub.channels())

	var e Event
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &e))
	assert.Equal(t, EventMessageSent, e.Type)
	assert.Equal(t, "m1", e.MessageID)
}

func TestEventPublisher_StopUnsubscribes(t *testing.T) {
	bus := NewBus()
	pub := &fakePublisher{}
	stop := NewEventPublisher(bus, pub, 8)
	assert.Equal(t, 1, bus.Len())

	stop()
	stop()
	assert.Equal(t, 0, bus.Len())

	bus.Notify(Event{Type: EventCommunityCatalog})
	assert.Empty(t, pub.channels())
}

func TestBusFeed_FiltersByUser(t *testing.T) {
	bus := NewBus()
	events, closeFeed, err := BusFeed{Bus: bus}.Open(context.Background(), "u1")
	require.NoError(t, err)

	bus.Notify(Event{Type: EventMessageSent, UserIDs: []string{"u2", "u3"}})
	bus.Notify(Event{Type: EventRequestSent, UserIDs: []string{"u1", "u2"}, RequestID: "r1"})
	bus.Notify(Event{Type: EventCommunityCatalog})

	var got []EventType
	for i := 0; i < 2; i++ {
		var e Event
		require.NoError(t, json.Unmarshal(<-events, &e))
		got = append(got, e.Type)
	}
	assert.Equal(t, []EventType{EventRequestSent, EventCommunityCatalog}, got)
	assert.Empty(t, events)

	closeFeed()
	closeFeed()
	assert.Equal(t, 0, bus.Len())
}
