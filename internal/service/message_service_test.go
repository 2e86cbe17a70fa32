package service

import (
	"Haven/internal/model"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_SendAndAdvance(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")
	env.events.reset()

	msg, err := env.store.Messages.Send(as("u1", "u1"), conv.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, "u1", msg.SenderID)
	assert.Equal(t, conv.ID, msg.ConversationID)
	assert.Equal(t, model.MessageSent, msg.Status)
	assert.NotEmpty(t, msg.ID)

	status := func() model.MessageStatus {
		history, err := env.store.Messages.History(as("u2", "u2"), conv.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		return history[0].Status
	}
	assert.Equal(t, model.MessageSent, status())

	// seen 定时器在 delivered 回调中才注册
	require.Equal(t, 1, env.scheduler.Pending())
	env.scheduler.Step()
	assert.Equal(t, model.MessageDelivered, status())

	require.Equal(t, 1, env.scheduler.Pending())
	env.scheduler.Step()
	assert.Equal(t, model.MessageSeen, status())
	assert.Equal(t, 0, env.scheduler.Pending())

	assert.Equal(t, []EventType{EventMessageSent, EventMessageStatus, EventMessageStatus}, env.events.types())
}

func TestMessage_TimerDelays(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")

	_, err := env.store.Messages.Send(as("u1", "u1"), conv.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{DefaultDeliveredAfter}, env.scheduler.delay)
	env.scheduler.Step()
	assert.Equal(t, []time.Duration{DefaultSeenAfter - DefaultDeliveredAfter}, env.scheduler.delay)
}

func TestMessage_Validation(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")
	me := as("u1", "u1")

	_, err := env.store.Messages.Send(me, conv.ID, "")
	assert.ErrorIs(t, err, ErrMessageEmpty)
	_, err = env.store.Messages.Send(me, conv.ID, " \n\t ")
	assert.ErrorIs(t, err, ErrMessageEmpty)

	_, err = env.store.Messages.Send(me, conv.ID, strings.Repeat("é", DefaultMaxContentLength))
	assert.NoError(t, err)
	_, err = env.store.Messages.Send(me, conv.ID, strings.Repeat("a", DefaultMaxContentLength+1))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	_, err = env.store.Messages.Send(me, "missing", "hi")
	assert.ErrorIs(t, err, ErrConversationNotFound)
	_, err = env.store.Messages.Send(as("u3", "u3"), conv.ID, "hi")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestMessage_BlockedWhilePending(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")
	require.NoError(t, env.store.Conversations.Archive(as("u1", "u1"), conv.ID))

	// 会话归档后可以重新发起请求，待处理期间禁止发消息
	req, err := env.store.Connections.Send(as("u1", "u1"), "u2", "u2", "")
	require.NoError(t, err)
	require.Equal(t, model.RequestPending, req.Status)

	_, err = env.store.Messages.Send(as("u1", "u1"), conv.ID, "hi")
	assert.ErrorIs(t, err, ErrConnectionRequired)

	_, err = env.store.Connections.Accept(as("u2", "u2"), req.ID)
	require.NoError(t, err)
	_, err = env.store.Messages.Send(as("u1", "u1"), conv.ID, "hi")
	assert.NoError(t, err)
}

func TestMessage_StatusNeverRegresses(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")

	msg, err := env.store.Messages.Send(as("u1", "u1"), conv.ID, "hi")
	require.NoError(t, err)
	env.scheduler.RunAll()
	env.events.reset()

	// 迟到的 delivered 回调与重复的 seen 都不生效
	_, ok := env.store.conversations.advance(conv.ID, msg.ID, model.MessageDelivered)
	assert.False(t, ok)
	_, ok = env.store.conversations.advance(conv.ID, msg.ID, model.MessageSeen)
	assert.False(t, ok)
	assert.False(t, env.store.Messages.(*messageServiceImpl).advance(conv.ID, msg.ID, model.MessageDelivered))

	history, err := env.store.Messages.History(as("u2", "u2"), conv.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.MessageSeen, history[0].Status)
	assert.Zero(t, env.events.count(EventMessageStatus))
}

func TestMessage_RequiresAcceptedRequest(t *testing.T) {
	env := newTestEnv(t)
	stranger := as("u1", "Alice")

	_, err := env.store.Conversations.FindOrCreate(stranger, "u2", "Marie", "")
	assert.ErrorIs(t, err, ErrConnectionRequired)
	assert.Zero(t, env.events.count(EventConversationCreated))

	status, err := env.store.Connections.StatusBetween(stranger, "u2")
	require.NoError(t, err)
	assert.Equal(t, model.RequestNone, status)

	list, err := env.store.Conversations.List(as("u2", "Marie"))
	require.NoError(t, err)
	assert.Empty(t, list)

	// 待处理期间同样不能直接建会话
	req, err := env.store.Connections.Send(stranger, "u2", "Marie", "")
	require.NoError(t, err)
	_, err = env.store.Conversations.FindOrCreate(as("u2", "Marie"), "u1", "Alice", "")
	assert.ErrorIs(t, err, ErrConnectionRequired)

	conv, err := env.store.Connections.Accept(as("u2", "Marie"), req.ID)
	require.NoError(t, err)
	again, err := env.store.Conversations.FindOrCreate(stranger, "u2", "Marie", "")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)
	_, err = env.store.Messages.Send(stranger, conv.ID, "hello")
	assert.NoError(t, err)
}

func TestMessage_TimerAfterDelete(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")

	_, err := env.store.Messages.Send(as("u1", "u1"), conv.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, env.store.Conversations.Delete(as("u1", "u1"), conv.ID))
	env.events.reset()

	assert.NotPanics(t, env.scheduler.RunAll)
	assert.Zero(t, env.events.count(EventMessageStatus))
}

func TestMessage_UnreadAndLastMessage(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")

	_, err := env.store.Messages.Send(as("u1", "u1"), conv.ID, "one")
	require.NoError(t, err)
	_, err = env.store.Messages.Send(as("u2", "u2"), conv.ID, "two")
	require.NoError(t, err)
	_, err = env.store.Messages.Send(as("u2", "u2"), conv.ID, "three")
	require.NoError(t, err)

	got, err := env.store.Conversations.Get(as("u1", "u1"), conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 3)
	assert.Equal(t, "three", got.LastMessage)
	assert.Equal(t, "u2", got.LastMessageSenderID)
	require.NotNil(t, got.LastMessageAt)
	assert.True(t, got.LastMessageAt.Equal(got.Messages[2].CreatedAt))
	assert.Equal(t, 2, got.UnreadCount["u1"])
	assert.Equal(t, 1, got.UnreadCount["u2"])
}

func TestMessageStatus_Rank(t *testing.T) {
	assert.Less(t, model.MessageSent.Rank(), model.MessageDelivered.Rank())
	assert.Less(t, model.MessageDelivered.Rank(), model.MessageSeen.Rank())
	assert.Equal(t, -1, model.MessageStatus("lost").Rank())
}
