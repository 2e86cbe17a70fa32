package service

import (
	"Haven/internal/model"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_FindOrCreate(t *testing.T) {
	env := newTestEnv(t)
	convs := env.store.Conversations

	req, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Bob", "bob.png")
	require.NoError(t, err)
	accepted, err := env.store.Connections.Accept(as("u2", "Bob"), req.ID)
	require.NoError(t, err)

	conv, err := convs.FindOrCreate(as("u1", "Alice"), "u2", "Bob", "bob.png")
	require.NoError(t, err)
	assert.Equal(t, accepted.ID, conv.ID)
	assert.Equal(t, [2]string{"u1", "u2"}, conv.Participants)
	assert.Equal(t, [2]string{"Alice", "Bob"}, conv.ParticipantNames)
	assert.Equal(t, model.ConversationActive, conv.Status)
	assert.Empty(t, conv.Messages)
	assert.Equal(t, 0, conv.UnreadCount["u1"])
	assert.Nil(t, conv.LastMessageAt)

	// 反方向查找得到同一会话，且不再广播
	again, err := convs.FindOrCreate(as("u2", "Bob"), "u1", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)
	assert.Zero(t, env.events.count(EventConversationCreated))
}

func TestConversation_FindOrCreateErrors(t *testing.T) {
	env := newTestEnv(t)
	convs := env.store.Conversations

	_, err := convs.FindOrCreate(as("u1", "Alice"), "u1", "Alice", "")
	assert.ErrorIs(t, err, ErrConversationSelf)

	_, err = convs.FindOrCreate(as("u1", "Alice"), "", "", "")
	assert.ErrorIs(t, err, ErrParamInvalid)

	_, err = convs.FindOrCreate(context.Background(), "u2", "", "")
	assert.ErrorIs(t, err, UnauthorizedError)

	_, err = convs.FindOrCreate(as("u1", "Alice"), "u2", "", "")
	assert.ErrorIs(t, err, ErrConnectionRequired)
}

func TestConversation_FindOrCreateConcurrent(t *testing.T) {
	env := newTestEnv(t)
	// 删除后由双方并发重建
	first := env.connect(t, "u1", "u2")
	require.NoError(t, env.store.Conversations.Delete(as("u1", "Alice"), first.ID))

	ids := make([]string, 20)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, other := as("u1", "Alice"), "u2"
			if i%2 == 1 {
				ctx, other = as("u2", "Bob"), "u1"
			}
			conv, err := env.store.Conversations.FindOrCreate(ctx, other, "", "")
			if err == nil {
				ids[i] = conv.ID
			}
		}(i)
	}
	wg.Wait()

	assert.NotEqual(t, first.ID, ids[0])
	for _, id := range ids {
		assert.NotEmpty(t, id)
		assert.Equal(t, ids[0], id)
	}
	list, err := env.store.Conversations.List(as("u1", "Alice"))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConversation_GetReturnsCopy(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")
	_, err := env.store.Messages.Send(as("u1", "u1"), conv.ID, "hello")
	require.NoError(t, err)

	got, err := env.store.Conversations.Get(as("u1", "u1"), conv.ID)
	require.NoError(t, err)
	got.Messages[0].Content = "tampered"
	got.UnreadCount["u2"] = 99

	again, err := env.store.Conversations.Get(as("u2", "u2"), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Messages[0].Content)
	assert.Equal(t, 1, again.UnreadCount["u2"])
}

func TestConversation_NonParticipant(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")
	outsider := as("u3", "Eve")

	_, err := env.store.Conversations.Get(outsider, conv.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.ErrorIs(t, env.store.Conversations.MarkRead(outsider, conv.ID), ErrConversationNotFound)
	assert.ErrorIs(t, env.store.Conversations.Archive(outsider, conv.ID), ErrConversationNotFound)
	assert.ErrorIs(t, env.store.Conversations.Delete(outsider, conv.ID), ErrConversationNotFound)

	list, err := env.store.Conversations.List(outsider)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConversation_ListOrdering(t *testing.T) {
	env := newTestEnv(t)
	me := as("u1", "Alice")

	quiet := env.connect(t, "u1", "u2")
	older := env.connect(t, "u1", "u3")
	newer := env.connect(t, "u1", "u4")
	empty := env.connect(t, "u1", "u5")

	_, err := env.store.Messages.Send(me, newer.ID, "first")
	require.NoError(t, err)
	_, err = env.store.Messages.Send(as("u3", "u3"), older.ID, "second")
	require.NoError(t, err)

	list, err := env.store.Conversations.List(me)
	require.NoError(t, err)
	require.Len(t, list, 4)

	// 有消息的按最后消息时间倒序在前，空会话按创建时间倒序
	assert.Equal(t, older.ID, list[0].ID)
	assert.Equal(t, newer.ID, list[1].ID)
	assert.Equal(t, empty.ID, list[2].ID)
	assert.Equal(t, quiet.ID, list[3].ID)

	assert.Equal(t, "u3", list[0].OtherUserID)
	assert.Equal(t, "u3", list[0].OtherName)
	assert.Equal(t, "second", list[0].LastMessage)
	assert.Equal(t, "u3", list[0].LastMessageSenderID)
	assert.Equal(t, 1, list[0].UnreadCount)
	assert.Equal(t, 0, list[1].UnreadCount)
}

func TestConversation_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")
	for _, text := range []string{"a", "b", "c"} {
		_, err := env.store.Messages.Send(as("u1", "u1"), conv.ID, text)
		require.NoError(t, err)
	}

	got, err := env.store.Conversations.Get(as("u2", "u2"), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.UnreadCount["u2"])
	assert.Equal(t, 0, got.UnreadCount["u1"])

	require.NoError(t, env.store.Conversations.MarkRead(as("u2", "u2"), conv.ID))
	got, err = env.store.Conversations.Get(as("u2", "u2"), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadCount["u2"])
	assert.Equal(t, 1, env.events.count(EventConversationRead))
}

func TestConversation_Archive(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")

	require.NoError(t, env.store.Conversations.Archive(as("u1", "u1"), conv.ID))

	list, err := env.store.Conversations.List(as("u2", "u2"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Archived)
	assert.Equal(t, model.ConversationArchived, list[0].Status)

	// 归档后仍可发送消息，状态不会自动恢复
	_, err = env.store.Messages.Send(as("u2", "u2"), conv.ID, "still here")
	require.NoError(t, err)
	got, err := env.store.Conversations.Get(as("u1", "u1"), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConversationArchived, got.Status)
}

func TestConversation_Delete(t *testing.T) {
	env := newTestEnv(t)
	conv := env.connect(t, "u1", "u2")
	_, err := env.store.Messages.Send(as("u1", "u1"), conv.ID, "bye")
	require.NoError(t, err)

	require.NoError(t, env.store.Conversations.Delete(as("u2", "u2"), conv.ID))

	_, err = env.store.Conversations.Get(as("u1", "u1"), conv.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.ErrorIs(t, env.store.Conversations.Delete(as("u1", "u1"), conv.ID), ErrConversationNotFound)

	// 删除后重新创建得到新会话
	fresh, err := env.store.Conversations.FindOrCreate(as("u1", "u1"), "u2", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, fresh.ID)
	assert.Empty(t, fresh.Messages)
}
