package service

import (
	"Haven/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_SendIdempotent(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "marie.png")
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, first.Status)
	assert.Equal(t, "Alice", first.FromName)
	assert.Equal(t, "Marie", first.ToName)
	assert.Nil(t, first.RespondedAt)

	again, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// 对方反向发送也返回同一条待处理请求
	reverse, err := env.store.Connections.Send(as("u2", "Marie"), "u1", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, reverse.ID)
	assert.Equal(t, 1, env.events.count(EventRequestSent))
}

func TestConnection_SendErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.Connections.Send(as("u1", "Alice"), "u1", "", "")
	assert.ErrorIs(t, err, ErrRequestSelf)
	_, err = env.store.Connections.Send(as("u1", "Alice"), "", "", "")
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestConnection_SendWithActiveConversation(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "u1", "u2")
	env.events.reset()

	req, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "")
	require.NoError(t, err)
	assert.Equal(t, model.RequestAccepted, req.Status)
	assert.NotNil(t, req.RespondedAt)
	assert.Empty(t, env.events.types())

	// 仅有最初那条已通过的请求
	sent, err := env.store.Connections.ListSent(as("u1", "Alice"))
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.NotEqual(t, req.ID, sent[0].ID)
}

func TestConnection_ActiveConversationBeforePending(t *testing.T) {
	env := newTestEnv(t)
	pending, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "")
	require.NoError(t, err)

	// 待处理请求与活跃会话并存时以会话为准
	conv, _ := env.store.conversations.findOrCreate(
		model.User{ID: "u2", Name: "Marie"}, model.User{ID: "u1", Name: "Alice"})

	again, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "")
	require.NoError(t, err)
	assert.Equal(t, model.RequestAccepted, again.Status)
	assert.NotEqual(t, pending.ID, again.ID)

	status, err := env.store.Connections.StatusBetween(as("u2", "Marie"), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RequestAccepted, status)

	_, err = env.store.Messages.Send(as("u2", "Marie"), conv.ID, "bonjour")
	assert.NoError(t, err)
}

func TestConnection_Accept(t *testing.T) {
	env := newTestEnv(t)
	req, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "")
	require.NoError(t, err)

	_, err = env.store.Connections.Accept(as("u1", "Alice"), req.ID)
	assert.ErrorIs(t, err, ErrRequestForbidden)
	_, err = env.store.Connections.Accept(as("u2", "Marie"), "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	conv, err := env.store.Connections.Accept(as("u2", "Marie"), req.ID)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"u1", "u2"}, conv.Participants)
	assert.Equal(t, [2]string{"Alice", "Marie"}, conv.ParticipantNames)
	assert.Equal(t, 1, env.events.count(EventRequestAccepted))

	// 重复通过返回同一会话
	again, err := env.store.Connections.Accept(as("u2", "Marie"), req.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)
	assert.Equal(t, 1, env.events.count(EventRequestAccepted))

	status, err := env.store.Connections.StatusBetween(as("u1", "Alice"), "u2")
	require.NoError(t, err)
	assert.Equal(t, model.RequestAccepted, status)

	pending, err := env.store.Connections.ListPending(as("u2", "Marie"))
	require.NoError(t, err)
	assert.Empty(t, pending)

	sent, err := env.store.Connections.ListSent(as("u1", "Alice"))
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, model.RequestAccepted, sent[0].Status)
	assert.NotNil(t, sent[0].RespondedAt)
}

func TestConnection_Reject(t *testing.T) {
	env := newTestEnv(t)
	req, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "")
	require.NoError(t, err)

	assert.ErrorIs(t, env.store.Connections.Reject(as("u3", "Eve"), req.ID), ErrRequestForbidden)
	require.NoError(t, env.store.Connections.Reject(as("u2", "Marie"), req.ID))
	assert.ErrorIs(t, env.store.Connections.Reject(as("u2", "Marie"), req.ID), ErrRequestResolved)

	_, err = env.store.Connections.Accept(as("u2", "Marie"), req.ID)
	assert.ErrorIs(t, err, ErrRequestResolved)

	status, err := env.store.Connections.StatusBetween(as("u2", "Marie"), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RequestRefused, status)

	list, err := env.store.Conversations.List(as("u1", "Alice"))
	require.NoError(t, err)
	assert.Empty(t, list)

	// 拒绝后允许重新发起
	fresh, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "")
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, fresh.ID)
	assert.Equal(t, model.RequestPending, fresh.Status)

	status, err = env.store.Connections.StatusBetween(as("u1", "Alice"), "u2")
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, status)
}

func TestConnection_RejectAccepted(t *testing.T) {
	env := newTestEnv(t)
	req, err := env.store.Connections.Send(as("u1", "Alice"), "u2", "Marie", "")
	require.NoError(t, err)
	_, err = env.store.Connections.Accept(as("u2", "Marie"), req.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.store.Connections.Reject(as("u2", "Marie"), req.ID), ErrRequestResolved)
}

func TestConnection_ListOrdering(t *testing.T) {
	env := newTestEnv(t)
	r1, err := env.store.Connections.Send(as("u1", "Alice"), "u9", "", "")
	require.NoError(t, err)
	r2, err := env.store.Connections.Send(as("u2", "Bob"), "u9", "", "")
	require.NoError(t, err)
	r3, err := env.store.Connections.Send(as("u9", "Zed"), "u3", "", "")
	require.NoError(t, err)
	r4, err := env.store.Connections.Send(as("u9", "Zed"), "u4", "", "")
	require.NoError(t, err)

	pending, err := env.store.Connections.ListPending(as("u9", "Zed"))
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, r1.ID, pending[0].ID)
	assert.Equal(t, r2.ID, pending[1].ID)

	sent, err := env.store.Connections.ListSent(as("u9", "Zed"))
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, r4.ID, sent[0].ID)
	assert.Equal(t, r3.ID, sent[1].ID)
}

func TestConnection_StatusNone(t *testing.T) {
	env := newTestEnv(t)
	status, err := env.store.Connections.StatusBetween(as("u1", "Alice"), "u2")
	require.NoError(t, err)
	assert.Equal(t, model.RequestNone, status)

	_, err = env.store.Connections.StatusBetween(as("u1", "Alice"), "")
	assert.ErrorIs(t, err, ErrParamInvalid)
}
