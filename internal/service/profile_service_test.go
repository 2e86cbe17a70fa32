package service

import (
	"Haven/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Refresh(t *testing.T) {
	env := newTestEnv(t, WithCatalog(StaticCatalog{{ID: "seed", Name: "Seed"}}))
	require.NoError(t, env.store.LoadCatalog(context.Background()))

	conv := env.connect(t, "u1", "u2")
	_, err := env.store.Connections.Send(as("u3", "Carol"), "u1", "u1", "")
	require.NoError(t, err)
	require.NoError(t, env.store.Communities.Join(as("u1", "u1"), "seed"))
	created, err := env.store.Communities.Create(as("u1", "u1"), model.CommunityDraft{Name: "Mine"})
	require.NoError(t, err)
	env.events.reset()

	renamed := model.User{ID: "u1", Name: "Alicia", AvatarURL: "new.png"}
	require.NoError(t, env.store.Profiles.Refresh(context.Background(), renamed))

	got, err := env.store.Conversations.Get(as("u2", "u2"), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.ParticipantNames[0])
	assert.Equal(t, "new.png", got.ParticipantImages[0])

	pending, err := env.store.Connections.ListPending(as("u1", "u1"))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Alicia", pending[0].ToName)

	community, err := env.store.Communities.GetByID(as("u1", "u1"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", community.Members[0].Name)

	require.Equal(t, []EventType{EventProfileUpdated}, env.events.types())
	assert.ElementsMatch(t, []string{"u2", "u3", "u1"}, env.events.events[0].UserIDs)

	// 资料未变化时不广播
	env.events.reset()
	require.NoError(t, env.store.Profiles.Refresh(context.Background(), renamed))
	assert.Empty(t, env.events.types())
}

func TestProfile_RefreshInvalid(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.store.Profiles.Refresh(context.Background(), model.User{}), ErrParamInvalid)
}
