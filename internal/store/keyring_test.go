package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyring_SaveTokens_PairInvariant(t *testing.T) {
	ctx := context.Background()
	k := NewKeyring(NewMemoryStore())

	require.NoError(t, k.SaveTokens(ctx, TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	access, err := k.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", access)
	refresh, err := k.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", refresh)

	// Saving a pair without a refresh token must discard the old one,
	// never leave it stale next to the new access token
	require.NoError(t, k.SaveTokens(ctx, TokenPair{AccessToken: "a2"}))
	refresh, err = k.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, refresh)

	assert.Error(t, k.SaveTokens(ctx, TokenPair{}))
}

func TestKeyring_ClearSession(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	k := NewKeyring(mem)

	require.NoError(t, k.SaveTokens(ctx, TokenPair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, k.SaveUserJSON(ctx, `{"id":"u1"}`))
	require.NoError(t, k.StampLastSyncedAt(ctx))
	clientID, err := k.ClientID(ctx)
	require.NoError(t, err)

	require.NoError(t, k.ClearSession(ctx))

	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyLastSyncedAt} {
		_, err := mem.Get(ctx, key)
		assert.ErrorIs(t, err, ErrKeyNotFound, "key %s should be cleared", key)
	}

	// The installation ID survives logout
	kept, err := k.ClientID(ctx)
	require.NoError(t, err)
	assert.Equal(t, clientID, kept)
}

func TestKeyring_LastSyncedAt(t *testing.T) {
	ctx := context.Background()
	k := NewKeyring(NewMemoryStore())

	_, ok, err := k.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, k.StampLastSyncedAt(ctx))
	ts, ok, err := k.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now(), ts, 5*time.Second)
}

func TestKeyring_ClientID_StableAcrossCalls(t *testing.T) {
	ctx := context.Background()
	k := NewKeyring(NewMemoryStore())

	first, err := k.ClientID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := k.ClientID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
