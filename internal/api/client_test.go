package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridlight/gridlight-cli/internal/api"
	"github.com/gridlight/gridlight-cli/internal/config"
	"github.com/gridlight/gridlight-cli/internal/probe"
	"github.com/gridlight/gridlight-cli/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, online bool) (*api.Client, *store.Keyring) {
	t.Helper()
	keyring := store.NewKeyring(store.NewMemoryStore())
	client := api.NewClient(api.ClientParams{
		Config:  &config.APIConfig{BaseURL: baseURL, ClientType: "cli", TimeoutSec: 5},
		Probe:   probe.Static(online),
		Keyring: keyring,
	})
	return client, keyring
}

func writeEnvelope(w http.ResponseWriter, status int, env api.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func TestClient_AttachesBearerAndClientID(t *testing.T) {
	ctx := context.Background()
	var gotAuth, gotClientID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("X-Client-ID")
		writeEnvelope(w, http.StatusOK, api.Envelope{Success: true})
	}))
	defer srv.Close()

	client, keyring := newTestClient(t, srv.URL, true)
	require.NoError(t, keyring.SaveTokens(ctx, store.TokenPair{AccessToken: "abc123"}))

	env, err := client.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.NotEmpty(t, gotClientID)
}

func TestClient_OfflineFailsFastWithoutNetwork(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL, false)

	_, err := client.Login(context.Background(), "a@b.c", "pw", false)
	assert.ErrorIs(t, err, api.ErrOffline)
	assert.False(t, hit, "offline requests must never reach the network")
}

func TestClient_CapturesRotatedToken(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Access-Token", "rotated-token")
		writeEnvelope(w, http.StatusOK, api.Envelope{Success: true})
	}))
	defer srv.Close()

	client, keyring := newTestClient(t, srv.URL, true)
	require.NoError(t, keyring.SaveTokens(ctx, store.TokenPair{AccessToken: "old-token"}))

	_, err := client.Verify(ctx)
	require.NoError(t, err)

	token, err := keyring.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", token)
}

func TestClient_FlaggedUnauthorized_RefreshesAndReplaysOnce(t *testing.T) {
	ctx := context.Background()
	var verifyCalls, refreshCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/verify":
			verifyCalls++
			if r.Header.Get("Authorization") == "Bearer fresh" {
				writeEnvelope(w, http.StatusOK, api.Envelope{Success: true})
				return
			}
			writeEnvelope(w, http.StatusUnauthorized, api.Envelope{RequireRefresh: true})
		case "/auth/refresh-token":
			refreshCalls++
			var body struct {
				RefreshToken string `json:"refreshToken"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "r1", body.RefreshToken)
			writeEnvelope(w, http.StatusOK, api.Envelope{
				Success:      true,
				AccessToken:  "fresh",
				RefreshToken: "r2",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client, keyring := newTestClient(t, srv.URL, true)
	require.NoError(t, keyring.SaveTokens(ctx, store.TokenPair{AccessToken: "stale", RefreshToken: "r1"}))

	env, err := client.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, 1, refreshCalls, "exactly one refresh attempt")
	assert.Equal(t, 2, verifyCalls, "original request plus one replay")

	token, err := keyring.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	refresh, err := keyring.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r2", refresh)
}

func TestClient_SecondUnauthorizedOnReplayDoesNotRefreshAgain(t *testing.T) {
	ctx := context.Background()
	var verifyCalls, refreshCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/verify":
			verifyCalls++
			writeEnvelope(w, http.StatusUnauthorized, api.Envelope{RequireRefresh: true})
		case "/auth/refresh-token":
			refreshCalls++
			writeEnvelope(w, http.StatusOK, api.Envelope{Success: true, AccessToken: "fresh"})
		}
	}))
	defer srv.Close()

	client, keyring := newTestClient(t, srv.URL, true)
	require.NoError(t, keyring.SaveTokens(ctx, store.TokenPair{AccessToken: "stale", RefreshToken: "r1"}))

	env, err := client.Verify(ctx)
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, 1, refreshCalls, "the replayed 401 must not trigger a second refresh")
	assert.Equal(t, 2, verifyCalls)
}

func TestClient_RefreshFailure_ClearsSession(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/verify":
			writeEnvelope(w, http.StatusUnauthorized, api.Envelope{RequireRefresh: true})
		case "/auth/refresh-token":
			writeEnvelope(w, http.StatusUnauthorized, api.Envelope{Message: "refresh token revoked"})
		}
	}))
	defer srv.Close()

	client, keyring := newTestClient(t, srv.URL, true)
	require.NoError(t, keyring.SaveTokens(ctx, store.TokenPair{AccessToken: "stale", RefreshToken: "r1"}))

	_, err := client.Verify(ctx)
	assert.ErrorIs(t, err, api.ErrSessionExpired)

	token, err := keyring.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "failed refresh must clear the stored session")
}

func TestClient_MissingRefreshToken_ForcesLogout(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, api.Envelope{RequireRefresh: true})
	}))
	defer srv.Close()

	client, keyring := newTestClient(t, srv.URL, true)
	require.NoError(t, keyring.SaveTokens(ctx, store.TokenPair{AccessToken: "stale"}))

	_, err := client.Verify(ctx)
	assert.ErrorIs(t, err, api.ErrSessionExpired)
}

func TestClient_UnflaggedUnauthorized_SurfacedAsIs(t *testing.T) {
	ctx := context.Background()
	var refreshCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh-token" {
			refreshCalls++
			return
		}
		writeEnvelope(w, http.StatusUnauthorized, api.Envelope{Message: "forbidden"})
	}))
	defer srv.Close()

	client, keyring := newTestClient(t, srv.URL, true)
	require.NoError(t, keyring.SaveTokens(ctx, store.TokenPair{AccessToken: "t", RefreshToken: "r"}))

	env, err := client.Verify(ctx)
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "forbidden", env.Message)
	assert.Zero(t, refreshCalls, "a 401 without the refresh flag must not trigger a refresh")
}
