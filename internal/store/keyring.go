package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenPair holds the backend bearer credentials. RefreshToken may be
// empty for federated-only sessions.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Keyring is a typed view over the raw Store. It owns the invariant
// that the access and refresh tokens are written and cleared as a pair:
// an access token is never retained after its refresh token has been
// discarded.
type Keyring struct {
	store Store
}

func NewKeyring(store Store) *Keyring {
	return &Keyring{store: store}
}

// SaveTokens writes both credential keys together. An empty refresh
// token removes any previously stored one rather than leaving it stale.
func (k *Keyring) SaveTokens(ctx context.Context, pair TokenPair) error {
	if pair.AccessToken == "" {
		return fmt.Errorf("refusing to store empty access token")
	}
	if err := k.store.Set(ctx, KeyAccessToken, pair.AccessToken); err != nil {
		return err
	}
	if pair.RefreshToken == "" {
		return k.store.Delete(ctx, KeyRefreshToken)
	}
	return k.store.Set(ctx, KeyRefreshToken, pair.RefreshToken)
}

// SetAccessToken silently replaces the access token after a
// server-issued rotation. The refresh token is untouched.
func (k *Keyring) SetAccessToken(ctx context.Context, token string) error {
	return k.store.Set(ctx, KeyAccessToken, token)
}

// AccessToken returns the stored access token, or "" when absent
func (k *Keyring) AccessToken(ctx context.Context) (string, error) {
	return k.optional(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" when absent
func (k *Keyring) RefreshToken(ctx context.Context) (string, error) {
	return k.optional(ctx, KeyRefreshToken)
}

// SaveUserJSON caches the serialized user profile
func (k *Keyring) SaveUserJSON(ctx context.Context, raw string) error {
	return k.store.Set(ctx, KeyUser, raw)
}

// UserJSON returns the cached serialized user profile, or "" when absent
func (k *Keyring) UserJSON(ctx context.Context) (string, error) {
	return k.optional(ctx, KeyUser)
}

// StampLastSyncedAt records now as the last successful server sync
func (k *Keyring) StampLastSyncedAt(ctx context.Context) error {
	return k.store.Set(ctx, KeyLastSyncedAt, time.Now().UTC().Format(time.RFC3339))
}

// LastSyncedAt returns the last sync time; ok is false when never synced
func (k *Keyring) LastSyncedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	raw, err := k.optional(ctx, KeyLastSyncedAt)
	if err != nil || raw == "" {
		return time.Time{}, false, err
	}
	t, perr := time.Parse(time.RFC3339, raw)
	if perr != nil {
		// A corrupt timestamp is treated as never-synced
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// ClientID returns the stable per-installation identifier, creating and
// persisting one on first use
func (k *Keyring) ClientID(ctx context.Context) (string, error) {
	id, err := k.optional(ctx, KeyClientID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := k.store.Set(ctx, KeyClientID, id); err != nil {
		return "", err
	}
	return id, nil
}

// ClearSession removes every session-scoped key: tokens, cached user
// and the sync timestamp. The client ID is kept.
func (k *Keyring) ClearSession(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyLastSyncedAt} {
		if err := k.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (k *Keyring) optional(ctx context.Context, key string) (string, error) {
	value, err := k.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return value, err
}
