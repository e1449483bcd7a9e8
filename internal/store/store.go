// Package store provides the local persistent key-value store used to
// cache credentials and the last-known user profile between launches.
package store

import (
	"context"
	"errors"
)

// Storage keys. All session-scoped keys are cleared together on logout;
// KeyClientID survives because it identifies the installation, not the user.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
	KeyLastSyncedAt = "last_synced_at"
	KeyClientID     = "client_id"
)

// ErrKeyNotFound is returned by Get for absent keys
var ErrKeyNotFound = errors.New("store: key not found")

// Store is a string-keyed durable key-value store
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, creating it if absent
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}
