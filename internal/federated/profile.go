package federated

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gridlight/gridlight-cli/internal/config"
	"github.com/gridlight/gridlight-cli/internal/logger"
	"go.uber.org/zap"
)

// Defaults applied when a profile document is created for a first-time
// federated sign-in
const (
	DefaultRole   = "consumer"
	DefaultAvatar = "avatar-default"
)

// ErrProfileNotFound indicates no document exists for the uid
var ErrProfileNotFound = errors.New("profile document not found")

// ProfileDocument is the extended profile stored next to the federated
// provider, keyed by the provider uid
type ProfileDocument struct {
	UID                    string    `json:"uid"`
	Email                  string    `json:"email"`
	FirstName              string    `json:"firstName,omitempty"`
	LastName               string    `json:"lastName,omitempty"`
	Role                   string    `json:"role"`
	Avatar                 string    `json:"avatar"`
	EmailVerified          bool      `json:"emailVerified"`
	HasCompletedOnboarding bool      `json:"hasCompletedOnboarding"`
	CreatedAt              time.Time `json:"createdAt,omitempty"`
	LastLoginAt            time.Time `json:"lastLoginAt,omitempty"`
}

// ProfileStore is the document store holding extended profile fields
type ProfileStore interface {
	Lookup(ctx context.Context, uid string) (*ProfileDocument, error)
	Create(ctx context.Context, doc *ProfileDocument) error
	Update(ctx context.Context, uid string, fields map[string]any) error
	TouchLastLogin(ctx context.Context, uid string) error
}

// DocumentStore implements ProfileStore over the provider's REST
// document API
type DocumentStore struct {
	client  *http.Client
	baseURL string
}

func NewDocumentStore(cfg *config.FederatedConfig) *DocumentStore {
	return &DocumentStore{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: cfg.ProfileStoreURL,
	}
}

func (s *DocumentStore) Lookup(ctx context.Context, uid string) (*ProfileDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.docURL(uid), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProfileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile lookup failed with status %d", resp.StatusCode)
	}

	var doc ProfileDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode profile document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStore) Create(ctx context.Context, doc *ProfileDocument) error {
	return s.write(ctx, http.MethodPost, s.docURL(doc.UID), doc)
}

func (s *DocumentStore) Update(ctx context.Context, uid string, fields map[string]any) error {
	return s.write(ctx, http.MethodPatch, s.docURL(uid), fields)
}

func (s *DocumentStore) TouchLastLogin(ctx context.Context, uid string) error {
	return s.Update(ctx, uid, map[string]any{
		"lastLoginAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *DocumentStore) write(ctx context.Context, method, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode profile document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("profile write failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("profile write failed with status %d", resp.StatusCode)
	}
	return nil
}

func (s *DocumentStore) docURL(uid string) string {
	return s.baseURL + "/profiles/" + uid
}

// EnsureProfile looks up the document for a freshly signed-in identity,
// creating it with defaults on first sign-in. The last-login timestamp
// is touched on every call; a failed touch is logged, not fatal.
func EnsureProfile(ctx context.Context, store ProfileStore, id *Identity) (*ProfileDocument, error) {
	doc, err := store.Lookup(ctx, id.UID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		doc = &ProfileDocument{
			UID:           id.UID,
			Email:         id.Email,
			Role:          DefaultRole,
			Avatar:        DefaultAvatar,
			EmailVerified: id.EmailVerified,
			CreatedAt:     time.Now().UTC(),
		}
		if err := store.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to create profile document: %w", err)
		}
	case err != nil:
		return nil, err
	}

	if err := store.TouchLastLogin(ctx, id.UID); err != nil {
		logger.Warn("failed to touch last-login timestamp", zap.String("uid", id.UID), zap.Error(err))
	}
	return doc, nil
}
