// Package session implements the session manager: login, logout,
// restore-on-launch, silent token refresh and the reconciliation of the
// federated identity provider with the backend session API.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gridlight/gridlight-cli/internal/api"
	"github.com/gridlight/gridlight-cli/internal/federated"
	"github.com/gridlight/gridlight-cli/internal/logger"
	"github.com/gridlight/gridlight-cli/internal/probe"
	"github.com/gridlight/gridlight-cli/internal/store"
	"go.uber.org/zap"
)

// offlineLoginWindow is how fresh the last server sync must be for a
// cached session to satisfy an offline login
const offlineLoginWindow = 24 * time.Hour

// Backend is the slice of the backend API the manager drives
type Backend interface {
	Login(ctx context.Context, email, password string, federatedFailed bool) (*api.Envelope, error)
	GoogleSignIn(ctx context.Context, idToken string) (*api.Envelope, error)
	Verify(ctx context.Context) (*api.Envelope, error)
	Logout(ctx context.Context) (*api.Envelope, error)
	ForgotPassword(ctx context.Context, email string) (*api.Envelope, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*api.Envelope, error)
	VerifyEmail(ctx context.Context, token string) (*api.Envelope, error)
	ResendVerification(ctx context.Context, email string) (*api.Envelope, error)
	UpdateProfile(ctx context.Context, fields map[string]any) (*api.Envelope, error)
}

// Manager owns the session state. Every mutation of the state and of
// the session keys in storage goes through its methods under one mutex,
// so a background sync and a foreground login are serialized instead of
// silently clobbering each other.
type Manager struct {
	mu       sync.Mutex
	state    State
	backend  Backend
	fed      federated.Client
	profiles federated.ProfileStore
	keyring  *store.Keyring
	probe    probe.Probe
	subs     []chan State
}

func NewManager(backend Backend, fed federated.Client, profiles federated.ProfileStore, keyring *store.Keyring, probe probe.Probe) *Manager {
	return &Manager{
		backend:  backend,
		fed:      fed,
		profiles: profiles,
		keyring:  keyring,
		probe:    probe,
	}
}

// Snapshot returns a copy of the current session state
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe returns a channel that receives every state change. Slow
// subscribers miss updates rather than blocking the manager.
func (m *Manager) Subscribe() <-chan State {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan State, 8)
	m.subs = append(m.subs, ch)
	return ch
}

// TokenExpiry reports when the stored access token expires
func (m *Manager) TokenExpiry(ctx context.Context) (time.Time, bool) {
	token, err := m.keyring.AccessToken(ctx)
	if err != nil || token == "" {
		return time.Time{}, false
	}
	return TokenExpiry(token)
}

// RestoreOnLaunch rebuilds the session from local storage. With a
// cached token and user the session is restored optimistically so the
// UI is responsive offline, then verified against the backend when
// reachable. A verify that explicitly rejects the credential clears the
// session (fail-closed); any other verify failure keeps it (fail-open),
// because a transient error must not evict a valid local session.
func (m *Manager) RestoreOnLaunch(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	online := m.probe.Online(ctx)

	token, err := m.keyring.AccessToken(ctx)
	if err != nil {
		return State{}, err
	}
	if token == "" {
		m.setStateLocked(State{Online: online})
		return m.state.clone(), nil
	}

	rawUser, err := m.keyring.UserJSON(ctx)
	if err != nil {
		return State{}, err
	}
	user, err := decodeProfile(rawUser)
	if err != nil {
		logger.Warn("discarding unreadable cached user", zap.Error(err))
		user = nil
	}

	lastSynced, _, _ := m.keyring.LastSyncedAt(ctx)
	m.setStateLocked(State{
		User:          user,
		Authenticated: user != nil,
		Online:        online,
		LastSyncedAt:  lastSynced,
	})

	if !online {
		return m.state.clone(), nil
	}

	env, err := m.backend.Verify(ctx)
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		// Interceptor already cleared storage
		m.setStateLocked(State{Online: online})
	case err != nil:
		logger.Warn("session verify failed, keeping local session", zap.Error(err))
	case env.Success:
		merged := MergeProfile(user, FromBackend(env.User))
		if err := m.persistUserLocked(ctx, merged); err != nil {
			return State{}, err
		}
		_ = m.keyring.StampLastSyncedAt(ctx)
		lastSynced, _, _ = m.keyring.LastSyncedAt(ctx)
		m.setStateLocked(State{
			User:          merged,
			Authenticated: merged != nil,
			Online:        true,
			LastSyncedAt:  lastSynced,
		})
	case isCredentialRejection(env.Message):
		logger.Info("stored credential rejected by backend, clearing session",
			zap.String("message", env.Message))
		m.clearSessionLocked(ctx, online)
	default:
		logger.Warn("session verify unsuccessful for non-credential reason, keeping local session",
			zap.String("message", env.Message))
	}

	return m.state.clone(), nil
}

// Login signs the user in. Offline it falls back to the cached session
// when the email matches and the last sync is fresh enough; online it
// runs the dual-provider pipeline and the backend's profile supersedes
// the federated one.
func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.probe.Online(ctx) {
		return m.offlineLoginLocked(ctx, email)
	}
	return m.onlineLoginLocked(ctx, email, password)
}

func (m *Manager) offlineLoginLocked(ctx context.Context, email string) (*LoginResult, error) {
	token, err := m.keyring.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	rawUser, err := m.keyring.UserJSON(ctx)
	if err != nil {
		return nil, err
	}
	user, err := decodeProfile(rawUser)
	if err != nil || user == nil || token == "" {
		return nil, ErrOfflineLogin
	}

	lastSynced, ok, err := m.keyring.LastSyncedAt(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || time.Since(lastSynced) > offlineLoginWindow {
		return nil, fmt.Errorf("%w: cached session is too old", ErrOfflineLogin)
	}
	if !strings.EqualFold(user.Email, email) {
		return nil, fmt.Errorf("%w: no cached session for this account", ErrOfflineLogin)
	}

	m.setStateLocked(State{
		User:          user,
		Authenticated: true,
		Online:        false,
		LastSyncedAt:  lastSynced,
	})
	logger.Info("logged in from cached session", zap.String("email", user.Email))
	return &LoginResult{User: m.state.User, FromCache: true}, nil
}

func (m *Manager) onlineLoginLocked(ctx context.Context, email, password string) (*LoginResult, error) {
	fed, fedIDToken := m.federatedPasswordOutcome(ctx, email, password)

	var backend ProviderOutcome
	var tokens store.TokenPair
	env, err := m.backend.Login(ctx, email, password, fed.Err != nil)
	switch {
	case err != nil:
		backend.Err = err
	case !env.Success:
		backend.Err = fmt.Errorf("%w: %s", ErrInvalidCredentials, env.Message)
	default:
		backend.User = FromBackend(env.User)
		tokens = store.TokenPair{AccessToken: env.AccessToken, RefreshToken: env.RefreshToken}
	}
	if backend.Err != nil {
		logger.Warn("backend login failed", zap.Error(backend.Err))
	}

	user, err := Reconcile(fed, backend)
	if err != nil {
		return nil, err
	}

	// A federated-only session carries the provider's ID token as its
	// credential and has no refresh token
	if tokens.AccessToken == "" && fed.Succeeded() {
		tokens = store.TokenPair{AccessToken: fedIDToken}
	}
	if tokens.AccessToken != "" {
		if err := m.keyring.SaveTokens(ctx, tokens); err != nil {
			return nil, err
		}
	}
	return m.finishLoginLocked(ctx, user)
}

// federatedPasswordOutcome runs the federated leg of the login
// pipeline. A profile-store failure degrades to the minimal identity
// profile rather than failing the leg.
func (m *Manager) federatedPasswordOutcome(ctx context.Context, email, password string) (ProviderOutcome, string) {
	id, rawIDToken, err := m.fed.SignInWithPassword(ctx, email, password)
	if err != nil {
		logger.Warn("federated sign-in failed", zap.Error(err))
		return ProviderOutcome{Err: err}, ""
	}

	user := MinimalProfile(id)
	if doc, err := federated.EnsureProfile(ctx, m.profiles, id); err == nil {
		user = FromProfileDocument(doc)
	} else {
		logger.Warn("profile-store fetch failed, using minimal profile",
			zap.String("uid", id.UID), zap.Error(err))
	}
	return ProviderOutcome{User: user}, rawIDToken
}

// FederatedSignIn completes a social sign-in from the browser consent
// flow. The profile document is created with defaults on first sign-in
// and its last-login timestamp touched on every one. Backend tokens are
// fetched best-effort; when the backend responds its profile wins.
func (m *Manager) FederatedSignIn(ctx context.Context, code string) (*LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.probe.Online(ctx) {
		return nil, ErrOffline
	}

	id, rawIDToken, err := m.fed.SignInWithGoogle(ctx, code)
	if err != nil {
		return nil, err
	}

	user := MinimalProfile(id)
	if doc, perr := federated.EnsureProfile(ctx, m.profiles, id); perr == nil {
		user = FromProfileDocument(doc)
	} else {
		logger.Warn("profile-store fetch failed, using minimal profile",
			zap.String("uid", id.UID), zap.Error(perr))
	}

	env, err := m.backend.GoogleSignIn(ctx, rawIDToken)
	if err != nil || !env.Success {
		logger.Warn("backend google sign-in failed, continuing with federated session", zap.Error(err))
		if serr := m.keyring.SaveTokens(ctx, store.TokenPair{AccessToken: rawIDToken}); serr != nil {
			return nil, serr
		}
	} else {
		pair := store.TokenPair{AccessToken: env.AccessToken, RefreshToken: env.RefreshToken}
		if pair.AccessToken == "" {
			pair = store.TokenPair{AccessToken: rawIDToken}
		}
		if err := m.keyring.SaveTokens(ctx, pair); err != nil {
			return nil, err
		}
		user = MergeProfile(user, FromBackend(env.User))
	}

	return m.finishLoginLocked(ctx, user)
}

func (m *Manager) finishLoginLocked(ctx context.Context, user *UserProfile) (*LoginResult, error) {
	if err := m.persistUserLocked(ctx, user); err != nil {
		return nil, err
	}
	if err := m.keyring.StampLastSyncedAt(ctx); err != nil {
		return nil, err
	}

	token, _ := m.keyring.AccessToken(ctx)
	lastSynced, _, _ := m.keyring.LastSyncedAt(ctx)
	m.setStateLocked(State{
		User:          user,
		Authenticated: user != nil && token != "",
		Online:        true,
		LastSyncedAt:  lastSynced,
	})
	logger.Info("login succeeded", zap.String("email", user.Email))
	return &LoginResult{User: m.state.User}, nil
}

// Logout tells the backend best-effort, then unconditionally clears the
// stored tokens, cached user and sync timestamp. Logout always succeeds
// locally.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.backend.Logout(ctx); err != nil {
		logger.Warn("backend logout failed, clearing local session anyway", zap.Error(err))
	}
	m.clearSessionLocked(ctx, m.state.Online)
	return nil
}

// CompleteOnboarding marks onboarding done locally and persists it.
// The remote profile-store sync is advisory: it runs without blocking
// and its failure is only logged. Completion always succeeds from the
// caller's point of view once the local write lands.
func (m *Manager) CompleteOnboarding(ctx context.Context, data OnboardingData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.User == nil {
		return ErrNotSignedIn
	}

	user := m.state.User
	if data.FirstName != "" {
		user.FirstName = data.FirstName
	}
	if data.LastName != "" {
		user.LastName = data.LastName
	}
	user.HasCompletedOnboarding = true

	if err := m.persistUserLocked(ctx, user); err != nil {
		return err
	}
	m.setStateLocked(m.state)

	uid := user.ID
	fields := data.profileFields()
	go func() {
		syncCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.profiles.Update(syncCtx, uid, fields); err != nil {
			logger.Warn("onboarding profile sync failed", zap.String("uid", uid), zap.Error(err))
		}
	}()
	return nil
}

// UpdateProfile pushes profile edits to the backend and merges the
// response into the cached user
func (m *Manager) UpdateProfile(ctx context.Context, fields map[string]any) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.User == nil {
		return nil, ErrNotSignedIn
	}

	env, err := m.backend.UpdateProfile(ctx, fields)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("profile update rejected: %s", env.Message)
	}

	merged := MergeProfile(m.state.User, FromBackend(env.User))
	if err := m.persistUserLocked(ctx, merged); err != nil {
		return nil, err
	}
	_ = m.keyring.StampLastSyncedAt(ctx)
	lastSynced, _, _ := m.keyring.LastSyncedAt(ctx)
	m.setStateLocked(State{
		User:          merged,
		Authenticated: m.state.Authenticated,
		Online:        true,
		LastSyncedAt:  lastSynced,
	})
	return m.state.User, nil
}

// ForgotPassword requests a reset email
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	return m.simpleCall(func() (*api.Envelope, error) {
		return m.backend.ForgotPassword(ctx, email)
	})
}

// ResetPassword completes a password reset
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.simpleCall(func() (*api.Envelope, error) {
		return m.backend.ResetPassword(ctx, token, newPassword)
	})
}

// VerifyEmail confirms the account's email address
func (m *Manager) VerifyEmail(ctx context.Context, token string) error {
	return m.simpleCall(func() (*api.Envelope, error) {
		return m.backend.VerifyEmail(ctx, token)
	})
}

// ResendVerification re-sends the confirmation email
func (m *Manager) ResendVerification(ctx context.Context, email string) error {
	return m.simpleCall(func() (*api.Envelope, error) {
		return m.backend.ResendVerification(ctx, email)
	})
}

// simpleCall runs a fire-and-report backend call. Offline fail-fast
// comes from the interceptor.
func (m *Manager) simpleCall(call func() (*api.Envelope, error)) error {
	env, err := call()
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("request rejected: %s", env.Message)
	}
	return nil
}

func (m *Manager) persistUserLocked(ctx context.Context, user *UserProfile) error {
	raw, err := encodeProfile(user)
	if err != nil {
		return err
	}
	return m.keyring.SaveUserJSON(ctx, raw)
}

func (m *Manager) clearSessionLocked(ctx context.Context, online bool) {
	if err := m.keyring.ClearSession(ctx); err != nil {
		logger.Error("failed to clear stored session", zap.Error(err))
	}
	m.setStateLocked(State{Online: online})
}

func (m *Manager) setStateLocked(s State) {
	m.state = s
	for _, ch := range m.subs {
		select {
		case ch <- s.clone():
		default:
		}
	}
}

// isCredentialRejection reports whether a verify failure message names
// the credential itself, as opposed to a transient server problem
func isCredentialRejection(message string) bool {
	msg := strings.ToLower(message)
	for _, keyword := range []string{"auth", "token", "unauthorized"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// OnboardingData carries the answers collected by the onboarding flow
type OnboardingData struct {
	FirstName      string
	LastName       string
	HouseholdSize  int
	TariffPlan     string
	HasSolarPanels bool
}

func (d OnboardingData) profileFields() map[string]any {
	fields := map[string]any{
		"hasCompletedOnboarding": true,
		"householdSize":          d.HouseholdSize,
		"tariffPlan":             d.TariffPlan,
		"hasSolarPanels":         d.HasSolarPanels,
	}
	if d.FirstName != "" {
		fields["firstName"] = d.FirstName
	}
	if d.LastName != "" {
		fields["lastName"] = d.LastName
	}
	return fields
}
