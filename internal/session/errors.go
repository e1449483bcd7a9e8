package session

import (
	"errors"

	"github.com/gridlight/gridlight-cli/internal/api"
)

var (
	// ErrOffline mirrors the interceptor's fail-fast offline error so
	// callers only need this package's sentinels
	ErrOffline = api.ErrOffline

	// ErrSessionExpired is surfaced after a failed refresh; the local
	// session has already been cleared
	ErrSessionExpired = api.ErrSessionExpired

	// ErrOfflineLogin means no sufficiently fresh cached session
	// matched the offline login attempt
	ErrOfflineLogin = errors.New("cannot login while offline")

	// ErrInvalidCredentials means a provider explicitly rejected the
	// supplied credentials
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrLoginFailed is the generic failure when neither provider
	// produced a usable result
	ErrLoginFailed = errors.New("login failed")

	// ErrNotSignedIn guards operations that require a current session
	ErrNotSignedIn = errors.New("not signed in")
)
