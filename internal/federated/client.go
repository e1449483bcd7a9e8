// Package federated implements the client for the federated identity
// provider and its adjacent profile document store. The backend session
// API issues its own tokens independently of this provider; the session
// manager reconciles the two.
package federated

import (
	"context"
	"errors"
)

// ErrSignInCancelled is returned when the user aborts or the provider
// denies the credential exchange
var ErrSignInCancelled = errors.New("federated sign-in was cancelled")

// Identity is the profile the provider asserts about a signed-in user
type Identity struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

// Client performs the platform-specific credential exchange against the
// federated identity provider. Both methods return the verified
// identity plus the raw ID token for forwarding to the backend.
type Client interface {
	// SignInWithPassword performs the email/password flow
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, string, error)

	// SignInWithGoogle exchanges an authorization code from the
	// browser-based consent flow
	SignInWithGoogle(ctx context.Context, code string) (*Identity, string, error)
}
