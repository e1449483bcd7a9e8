package api

import (
	"context"
	"net/http"
)

// Login authenticates against the backend with email and password.
// federatedFailed tells the backend that a federated sign-in was
// attempted first and did not succeed.
func (c *Client) Login(ctx context.Context, email, password string, federatedFailed bool) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:           email,
		Password:        password,
		ClientType:      c.cfg.ClientType,
		FederatedFailed: federatedFailed,
	})
}

// GoogleSignIn exchanges a federated ID token for backend credentials
func (c *Client) GoogleSignIn(ctx context.Context, idToken string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/google-signin", googleSignInRequest{
		IDToken:    idToken,
		ClientType: c.cfg.ClientType,
	})
}

// Verify asks the backend whether the stored access token is still
// valid, returning the current server-side profile on success
func (c *Client) Verify(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, "/auth/verify", nil)
}

// Logout invalidates the session server-side
func (c *Client) Logout(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil)
}

// ForgotPassword requests a password-reset email
func (c *Client) ForgotPassword(ctx context.Context, email string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", forgotPasswordRequest{Email: email})
}

// ResetPassword completes a password reset with the emailed token
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", resetPasswordRequest{
		Token:       token,
		NewPassword: newPassword,
	})
}

// VerifyEmail confirms an email address with the emailed token
func (c *Client) VerifyEmail(ctx context.Context, token string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/verify-email", verifyEmailRequest{Token: token})
}

// ResendVerification re-sends the address-confirmation email
func (c *Client) ResendVerification(ctx context.Context, email string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/resend-verification", resendVerificationRequest{Email: email})
}

// UpdateProfile patches profile fields on the backend
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/profile", fields)
}
