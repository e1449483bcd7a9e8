// Package api implements the client for the GridLight backend session
// API. All requests flow through a single interceptor that handles
// offline fail-fast, bearer attachment, silent token rotation and the
// one-shot refresh-and-replay on flagged 401 responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gridlight/gridlight-cli/internal/config"
	"github.com/gridlight/gridlight-cli/internal/logger"
	"github.com/gridlight/gridlight-cli/internal/probe"
	"github.com/gridlight/gridlight-cli/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// rotatedTokenHeader carries a server-issued replacement access token.
// When present it replaces the stored token before the caller sees the
// response.
const rotatedTokenHeader = "X-Access-Token"

// Client talks to the backend session API
type Client struct {
	client  *http.Client
	cfg     *config.APIConfig
	probe   probe.Probe
	keyring *store.Keyring
}

type ClientParams struct {
	fx.In

	Config  *config.APIConfig
	Probe   probe.Probe
	Keyring *store.Keyring
}

// NewClient creates a backend API client with default configuration
func NewClient(params ClientParams) *Client {
	timeout := time.Duration(params.Config.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		cfg:     params.Config,
		probe:   params.Probe,
		keyring: params.Keyring,
	}
}

// SetTimeout sets the timeout for the HTTP client
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// do executes one logical API call. On a 401 whose body is flagged
// requireRefresh the token pair is refreshed and the request replayed
// exactly once; a second 401 on the replay is surfaced as-is. 401s
// without the flag never trigger a refresh, so endpoints that are
// merely forbidden cannot cause a refresh loop.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*Envelope, error) {
	if !c.probe.Online(ctx) {
		return nil, ErrOffline
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	env, status, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && env.RequireRefresh {
		if err := c.refreshTokens(ctx); err != nil {
			return nil, err
		}
		logger.Debug("replaying request after token refresh", zap.String("path", path))
		env, _, err = c.send(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
	}

	return env, nil
}

// send performs a single HTTP round trip and decodes the envelope
func (c *Client) send(ctx context.Context, method, path string, body []byte) (*Envelope, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token, err := c.keyring.AccessToken(ctx); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if clientID, err := c.keyring.ClientID(ctx); err == nil {
		req.Header.Set("X-Client-ID", clientID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", zap.Error(closeErr))
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if rotated := resp.Header.Get(rotatedTokenHeader); rotated != "" {
		if err := c.keyring.SetAccessToken(ctx, rotated); err != nil {
			logger.Error("failed to store rotated access token", zap.Error(err))
		} else {
			logger.Debug("access token rotated by server", zap.String("path", path))
		}
	}

	env := &Envelope{}
	if len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, env); err != nil {
			logger.Error("failed to decode response",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.Error(err))
			return nil, resp.StatusCode, fmt.Errorf("unexpected response from server: %w", err)
		}
	}

	return env, resp.StatusCode, nil
}

// refreshTokens exchanges the stored refresh token for a new pair. Any
// failure clears the local session before returning ErrSessionExpired.
func (c *Client) refreshTokens(ctx context.Context) error {
	refresh, err := c.keyring.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if refresh == "" {
		logger.Warn("access token rejected and no refresh token stored, forcing logout")
		c.forceLogout(ctx)
		return ErrSessionExpired
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("failed to encode refresh request: %w", err)
	}

	env, _, err := c.send(ctx, http.MethodPost, "/auth/refresh-token", body)
	if err != nil || !env.Success || env.AccessToken == "" {
		logger.Warn("token refresh failed, forcing logout", zap.Error(err))
		c.forceLogout(ctx)
		return ErrSessionExpired
	}

	return c.keyring.SaveTokens(ctx, store.TokenPair{
		AccessToken:  env.AccessToken,
		RefreshToken: env.RefreshToken,
	})
}

func (c *Client) forceLogout(ctx context.Context) {
	if err := c.keyring.ClearSession(ctx); err != nil {
		logger.Error("failed to clear session after refresh failure", zap.Error(err))
	}
}
