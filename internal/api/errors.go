package api

import "errors"

var (
	// ErrOffline is returned before any network I/O when the
	// reachability probe reports no connectivity
	ErrOffline = errors.New("network unreachable")

	// ErrSessionExpired is returned when a flagged 401 could not be
	// recovered by the one-shot token refresh. The local session has
	// already been cleared when this is returned.
	ErrSessionExpired = errors.New("session expired, please log in again")
)
