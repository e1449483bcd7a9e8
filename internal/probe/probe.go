// Package probe reports network reachability. Mutating operations
// consult it before touching the network so the user gets an immediate
// offline error instead of a request that is known to be futile.
package probe

import (
	"context"
	"net"
	"time"

	"github.com/gridlight/gridlight-cli/internal/config"
)

// Probe reports whether the network is currently reachable
type Probe interface {
	Online(ctx context.Context) bool
}

// TCPProbe checks reachability by dialing a well-known address with a
// short timeout
type TCPProbe struct {
	address string
	timeout time.Duration
}

func NewTCPProbe(cfg *config.ProbeConfig) *TCPProbe {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 1500 * time.Millisecond
	}
	return &TCPProbe{address: cfg.Address, timeout: timeout}
}

func (p *TCPProbe) Online(ctx context.Context) bool {
	dialer := &net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Static always reports a fixed state. Used by tests and --offline.
type Static bool

func (s Static) Online(context.Context) bool { return bool(s) }
