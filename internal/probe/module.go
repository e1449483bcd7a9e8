package probe

import (
	"github.com/gridlight/gridlight-cli/internal/config"
	"go.uber.org/fx"
)

// NewProbe selects the probe implementation from configuration.
// force_state short-circuits the network check entirely.
func NewProbe(cfg *config.ProbeConfig) Probe {
	switch cfg.ForceState {
	case "online":
		return Static(true)
	case "offline":
		return Static(false)
	default:
		return NewTCPProbe(cfg)
	}
}

// Module provides the reachability probe
var Module = fx.Module("probe",
	fx.Provide(NewProbe),
)
