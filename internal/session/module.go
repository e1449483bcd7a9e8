package session

import (
	"github.com/gridlight/gridlight-cli/internal/api"
	"go.uber.org/fx"
)

// Module provides the session manager
var Module = fx.Module("session",
	fx.Provide(
		func(c *api.Client) Backend { return c },
		NewManager,
	),
)
