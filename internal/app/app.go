// Package app assembles the fx dependency graph shared by every CLI
// command.
package app

import (
	"github.com/gridlight/gridlight-cli/internal/api"
	"github.com/gridlight/gridlight-cli/internal/config"
	"github.com/gridlight/gridlight-cli/internal/federated"
	"github.com/gridlight/gridlight-cli/internal/logger"
	"github.com/gridlight/gridlight-cli/internal/probe"
	"github.com/gridlight/gridlight-cli/internal/session"
	"github.com/gridlight/gridlight-cli/internal/store"
	"go.uber.org/fx"
)

// New builds the application graph plus any command-specific options
func New(extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		fx.NopLogger,
		config.Module,
		logger.Module,
		store.Module,
		probe.Module,
		api.Module,
		federated.Module,
		session.Module,
	}
	return fx.New(append(opts, extra...)...)
}
