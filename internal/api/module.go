package api

import "go.uber.org/fx"

// Module provides the backend API client
var Module = fx.Options(
	fx.Provide(NewClient),
)
