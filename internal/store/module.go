package store

import "go.uber.org/fx"

// Module provides the store module dependencies
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			NewFileStore,
			fx.As(new(Store)),
		),
		NewKeyring,
	),
)
