package federated

import "go.uber.org/fx"

// Module provides the federated identity client and profile store
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			NewOIDCClient,
			fx.As(new(Client)),
		),
		fx.Annotate(
			NewDocumentStore,
			fx.As(new(ProfileStore)),
		),
	),
)
