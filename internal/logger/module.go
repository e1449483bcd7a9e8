package logger

import "go.uber.org/fx"

// Module wires the global logger initialization into the fx lifecycle
var Module = fx.Module("logger",
	fx.Invoke(InitLogger),
)
