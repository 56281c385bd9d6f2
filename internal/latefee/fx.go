package latefee

import "go.uber.org/fx"

var Module = fx.Module("latefee",
	fx.Provide(NewSweep),
)
