package notification

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("notification",
	fx.Provide(NewOutbox),
	fx.Provide(NewWebhookSender),
	fx.Provide(NewDispatcher),
	fx.Invoke(runDispatcher),
)

func runDispatcher(lc fx.Lifecycle, dispatcher *Dispatcher) {
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go dispatcher.RunForever(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
