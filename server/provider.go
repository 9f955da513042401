package server

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(ProvideValidator, New),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, srv *Server) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				_ = srv.Start()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
