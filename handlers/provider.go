package handlers

import (
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/middleware/ratelimit"
	"github.com/tech-arch1tect/basekit/server"
	"github.com/tech-arch1tect/basekit/services/auth"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/logging"
	"github.com/tech-arch1tect/basekit/services/totp"
	"go.uber.org/fx"
)

var (
	_ AccountService   = (*auth.Service)(nil)
	_ TwoFactorService = (*totp.Service)(nil)
	_ TokenService     = (*jwt.Service)(nil)
)

func ProvideHandler(cfg *config.Config, accounts *auth.Service, twoFactor *totp.Service, tokens *jwt.Service, logger *logging.Service) *Handler {
	return New(cfg, accounts, twoFactor, tokens, logger)
}

type RouteParams struct {
	fx.In

	Server  *server.Server
	Handler *Handler
	JWT     *jwt.Service
	Auth    *auth.Service
	Limits  ratelimit.Store
	Config  *config.Config
	Logger  *logging.Service
}

func RegisterRoutes(p RouteParams) {
	Routes{
		Handler: p.Handler,
		JWT:     p.JWT,
		Users:   p.Auth,
		Limits:  p.Limits,
		Docs:    NewDocs(p.Config),
		Logger:  p.Logger,
	}.Mount(p.Server.Echo())
}

var Module = fx.Options(
	fx.Provide(ProvideHandler),
	fx.Invoke(RegisterRoutes),
)
