package jwt

import (
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/fx"
)

func NewJWTService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(cfg, logger)
}

var Options = fx.Options(
	fx.Provide(NewJWTService),
)
