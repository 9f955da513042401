package ratelimit

import (
	"context"

	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/fx"
)

// NewStore returns the configured store. Only "memory" exists today.
func NewStore(cfg *config.RateLimitConfig, logger *logging.Service) Store {
	if cfg.Store != "" && cfg.Store != "memory" {
		logger.Warn("unknown rate limit store, using memory")
	}
	return NewMemoryStore()
}

func ProvideRateLimitStore(cfg *config.Config, logger *logging.Service, lc fx.Lifecycle) Store {
	store := NewStore(&cfg.RateLimit, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			store.Close()
			return nil
		},
	})
	return store
}

var Module = fx.Options(
	fx.Provide(ProvideRateLimitStore),
)
