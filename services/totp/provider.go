package totp

import (
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewStore(db *gorm.DB) Store {
	return NewGormStore(db)
}

func NewClock() Clock {
	return SystemClock{}
}

func NewProvider(cfg *config.Config, store Store, clock Clock, logger *logging.Service) *Service {
	return NewService(cfg, store, clock, logger)
}

var Module = fx.Options(
	fx.Provide(NewStore, NewClock, NewProvider),
)
