package auth

import (
	"context"

	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/logging"
	"github.com/tech-arch1tect/basekit/services/mail"
	"github.com/tech-arch1tect/basekit/services/totp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config    *config.Config
	DB        *gorm.DB
	TOTP      *totp.Service
	JWT       *jwt.Service
	Mail      *mail.Service `optional:"true"`
	Logger    *logging.Service
	Lifecycle fx.Lifecycle
}

func ProvideAuthService(p Params) *Service {
	svc := NewService(p.Config, p.DB, p.TOTP, p.JWT, p.Logger)
	if p.Mail != nil {
		svc.SetLoginNotifier(p.Mail)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			svc.Wait()
			return nil
		},
	})
	return svc
}

var Module = fx.Options(
	fx.Provide(ProvideAuthService),
)
