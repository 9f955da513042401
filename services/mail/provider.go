package mail

import (
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/fx"
)

// ProvideMailService returns nil when mail is disabled.
func ProvideMailService(cfg *config.Config, logger *logging.Service) (*Service, error) {
	if !cfg.Mail.Enabled {
		logger.Info("mail service disabled")
		return nil, nil
	}
	return NewService(&cfg.Mail, cfg.App.Name, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideMailService),
)
