package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/server"
	"github.com/tech-arch1tect/basekit/services/auth"
	"github.com/tech-arch1tect/basekit/services/logging"
	"github.com/tech-arch1tect/basekit/services/totp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	fx     *fx.App
	config *config.Config
	logger *logging.Service
	db     *gorm.DB
	server *server.Server
	auth   *auth.Service
	totp   *totp.Service
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.fx.Stop(ctx)
}

// Run starts the app and blocks until SIGINT or SIGTERM, then shuts down
// within shutdownTimeout.
func (a *App) Run() error {
	if err := a.Start(context.Background()); err != nil {
		a.logger.Error("failed to start application", zap.Error(err))
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	a.logger.Info("received shutdown signal, stopping gracefully", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Stop(ctx); err != nil {
		a.logger.Error("failed to stop application gracefully", zap.Error(err))
		return err
	}
	_ = a.logger.Sync()
	return nil
}

func (a *App) Echo() *echo.Echo {
	return a.server.Echo()
}

func (a *App) Server() *server.Server {
	return a.server
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Auth() *auth.Service {
	return a.auth
}

func (a *App) TOTP() *totp.Service {
	return a.totp
}
