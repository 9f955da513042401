package app

import (
	"errors"
	"fmt"

	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/database"
	"github.com/tech-arch1tect/basekit/handlers"
	"github.com/tech-arch1tect/basekit/middleware/ratelimit"
	"github.com/tech-arch1tect/basekit/server"
	"github.com/tech-arch1tect/basekit/services/auth"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/logging"
	"github.com/tech-arch1tect/basekit/services/mail"
	"github.com/tech-arch1tect/basekit/services/totp"
	"go.uber.org/fx"
)

type AppBuilder struct {
	config    *config.Config
	logger    *logging.Service
	models    []any
	clock     totp.Clock
	fxOptions []fx.Option
	errors    []error
}

func NewApp() *AppBuilder {
	return &AppBuilder{}
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.addError("config cannot be nil")
		return b
	}
	b.config = cfg
	return b
}

// WithAutoConfig loads the configuration from the environment and .env.
func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.addError(fmt.Sprintf("failed to load config: %v", err))
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithLogger(logger *logging.Service) *AppBuilder {
	b.logger = logger
	return b
}

// WithModels migrates extra models alongside users and TOTP devices.
func (b *AppBuilder) WithModels(models ...any) *AppBuilder {
	b.models = append(b.models, models...)
	return b
}

// WithClock replaces the TOTP time source.
func (b *AppBuilder) WithClock(clock totp.Clock) *AppBuilder {
	if clock == nil {
		b.addError("clock cannot be nil")
		return b
	}
	b.clock = clock
	return b
}

func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) addError(msg string) {
	b.errors = append(b.errors, errors.New(msg))
}

func (b *AppBuilder) Build() (*App, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("configuration errors: %w", errors.Join(b.errors...))
	}

	if b.config == nil {
		if b.WithAutoConfig(); len(b.errors) > 0 {
			return nil, errors.Join(b.errors...)
		}
	}

	logger := b.logger
	if logger == nil {
		var err error
		logger, err = logging.NewLoggingService(b.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	app := &App{config: b.config, logger: logger}

	opts := []fx.Option{
		fx.NopLogger,
		fx.Supply(b.config, logger),
		fx.Supply(database.WithModels(b.allModels()...)),
		database.Module,
		totp.Module,
		jwt.Options,
		mail.Module,
		auth.Module,
		ratelimit.Module,
		server.Module,
		handlers.Module,
	}
	if b.clock != nil {
		opts = append(opts, fx.Decorate(func(totp.Clock) totp.Clock { return b.clock }))
	}
	opts = append(opts, b.fxOptions...)
	opts = append(opts, fx.Populate(&app.db, &app.server, &app.auth, &app.totp))

	app.fx = fx.New(opts...)
	if err := app.fx.Err(); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}
	return app, nil
}

func (b *AppBuilder) allModels() []any {
	return append([]any{&auth.User{}, &totp.Device{}}, b.models...)
}

