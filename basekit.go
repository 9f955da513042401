// Package basekit assembles the account, token and TOTP two-factor services
// into a runnable HTTP application.
package basekit

import (
	"github.com/tech-arch1tect/basekit/app"
	"github.com/tech-arch1tect/basekit/config"
)

type App = app.App

type Builder = app.AppBuilder

func New() *Builder {
	return app.NewApp()
}

// WithConfig starts a builder from an explicit configuration.
func WithConfig(cfg *config.Config) *Builder {
	return app.NewApp().WithConfig(cfg)
}
