package handlers

import (
	"github.com/labstack/echo/v4"
	jwtmiddleware "github.com/tech-arch1tect/basekit/middleware/jwt"
	"github.com/tech-arch1tect/basekit/middleware/jwtshared"
	"github.com/tech-arch1tect/basekit/middleware/ratelimit"
	"github.com/tech-arch1tect/basekit/openapi"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/logging"
)

const APIPrefix = "/api/v1"

// Routes holds what route registration needs beyond the handler itself.
type Routes struct {
	Handler *Handler
	JWT     *jwt.Service
	Users   jwtshared.UserProvider
	Limits  ratelimit.Store
	Docs    *openapi.Document
	Logger  *logging.Service
}

// Mount registers every route on e. Register, login, refresh and logout share
// one budget per client, the 2FA routes another.
func (r Routes) Mount(e *echo.Echo) {
	h := r.Handler
	cfg := h.config

	authLimit := ratelimit.Middleware(ratelimit.FromConfig(&cfg.RateLimit, r.Limits, "auth", cfg.RateLimit.LoginRate, r.Logger))
	twoFactorLimit := ratelimit.Middleware(ratelimit.FromConfig(&cfg.RateLimit, r.Limits, "2fa", cfg.RateLimit.TwoFactorRate, r.Logger))
	requireJWT := jwtmiddleware.RequireJWT(r.JWT)
	requireUser := jwtshared.RequireUser(r.Users)

	e.GET("/healthz", h.Health)

	api := e.Group(APIPrefix)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register, authLimit)
	authGroup.POST("/login", h.Login, authLimit)
	authGroup.POST("/refresh", h.Refresh, authLimit)
	authGroup.POST("/logout", h.Logout, authLimit, requireJWT, requireUser)
	authGroup.POST("/setup-2fa", h.SetupTwoFactor, twoFactorLimit, requireJWT, requireUser)
	authGroup.PUT("/enable-2fa", h.EnableTwoFactor, twoFactorLimit, requireJWT, requireUser)
	authGroup.PUT("/disable-2fa", h.DisableTwoFactor, twoFactorLimit, requireJWT, requireUser)
	authGroup.GET("/2fa-status", h.TwoFactorStatus, requireJWT, requireUser)

	users := api.Group("/users", requireJWT, requireUser)
	users.GET("/me", h.Me)
	users.DELETE("/me", h.DeleteMe)

	if r.Docs != nil {
		e.GET("/docs/openapi.json", r.Docs.JSONHandler())
		e.GET("/docs/openapi.yaml", r.Docs.YAMLHandler())
	}
}
