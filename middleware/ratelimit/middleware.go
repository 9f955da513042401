package ratelimit

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/zap"
)

type Config struct {
	// Name scopes the counters so separate route groups do not share a budget.
	Name           string
	Store          Store
	Rate           int
	Period         time.Duration
	CountMode      config.CountingMode
	KeyGenerator   func(c echo.Context) string
	OnLimitReached func(c echo.Context) error
	Logger         *logging.Service
}

// FromConfig builds a limiter config for one route group.
func FromConfig(cfg *config.RateLimitConfig, store Store, name string, rate int, logger *logging.Service) Config {
	return Config{
		Name:      name,
		Store:     store,
		Rate:      rate,
		Period:    cfg.Period,
		CountMode: cfg.CountMode,
		Logger:    logger,
	}
}

func Middleware(cfg Config) echo.MiddlewareFunc {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Period <= 0 {
		cfg.Period = time.Minute
	}
	if cfg.CountMode == "" {
		cfg.CountMode = config.CountAll
	}
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = DefaultKeyGenerator
	}
	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = DefaultOnLimitReached
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "rate_limit:" + cfg.Name + ":" + cfg.KeyGenerator(c)
			resetTime := time.Now().Add(cfg.Period)

			count, existingReset, exists := cfg.Store.Get(key)
			if exists {
				resetTime = existingReset
			}

			if count >= cfg.Rate {
				setHeaders(c, cfg.Rate, 0, resetTime)
				cfg.Logger.Info("rate limit reached",
					zap.String("limiter", cfg.Name),
					zap.String("ip", c.RealIP()),
					zap.String("path", c.Path()))
				return cfg.OnLimitReached(c)
			}

			if cfg.CountMode == config.CountAll {
				count = cfg.Store.Increment(key, resetTime)
				setHeaders(c, cfg.Rate, cfg.Rate-count, resetTime)
				return next(c)
			}

			setHeaders(c, cfg.Rate, cfg.Rate-count-1, resetTime)
			err := next(c)

			status := responseStatus(c, err)
			failed := status >= http.StatusBadRequest
			if (cfg.CountMode == config.CountFailures) == failed {
				cfg.Store.Increment(key, resetTime)
			}

			return err
		}
	}
}

func setHeaders(c echo.Context, limit, remaining int, resetTime time.Time) {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
}

// responseStatus reports the status the client will see, including errors
// that the HTTP error handler has not rendered yet.
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	if c.Response().Committed {
		return c.Response().Status
	}
	return http.StatusInternalServerError
}

func DefaultKeyGenerator(c echo.Context) string {
	realIP := c.RealIP()
	if realIP == "" || realIP == "unknown" {
		realIP = "fallback"
	}
	return realIP
}

func DefaultOnLimitReached(c echo.Context) error {
	return echo.NewHTTPError(http.StatusTooManyRequests, "Too Many Requests")
}
