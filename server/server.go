package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/zap"
)

type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger *logging.Service
}

func New(cfg *config.Config, validator *Validator, logger *logging.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.IPExtractor = ipExtractor(cfg.Server.TrustedProxies)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLoggerSkipPaths(logger, "/healthz"))

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}
}

// ipExtractor trusts X-Forwarded-For only from the configured proxies. With
// none configured the peer address is used as is.
func ipExtractor(trusted []string) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, proxy := range trusted {
		if _, network, err := net.ParseCIDR(proxy); err == nil {
			opts = append(opts, echo.TrustIPRange(network))
			continue
		}
		if ip := net.ParseIP(proxy); ip != nil {
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			opts = append(opts, echo.TrustIPRange(&net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}))
		}
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	addr := s.Addr()
	s.logger.Info("starting HTTP server", zap.String("addr", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("HTTP server stopped", zap.Error(err))
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) Get(path string, handler echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.echo.GET(path, handler, m...)
}

func (s *Server) Post(path string, handler echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.echo.POST(path, handler, m...)
}

func (s *Server) Put(path string, handler echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.echo.PUT(path, handler, m...)
}

func (s *Server) Delete(path string, handler echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.echo.DELETE(path, handler, m...)
}

func (s *Server) Group(prefix string, m ...echo.MiddlewareFunc) *echo.Group {
	return s.echo.Group(prefix, m...)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}
