package handlers

import (
	"context"

	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/auth"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/logging"
	"github.com/tech-arch1tect/basekit/services/totp"
)

type AccountService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error)
	GetUser(ctx context.Context, id string) (*auth.User, error)
	DeleteAccount(ctx context.Context, id string) error
}

type TwoFactorService interface {
	Setup(ctx context.Context, userID, accountLabel string) (*totp.SetupResult, error)
	Transition(ctx context.Context, userID, code string, action totp.Action) (*totp.Device, error)
	GetDevice(ctx context.Context, userID string) (*totp.Device, error)
}

type TokenService interface {
	IssueTokens(userID string) (*jwt.TokenPair, error)
	ValidateRefreshToken(refreshToken string) (*jwt.Claims, error)
	RefreshToken(refreshToken string) (*jwt.TokenPair, error)
}

type Handler struct {
	config    *config.Config
	accounts  AccountService
	twoFactor TwoFactorService
	tokens    TokenService
	logger    *logging.Service
}

func New(cfg *config.Config, accounts AccountService, twoFactor TwoFactorService, tokens TokenService, logger *logging.Service) *Handler {
	return &Handler{
		config:    cfg,
		accounts:  accounts,
		twoFactor: twoFactor,
		tokens:    tokens,
		logger:    logger,
	}
}
