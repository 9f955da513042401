package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/logging"
	"github.com/tech-arch1tect/basekit/services/mail"
	"github.com/tech-arch1tect/basekit/services/totp"
	"gorm.io/gorm"
)

var (
	ErrPasswordHashingFailed = errors.New("failed to hash password")
	ErrWeakPassword          = errors.New("password does not meet requirements")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserInactive          = errors.New("user account is inactive")
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("a user with this email already exists")
)

// TwoFactorChecker gates token issuance on the user's TOTP state.
type TwoFactorChecker interface {
	CheckLoginRequirement(ctx context.Context, userID, code string) (totp.Outcome, error)
}

type TokenIssuer interface {
	IssueTokens(userID string) (*jwt.TokenPair, error)
}

type LoginNotifier interface {
	SendLoginNotification(ctx context.Context, n mail.LoginNotification) error
}

type Service struct {
	config    *config.Config
	db        *gorm.DB
	twoFactor TwoFactorChecker
	tokens    TokenIssuer
	notifier  LoginNotifier
	logger    *logging.Service

	bcryptCost int
	background sync.WaitGroup
	dummyOnce  sync.Once
	dummyHash  []byte
}

func NewService(cfg *config.Config, db *gorm.DB, twoFactor TwoFactorChecker, tokens TokenIssuer, logger *logging.Service) *Service {
	return &Service{
		config:     cfg,
		db:         db,
		twoFactor:  twoFactor,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: resolveBcryptCost(cfg.Auth.BcryptCost),
	}
}

func (s *Service) SetLoginNotifier(notifier LoginNotifier) {
	s.notifier = notifier
}

// Wait blocks until background notifications have finished.
func (s *Service) Wait() {
	s.background.Wait()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
