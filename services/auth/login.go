package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/mail"
	"github.com/tech-arch1tect/basekit/services/totp"
	"go.uber.org/zap"
)

const notificationTimeout = 30 * time.Second

type LoginResult struct {
	User   *User
	Tokens *jwt.TokenPair
}

// Login authenticates the user and runs the 2FA check before any token is
// issued. A rejected check returns the matching totp sentinel error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if s.twoFactor != nil {
		outcome, err := s.twoFactor.CheckLoginRequirement(ctx, user.ID, req.TOTPCode)
		if err != nil {
			return nil, err
		}
		if outcome != totp.OutcomeProceed {
			return nil, outcome.Err()
		}
	}

	tokens, err := s.tokens.IssueTokens(user.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens", zap.Error(err), zap.String("user_id", user.ID))
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("ip", req.IPAddress))

	s.notifyLogin(ctx, user, req)

	return &LoginResult{User: user, Tokens: tokens}, nil
}

func (s *Service) notifyLogin(ctx context.Context, user *User, req LoginRequest) {
	if s.notifier == nil || !s.config.Auth.LoginNotifications {
		return
	}

	notification := mail.LoginNotification{
		Email:     user.Email,
		FirstName: user.FirstName,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Time:      time.Now(),
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
		defer cancel()

		if err := s.notifier.SendLoginNotification(sendCtx, notification); err != nil {
			s.logger.Warn("failed to send login notification",
				zap.Error(err),
				zap.String("user_id", user.ID))
		}
	}()
}
