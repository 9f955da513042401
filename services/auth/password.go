package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tech-arch1tect/basekit/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func resolveBcryptCost(configured int) int {
	if configured < bcrypt.MinCost || configured > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return configured
}

// unmetRequirements lists the character classes the policy asks for that
// password lacks.
func unmetRequirements(policy config.AuthConfig, password string) []string {
	var upper, lower, number, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsNumber(r):
			number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	var missing []string
	for _, req := range []struct {
		wanted, present bool
		label           string
	}{
		{policy.RequireUpper, upper, "one uppercase letter"},
		{policy.RequireLower, lower, "one lowercase letter"},
		{policy.RequireNumber, number, "one number"},
		{policy.RequireSpecial, special, "one special character"},
	} {
		if req.wanted && !req.present {
			missing = append(missing, req.label)
		}
	}
	return missing
}

// checkPasswordPolicy returns ErrWeakPassword with a readable reason.
func (s *Service) checkPasswordPolicy(password string) error {
	policy := s.config.Auth
	if len(password) < policy.MinLength {
		s.logger.Info("password rejected, too short", zap.Int("min_length", policy.MinLength))
		return fmt.Errorf("%w: password must be at least %d characters", ErrWeakPassword, policy.MinLength)
	}

	if missing := unmetRequirements(policy, password); len(missing) > 0 {
		s.logger.Info("password rejected", zap.Strings("missing", missing))
		return fmt.Errorf("%w: password must contain at least %s", ErrWeakPassword, strings.Join(missing, ", "))
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	if err := s.checkPasswordPolicy(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return "", ErrPasswordHashingFailed
	}
	return string(hash), nil
}

func (s *Service) comparePassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// burnPasswordCheck spends a bcrypt comparison so unknown emails take as long
// as wrong passwords.
func (s *Service) burnPasswordCheck(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused-placeholder"), s.bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}
