package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tech-arch1tect/basekit/database"
	"github.com/tech-arch1tect/basekit/services/totp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := normalizeEmail(req.Email)

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IsActive:  true,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			s.logger.Info("registration rejected, email taken")
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.burnPasswordCheck(password)
			s.logger.Info("authentication failed, unknown email")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to load user for authentication", zap.Error(err))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.comparePassword(user.Password, password); err != nil {
		s.logger.Info("authentication failed, wrong password", zap.String("user_id", user.ID))
		return nil, err
	}

	if !user.IsActive {
		s.logger.Info("authentication rejected, inactive user", zap.String("user_id", user.ID))
		return nil, ErrUserInactive
	}

	return &user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// DeleteAccount removes the user and their TOTP device in one transaction.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := totp.NewGormStore(tx).DeleteDevice(ctx, id); err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&User{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Error("failed to delete account", zap.Error(err), zap.String("user_id", id))
		}
		return err
	}

	s.logger.Info("account deleted", zap.String("user_id", id))
	return nil
}
