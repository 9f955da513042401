package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/totp"
	"github.com/tech-arch1tect/basekit/testutils"
	"golang.org/x/crypto/bcrypt"
)

func TestService_Register_PasswordPolicy(t *testing.T) {
	standard := testutils.GetTestConfig().Auth
	strict := standard
	strict.RequireSpecial = true
	relaxed := config.AuthConfig{MinLength: 4, BcryptCost: bcrypt.MinCost}

	tests := []struct {
		name     string
		policy   config.AuthConfig
		password string
		reason   string
	}{
		{"accepted", standard, testutils.TestPasswords.Valid, ""},
		{"too short", standard, testutils.TestPasswords.TooShort, "password must be at least 8 characters"},
		{"no uppercase", standard, testutils.TestPasswords.NoUpper, "password must contain at least one uppercase letter"},
		{"no lowercase", standard, testutils.TestPasswords.NoLower, "password must contain at least one lowercase letter"},
		{"no number", standard, testutils.TestPasswords.NoNumber, "password must contain at least one number"},
		{"several classes missing", standard, "passwords", "password must contain at least one uppercase letter, one number"},
		{"special required and present", strict, testutils.TestPasswords.WithSpecial, ""},
		{"special required and absent", strict, testutils.TestPasswords.Valid, "password must contain at least one special character"},
		{"relaxed policy", relaxed, "abcd", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutils.GetTestConfig()
			cfg.Auth = tt.policy
			db := testutils.SetupTestDB(t, &User{}, &totp.Device{})
			service := NewService(cfg, db, nil, nil, nil)

			user, err := service.Register(context.Background(), RegisterRequest{
				Email:    "ada@example.com",
				Password: tt.password,
			})

			if tt.reason == "" {
				require.NoError(t, err)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(tt.password)))
				return
			}

			testutils.AssertErrorType(t, ErrWeakPassword, err)
			assert.Contains(t, err.Error(), tt.reason)
			assert.Nil(t, user)

			var count int64
			require.NoError(t, db.Model(&User{}).Count(&count).Error)
			assert.Zero(t, count, "rejected registration stores nothing")
		})
	}
}

func TestService_BcryptCost(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		want       int
	}{
		{"configured", bcrypt.MinCost + 1, bcrypt.MinCost + 1},
		{"below minimum", 2, bcrypt.DefaultCost},
		{"above maximum", 50, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutils.GetTestConfig()
			cfg.Auth.BcryptCost = tt.configured
			service := NewService(cfg, nil, nil, nil, nil)

			assert.Equal(t, tt.want, service.bcryptCost)
			assert.Equal(t, tt.configured, cfg.Auth.BcryptCost, "config is left as given")
		})
	}

	t.Run("applied to stored hashes", func(t *testing.T) {
		service, _ := setupAccounts(t)
		user := registerValidUser(t, service)

		cost, err := bcrypt.Cost([]byte(user.Password))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})
}

func TestService_Authenticate_CorruptHash(t *testing.T) {
	service, db := setupAccounts(t)
	user := registerValidUser(t, service)
	require.NoError(t, db.Model(&User{}).Where("id = ?", user.ID).Update("password", "not-a-bcrypt-hash").Error)

	_, err := service.Authenticate(context.Background(), user.Email, testutils.TestUsers.ValidUser.Password)

	testutils.AssertErrorType(t, ErrInvalidCredentials, err)
}
