package testutils

import (
	"time"

	"github.com/tech-arch1tect/basekit/config"
	"golang.org/x/crypto/bcrypt"
)

// TestJWTSecret passes config validation.
const TestJWTSecret = "k9Xq2vLr7Tz4Wm8Np3Hs6Jd1Fb5Gc0Ya"

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Test App",
			URL:  "http://localhost:8080",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "0",
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Auth: config.AuthConfig{
			MinLength:        8,
			RequireUpper:     true,
			RequireLower:     true,
			RequireNumber:    true,
			RequireSpecial:   false,
			BcryptCost:       bcrypt.MinCost,
			RefreshCookieTTL: 720 * time.Hour,
		},
		JWT: config.JWTConfig{
			SecretKey:     TestJWTSecret,
			Algorithm:     "HS256",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 720 * time.Hour,
			Issuer:        "test-issuer",
		},
		TOTP: config.TOTPConfig{
			Enabled:             true,
			Issuer:              "Test App",
			Window:              1,
			Period:              30,
			Digits:              6,
			SecretSize:          20,
			QRSize:              256,
			DisableRequiresCode: true,
		},
		RateLimit: config.RateLimitConfig{
			Store:         "memory",
			LoginRate:     5,
			TwoFactorRate: 20,
			Period:        time.Minute,
			CountMode:     config.CountAll,
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
	}
}

var TestPasswords = struct {
	Valid       string
	TooShort    string
	NoUpper     string
	NoLower     string
	NoNumber    string
	WithSpecial string
}{
	Valid:       "Password123",
	TooShort:    "Pass1",
	NoUpper:     "password123",
	NoLower:     "PASSWORD123",
	NoNumber:    "Password",
	WithSpecial: "Password123!",
}

type TestUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

var TestUsers = struct {
	ValidUser    TestUser
	InvalidEmail TestUser
}{
	ValidUser: TestUser{
		Email:     "ada@example.com",
		Password:  "Password123",
		FirstName: "Ada",
		LastName:  "Lovelace",
	},
	InvalidEmail: TestUser{
		Email:     "invalid-email",
		Password:  "Password123",
		FirstName: "Grace",
		LastName:  "Hopper",
	},
}

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}
