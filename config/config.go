package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	TOTP      TOTPConfig      `envPrefix:"TOTP_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Mail      MailConfig      `envPrefix:"MAIL_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"basekit"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	Host           string   `env:"HOST" envDefault:"localhost"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"app.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	MinLength          int           `env:"MIN_LENGTH" envDefault:"8"`
	RequireUpper       bool          `env:"REQUIRE_UPPER" envDefault:"true"`
	RequireLower       bool          `env:"REQUIRE_LOWER" envDefault:"true"`
	RequireNumber      bool          `env:"REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecial     bool          `env:"REQUIRE_SPECIAL" envDefault:"false"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"10"`
	LoginNotifications bool          `env:"LOGIN_NOTIFICATIONS" envDefault:"false"`
	RefreshCookieTTL   time.Duration `env:"REFRESH_COOKIE_TTL" envDefault:"720h"`
}

type JWTConfig struct {
	SecretKey     string        `env:"SECRET_KEY"`
	AccessExpiry  time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
	RefreshExpiry time.Duration `env:"REFRESH_EXPIRY" envDefault:"720h"`
	Issuer        string        `env:"ISSUER" envDefault:"basekit"`
	Algorithm     string        `env:"ALGORITHM" envDefault:"HS256"`
}

// TOTPConfig controls two-factor provisioning and verification. Window is the
// number of adjacent time steps accepted on either side of the current one.
type TOTPConfig struct {
	Enabled             bool   `env:"ENABLED" envDefault:"true"`
	Issuer              string `env:"ISSUER"`
	Window              uint   `env:"WINDOW" envDefault:"1"`
	Period              uint   `env:"PERIOD" envDefault:"30"`
	Digits              int    `env:"DIGITS" envDefault:"6"`
	SecretSize          uint   `env:"SECRET_SIZE" envDefault:"20"`
	QRSize              int    `env:"QR_SIZE" envDefault:"256"`
	DisableRequiresCode bool   `env:"DISABLE_REQUIRES_CODE" envDefault:"true"`
}

type CountingMode string

const (
	CountAll      CountingMode = "all"
	CountFailures CountingMode = "failures"
	CountSuccess  CountingMode = "success"
)

type RateLimitConfig struct {
	Store         string        `env:"STORE" envDefault:"memory"`
	LoginRate     int           `env:"LOGIN_RATE" envDefault:"5"`
	TwoFactorRate int           `env:"TWO_FACTOR_RATE" envDefault:"20"`
	Period        time.Duration `env:"PERIOD" envDefault:"1m"`
	CountMode     CountingMode  `env:"COUNT_MODE" envDefault:"all"`
}

type MailConfig struct {
	Enabled      bool   `env:"ENABLED" envDefault:"false"`
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"587"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	Encryption   string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress  string `env:"FROM_ADDRESS"`
	FromName     string `env:"FROM_NAME"`
	TemplatesDir string `env:"TEMPLATES_DIR"`
	HelpURL      string `env:"HELP_URL"`
	ResetURL     string `env:"RESET_URL"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	if c, ok := cfg.(*Config); ok {
		return Validate(c)
	}
	return nil
}

func Validate(cfg *Config) error {
	if err := validateJWTConfig(&cfg.JWT); err != nil {
		return err
	}
	if err := validateTOTPConfig(&cfg.TOTP); err != nil {
		return err
	}
	return validateRateLimitConfig(&cfg.RateLimit)
}

var weakSecretPatterns = []string{"password", "secret", "test", "example", "default", "change"}

func validateJWTConfig(cfg *JWTConfig) error {
	if len(cfg.SecretKey) < 32 {
		return fmt.Errorf("JWT secret key must be at least 32 characters long")
	}

	lower := strings.ToLower(cfg.SecretKey)
	for _, pattern := range weakSecretPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("JWT secret key contains weak patterns (%q)", pattern)
		}
	}

	if cfg.Algorithm != "" && cfg.Algorithm != "HS256" {
		return fmt.Errorf("JWT algorithm %q is not supported (supported: HS256)", cfg.Algorithm)
	}
	return nil
}

func validateTOTPConfig(cfg *TOTPConfig) error {
	if cfg.Period == 0 {
		return fmt.Errorf("TOTP period must be greater than zero")
	}
	if cfg.Digits != 6 && cfg.Digits != 8 {
		return fmt.Errorf("TOTP digits must be 6 or 8")
	}
	// 10 bytes is the 80-bit floor; 20 bytes is the RFC 4226 recommendation
	if cfg.SecretSize < 10 {
		return fmt.Errorf("TOTP secret size must be at least 10 bytes")
	}
	if cfg.Window > 10 {
		return fmt.Errorf("TOTP window cannot exceed 10 steps")
	}
	if cfg.QRSize <= 0 {
		return fmt.Errorf("TOTP QR size must be positive")
	}
	return nil
}

func validateRateLimitConfig(cfg *RateLimitConfig) error {
	switch cfg.CountMode {
	case "", CountAll, CountFailures, CountSuccess:
	default:
		return fmt.Errorf("rate limit count mode must be: all, failures, or success")
	}
	if cfg.LoginRate < 0 || cfg.TwoFactorRate < 0 {
		return fmt.Errorf("rate limit rates cannot be negative")
	}
	return nil
}
