package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid JWT token")
	ErrExpiredToken     = errors.New("JWT token has expired")
	ErrMalformedToken   = errors.New("malformed JWT token")
	ErrInvalidSignature = errors.New("invalid JWT token signature")
	ErrWrongTokenType   = errors.New("JWT token has the wrong type")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

type Service struct {
	config *config.Config
	logger *logging.Service
	now    func() time.Time
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetAccessExpirySeconds() int {
	return int(s.config.JWT.AccessExpiry.Seconds())
}

func (s *Service) GetRefreshExpirySeconds() int {
	return int(s.config.JWT.RefreshExpiry.Seconds())
}

func (s *Service) GenerateToken(userID string) (string, error) {
	return s.sign(userID, TokenTypeAccess, s.config.JWT.AccessExpiry)
}

func (s *Service) GenerateRefreshToken(userID string) (string, error) {
	return s.sign(userID, TokenTypeRefresh, s.config.JWT.RefreshExpiry)
}

// IssueTokens returns a fresh access and refresh token for userID.
func (s *Service) IssueTokens(userID string) (*TokenPair, error) {
	access, err := s.GenerateToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.GetAccessExpirySeconds(),
	}, nil
}

func (s *Service) sign(userID, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.config.JWT.Issuer,
			Subject:   userID,
			Audience:  []string{s.config.JWT.Issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.JWT.SecretKey))
	if err != nil {
		s.logger.Error("failed to sign JWT token",
			zap.Error(err),
			zap.String("token_type", tokenType))
		return "", fmt.Errorf("failed to generate JWT %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

// ValidateToken verifies signature and expiry and returns the claims of an
// access token. Refresh tokens are rejected.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeAccess)
}

func (s *Service) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeRefresh)
}

func (s *Service) validate(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() == "none" {
			return nil, errors.New("'none' algorithm is not allowed")
		}

		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected algorithm: expected HS256, got %s", token.Method.Alg())
		}

		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid algorithm family: %v", token.Header["alg"])
		}

		return []byte(s.config.JWT.SecretKey), nil
	},
		jwt.WithIssuer(s.config.JWT.Issuer),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		s.logger.Warn("JWT token validation failed", zap.Error(err))

		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		s.logger.Warn("JWT token validation failed - wrong token type",
			zap.String("expected", wantType),
			zap.String("actual", claims.TokenType))
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (s *Service) RefreshToken(refreshTokenString string) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshTokenString)
	if err != nil {
		return nil, err
	}

	return s.IssueTokens(claims.UserID)
}
