package jwt

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/basekit/services/jwt"
)

const (
	UserIDKey = "_jwt_user_id"
	ClaimsKey = "_jwt_claims"
)

func RequireJWT(jwtService *jwt.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "JWT token required")
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrExpiredToken):
					return echo.NewHTTPError(http.StatusUnauthorized, "JWT token has expired")
				case errors.Is(err, jwt.ErrMalformedToken):
					return echo.NewHTTPError(http.StatusUnauthorized, "Malformed JWT token")
				case errors.Is(err, jwt.ErrInvalidSignature):
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid JWT token signature")
				case errors.Is(err, jwt.ErrWrongTokenType):
					return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
				default:
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid JWT token")
				}
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

func GetClaims(c echo.Context) *jwt.Claims {
	if claims, ok := c.Get(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
