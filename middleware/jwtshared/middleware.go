package jwtshared

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/basekit/middleware/jwt"
	"github.com/tech-arch1tect/basekit/services/auth"
)

const currentUserKey = "currentUser"

type UserProvider interface {
	GetUser(ctx context.Context, id string) (*auth.User, error)
}

// RequireUser loads the user named by the JWT claims and rejects tokens whose
// user no longer exists or has been deactivated. It must run after RequireJWT.
func RequireUser(provider UserProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := jwt.GetUserID(c)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			user, err := provider.GetUser(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, auth.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "User no longer exists")
				}
				return err
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "User account is inactive")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

func GetCurrentUser(c echo.Context) *auth.User {
	if user, ok := c.Get(currentUserKey).(*auth.User); ok {
		return user
	}
	return nil
}
