package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/testutils"
)

const testUserID = "01920f3c-7a4e-7b1a-9c2d-3e4f5a6b7c8d"

func setupTestJWTService() *jwt.Service {
	return jwt.NewService(testutils.GetTestConfig(), nil)
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return c, err
}

func requireUnauthorized(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	httpError, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpError.Code)
	assert.Equal(t, message, httpError.Message)
}

func TestRequireJWT(t *testing.T) {
	jwtService := setupTestJWTService()
	middleware := RequireJWT(jwtService)

	t.Run("missing authorization header", func(t *testing.T) {
		_, err := runMiddleware(t, middleware, "")
		requireUnauthorized(t, err, "Authorization header required")
	})

	t.Run("invalid authorization header format", func(t *testing.T) {
		_, err := runMiddleware(t, middleware, "Token abc")
		requireUnauthorized(t, err, "Invalid authorization header format")
	})

	t.Run("empty bearer token", func(t *testing.T) {
		_, err := runMiddleware(t, middleware, "Bearer   ")
		requireUnauthorized(t, err, "JWT token required")
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := runMiddleware(t, middleware, "Bearer invalid.jwt.token")
		requireUnauthorized(t, err, "Malformed JWT token")
	})

	t.Run("expired token", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.JWT.AccessExpiry = -time.Minute
		expired, err := jwt.NewService(cfg, nil).GenerateToken(testUserID)
		require.NoError(t, err)

		_, err = runMiddleware(t, middleware, "Bearer "+expired)
		requireUnauthorized(t, err, "JWT token has expired")
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		refresh, err := jwtService.GenerateRefreshToken(testUserID)
		require.NoError(t, err)

		_, err = runMiddleware(t, middleware, "Bearer "+refresh)
		requireUnauthorized(t, err, "Access token required")
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(testUserID)
		require.NoError(t, err)

		c, err := runMiddleware(t, middleware, "Bearer "+token)

		require.NoError(t, err)
		assert.Equal(t, testUserID, GetUserID(c))
		claims := GetClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
	})
}

func TestContextAccessors(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Empty(t, GetUserID(c))
	assert.Nil(t, GetClaims(c))

	c.Set(UserIDKey, 123)
	c.Set(ClaimsKey, "not-claims")
	assert.Empty(t, GetUserID(c))
	assert.Nil(t, GetClaims(c))
}

func TestRequireJWT_Integration(t *testing.T) {
	e := echo.New()
	jwtService := setupTestJWTService()

	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"user_id": GetUserID(c)})
	}, RequireJWT(jwtService))

	token, err := jwtService.GenerateToken(testUserID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), testUserID)
}
