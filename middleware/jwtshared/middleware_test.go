package jwtshared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/basekit/middleware/jwt"
	"github.com/tech-arch1tect/basekit/services/auth"
)

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) GetUser(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func run(provider UserProvider, userID string) (echo.Context, error) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if userID != "" {
		c.Set(jwt.UserIDKey, userID)
	}
	err := RequireUser(provider)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return c, err
}

func TestRequireUser(t *testing.T) {
	t.Run("loads active user", func(t *testing.T) {
		provider := &MockUserProvider{}
		user := &auth.User{ID: "user-1", Email: "ada@example.com", IsActive: true}
		provider.On("GetUser", mock.Anything, "user-1").Return(user, nil)

		c, err := run(provider, "user-1")

		require.NoError(t, err)
		assert.Equal(t, user, GetCurrentUser(c))
		provider.AssertExpectations(t)
	})

	t.Run("no user id in context", func(t *testing.T) {
		provider := &MockUserProvider{}

		_, err := run(provider, "")

		var httpError *echo.HTTPError
		require.ErrorAs(t, err, &httpError)
		assert.Equal(t, http.StatusUnauthorized, httpError.Code)
		provider.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("deleted user", func(t *testing.T) {
		provider := &MockUserProvider{}
		provider.On("GetUser", mock.Anything, "user-1").Return(nil, auth.ErrUserNotFound)

		_, err := run(provider, "user-1")

		var httpError *echo.HTTPError
		require.ErrorAs(t, err, &httpError)
		assert.Equal(t, http.StatusUnauthorized, httpError.Code)
		assert.Equal(t, "User no longer exists", httpError.Message)
	})

	t.Run("inactive user", func(t *testing.T) {
		provider := &MockUserProvider{}
		provider.On("GetUser", mock.Anything, "user-1").Return(&auth.User{ID: "user-1"}, nil)

		_, err := run(provider, "user-1")

		var httpError *echo.HTTPError
		require.ErrorAs(t, err, &httpError)
		assert.Equal(t, "User account is inactive", httpError.Message)
	})

	t.Run("storage failure passes through", func(t *testing.T) {
		provider := &MockUserProvider{}
		provider.On("GetUser", mock.Anything, "user-1").Return(nil, errors.New("db down"))

		_, err := run(provider, "user-1")

		require.EqualError(t, err, "db down")
	})
}

func TestGetCurrentUser_Empty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Nil(t, GetCurrentUser(c))
}
