package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/basekit/services/auth"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/totp"
)

// Client-facing wording for the login-time 2FA rejections.
const (
	msgMissingCode  = "2FA is enabled for this user. Provide a valid TOTP code."
	msgInvalidState = "2FA is not enabled for this user. Proceed to enable 2FA device."
)

// httpError maps domain errors onto HTTP errors. Anything unrecognised is
// returned untouched and becomes an opaque 500 in the error handler.
func httpError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, totp.ErrStorage), errors.Is(err, totp.ErrEncoding):
		return err
	case errors.Is(err, totp.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, totp.ErrConflict.Error())
	case errors.Is(err, totp.ErrMissingCode):
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingCode)
	case errors.Is(err, totp.ErrInvalidState):
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidState)
	case errors.Is(err, totp.ErrInvalidCode):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid TOTP code")
	case errors.Is(err, totp.ErrNotConfigured):
		return echo.NewHTTPError(http.StatusBadRequest, totp.ErrNotConfigured.Error())
	case errors.Is(err, totp.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	case errors.Is(err, totp.ErrTOTPDisabled):
		return echo.NewHTTPError(http.StatusForbidden, "Two-factor authentication is disabled")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user credentials")
	case errors.Is(err, auth.ErrUserInactive):
		return echo.NewHTTPError(http.StatusForbidden, "User account is inactive")
	case errors.Is(err, auth.ErrWeakPassword):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "User with this email already exists")
	case errors.Is(err, auth.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, jwt.ErrExpiredToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token has expired")
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrMalformedToken),
		errors.Is(err, jwt.ErrInvalidSignature), errors.Is(err, jwt.ErrWrongTokenType):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	default:
		return err
	}
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}
