package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	jwtmiddleware "github.com/tech-arch1tect/basekit/middleware/jwt"
	"github.com/tech-arch1tect/basekit/middleware/jwtshared"
	"github.com/tech-arch1tect/basekit/server"
	"github.com/tech-arch1tect/basekit/services/totp"
)

// SetupTwoFactor provisions an unconfirmed device labelled with the user's
// email and returns the secret, otpauth URL and QR image.
func (h *Handler) SetupTwoFactor(c echo.Context) error {
	user := jwtshared.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	result, err := h.twoFactor.Setup(c.Request().Context(), user.ID, user.Email)
	if err != nil {
		return httpError(err)
	}

	return server.Respond(c, http.StatusCreated, "TOTP device created successfully.", SetupResponse{
		Secret:       result.Secret,
		OTPAuthURL:   result.OTPAuthURL,
		QRCodeBase64: result.QRCode,
	})
}

func (h *Handler) EnableTwoFactor(c echo.Context) error {
	var req EnableRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.transition(c, req.TOTPToken, totp.ActionEnable, "TOTP device enabled successfully.")
}

func (h *Handler) DisableTwoFactor(c echo.Context) error {
	var req DisableRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.transition(c, req.TOTPToken, totp.ActionDisable, "TOTP device disabled successfully.")
}

func (h *Handler) transition(c echo.Context, code string, action totp.Action, message string) error {
	userID := jwtmiddleware.GetUserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	device, err := h.twoFactor.Transition(c.Request().Context(), userID, code, action)
	if err != nil {
		return httpError(err)
	}

	return server.Respond(c, http.StatusAccepted, message, DeviceResponse{
		UserID:    device.UserID,
		Confirmed: device.Confirmed,
	})
}

func (h *Handler) TwoFactorStatus(c echo.Context) error {
	userID := jwtmiddleware.GetUserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	status := StatusResponse{UserID: userID}
	device, err := h.twoFactor.GetDevice(c.Request().Context(), userID)
	switch {
	case errors.Is(err, totp.ErrNotConfigured):
	case err != nil:
		return httpError(err)
	default:
		status.Configured = true
		status.Confirmed = device.Confirmed
	}

	return server.Respond(c, http.StatusOK, "2FA status retrieved successfully", status)
}
