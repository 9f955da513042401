package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/basekit/middleware/jwtshared"
	"github.com/tech-arch1tect/basekit/server"
)

func (h *Handler) Me(c echo.Context) error {
	user := jwtshared.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return server.Respond(c, http.StatusOK, "User details retrieved successfully", newUserResponse(user))
}

// DeleteMe removes the account together with its TOTP device.
func (h *Handler) DeleteMe(c echo.Context) error {
	user := jwtshared.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	if err := h.accounts.DeleteAccount(c.Request().Context(), user.ID); err != nil {
		return httpError(err)
	}

	clearRefreshCookie(c)
	return server.Respond(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *Handler) Health(c echo.Context) error {
	return server.Respond(c, http.StatusOK, "ok", nil)
}
