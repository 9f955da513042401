package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/basekit/server"
	"github.com/tech-arch1tect/basekit/services/auth"
	"go.uber.org/zap"
)

const refreshCookieName = "refresh_token"

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), auth.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return httpError(err)
	}

	tokens, err := h.tokens.IssueTokens(user.ID)
	if err != nil {
		h.logger.Error("failed to issue tokens after registration", zap.Error(err), zap.String("user_id", user.ID))
		return err
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return server.Respond(c, http.StatusCreated, "User created successfully", AuthResponse{
		User:  newUserResponse(user),
		Token: newTokenResponse(tokens),
	})
}

// Login checks the user's 2FA state before any token is issued; every 2FA
// rejection is a 400 with a readable reason.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.accounts.Login(c.Request().Context(), auth.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		TOTPCode:  req.TOTPCode,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return httpError(err)
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return server.Respond(c, http.StatusOK, "Login successful", AuthResponse{
		User:  newUserResponse(result.User),
		Token: newTokenResponse(result.Tokens),
	})
}

// Refresh exchanges a refresh token from the cookie, or the body when the
// cookie is absent, for a new token pair. The token's user must still exist
// and be active.
func (h *Handler) Refresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req RefreshRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}
		token = strings.TrimSpace(req.RefreshToken)
	}
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token required")
	}

	claims, err := h.tokens.ValidateRefreshToken(token)
	if err != nil {
		return httpError(err)
	}
	if err := h.ensureActive(c, claims.UserID); err != nil {
		return err
	}

	tokens, err := h.tokens.RefreshToken(token)
	if err != nil {
		return httpError(err)
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return server.Respond(c, http.StatusOK, "Token refreshed successfully", newTokenResponse(tokens))
}

// Logout clears the refresh cookie. Issued access tokens stay valid until
// they expire.
func (h *Handler) Logout(c echo.Context) error {
	clearRefreshCookie(c)
	return server.Respond(c, http.StatusOK, "User logged out successfully", nil)
}

func (h *Handler) ensureActive(c echo.Context, userID string) error {
	user, err := h.accounts.GetUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "User no longer exists")
		}
		return err
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "User account is inactive")
	}
	return nil
}

func (h *Handler) setRefreshCookie(c echo.Context, value string) {
	ttl := h.config.Auth.RefreshCookieTTL
	if ttl <= 0 {
		ttl = h.config.JWT.RefreshExpiry
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
