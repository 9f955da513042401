package handlers

import (
	"net/http"

	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/openapi"
	"github.com/tech-arch1tect/basekit/server"
)

const (
	bearerScheme  = "bearerAuth"
	refreshScheme = "refreshCookie"
)

type envelope[T any] struct {
	Status     string `json:"status" example:"success"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
}

type emptyEnvelope struct {
	Status     string `json:"status" example:"success"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// NewDocs describes the routes mounted by Routes.Mount.
func NewDocs(cfg *config.Config) *openapi.Document {
	doc := openapi.New(cfg.App.Name+" API", "1.0.0").
		Description("Account, token and TOTP two-factor endpoints.").
		Tag("auth", "Registration, login and tokens").
		Tag("2fa", "TOTP two-factor authentication").
		Tag("users", "The signed-in account").
		BearerAuth(bearerScheme, "Access token from login or register").
		CookieAuth(refreshScheme, refreshCookieName, "HttpOnly refresh token cookie")

	if cfg.TOTP.Digits > 0 {
		doc.CodeDigits(cfg.TOTP.Digits)
	}
	if cfg.App.URL != "" {
		doc.Server(cfg.App.URL, cfg.App.Name)
	}

	errBody := server.ErrorEnvelope{}

	doc.Route(http.MethodPost, APIPrefix+"/auth/register").
		Summary("Register a new account").
		Tags("auth").
		Body(RegisterRequest{}, "Account details").
		Response(http.StatusCreated, envelope[AuthResponse]{}, "Account created, refresh cookie set").
		Errors(errBody, map[int]string{
			http.StatusBadRequest:      "Validation failed or weak password",
			http.StatusConflict:        "Email already registered",
			http.StatusTooManyRequests: "Rate limit exceeded",
		}).
		Build()

	doc.Route(http.MethodPost, APIPrefix+"/auth/login").
		Summary("Log in").
		Description("A TOTP code is required once 2FA is enabled and rejected before it is.").
		Tags("auth").
		Body(LoginRequest{}, "Credentials").
		Response(http.StatusOK, envelope[AuthResponse]{}, "Logged in, refresh cookie set").
		Errors(errBody, map[int]string{
			http.StatusBadRequest:      "Invalid credentials or 2FA rejection",
			http.StatusForbidden:       "Account inactive",
			http.StatusTooManyRequests: "Rate limit exceeded",
		}).
		Build()

	doc.Route(http.MethodPost, APIPrefix+"/auth/refresh").
		Summary("Exchange a refresh token").
		Tags("auth").
		CookieParam(refreshCookieName, "Refresh token").
		Body(RefreshRequest{}, "Optional body when the cookie is not sent").
		Response(http.StatusOK, envelope[TokenResponse]{}, "New token pair").
		Errors(errBody, map[int]string{http.StatusUnauthorized: "Missing, expired or invalid refresh token, or the user is gone"}).
		Build()

	doc.Route(http.MethodPost, APIPrefix+"/auth/logout").
		Summary("Log out").
		Description("Clears the refresh token cookie.").
		Tags("auth").
		Security(bearerScheme).
		Response(http.StatusOK, emptyEnvelope{}, "Logged out, refresh cookie cleared").
		Errors(errBody, map[int]string{
			http.StatusUnauthorized:    "Not authenticated",
			http.StatusTooManyRequests: "Rate limit exceeded",
		}).
		Build()

	doc.Route(http.MethodPost, APIPrefix+"/auth/setup-2fa").
		Summary("Provision a TOTP device").
		Tags("2fa").
		Security(bearerScheme).
		Response(http.StatusCreated, envelope[SetupResponse]{}, "Device created, awaiting confirmation").
		Errors(errBody, map[int]string{
			http.StatusUnauthorized: "Not authenticated",
			http.StatusConflict:     "Device already exists",
			http.StatusForbidden:    "TOTP disabled",
		}).
		Build()

	doc.Route(http.MethodPut, APIPrefix+"/auth/enable-2fa").
		Summary("Confirm the TOTP device").
		Tags("2fa").
		Security(bearerScheme).
		Body(EnableRequest{}, "Current code from the authenticator app").
		Response(http.StatusAccepted, envelope[DeviceResponse]{}, "2FA enabled").
		Errors(errBody, map[int]string{
			http.StatusBadRequest:   "Invalid code or no device",
			http.StatusUnauthorized: "Not authenticated",
		}).
		Build()

	doc.Route(http.MethodPut, APIPrefix+"/auth/disable-2fa").
		Summary("Disable the TOTP device").
		Tags("2fa").
		Security(bearerScheme).
		Body(DisableRequest{}, "Current code from the authenticator app").
		Response(http.StatusAccepted, envelope[DeviceResponse]{}, "2FA disabled").
		Errors(errBody, map[int]string{
			http.StatusBadRequest:   "Invalid code or no device",
			http.StatusUnauthorized: "Not authenticated",
		}).
		Build()

	doc.Route(http.MethodGet, APIPrefix+"/auth/2fa-status").
		Summary("Report the TOTP device state").
		Tags("2fa").
		Security(bearerScheme).
		Response(http.StatusOK, envelope[StatusResponse]{}, "Device state").
		Errors(errBody, map[int]string{http.StatusUnauthorized: "Not authenticated"}).
		Build()

	doc.Route(http.MethodGet, APIPrefix+"/users/me").
		Summary("Current user").
		Tags("users").
		Security(bearerScheme).
		Response(http.StatusOK, envelope[UserResponse]{}, "The signed-in user").
		Errors(errBody, map[int]string{http.StatusUnauthorized: "Not authenticated"}).
		Build()

	doc.Route(http.MethodDelete, APIPrefix+"/users/me").
		Summary("Delete the account").
		Description("Removes the user and their TOTP device.").
		Tags("users").
		Security(bearerScheme).
		Response(http.StatusOK, emptyEnvelope{}, "Account deleted").
		Errors(errBody, map[int]string{http.StatusUnauthorized: "Not authenticated"}).
		Build()

	doc.Route(http.MethodGet, "/healthz").
		Summary("Liveness probe").
		Response(http.StatusOK, emptyEnvelope{}, "Alive").
		Build()

	return doc
}
