package handlers

import (
	"time"

	"github.com/tech-arch1tect/basekit/services/auth"
	"github.com/tech-arch1tect/basekit/services/jwt"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255" example:"ada@example.com"`
	Password  string `json:"password" validate:"required,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100" example:"Ada"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=100" example:"Lovelace"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required"`
	TOTPCode string `json:"totp_code,omitempty" validate:"omitempty,totp_code" doc:"Required once 2FA is enabled; must be absent before"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty" doc:"Used when the refresh_token cookie is absent"`
}

type EnableRequest struct {
	TOTPToken string `json:"totp_token" validate:"required,totp_code" example:"123456"`
}

type DisableRequest struct {
	TOTPToken string `json:"totp_token,omitempty" validate:"omitempty,totp_code" example:"123456"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int    `json:"expires_in" doc:"Access token lifetime in seconds"`
}

type AuthResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}

type SetupResponse struct {
	Secret       string `json:"secret"`
	OTPAuthURL   string `json:"otpauth_url"`
	QRCodeBase64 string `json:"qrcode_base64" doc:"PNG image, base64 encoded"`
}

type DeviceResponse struct {
	UserID    string `json:"user_id"`
	Confirmed bool   `json:"confirmed"`
}

type StatusResponse struct {
	UserID     string `json:"user_id"`
	Configured bool   `json:"configured"`
	Confirmed  bool   `json:"confirmed"`
}

func newUserResponse(u *auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func newTokenResponse(p *jwt.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken: p.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   p.ExpiresIn,
	}
}
