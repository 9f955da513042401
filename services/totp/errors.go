package totp

import "errors"

var (
	ErrTOTPDisabled    = errors.New("TOTP is disabled")
	ErrConflict        = errors.New("totp device for this user already exists")
	ErrNotConfigured   = errors.New("2FA is not set up for this user")
	ErrInvalidCode     = errors.New("invalid TOTP code")
	ErrInvalidState    = errors.New("2FA is not enabled for this user")
	ErrMissingCode     = errors.New("2FA is enabled for this user, a TOTP code is required")
	ErrStorage         = errors.New("totp device storage failure")
	ErrEncoding        = errors.New("failed to encode QR code")
	ErrInvalidArgument = errors.New("invalid argument")
)
