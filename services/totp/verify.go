package totp

import (
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// ProvisioningURI builds the otpauth:// URI for an existing secret. It does
// not touch storage.
func (s *Service) ProvisioningURI(secret, accountLabel, issuer string) (string, error) {
	if accountLabel == "" {
		return "", fmt.Errorf("%w: account label is required", ErrInvalidArgument)
	}
	if issuer == "" {
		return "", fmt.Errorf("%w: issuer is required", ErrInvalidArgument)
	}

	raw, err := decodeSecret(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountLabel,
		Period:      s.period(),
		SecretSize:  uint(len(raw)),
		Secret:      raw,
		Digits:      s.digits(),
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return key.URL(), nil
}

// QRPayload renders uri as a PNG QR code and returns it base64 encoded.
func (s *Service) QRPayload(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("%w: empty uri", ErrEncoding)
	}

	size := s.config.TOTP.QRSize
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(uri, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// VerifyCode checks code against the device secret, accepting window time
// steps either side of now. Malformed codes are a mismatch, not an error.
func (s *Service) VerifyCode(device *Device, code string, window uint) (bool, error) {
	if device == nil || device.Secret == "" {
		return false, ErrInvalidState
	}
	if _, err := decodeSecret(device.Secret); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if !wellFormed(code, s.digits().Length()) {
		return false, nil
	}

	ok, err := totp.ValidateCustom(code, device.Secret, s.clock.Now().UTC(), totp.ValidateOpts{
		Period:    s.period(),
		Skew:      window,
		Digits:    s.digits(),
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		if errors.Is(err, otp.ErrValidateInputInvalidLength) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return ok, nil
}

func wellFormed(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func decodeSecret(secret string) ([]byte, error) {
	cleaned := strings.ToUpper(strings.TrimRight(strings.TrimSpace(secret), "="))
	if cleaned == "" {
		return nil, errors.New("secret is empty")
	}
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("secret is not valid base32: %w", err)
	}
	return raw, nil
}
