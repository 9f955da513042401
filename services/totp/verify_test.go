package totp

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/basekit/testutils"
)

// ASCII "12345678901234567890", the RFC 6238 SHA1 test key.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func serviceAt(now time.Time) *Service {
	return NewService(testutils.GetTestConfig(), nil, testutils.FixedClock{T: now}, nil)
}

func TestVerifyCode_RFCVectors(t *testing.T) {
	device := &Device{UserID: "user-1", Secret: rfcSecret}

	tests := []struct {
		unix int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			ok, err := serviceAt(time.Unix(tt.unix, 0)).VerifyCode(device, tt.code, 0)

			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestVerifyCode_Window(t *testing.T) {
	device := &Device{UserID: "user-1", Secret: rfcSecret}
	service := serviceAt(stepAligned)

	tests := []struct {
		name   string
		offset time.Duration
		window uint
		want   bool
	}{
		{"current step", 0, 1, true},
		{"one step behind", -30 * time.Second, 1, true},
		{"one step ahead", 30 * time.Second, 1, true},
		{"two steps behind", -60 * time.Second, 1, false},
		{"two steps ahead", 60 * time.Second, 1, false},
		{"one step behind with zero window", -30 * time.Second, 0, false},
		{"two steps ahead with window two", 60 * time.Second, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := codeAt(t, rfcSecret, stepAligned.Add(tt.offset))

			ok, err := service.VerifyCode(device, code, tt.window)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestVerifyCode_Malformed(t *testing.T) {
	device := &Device{UserID: "user-1", Secret: rfcSecret}
	service := serviceAt(stepAligned)

	for _, code := range []string{"", "12345", "1234567", "12a456", " 12345", "١٢٣٤٥٦"} {
		t.Run(code, func(t *testing.T) {
			ok, err := service.VerifyCode(device, code, 1)

			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestVerifyCode_InvalidDevice(t *testing.T) {
	service := serviceAt(stepAligned)

	_, err := service.VerifyCode(nil, "123456", 1)
	testutils.AssertErrorType(t, ErrInvalidState, err)

	_, err = service.VerifyCode(&Device{Secret: ""}, "123456", 1)
	testutils.AssertErrorType(t, ErrInvalidState, err)

	_, err = service.VerifyCode(&Device{Secret: "not base32!!"}, "123456", 1)
	testutils.AssertErrorType(t, ErrInvalidState, err)
}

func TestProvisioningURI(t *testing.T) {
	service := serviceAt(stepAligned)

	t.Run("round trips through otp key parsing", func(t *testing.T) {
		uri, err := service.ProvisioningURI(rfcSecret, "ada@example.com", "Acme")
		require.NoError(t, err)

		key, err := otp.NewKeyFromURL(uri)
		require.NoError(t, err)

		assert.Equal(t, "totp", key.Type())
		assert.Equal(t, "Acme", key.Issuer())
		assert.Equal(t, "ada@example.com", key.AccountName())
		assert.Equal(t, rfcSecret, key.Secret())
		assert.Equal(t, uint64(30), key.Period())
		assert.Equal(t, otp.DigitsSix, key.Digits())
		assert.Equal(t, otp.AlgorithmSHA1, key.Algorithm())
		assert.True(t, strings.HasPrefix(uri, "otpauth://totp/Acme:"))
	})

	t.Run("accepts lowercase and padded secrets", func(t *testing.T) {
		uri, err := service.ProvisioningURI("jbswy3dpehpk3pxp====", "ada@example.com", "Acme")
		require.NoError(t, err)

		key, err := otp.NewKeyFromURL(uri)
		require.NoError(t, err)
		assert.Equal(t, "JBSWY3DPEHPK3PXP", key.Secret())
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := service.ProvisioningURI(rfcSecret, "", "Acme")
		testutils.AssertErrorType(t, ErrInvalidArgument, err)

		_, err = service.ProvisioningURI(rfcSecret, "ada@example.com", "")
		testutils.AssertErrorType(t, ErrInvalidArgument, err)

		_, err = service.ProvisioningURI("!!!", "ada@example.com", "Acme")
		testutils.AssertErrorType(t, ErrInvalidArgument, err)

		_, err = service.ProvisioningURI("", "ada@example.com", "Acme")
		testutils.AssertErrorType(t, ErrInvalidArgument, err)
	})
}

func TestQRPayload(t *testing.T) {
	service := serviceAt(stepAligned)

	t.Run("base64 encoded PNG", func(t *testing.T) {
		payload, err := service.QRPayload("otpauth://totp/Acme:ada@example.com?secret=" + rfcSecret)
		require.NoError(t, err)

		png, err := base64.StdEncoding.DecodeString(payload)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
	})

	t.Run("empty uri", func(t *testing.T) {
		_, err := service.QRPayload("")
		testutils.AssertErrorType(t, ErrEncoding, err)
	})

	t.Run("content too long", func(t *testing.T) {
		_, err := service.QRPayload(strings.Repeat("x", 4000))
		testutils.AssertErrorType(t, ErrEncoding, err)
	})
}
