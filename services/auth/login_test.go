package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	otptotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/basekit/services/jwt"
	"github.com/tech-arch1tect/basekit/services/mail"
	"github.com/tech-arch1tect/basekit/services/totp"
	"github.com/tech-arch1tect/basekit/testutils"
)

var loginTime = time.Unix(1700000010, 0).UTC()

type MockTwoFactorChecker struct {
	mock.Mock
}

func (m *MockTwoFactorChecker) CheckLoginRequirement(ctx context.Context, userID, code string) (totp.Outcome, error) {
	args := m.Called(ctx, userID, code)
	return args.Get(0).(totp.Outcome), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssueTokens(userID string) (*jwt.TokenPair, error) {
	args := m.Called(userID)
	pair, _ := args.Get(0).(*jwt.TokenPair)
	return pair, args.Error(1)
}

type recordingNotifier struct {
	sent chan mail.LoginNotification
	err  error
}

func (r *recordingNotifier) SendLoginNotification(_ context.Context, n mail.LoginNotification) error {
	r.sent <- n
	return r.err
}

type loginFixture struct {
	service *Service
	totp    *totp.Service
	user    *User
}

func newLoginFixture(t *testing.T) loginFixture {
	t.Helper()
	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &User{}, &totp.Device{})
	totpService := totp.NewService(cfg, totp.NewGormStore(db), testutils.FixedClock{T: loginTime}, nil)
	service := NewService(cfg, db, totpService, jwt.NewService(cfg, nil), nil)
	return loginFixture{
		service: service,
		totp:    totpService,
		user:    registerValidUser(t, service),
	}
}

func (f loginFixture) login(code string) (*LoginResult, error) {
	return f.service.Login(context.Background(), LoginRequest{
		Email:     testutils.TestUsers.ValidUser.Email,
		Password:  testutils.TestUsers.ValidUser.Password,
		TOTPCode:  code,
		IPAddress: "203.0.113.7",
		UserAgent: "curl/8.0",
	})
}

func TestService_Login_WithoutTwoFactor(t *testing.T) {
	f := newLoginFixture(t)

	result, err := f.login("")

	require.NoError(t, err)
	assert.Equal(t, f.user.ID, result.User.ID)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestService_Login_TwoFactorScenario(t *testing.T) {
	ctx := context.Background()
	f := newLoginFixture(t)

	setup, err := f.totp.Setup(ctx, f.user.ID, f.user.Email)
	require.NoError(t, err)
	code, err := otptotp.GenerateCode(setup.Secret, loginTime)
	require.NoError(t, err)

	t.Run("unconfirmed device without code proceeds", func(t *testing.T) {
		_, err := f.login("")
		assert.NoError(t, err)
	})

	t.Run("unconfirmed device with code is rejected", func(t *testing.T) {
		result, err := f.login(code)
		assert.Nil(t, result)
		testutils.AssertErrorType(t, totp.ErrInvalidState, err)
	})

	_, err = f.totp.Transition(ctx, f.user.ID, code, totp.ActionEnable)
	require.NoError(t, err)

	t.Run("confirmed device without code", func(t *testing.T) {
		result, err := f.login("")
		assert.Nil(t, result)
		testutils.AssertErrorType(t, totp.ErrMissingCode, err)
	})

	t.Run("confirmed device with wrong code", func(t *testing.T) {
		wrong := "000000"
		if wrong == code {
			wrong = "111111"
		}
		result, err := f.login(wrong)
		assert.Nil(t, result)
		testutils.AssertErrorType(t, totp.ErrInvalidCode, err)
	})

	t.Run("confirmed device with valid code", func(t *testing.T) {
		result, err := f.login(code)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Tokens.AccessToken)
	})
}

func TestService_Login_NoTokensOnRejection(t *testing.T) {
	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &User{}, &totp.Device{})
	checker := &MockTwoFactorChecker{}
	issuer := &MockTokenIssuer{}
	service := NewService(cfg, db, checker, issuer, nil)
	user := registerValidUser(t, service)

	checker.On("CheckLoginRequirement", mock.Anything, user.ID, "").Return(totp.OutcomeMissingCode, nil).Once()

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: testutils.TestUsers.ValidUser.Password,
	})

	testutils.AssertErrorType(t, totp.ErrMissingCode, err)
	checker.AssertExpectations(t)
	issuer.AssertNotCalled(t, "IssueTokens", mock.Anything)
}

func TestService_Login_Failures(t *testing.T) {
	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &User{}, &totp.Device{})
	checker := &MockTwoFactorChecker{}
	issuer := &MockTokenIssuer{}
	service := NewService(cfg, db, checker, issuer, nil)
	user := registerValidUser(t, service)
	req := LoginRequest{Email: user.Email, Password: testutils.TestUsers.ValidUser.Password}

	t.Run("wrong password skips 2FA check", func(t *testing.T) {
		_, err := service.Login(context.Background(), LoginRequest{Email: user.Email, Password: "WrongPassword1"})

		testutils.AssertErrorType(t, ErrInvalidCredentials, err)
		checker.AssertNotCalled(t, "CheckLoginRequirement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("2FA storage failure", func(t *testing.T) {
		checker.On("CheckLoginRequirement", mock.Anything, user.ID, "").Return(totp.Outcome(0), totp.ErrStorage).Once()

		_, err := service.Login(context.Background(), req)

		testutils.AssertErrorType(t, totp.ErrStorage, err)
	})

	t.Run("token issuance failure", func(t *testing.T) {
		checker.On("CheckLoginRequirement", mock.Anything, user.ID, "").Return(totp.OutcomeProceed, nil).Once()
		issuer.On("IssueTokens", user.ID).Return(nil, errors.New("signing failed")).Once()

		_, err := service.Login(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to issue tokens")
	})
}

func TestService_Login_Notification(t *testing.T) {
	t.Run("sent in background when enabled", func(t *testing.T) {
		f := newLoginFixture(t)
		f.service.config.Auth.LoginNotifications = true
		notifier := &recordingNotifier{sent: make(chan mail.LoginNotification, 1), err: errors.New("smtp down")}
		f.service.SetLoginNotifier(notifier)

		_, err := f.login("")
		require.NoError(t, err)
		f.service.Wait()

		select {
		case n := <-notifier.sent:
			assert.Equal(t, f.user.Email, n.Email)
			assert.Equal(t, "203.0.113.7", n.IPAddress)
			assert.Equal(t, "curl/8.0", n.UserAgent)
			assert.False(t, n.Time.IsZero())
		default:
			t.Fatal("expected a login notification")
		}
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		f := newLoginFixture(t)
		notifier := &recordingNotifier{sent: make(chan mail.LoginNotification, 1)}
		f.service.SetLoginNotifier(notifier)

		_, err := f.login("")
		require.NoError(t, err)
		f.service.Wait()

		assert.Empty(t, notifier.sent)
	})
}
