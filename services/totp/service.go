package totp

import (
	"context"
	"errors"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/zap"
)

// Action selects the direction of a confirmation transition.
type Action int

const (
	ActionEnable Action = iota + 1
	ActionDisable
)

func (a Action) String() string {
	switch a {
	case ActionEnable:
		return "enable"
	case ActionDisable:
		return "disable"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

type Service struct {
	config *config.Config
	store  Store
	clock  Clock
	logger *logging.Service
}

func NewService(cfg *config.Config, store Store, clock Clock, logger *logging.Service) *Service {
	if clock == nil {
		clock = SystemClock{}
	}

	logger.Info("initializing TOTP service",
		zap.Bool("enabled", cfg.TOTP.Enabled),
		zap.String("issuer", issuerName(cfg)),
		zap.Uint("window", cfg.TOTP.Window))

	return &Service{
		config: cfg,
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Issuer is the name shown by authenticator apps.
func (s *Service) Issuer() string {
	return issuerName(s.config)
}

func issuerName(cfg *config.Config) string {
	if cfg.TOTP.Issuer != "" {
		return cfg.TOTP.Issuer
	}
	if cfg.App.Name != "" {
		return cfg.App.Name
	}
	return "basekit"
}

func (s *Service) GetDevice(ctx context.Context, userID string) (*Device, error) {
	device, err := s.store.GetDevice(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load totp device",
			zap.Error(err),
			zap.String("user_id", userID))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if device == nil {
		return nil, ErrNotConfigured
	}
	return device, nil
}

// Create provisions an unconfirmed device with a fresh secret.
func (s *Service) Create(ctx context.Context, userID string) (*Device, error) {
	if err := s.checkProvisioning(ctx, userID); err != nil {
		return nil, err
	}

	secret, err := s.generateSecret(userID)
	if err != nil {
		return nil, err
	}

	return s.insert(ctx, userID, secret)
}

// Setup provisions a device and returns everything an authenticator app
// needs. The URI and QR image are rendered before the device is stored.
func (s *Service) Setup(ctx context.Context, userID, accountLabel string) (*SetupResult, error) {
	if err := s.checkProvisioning(ctx, userID); err != nil {
		return nil, err
	}

	secret, err := s.generateSecret(userID)
	if err != nil {
		return nil, err
	}

	uri, err := s.ProvisioningURI(secret, accountLabel, s.Issuer())
	if err != nil {
		return nil, err
	}

	qr, err := s.QRPayload(uri)
	if err != nil {
		s.logger.Error("failed to render totp QR code",
			zap.Error(err),
			zap.String("user_id", userID))
		return nil, err
	}

	device, err := s.insert(ctx, userID, secret)
	if err != nil {
		return nil, err
	}

	return &SetupResult{
		Device:     device,
		Secret:     secret,
		OTPAuthURL: uri,
		QRCode:     qr,
	}, nil
}

func (s *Service) checkProvisioning(ctx context.Context, userID string) error {
	if !s.config.TOTP.Enabled {
		s.logger.Warn("totp provisioning attempted but TOTP is disabled",
			zap.String("user_id", userID))
		return ErrTOTPDisabled
	}
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}

	existing, err := s.store.GetDevice(ctx, userID)
	if err != nil {
		s.logger.Error("failed to check existing totp device",
			zap.Error(err),
			zap.String("user_id", userID))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if existing != nil {
		s.logger.Info("totp provisioning rejected, device already exists",
			zap.String("user_id", userID))
		return ErrConflict
	}
	return nil
}

func (s *Service) generateSecret(userID string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer(),
		AccountName: userID,
		Period:      s.period(),
		SecretSize:  s.config.TOTP.SecretSize,
		Digits:      s.digits(),
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		s.logger.Error("totp secret generation failed",
			zap.Error(err),
			zap.String("user_id", userID))
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return key.Secret(), nil
}

func (s *Service) insert(ctx context.Context, userID, secret string) (*Device, error) {
	device, err := s.store.InsertDevice(ctx, &Device{
		UserID:    userID,
		Secret:    secret,
		Confirmed: false,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.Info("totp provisioning lost a concurrent create",
				zap.String("user_id", userID))
			return nil, ErrConflict
		}
		s.logger.Error("failed to store totp device",
			zap.Error(err),
			zap.String("user_id", userID))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.logger.Info("totp device provisioned",
		zap.String("user_id", userID),
		zap.Uint("device_id", device.ID))
	return device, nil
}

// SetConfirmed persists the confirmation flag and returns the stored row.
// The passed device is left untouched.
func (s *Service) SetConfirmed(ctx context.Context, device *Device, confirmed bool) (*Device, error) {
	if device == nil {
		return nil, ErrInvalidState
	}

	update := *device
	update.Confirmed = confirmed

	stored, err := s.store.UpdateDevice(ctx, &update)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, ErrNotConfigured
		}
		s.logger.Error("failed to update totp device",
			zap.Error(err),
			zap.String("user_id", device.UserID),
			zap.Bool("confirmed", confirmed))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return stored, nil
}

// Transition flips the confirmation flag after checking the code. Disabling
// skips the code check when TOTP_DISABLE_REQUIRES_CODE is false.
func (s *Service) Transition(ctx context.Context, userID, code string, action Action) (*Device, error) {
	if action != ActionEnable && action != ActionDisable {
		return nil, fmt.Errorf("%w: unknown action %s", ErrInvalidArgument, action)
	}

	device, err := s.GetDevice(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			s.logger.Info("totp transition rejected, no device",
				zap.String("user_id", userID),
				zap.Stringer("action", action))
		}
		return nil, err
	}

	if action == ActionEnable || s.config.TOTP.DisableRequiresCode {
		ok, err := s.VerifyCode(device, code, s.config.TOTP.Window)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Info("totp transition rejected, invalid code",
				zap.String("user_id", userID),
				zap.Stringer("action", action))
			return nil, ErrInvalidCode
		}
	}

	updated, err := s.SetConfirmed(ctx, device, action == ActionEnable)
	if err != nil {
		return nil, err
	}

	s.logger.Info("totp device transitioned",
		zap.String("user_id", userID),
		zap.Stringer("action", action),
		zap.Bool("confirmed", updated.Confirmed))
	return updated, nil
}

// Delete removes the user's device. Deleting a missing device is a no-op.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.store.DeleteDevice(ctx, userID); err != nil {
		s.logger.Error("failed to delete totp device",
			zap.Error(err),
			zap.String("user_id", userID))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.logger.Info("totp device deleted", zap.String("user_id", userID))
	return nil
}

func (s *Service) digits() otp.Digits {
	if s.config.TOTP.Digits == 8 {
		return otp.DigitsEight
	}
	return otp.DigitsSix
}

func (s *Service) period() uint {
	if s.config.TOTP.Period == 0 {
		return 30
	}
	return s.config.TOTP.Period
}
