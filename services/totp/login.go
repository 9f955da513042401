package totp

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Outcome is the result of the login-time 2FA check.
type Outcome int

const (
	OutcomeProceed Outcome = iota + 1
	OutcomeMissingCode
	OutcomeInvalidState
	OutcomeInvalidCode
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProceed:
		return "proceed"
	case OutcomeMissingCode:
		return "missing_code"
	case OutcomeInvalidState:
		return "invalid_state"
	case OutcomeInvalidCode:
		return "invalid_code"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Err returns nil for OutcomeProceed and the matching sentinel otherwise.
func (o Outcome) Err() error {
	switch o {
	case OutcomeProceed:
		return nil
	case OutcomeMissingCode:
		return ErrMissingCode
	case OutcomeInvalidCode:
		return ErrInvalidCode
	default:
		return ErrInvalidState
	}
}

// CheckLoginRequirement decides whether a password-authenticated user may
// receive tokens. A confirmed device demands a valid code; an unconfirmed
// one must not be sent a code. The error is reserved for storage failures.
func (s *Service) CheckLoginRequirement(ctx context.Context, userID, code string) (Outcome, error) {
	device, err := s.store.GetDevice(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load totp device for login",
			zap.Error(err),
			zap.String("user_id", userID))
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	outcome, err := s.loginOutcome(device, code)
	if err != nil {
		return 0, err
	}

	if outcome != OutcomeProceed {
		s.logger.Info("login rejected by 2FA check",
			zap.String("user_id", userID),
			zap.Stringer("outcome", outcome))
	}
	return outcome, nil
}

func (s *Service) loginOutcome(device *Device, code string) (Outcome, error) {
	switch {
	case device == nil:
		return OutcomeProceed, nil
	case !device.Confirmed && code == "":
		return OutcomeProceed, nil
	case !device.Confirmed:
		return OutcomeInvalidState, nil
	case code == "":
		return OutcomeMissingCode, nil
	}

	ok, err := s.VerifyCode(device, code, s.config.TOTP.Window)
	if err != nil {
		return 0, err
	}
	if !ok {
		return OutcomeInvalidCode, nil
	}
	return OutcomeProceed, nil
}
