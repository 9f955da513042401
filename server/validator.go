package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/tech-arch1tect/basekit/config"
)

const defaultCodeDigits = 6

var ErrTranslatorNotFound = errors.New("translator not found")

// ValidationError maps JSON field names to readable messages.
type ValidationError map[string]string

func (ve ValidationError) Error() string {
	if len(ve) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(map[string]string(ve))
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Validator plugs go-playground/validator into echo.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// ProvideValidator sizes the "totp_code" rule from the TOTP configuration.
func ProvideValidator(cfg *config.Config) (*Validator, error) {
	return NewValidator(cfg.TOTP.Digits)
}

// NewValidator builds a validator whose "totp_code" rule accepts exactly
// codeDigits ASCII digits; zero or less means six.
func NewValidator(codeDigits int) (*Validator, error) {
	if codeDigits <= 0 {
		codeDigits = defaultCodeDigits
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if err := registerTOTPCode(validate, trans, codeDigits); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: trans}, nil
}

func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func registerTOTPCode(validate *validator.Validate, trans ut.Translator, digits int) error {
	err := validate.RegisterValidation("totp_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != digits {
			return false
		}
		for i := 0; i < len(code); i++ {
			if code[i] < '0' || code[i] > '9' {
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation("totp_code", trans,
		func(ut ut.Translator) error {
			return ut.Add("totp_code", "{0} must be {1} digits", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(fe.Tag(), fe.Field(), strconv.Itoa(digits))
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}
