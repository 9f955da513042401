package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/basekit/services/logging"
	"go.uber.org/zap"
)

type Envelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

type ErrorEnvelope struct {
	Status     bool              `json:"status"`
	StatusCode int               `json:"status_code"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Respond writes the success envelope.
func Respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{
		Status:     "success",
		StatusCode: code,
		Message:    message,
		Data:       data,
	})
}

// ErrorHandler renders every error as an ErrorEnvelope. Errors that are not
// *echo.HTTPError or ValidationError become an opaque 500.
func ErrorHandler(logger *logging.Service) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := ErrorEnvelope{StatusCode: http.StatusInternalServerError}

		var validationErr ValidationError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &validationErr):
			body.StatusCode = http.StatusBadRequest
			body.Message = "Validation failed"
			body.Errors = validationErr
		case errors.As(err, &httpErr):
			body.StatusCode = httpErr.Code
			body.Message = httpMessage(httpErr)
		default:
			body.Message = http.StatusText(http.StatusInternalServerError)
		}

		if body.StatusCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(body.StatusCode)
		} else {
			writeErr = c.JSON(body.StatusCode, body)
		}
		if writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}

func httpMessage(err *echo.HTTPError) string {
	switch msg := err.Message.(type) {
	case string:
		return msg
	case error:
		return msg.Error()
	case nil:
		return http.StatusText(err.Code)
	default:
		if text := http.StatusText(err.Code); text != "" {
			return text
		}
		return "Error"
	}
}
