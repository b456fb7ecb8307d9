package middlewares

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/models"
	"analytics-proxy/internal/plausible"
	"analytics-proxy/internal/validation"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
)

var ErrUnauthorized = errors.New("invalid or missing API key")

// HTTPError attaches a response status to an error that is otherwise unclassified.
type HTTPError struct {
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Status
}

// NewHTTPError returns an error that NormalizeError reports with status.
func NewHTTPError(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Err: fmt.Errorf(format, args...)}
}

type statusCoder interface {
	StatusCode() int
}

// NormalizeError maps err to a response status and envelope. Internal details are hidden in
// production and the stack is only returned in development.
func NormalizeError(err error, mode string) (int, models.Envelope) {
	var validationErr *validation.RequestValidationError
	if errors.As(err, &validationErr) {
		message := validationErr.Error()
		envelope := models.NewErrorEnvelope("Validation failed", message)
		if first := validationErr.First(); first != nil {
			envelope.Message = first.Error()
			envelope.Details = map[string]any{"field": first.Field()}
		}
		return http.StatusBadRequest, envelope
	}

	if errors.Is(err, ErrUnauthorized) || plausible.KindOf(err) == plausible.KindUnauthorized {
		return http.StatusUnauthorized, models.NewErrorEnvelope("Unauthorized", ErrUnauthorized.Error())
	}

	var plausibleErr *plausible.Error
	if errors.As(err, &plausibleErr) && plausibleErr.Kind != plausible.KindConfiguration {
		return http.StatusBadGateway, models.NewErrorEnvelope("External API error", plausibleErr.Message)
	}

	status := http.StatusInternalServerError
	var coder statusCoder
	if errors.As(err, &coder) && coder.StatusCode() >= 400 {
		status = coder.StatusCode()
	}

	message := err.Error()
	if mode == config.ModeProduction && status >= http.StatusInternalServerError {
		message = "Internal server error"
	}

	title := "Server error"
	if status < http.StatusInternalServerError {
		title = http.StatusText(status)
	}

	envelope := models.NewErrorEnvelope(title, message)
	if mode == config.ModeDevelopment {
		envelope.Stack = string(debug.Stack())
	}

	return status, envelope
}
