package plausible

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// Kind classifies a failed call to the Plausible API.
type Kind string

const (
	KindUnauthorized  Kind = "unauthorized"
	KindQuotaExceeded Kind = "quota_exceeded"
	KindNotFound      Kind = "not_found"
	KindInvalidQuery  Kind = "invalid_query"
	KindRateLimited   Kind = "rate_limited"
	KindUpstream      Kind = "upstream"
	KindUnreachable   Kind = "unreachable"
	KindConfiguration Kind = "configuration"
)

// Error is returned by every Client method that fails.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or an empty Kind when err did not come from the client.
func KindOf(err error) Kind {
	var plausibleErr *Error
	if errors.As(err, &plausibleErr) {
		return plausibleErr.Kind
	}
	return ""
}

type errorBody struct {
	Error string `json:"error"`
}

// errorFromResponse maps a non-2xx provider response to an *Error.
func errorFromResponse(status int, body []byte) *Error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, StatusCode: status, Message: "invalid or unauthorized API key"}
	case http.StatusPaymentRequired:
		return &Error{Kind: KindQuotaExceeded, StatusCode: status, Message: "request quota exceeded for your plan"}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, StatusCode: status, Message: "site not found or not accessible"}
	case http.StatusUnprocessableEntity:
		return &Error{Kind: KindInvalidQuery, StatusCode: status, Message: "invalid query parameters"}
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, StatusCode: status, Message: "too many requests - rate limit exceeded"}
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return &Error{Kind: KindUpstream, StatusCode: status, Message: parsed.Error}
	}

	return &Error{Kind: KindUpstream, StatusCode: status, Message: fmt.Sprintf("Plausible API error: %d", status)}
}

func unreachableError(err error) *Error {
	return &Error{Kind: KindUnreachable, Message: "unable to reach the Plausible API", Err: err}
}

func configurationError(err error) *Error {
	return &Error{Kind: KindConfiguration, Message: "configuration error", Err: err}
}
