package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MinBearerTokenLength is the shortest token forwarded to the analytics provider.
const MinBearerTokenLength = 10

var (
	ErrMissingAuthzHeader     = errors.New("missing authorization header")
	ErrInvalidAuthzHeader     = errors.New("invalid authorization header")
	ErrUnsupportedAuthzScheme = errors.New("unsupported authorization scheme")
	ErrMissingAuthzToken      = errors.New("missing authorization token")
	ErrShortAuthzToken        = errors.New("authorization token too short")
)

// ExtractAuthorizationHeader returns the bearer token from the Authorization header.
// The token is only checked for presence and length; its validity is up to the provider.
func ExtractAuthorizationHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthzHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", ErrInvalidAuthzHeader
	}

	scheme := parts[0]
	token := strings.TrimSpace(parts[1])

	if !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAuthzScheme, scheme)
	}

	if token == "" {
		return "", ErrMissingAuthzToken
	}

	if len(token) < MinBearerTokenLength {
		return "", ErrShortAuthzToken
	}

	return token, nil
}
