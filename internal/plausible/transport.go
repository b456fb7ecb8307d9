package plausible

import (
	"context"
	"net/http"
)

type apiKeyContextKey struct{}

// WithAPIKey attaches the caller's API key to ctx for BearerAuthTransport.
func WithAPIKey(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, apiKeyContextKey{}, apiKey)
}

func apiKeyFromContext(ctx context.Context) string {
	apiKey, _ := ctx.Value(apiKeyContextKey{}).(string)
	return apiKey
}

type missingAPIKeyError struct{}

func (missingAPIKeyError) Error() string { return "no API key attached to request" }

var errMissingAPIKey = &missingAPIKeyError{}

// BearerAuthTransport sets the Authorization and User-Agent headers on every outbound request.
// The key travels on the request context so a single client can serve every caller.
type BearerAuthTransport struct {
	UserAgent string
	Proxied   http.RoundTripper
}

func (b *BearerAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	apiKey := apiKeyFromContext(req.Context())
	if apiKey == "" {
		return nil, errMissingAPIKey
	}

	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	return b.Proxied.RoundTrip(req)
}
