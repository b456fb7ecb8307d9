package middlewares

import (
	"analytics-proxy/internal/models"
	"analytics-proxy/internal/utils"
	"errors"
	"net/http"
)

// RequireAPIKey rejects requests without a plausible looking bearer token and stores the token
// on the AppContext. The token is forwarded to Plausible, which is what actually checks it.
func RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		token, err := utils.ExtractAuthorizationHeader(r)
		if err != nil {
			appCtx.Logger.Warn("authentication failed", "reason", err, "ip", ClientIP(r))
			appCtx.WriteJSON(http.StatusUnauthorized, authErrorEnvelope(err))
			return
		}

		appCtx.APIKey = token
		appCtx.Logger.Debug("authentication succeeded", "ip", ClientIP(r))

		next.ServeHTTP(w, r)
	})
}

func authErrorEnvelope(err error) models.Envelope {
	switch {
	case errors.Is(err, utils.ErrMissingAuthzHeader):
		return models.NewErrorEnvelope("Missing token", "Authorization header is required")
	case errors.Is(err, utils.ErrInvalidAuthzHeader), errors.Is(err, utils.ErrUnsupportedAuthzScheme):
		return models.NewErrorEnvelope("Invalid token format", `token must use the "Bearer <token>" format`)
	default:
		return models.NewErrorEnvelope("Invalid token", "the provided token is invalid")
	}
}
