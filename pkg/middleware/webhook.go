package middleware

import (
	"crypto/subtle"
	"net/http"

	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookSecret guards payment confirmation callbacks with a shared secret.
// An empty secret rejects every call.
func WebhookSecret(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(WebhookSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				logger.Warn("Rejected payment callback",
					zap.String("ip", r.RemoteAddr),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid webhook secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
