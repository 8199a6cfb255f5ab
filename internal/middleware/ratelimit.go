package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/linkrift/linkrift/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimit returns a middleware that limits requests per client, keyed by
// a hash of client IP and User-Agent.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("rate limit check failed",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")

				return
			}

			if !decision.Allowed {
				logger.Warn("rate limit exceeded",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", ClientIP(r)),
				)
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")

				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey generates a unique rate limiting key from IP and User-Agent.
func clientKey(r *http.Request) string {
	hash := sha256.Sum256([]byte(ClientIP(r) + "|" + r.Header.Get("User-Agent")))

	return hex.EncodeToString(hash[:])
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
