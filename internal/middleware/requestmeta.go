package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/linkrift/linkrift/internal/handlers"
)

// RequestMeta is a middleware that adds client IP, user-agent and referrer
// to the request context for the audit trail.
func RequestMeta() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			meta := handlers.RequestMeta{
				ClientIP:  ClientIP(r),
				UserAgent: r.Header.Get("User-Agent"),
				Referrer:  r.Header.Get("Referer"),
			}

			ctx := handlers.ContextWithRequestMeta(r.Context(), meta)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIP extracts the client IP from the request, considering proxies.
func ClientIP(r *http.Request) string {
	// X-Forwarded-For may contain multiple IPs; the first is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}
