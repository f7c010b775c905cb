package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	appErrors "github.com/aaravmahajanofficial/stock-manager/internal/errors"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils/response"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int, int, error)
}

// RateLimit refuses requests from a client that exceeded its write budget with 429.
// When the limiter itself fails the request is let through.
func RateLimit(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := LoggerFromContext(r.Context())
			client := ClientIP(r)

			allowed, remaining, retryAfter, err := limiter.Allow(r.Context(), client)
			if err != nil {
				logger.Error("Rate limiter unavailable, allowing request", slog.String("client", client), slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				response.Error(w, appErrors.TooManyRequestsError("Too many ledger writes, please retry later"))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP prefers the first X-Forwarded-For hop and falls back to the peer address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
