package api

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/maltedev/amazon-product-api/internal/metrics"
	"github.com/maltedev/amazon-product-api/internal/models"
	"github.com/maltedev/amazon-product-api/internal/ratelimit"
)

// RateLimit rejects requests over the per-client allowance with a structured
// 429 carrying retry_after. Limiter backend errors fail open: scraping should
// not stop because the counter store is down.
func RateLimit(limiter ratelimit.Limiter, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), clientKey(r))
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				m.IncRateLimited()
				retryAfter := int(res.RetryAfter.Round(time.Second).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}

				result := models.FailureResult(models.ErrCodeRateLimitExceeded,
					"Rate limit exceeded. Please try again later.")
				result.RetryAfter = retryAfter

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				if err := json.NewEncoder(w).Encode(result); err != nil {
					logger.Error("failed to encode response", "error", err)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Recover converts handler panics into the structured INTERNAL_ERROR
// response instead of a bare stack trace.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic in handler", "panic", rec, "path", r.URL.Path)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(models.FailureResult(
						models.ErrCodeInternalError, "Internal server error occurred."))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller for rate limiting. RealIP middleware runs
// first, so RemoteAddr already reflects forwarding headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
