package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/dustwatch/dustwatch/internal/api/models"
)

// RateLimitConfig holds one rate limit tier.
type RateLimitConfig struct {
	// Requests per window
	RequestLimit int
	// Window duration
	WindowLength time.Duration
}

// Rate limit tiers. Auth covers token issuance, Expensive covers the
// dashboard pipeline, Standard covers everything else.
var (
	AuthRateLimit      = RateLimitConfig{RequestLimit: 10, WindowLength: time.Minute}
	ExpensiveRateLimit = RateLimitConfig{RequestLimit: 30, WindowLength: time.Minute}
	StandardRateLimit  = RateLimitConfig{RequestLimit: 100, WindowLength: time.Minute}
)

func limit(cfg RateLimitConfig, keyFn httprate.KeyFunc) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(keyFn),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// RateLimitByIP buckets requests by client IP. The RealIP middleware runs
// earlier in the chain, so X-Forwarded-For is already resolved.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return limit(cfg, httprate.KeyByRealIP)
}

// RateLimitByDevice buckets requests by the authenticated device id, falling
// back to the client IP when the request carries no token.
func RateLimitByDevice(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return limit(cfg, func(r *http.Request) (string, error) {
		if deviceID := GetDeviceID(r.Context()); deviceID != "" {
			return "device:" + deviceID, nil
		}
		return httprate.KeyByRealIP(r)
	})
}

func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	problem := models.NewTooManyRequests(GetRequestID(r.Context()), "Rate limit exceeded. Please try again later.")
	problem.Instance = r.URL.Path

	// httprate does not expose the exact window reset, a full window is a
	// safe upper bound
	w.Header().Set("Retry-After", strconv.Itoa(int(time.Minute.Seconds())))

	problem.Write(w)
}
