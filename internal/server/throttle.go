package server

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ThrottleStats holds counters for throttle activity
type ThrottleStats struct {
	Allowed  int64 // Requests that received a token
	Rejected int64 // Requests answered with 429
}

// Throttle limits the request rate of the handlers it wraps, across all clients
type Throttle struct {
	limiter *rate.Limiter
	logger  *logrus.Entry

	allowed  atomic.Int64
	rejected atomic.Int64
}

// NewThrottle creates a throttle refilling requestsPerSecond tokens up to burst.
// A non-positive rate returns nil, which disables throttling.
func NewThrottle(requestsPerSecond float64, burst int, logger *logrus.Entry) *Throttle {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		logger:  logger,
	}
}

// Middleware rejects requests with 429 when no token is available
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	if t == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reservation := t.limiter.Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			t.rejected.Add(1)
			t.logger.WithField("path", r.URL.Path).Debug("Rate limit exceeded")

			seconds := int(delay.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeJSON(w, http.StatusTooManyRequests, errorBody{Detail: "rate limit exceeded"})
			return
		}
		t.allowed.Add(1)
		next.ServeHTTP(w, r)
	})
}

// Stats returns the current counters
func (t *Throttle) Stats() ThrottleStats {
	if t == nil {
		return ThrottleStats{}
	}
	return ThrottleStats{
		Allowed:  t.allowed.Load(),
		Rejected: t.rejected.Load(),
	}
}
