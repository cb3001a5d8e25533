package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig controls the per-client request budget for the booking API.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns limits sized for a single-location booking
// front end. A burst covers one availability scan of a full day; the steady
// rate is far above what a legitimate client needs.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 25,
		BurstSize:         50,
	}
}

// clientIdleTTL is how long an address may stay quiet before its budget is
// dropped. Budgets refill to the burst ceiling well before this, so eviction
// never costs a client tokens it could still use.
const clientIdleTTL = 10 * time.Minute

// clientBudget is one caller's remaining allowance. Tokens refill
// continuously at the configured rate up to the burst ceiling.
type clientBudget struct {
	tokens   float64
	lastSeen time.Time
}

// ipLimiter keeps a budget per client IP. Idle entries are swept during
// normal operation so the map does not grow with every address that ever
// called the API.
type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBudget
	rate    float64
	burst   float64
	sweepAt time.Time
}

func newIPLimiter(cfg RateLimitConfig) *ipLimiter {
	return &ipLimiter{
		clients: make(map[string]*clientBudget),
		rate:    cfg.RequestsPerSecond,
		burst:   float64(cfg.BurstSize),
		sweepAt: time.Now().Add(clientIdleTTL),
	}
}

// take spends one token for ip. It reports whether the request may proceed,
// how many whole tokens remain, and the seconds to wait when denied.
func (l *ipLimiter) take(ip string, now time.Time) (ok bool, remaining int, wait int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.sweepAt) {
		l.sweep(now)
	}

	b, found := l.clients[ip]
	if !found {
		b = &clientBudget{tokens: l.burst}
		l.clients[ip] = b
	} else {
		b.tokens = math.Min(l.burst, b.tokens+now.Sub(b.lastSeen).Seconds()*l.rate)
	}
	b.lastSeen = now

	if b.tokens < 1 {
		if l.rate <= 0 {
			return false, 0, 1
		}
		return false, 0, int(math.Ceil((1 - b.tokens) / l.rate))
	}
	b.tokens--
	return true, int(b.tokens), 0
}

// sweep drops budgets that have been idle past the TTL and schedules the
// next sweep. Caller holds the lock.
func (l *ipLimiter) sweep(now time.Time) {
	for ip, b := range l.clients {
		if now.Sub(b.lastSeen) > clientIdleTTL {
			delete(l.clients, ip)
		}
	}
	l.sweepAt = now.Add(clientIdleTTL)
}

// RateLimit throttles requests per client IP and reports the budget through
// X-RateLimit-* headers. Rejected requests get a 429 with Retry-After.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	limiter := newIPLimiter(cfg)
	limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, remaining, wait := limiter.take(c.RealIP(), time.Now())

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			if !ok {
				h.Set("X-RateLimit-Remaining", "0")
				h.Set("Retry-After", strconv.Itoa(wait))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			return next(c)
		}
	}
}
