package middleware

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/i18n"
	"resume-improver/internal/shared/server/respond"
)

// ThrottleRule is a token bucket refilled at Rate tokens per second up to Burst.
type ThrottleRule struct {
	Rate  float64
	Burst int
}

// PerMinute builds a rule allowing n requests a minute with the given burst.
func PerMinute(n, burst int64) ThrottleRule {
	return ThrottleRule{Rate: float64(n) / 60.0, Burst: int(burst)}
}

// ThrottleConfig selects a rule per request. Requests whose group has no rule pass.
type ThrottleConfig struct {
	Rules    map[string]ThrottleRule
	GroupFor func(*gin.Context) string
	KeyFor   func(*gin.Context) string
	Limiter  *Throttler
}

// sweepInterval is the least time between two sweeps of idle buckets.
const sweepInterval = time.Minute

// Throttler holds the token buckets keyed by client and group. Buckets idle
// long enough to refill completely are dropped.
type Throttler struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	now       func() time.Time
	lastSweep time.Time
}

type tokenBucket struct {
	tokens float64
	last   time.Time
	refill time.Duration
}

// NewThrottler constructs a Throttler. A nil now uses time.Now.
func NewThrottler(now func() time.Time) *Throttler {
	if now == nil {
		now = time.Now
	}
	return &Throttler{
		buckets:   make(map[string]*tokenBucket),
		now:       now,
		lastSweep: now(),
	}
}

// Throttle rejects bursts with the same 429 shape as the rewrite cooldown.
func Throttle(cfg ThrottleConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewThrottler(nil)
	}
	return func(c *gin.Context) {
		if cfg.GroupFor == nil {
			c.Next()
			return
		}
		group := strings.TrimSpace(cfg.GroupFor(c))
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := ClientIDFromContext(c)
		if cfg.KeyFor != nil {
			principal = cfg.KeyFor(c)
		}
		allowed, retryAfter := cfg.Limiter.Allow(principal+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}
		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds <= 0 {
			seconds = 1
		}
		tag := i18n.Match(c.GetHeader("Accept-Language"))
		respond.RateLimited(c, seconds, i18n.Message(tag, i18n.KeyRateLimited))
	}
}

// Allow takes a token for key, or reports how long until one is available.
func (l *Throttler) Allow(key string, rule ThrottleRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &tokenBucket{
			tokens: float64(rule.Burst),
			last:   now,
			refill: time.Duration(float64(rule.Burst) / rule.Rate * float64(time.Second)),
		}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	waitSec := (1 - bucket.tokens) / rule.Rate
	if waitSec < 0 {
		waitSec = 0
	}
	return false, time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
}

// Len reports how many buckets are held.
func (l *Throttler) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops full buckets. Callers hold l.mu.
func (l *Throttler) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.last) >= b.refill {
			delete(l.buckets, key)
		}
	}
}
