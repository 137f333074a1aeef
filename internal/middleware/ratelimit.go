package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
	"github.com/noah-isme/eduboard-api/pkg/response"
)

const (
	defaultRateRequests = 120
	defaultRateWindow   = time.Minute
	sweepInterval       = time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client key.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

func newClientLimiter(maxRequests int, window time.Duration) *clientLimiter {
	if maxRequests <= 0 {
		maxRequests = defaultRateRequests
	}
	if window <= 0 {
		window = defaultRateWindow
	}
	idle := 3 * window
	if idle < sweepInterval {
		idle = sweepInterval
	}
	// rate.Every(0) means no limit at all.
	interval := window / time.Duration(maxRequests)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return &clientLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Every(interval),
		burst:   maxRequests,
		idleTTL: idle,
	}
}

// allowAt spends a token for key and, when none is left, reports how long
// the client should wait.
func (l *clientLimiter) allowAt(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	bucket, ok := l.clients[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = bucket
	}
	bucket.lastSeen = now
	l.mu.Unlock()

	res := bucket.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *clientLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.clients {
		if now.Sub(bucket.lastSeen) > l.idleTTL {
			delete(l.clients, key)
		}
	}
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimiter allows each client IP maxRequests per window. Idle clients are
// forgotten until ctx is cancelled.
func RateLimiter(ctx context.Context, maxRequests int, window time.Duration) gin.HandlerFunc {
	limiter := newClientLimiter(maxRequests, window)

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				limiter.sweep(now)
			}
		}
	}()

	return func(c *gin.Context) {
		allowed, wait := limiter.allowAt(c.ClientIP(), time.Now())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			response.Error(c, appErrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
