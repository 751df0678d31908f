// ratelimit.go enforces per-client token-bucket rate limits, returning 429
// when a client exceeds its requests-per-minute allowance. The portal runs
// three tiers: general API traffic, login attempts, and media uploads.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/config"
)

// RateLimitConfig holds the parameters of one limiter tier
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained refill rate
	RequestsPerMinute int
	// BurstSize is the bucket capacity
	BurstSize int
	// CleanupInterval is how often idle client buckets are evicted
	CleanupInterval time.Duration
}

// PortalRateLimitConfig builds the general API tier from the operator's
// security configuration. Zero values fall back to the shipped defaults so a
// partial config never produces an unlimited or zero-capacity limiter.
func PortalRateLimitConfig(rl config.RateLimitingConfig) RateLimitConfig {
	cfg := RateLimitConfig{
		RequestsPerMinute: rl.RequestsPerMinute,
		BurstSize:         rl.Burst,
		CleanupInterval:   5 * time.Minute,
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 120
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 20
	}
	return cfg
}

// LoginRateLimitConfig returns the tier for /auth/login. Kept deliberately
// tight to slow credential stuffing against admin accounts.
func LoginRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 10,
		BurstSize:         5,
		CleanupInterval:   5 * time.Minute,
	}
}

// MediaUploadRateLimitConfig returns the tier for photo and attachment
// uploads; a park import session uploads in bursts but rarely sustains them.
func MediaUploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 30,
		BurstSize:         5,
		CleanupInterval:   5 * time.Minute,
	}
}

// bucket tracks the token balance for a single client
type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

// RateLimiter implements a token-bucket limiter keyed by client
type RateLimiter struct {
	config  RateLimitConfig
	buckets map[string]*bucket
	mu      sync.RWMutex
	stopCh  chan struct{}
}

// NewRateLimiter creates a limiter and starts its eviction goroutine
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		config:  cfg,
		buckets: make(map[string]*bucket),
		stopCh:  make(chan struct{}),
	}

	go rl.evictIdle()

	return rl
}

// evictIdle periodically drops buckets that have been idle long enough to be
// full again, so the map does not grow with one entry per visitor IP forever.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, b := range rl.buckets {
				if now.Sub(b.lastUpdate) > 10*time.Minute {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// Stop stops the eviction goroutine
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Allow reports whether a request from the given client key may proceed,
// consuming one token when it does.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.buckets[key]

	if !exists {
		// A new client starts with a full bucket.
		rl.buckets[key] = &bucket{
			tokens:     float64(rl.config.BurstSize) - 1,
			lastUpdate: now,
		}
		return true
	}

	b.tokens = min(float64(rl.config.BurstSize), b.tokens+rl.refillFor(now.Sub(b.lastUpdate)))
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}

	return false
}

// RemainingTokens returns the client's current token balance, counting refill
// accrued since its last request.
func (rl *RateLimiter) RemainingTokens(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[key]
	if !exists {
		return rl.config.BurstSize
	}

	current := min(float64(rl.config.BurstSize), b.tokens+rl.refillFor(time.Since(b.lastUpdate)))
	return int(current)
}

func (rl *RateLimiter) refillFor(elapsed time.Duration) float64 {
	return elapsed.Seconds() * float64(rl.config.RequestsPerMinute) / 60.0
}

// RateLimitMiddleware applies the limiter to each request, keyed per client
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientKey(c)

		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.RemainingTokens(key)))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": 60,
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.RemainingTokens(key)))

		c.Next()
	}
}

// clientKey identifies the client for rate limiting: the authenticated user
// when AuthMiddleware ran earlier in the chain, the IP otherwise. Public
// portal traffic is always keyed by IP.
func clientKey(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok && id != "" {
			return "user:" + id
		}
	}

	ip := c.ClientIP()
	if ip == "" {
		ip = c.Request.RemoteAddr
	}
	return "ip:" + ip
}
