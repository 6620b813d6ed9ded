package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/time/rate"
)

const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket per client key that plugs into fiber's
// limiter middleware as its LimiterMiddleware.
type RateLimiter struct {
	visitors  map[string]*visitor
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per IP.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
	}
}

// Get or create a rate limiter for a key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).AllowN(rl.now(), 1)
}

// New implements limiter.LimiterHandler. Max and Expiration are ignored in
// favour of the bucket the RateLimiter was created with.
func (rl *RateLimiter) New(cfg limiter.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}
		if !rl.Allow(cfg.KeyGenerator(c)) {
			return cfg.LimitReached(c)
		}
		return c.Next()
	}
}

// Limit is the fiber middleware enforcing the limiter per client IP.
func (rl *RateLimiter) Limit() fiber.Handler {
	return limiter.New(limiter.Config{
		LimitReached:      TooManyRequests,
		LimiterMiddleware: rl,
	})
}

// AttemptLimit allows attempts requests per client IP within any sliding window.
func AttemptLimit(attempts int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               attempts,
		Expiration:        window,
		LimitReached:      TooManyRequests,
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}

// TooManyRequests is sent once a client runs out of requests.
func TooManyRequests(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"success": false,
		"message": "Too many requests. Please try again later.",
	})
}
