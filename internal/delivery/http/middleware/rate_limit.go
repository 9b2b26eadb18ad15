package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"netch-backend/internal/delivery/http/response"
	"netch-backend/internal/domain"
	"netch-backend/pkg/logger"
	"netch-backend/pkg/redis"
	"netch-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc picks the bucket (client IP, user id)
	KeyFunc   func(*gin.Context) string
	KeyPrefix string
	// FailClosed rejects requests when Redis errors instead of counting in memory
	FailClosed bool
}

// DefaultRateLimitConfig: 100 requests per minute per client IP.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     100,
		Window:    time.Minute,
		KeyPrefix: "rl:ip:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// WizardRateLimitConfig limits wizard calls per authenticated user
func WizardRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:wizard:",
		KeyFunc: func(c *gin.Context) string {
			if userID := c.GetString(string(domain.KeyUserID)); userID != "" {
				return userID
			}
			return c.ClientIP()
		},
	}
}

// GlobalRateLimitMiddleware applies IP rate limiting to all routes.
// Non-positive values keep the defaults.
func GlobalRateLimitMiddleware(limit int, window time.Duration) gin.HandlerFunc {
	config := DefaultRateLimitConfig()
	if limit > 0 {
		config.Limit = limit
	}
	if window > 0 {
		config.Window = window
	}
	return RateLimitMiddleware(config)
}

// RateLimitMiddleware counts requests per key in fixed windows. Redis is used
// when connected so limits hold across instances; otherwise a process-local
// counter is used.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	local := newMemoryCounter()

	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time
		if client := redis.Client(); client != nil {
			var err error
			count, resetAt, err = incrRedis(c.Request.Context(), client, key, config.Window)
			if err != nil {
				logRateLimitError(c, "redis_error", err)
				if config.FailClosed {
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = local.incr(key, config.Window, now)
			}
		} else {
			count, resetAt = local.incr(key, config.Window, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(now).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logRateLimitTriggered(c)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

// incrScript increments the counter and sets its TTL on first use.
// Returns {count, ttl_seconds}.
var incrScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`)

func incrRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Time, error) {
	res, err := incrScript.Run(ctx, client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) < 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit script: unexpected result %v", res)
	}
	return int(res[0]), time.Now().Add(time.Duration(res[1]) * time.Second), nil
}

// memoryCounter is the single-instance fallback. Expired windows are dropped
// lazily on the next sweep.
type memoryCounter struct {
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{windows: make(map[string]*window)}
}

func (m *memoryCounter) incr(key string, size time.Duration, now time.Time) (int, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > 5*time.Minute {
		for k, w := range m.windows {
			if now.After(w.resetAt) {
				delete(m.windows, k)
			}
		}
		m.lastSweep = now
	}

	w, ok := m.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(size)}
		m.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt
}

func logRateLimitTriggered(c *gin.Context) {
	requestID, _ := c.Get("RequestID")
	reqIDStr, _ := requestID.(string)
	security.DefaultLogger().LogRateLimitTriggered(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		reqIDStr,
		c.FullPath(),
	)
}

func logRateLimitError(c *gin.Context, errorType string, err error) {
	logger.Log.Error("Rate limit check failed",
		"ip", c.ClientIP(),
		"error_type", errorType,
		"error", err,
	)
}
