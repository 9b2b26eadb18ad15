package security

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrLimiterUnavailable is returned alongside an allow when Redis is not configured
var ErrLimiterUnavailable = errors.New("upload limiter unavailable: redis not connected")

// uploadWindow is one sliding window checked per upload.
type uploadWindow struct {
	keyPrefix string
	limit     int
	size      time.Duration
	byUser    bool
}

// UploadLimiter throttles resume uploads: a short per-IP window against bursts
// and a daily per-user quota. Windows are Redis sorted sets, so the limit is
// shared by every API instance.
type UploadLimiter struct {
	client  *goredis.Client
	windows []uploadWindow
	now     func() time.Time
}

// slidingWindow trims the set to the window, then admits the request if
// there is room. Returns {allowed, oldest_score}.
var slidingWindow = goredis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    return {0, tonumber(oldest[2])}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('EXPIRE', key, window)
return {1, now}
`)

// NewUploadLimiter builds the limiter. client may be nil, in which case every
// upload is allowed. Non-positive limits default to 10/min and 50/day.
func NewUploadLimiter(client *goredis.Client, perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		client: client,
		windows: []uploadWindow{
			{keyPrefix: "ratelimit:resume:ip:", limit: perMin, size: time.Minute},
			{keyPrefix: "ratelimit:resume:user:", limit: perDay, size: 24 * time.Hour, byUser: true},
		},
		now: time.Now,
	}
}

// AllowUpload reports whether the upload may proceed and, if not, how many
// seconds until a slot frees up. Without Redis it allows and returns
// ErrLimiterUnavailable; Redis errors deny.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, int, error) {
	if ul == nil || ul.client == nil {
		return true, 0, ErrLimiterUnavailable
	}

	now := ul.now().Unix()
	for _, w := range ul.windows {
		subject := ip
		if w.byUser {
			if userID == "" {
				continue
			}
			subject = userID
		}

		allowed, oldest, err := ul.admit(ctx, w, subject, now)
		if err != nil {
			return false, int(w.size.Seconds()), fmt.Errorf("upload limit check: %w", err)
		}
		if !allowed {
			return false, retryAfter(w.size, oldest, now), nil
		}
	}
	return true, 0, nil
}

func (ul *UploadLimiter) admit(ctx context.Context, w uploadWindow, subject string, now int64) (bool, int64, error) {
	member := fmt.Sprintf("%d-%d", now, rand.Int64())
	res, err := slidingWindow.Run(ctx, ul.client, []string{w.keyPrefix + subject},
		w.limit, int(w.size.Seconds()), now, member).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("unexpected script result %v", res)
	}
	return res[0] == 1, res[1], nil
}

// retryAfter is the time until the oldest entry leaves the window, at least 1s.
func retryAfter(size time.Duration, oldest, now int64) int {
	wait := oldest + int64(size.Seconds()) - now
	if wait < 1 {
		return 1
	}
	return int(wait)
}
