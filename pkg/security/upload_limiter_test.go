package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUploadLimiter_NoRedisFailsOpen(t *testing.T) {
	ul := NewUploadLimiter(nil, 0, 0)

	allowed, retry, err := ul.AllowUpload(t.Context(), "203.0.113.7", "user-1")
	assert.True(t, allowed)
	assert.Zero(t, retry)
	assert.ErrorIs(t, err, ErrLimiterUnavailable)

	var nilLimiter *UploadLimiter
	allowed, _, err = nilLimiter.AllowUpload(t.Context(), "203.0.113.7", "")
	assert.True(t, allowed)
	assert.ErrorIs(t, err, ErrLimiterUnavailable)
}

func TestUploadLimiter_Defaults(t *testing.T) {
	ul := NewUploadLimiter(nil, 0, -1)

	if assert.Len(t, ul.windows, 2) {
		assert.Equal(t, 10, ul.windows[0].limit)
		assert.Equal(t, time.Minute, ul.windows[0].size)
		assert.Equal(t, 50, ul.windows[1].limit)
		assert.True(t, ul.windows[1].byUser)
	}
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 45, retryAfter(time.Minute, 1000, 1015))
	assert.Equal(t, 1, retryAfter(time.Minute, 1000, 1060))
	assert.Equal(t, 86400, retryAfter(24*time.Hour, 5000, 5000))
}
