package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCounter(t *testing.T) {
	m := newMemoryCounter()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	count, resetAt := m.incr("k", time.Minute, now)
	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(time.Minute), resetAt)

	count, _ = m.incr("k", time.Minute, now.Add(30*time.Second))
	assert.Equal(t, 2, count)

	// New window after expiry
	count, resetAt = m.incr("k", time.Minute, now.Add(61*time.Second))
	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(121*time.Second), resetAt)
}

func TestRateLimitMiddleware_InMemory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GlobalRateLimitMiddleware(2, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		last = w
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestWizardRateLimitKeysByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	cfg := WizardRateLimitConfig(10, time.Minute)
	c.Set("UserID", "user-1")
	assert.Equal(t, "user-1", cfg.KeyFunc(c))
}
