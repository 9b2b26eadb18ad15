package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSecurityLogger(zap.New(core), "netch-test", "test"), logs
}

func TestSecurityLogger_LevelFollowsEvent(t *testing.T) {
	sl, logs := newObservedLogger()
	ctx := context.Background()

	sl.LogRateLimitTriggered(ctx, "10.0.0.1", "curl/8.0", "req-1", "/api/upload/resume")
	sl.LogMalwareDetected(ctx, "user-1", "10.0.0.1", "cv.pdf", "clamav", "Eicar-Test-Signature")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "rate_limit_triggered", entries[0].Message)
	assert.Equal(t, "10.0.0.1", entries[0].ContextMap()["ip"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Contains(t, entries[1].ContextMap()["details"], "Eicar-Test-Signature")
}

func TestSecurityLogger_HashesUserIDs(t *testing.T) {
	sl, logs := newObservedLogger()

	sl.LogUnauthorizedAccess(context.Background(), "user-1", "user-2", "submit_onboarding")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, HashValue("user-1"), fields["subject_value"])
	assert.NotContains(t, fields["details"], "user-2")
	assert.Len(t, HashValue("user-1"), 16)
}
