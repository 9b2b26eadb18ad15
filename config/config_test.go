package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ONBOARDING_MAX_POSITIONS", "not-a-number")
	t.Setenv("SUBMIT_TIMEOUT", "45")
	t.Setenv("MIRROR_TTL", "2h")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.OnboardingMaxPositions)
	assert.Equal(t, 45*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, 2*time.Hour, cfg.MirrorTTL)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, int64(5*1024*1024), cfg.OnboardingMaxResumeBytes)
}
