package analytics_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"netch-backend/pkg/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := analytics.NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	sink.Track(context.Background(), "step_completed", map[string]any{"step": 1, "hasPositions": true})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "step_completed", line["event"])
	props := line["properties"].(map[string]any)
	assert.Equal(t, float64(1), props["step"])
	assert.Equal(t, true, props["hasPositions"])
}
