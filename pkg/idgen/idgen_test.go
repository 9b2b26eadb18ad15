package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorSameMillisecond(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	g := NewGenerator()
	g.now = func() time.Time { return fixed }

	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 500; i++ {
		id := g.New()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestWithPrefix(t *testing.T) {
	id := WithPrefix("engineering-software-engineering")
	assert.True(t, strings.HasPrefix(id, "engineering-software-engineering-"))
	assert.Len(t, strings.TrimPrefix(id, "engineering-software-engineering-"), 26)

	bare := WithPrefix("")
	assert.Len(t, bare, 26)
}
