package idgen

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out lexically sortable ULIDs. Within one millisecond the
// random component is incremented, so ids never repeat even under rapid use.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// New returns a fresh ULID string.
func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

// WithPrefix returns "<prefix>-<ulid>", or the bare ULID when prefix is empty.
func (g *Generator) WithPrefix(prefix string) string {
	id := g.New()
	prefix = strings.Trim(prefix, "-")
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

var defaultGenerator = NewGenerator()

// New returns a ULID from the process-wide generator.
func New() string {
	return defaultGenerator.New()
}

// WithPrefix returns a prefixed ULID from the process-wide generator.
func WithPrefix(prefix string) string {
	return defaultGenerator.WithPrefix(prefix)
}
