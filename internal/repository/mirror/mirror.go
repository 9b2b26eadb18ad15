// Package mirror keeps a best-effort copy of each user's wizard state in a
// key-value store so a session survives restarts. Failures are logged and
// swallowed; the in-memory state stays authoritative.
package mirror

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"netch-backend/internal/domain"
	"netch-backend/pkg/kvstore"
	"netch-backend/pkg/logger"

	"github.com/xeipuuv/gojsonschema"
)

// StorageKey is the fixed key; entries are namespaced per user.
const StorageKey = "netch_onboarding_data"

//go:embed onboarding.schema.json
var schemaJSON string

var schema = mustSchema()

func mustSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("mirror: invalid embedded schema: %v", err))
	}
	return s
}

// Repository hands out per-user mirrors over one store.
type Repository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

// For returns the mirror of userID's session.
func (r *Repository) For(userID string) domain.OnboardingMirror {
	return &onboardingMirror{store: r.store, key: Key(userID)}
}

// Key is the storage key of userID's session.
func Key(userID string) string {
	if userID == "" {
		return StorageKey
	}
	return StorageKey + ":" + userID
}

type onboardingMirror struct {
	store kvstore.Store
	key   string
}

// Save stores data as JSON. The resume binary never serializes; only its metadata does.
func (m *onboardingMirror) Save(ctx context.Context, data domain.OnboardingData) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Log.Warn("Failed to encode onboarding data", "key", m.key, "error", err)
		return
	}
	if err := m.store.Set(ctx, m.key, string(raw)); err != nil {
		logger.Log.Warn("Failed to save onboarding data", "key", m.key, "error", err)
	}
}

// Load returns the stored state with the resume dropped, or nil when nothing
// usable is stored.
func (m *onboardingMirror) Load(ctx context.Context) *domain.OnboardingData {
	raw, err := m.store.Get(ctx, m.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		logger.Log.Warn("Failed to load onboarding data", "key", m.key, "error", err)
		return nil
	}

	if err := validate(raw); err != nil {
		logger.Log.Warn("Discarding stored onboarding data", "key", m.key, "error", err)
		return nil
	}

	var data domain.OnboardingData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		logger.Log.Warn("Failed to parse onboarding data", "key", m.key, "error", err)
		return nil
	}

	// The file content cannot be rebuilt from metadata; the user re-uploads.
	data.Resume = nil
	normalize(&data)
	return &data
}

func (m *onboardingMirror) Clear(ctx context.Context) {
	if err := m.store.Delete(ctx, m.key); err != nil {
		logger.Log.Warn("Failed to clear onboarding data", "key", m.key, "error", err)
	}
}

func validate(raw string) error {
	res, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

func normalize(data *domain.OnboardingData) {
	if data.CompletedSteps == nil {
		data.CompletedSteps = []domain.OnboardingStep{}
	}
	if data.Positions == nil {
		data.Positions = []domain.Position{}
	}
	if data.Hobbies == nil {
		data.Hobbies = []domain.Hobby{}
	}
}
