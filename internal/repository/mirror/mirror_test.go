package mirror_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"netch-backend/internal/domain"
	"netch-backend/internal/repository/mirror"
	"netch-backend/pkg/kvstore"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() domain.OnboardingData {
	now := time.Date(2025, 5, 4, 12, 30, 0, 0, time.UTC)
	data := domain.InitialOnboardingData(3, now)
	data.CurrentStep = domain.StepHobbies
	data.CompletedSteps = []domain.OnboardingStep{domain.StepPositions, domain.StepProfile}
	data.Positions = []domain.Position{domain.CreatePosition("Software Engineering", domain.PositionEngineering, false)}
	data.LinkedInProfile = domain.CreateLinkedInProfile("https://linkedin.com/in/test")
	data.Resume = domain.CreateResumeFile(&domain.FileHandle{
		Name: "cv.pdf", Size: 1 << 20, Type: domain.MimePDF, LastModified: 1714825800000, Content: []byte("%PDF"),
	})
	data.Hobbies = []domain.Hobby{domain.CreateHobby("Hiking", domain.HobbySports, false, domain.SourceSuggested)}
	data.LastUpdated = now.Add(time.Minute)
	return data
}

func TestRoundTripDropsResume(t *testing.T) {
	store := kvstore.NewMemoryStore()
	m := mirror.NewRepository(store).For("user-1")
	data := sampleData()

	m.Save(context.Background(), data)

	raw, err := store.Get(context.Background(), "netch_onboarding_data:user-1")
	require.NoError(t, err)
	assert.Contains(t, raw, `"file":{"name":"cv.pdf","size":1048576,"type":"application/pdf","lastModified":1714825800000}`)
	assert.NotContains(t, raw, "Content")

	loaded := m.Load(context.Background())
	require.NotNil(t, loaded)

	want := data.Clone()
	want.Resume = nil
	if diff := cmp.Diff(want, *loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	m := mirror.NewRepository(kvstore.NewMemoryStore()).For("nobody")
	assert.Nil(t, m.Load(context.Background()))
}

func TestLoadCorrupt(t *testing.T) {
	store := kvstore.NewMemoryStore()
	m := mirror.NewRepository(store).For("user-1")

	require.NoError(t, store.Set(context.Background(), mirror.Key("user-1"), "{not json"))
	assert.Nil(t, m.Load(context.Background()))

	require.NoError(t, store.Set(context.Background(), mirror.Key("user-1"), `{"currentStep": 9}`))
	assert.Nil(t, m.Load(context.Background()))
}

func TestClear(t *testing.T) {
	store := kvstore.NewMemoryStore()
	m := mirror.NewRepository(store).For("user-1")
	m.Save(context.Background(), sampleData())
	m.Clear(context.Background())
	assert.Nil(t, m.Load(context.Background()))
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("quota exceeded")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("quota exceeded") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("quota exceeded") }

func TestStoreFailuresAreSwallowed(t *testing.T) {
	m := mirror.NewRepository(failingStore{}).For("user-1")
	assert.NotPanics(t, func() {
		m.Save(context.Background(), sampleData())
		m.Clear(context.Background())
	})
	assert.Nil(t, m.Load(context.Background()))
}

func TestUsersAreIsolated(t *testing.T) {
	repo := mirror.NewRepository(kvstore.NewMemoryStore())
	repo.For("a").Save(context.Background(), sampleData())
	assert.NotNil(t, repo.For("a").Load(context.Background()))
	assert.Nil(t, repo.For("b").Load(context.Background()))
}
