package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	v1 "netch-backend/internal/delivery/http/v1"
	"netch-backend/internal/domain"
	"netch-backend/internal/repository/mirror"
	"netch-backend/internal/usecase"
	"netch-backend/pkg/analytics"
	"netch-backend/pkg/kvstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	submitted *domain.OnboardingSubmission
}

func (g *stubGateway) UploadResume(_ context.Context, resume *domain.ResumeFile) (string, error) {
	return "https://cdn.example.com/resumes/" + resume.Name, nil
}

func (g *stubGateway) SubmitOnboarding(_ context.Context, submission *domain.OnboardingSubmission) (*domain.OnboardingResponse, error) {
	g.submitted = submission
	return &domain.OnboardingResponse{Success: true, Message: "Onboarding completed successfully", Data: submission}, nil
}

func newSessionRouter(t *testing.T, gateway domain.OnboardingGateway) (*gin.Engine, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	cfg := domain.DefaultOnboardingConfig()
	wizard := usecase.NewOnboardingWizardUsecase(
		mirror.NewRepository(store),
		usecase.NewSubmitter(gateway, time.Second),
		analytics.NopSink{},
		cfg,
	)
	return newTestRouter(func(g *gin.RouterGroup) { v1.NewOnboardingSessionHandler(g, wizard, cfg) }), store
}

func decodeState(t *testing.T, env envelope) domain.WizardState {
	t.Helper()
	var state domain.WizardState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	return state
}

func TestOnboardingSessionHandler_Flow(t *testing.T) {
	gateway := &stubGateway{}
	r, store := newSessionRouter(t, gateway)

	w, env := doJSON(t, r, http.MethodGet, "/api/onboarding/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StepPositions, decodeState(t, env).Data.CurrentStep)

	// Step 1 is empty, so the state comes back with the reasons
	w, env = doJSON(t, r, http.MethodPost, "/api/onboarding/session/next", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "Please select at least one position")
	assert.Equal(t, domain.StepPositions, decodeState(t, env).Data.CurrentStep)

	w, env = doJSON(t, r, http.MethodPost, "/api/onboarding/session/positions", map[string]any{
		"name": "Data Science", "category": "data",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeState(t, env).Data.Positions, 1)

	w, env = doJSON(t, r, http.MethodPost, "/api/onboarding/session/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StepProfile, decodeState(t, env).Data.CurrentStep)

	w, env = doJSON(t, r, http.MethodPut, "/api/onboarding/session/linkedin", map[string]any{
		"url": "https://www.linkedin.com/in/jane-doe",
	})
	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeState(t, env).Data.LinkedInProfile
	assert.True(t, profile.IsValid)
	assert.Equal(t, "jane-doe", profile.Username)

	w, env = serve(t, r, resumeRequest(t, http.MethodPut, "/api/onboarding/session/resume", "cv.pdf", pdfContent))
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, env)
	require.NotNil(t, state.Data.Resume)
	assert.True(t, state.Data.Resume.IsValid)

	w, _ = doJSON(t, r, http.MethodPost, "/api/onboarding/session/next", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/onboarding/session/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	state = decodeState(t, env)
	assert.True(t, state.Data.IsCompleted)
	assert.Equal(t, 100, state.Progress)

	require.NotNil(t, gateway.submitted)
	assert.Equal(t, testUserID, gateway.submitted.UserID)
	assert.Equal(t, "https://cdn.example.com/resumes/cv.pdf", gateway.submitted.ResumeURL)

	_, err := store.Get(context.Background(), mirror.Key(testUserID))
	assert.Error(t, err, "mirror should be cleared after a successful submission")
}

func TestOnboardingSessionHandler_BadInput(t *testing.T) {
	r, _ := newSessionRouter(t, &stubGateway{})

	w, env := doJSON(t, r, http.MethodPost, "/api/onboarding/session/hobbies", map[string]any{
		"name": "Chess", "source": "telepathy",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid hobby source", env.Message)

	w, _ = doJSON(t, r, http.MethodPost, "/api/onboarding/session/positions", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOnboardingSessionHandler_CompleteTooEarly(t *testing.T) {
	r, _ := newSessionRouter(t, &stubGateway{})

	w, env := doJSON(t, r, http.MethodPost, "/api/onboarding/session/complete", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	assert.False(t, decodeState(t, env).Data.IsCompleted)
}

func TestOnboardingSessionHandler_Reset(t *testing.T) {
	r, _ := newSessionRouter(t, &stubGateway{})

	_, _ = doJSON(t, r, http.MethodPost, "/api/onboarding/session/hobbies/toggle", map[string]any{
		"name": "Photography", "category": "creative",
	})

	w, env := doJSON(t, r, http.MethodPost, "/api/onboarding/session/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, env)
	assert.Empty(t, state.Data.Hobbies)
	assert.Equal(t, domain.StepPositions, state.Data.CurrentStep)
}
