package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"netch-backend/internal/domain"
	"netch-backend/internal/usecase"
	"netch-backend/pkg/apperror"
	"netch-backend/pkg/security"
	"netch-backend/pkg/security/antivirus"
	"netch-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockOnboardingRepo struct {
	mock.Mock
}

func (m *MockOnboardingRepo) SaveSubmission(ctx context.Context, submission *domain.OnboardingSubmission) error {
	return m.Called(ctx, submission).Error(0)
}

func (m *MockOnboardingRepo) GetSubmission(ctx context.Context, userID string) (*domain.OnboardingSubmission, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingSubmission), args.Error(1)
}

func (m *MockOnboardingRepo) GetOnboardingStatus(ctx context.Context, userID string) (*domain.OnboardingStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingStatus), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, userID, fileName, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, userID, fileName, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) URL(key string) string {
	return m.Called(key).String(0)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, int, error) {
	args := m.Called(ctx, ip, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) UploadResume(ctx context.Context, resume *domain.ResumeFile) (string, error) {
	args := m.Called(ctx, resume)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) SubmitOnboarding(ctx context.Context, submission *domain.OnboardingSubmission) (*domain.OnboardingResponse, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingResponse), args.Error(1)
}

type infectedScanner struct{}

func (infectedScanner) Scan(context.Context, string, []byte) antivirus.ScanResult {
	return antivirus.ScanResult{Infected: true, ThreatName: "Eicar-Test-Signature", ScannerName: "fake"}
}

func (infectedScanner) Name() string { return "fake" }

// recordingSink captures analytics events
type recordingSink struct {
	mu     sync.Mutex
	events []string
	props  []map[string]any
}

func (s *recordingSink) Track(_ context.Context, event string, props map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.props = append(s.props, props)
}

func (s *recordingSink) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.events...)
}

// Helpers
var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

var pngContent = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func authCtx(userID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, userID)
}

func pdfHandle() *domain.FileHandle {
	return &domain.FileHandle{
		Name:         "leadership-cv.pdf",
		Size:         int64(len(pdfContent)),
		Type:         domain.MimePDF,
		LastModified: 1700000000000,
		Content:      pdfContent,
	}
}

func validSubmission(userID string) *domain.OnboardingSubmission {
	return &domain.OnboardingSubmission{
		UserID:          userID,
		Positions:       []domain.Position{domain.CreatePosition("Software Engineering", domain.PositionEngineering, false)},
		LinkedInProfile: domain.LinkedInProfile{URL: "https://linkedin.com/in/test"},
		ResumeURL:       "https://cdn.example.com/resumes/abc/cv.pdf",
		Hobbies:         []domain.Hobby{domain.CreateHobby("Chess", domain.HobbyIntellectual, false, domain.SourceSuggested)},
		SubmittedAt:     time.Now(),
	}
}

func newIntake(repo domain.OnboardingRepository, store domain.ResumeStorage, limiter usecase.UploadLimiter, scanner antivirus.Scanner) domain.OnboardingUsecase {
	return usecase.NewOnboardingUsecase(repo, store, limiter, scanner, validation.New(), domain.DefaultOnboardingConfig())
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %v", err)
	return appErr.Code
}

// ============================================================================
// Intake: IDOR
// ============================================================================

func TestOnboardingIDOR(t *testing.T) {
	repo := new(MockOnboardingRepo)
	uc := newIntake(repo, new(MockStorage), nil, nil)

	t.Run("Should fail when Context UserID does not match Argument UserID", func(t *testing.T) {
		_, err := uc.GetOnboardingStatus(authCtx("user1"), "user2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only check your own onboarding status")

		_, err = uc.SubmitOnboarding(authCtx("user1"), "user2", validSubmission("user2"))
		assert.Equal(t, http.StatusForbidden, appCode(t, err))

		_, err = uc.UploadResume(authCtx("user1"), "user2", "1.2.3.4", pdfHandle())
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
	})

	t.Run("Should fail safely when Context UserID is nil", func(t *testing.T) {
		_, err := uc.GetOnboardingStatus(context.Background(), "user1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "User not authenticated")
	})

	t.Run("Should reject a body that names another user", func(t *testing.T) {
		_, err := uc.SubmitOnboarding(authCtx("user1"), "user1", validSubmission("user2"))
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
	})

	repo.AssertNotCalled(t, "SaveSubmission", mock.Anything, mock.Anything)
}

// ============================================================================
// Intake: Upload
// ============================================================================

func TestUploadResume(t *testing.T) {
	t.Run("stores a valid pdf under its canonical type", func(t *testing.T) {
		store := new(MockStorage)
		store.On("Save", mock.Anything, "user1", "leadership-cv.pdf", domain.MimePDF, pdfContent).Return("resumes/k/cv.pdf", nil)
		store.On("URL", "resumes/k/cv.pdf").Return("https://cdn.example.com/resumes/k/cv.pdf")

		uc := newIntake(new(MockOnboardingRepo), store, nil, nil)
		res, err := uc.UploadResume(authCtx("user1"), "user1", "1.2.3.4", pdfHandle())

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/resumes/k/cv.pdf", res.URL)
		store.AssertExpectations(t)
	})

	t.Run("content that does not match the extension is rejected", func(t *testing.T) {
		store := new(MockStorage)
		uc := newIntake(new(MockOnboardingRepo), store, nil, nil)

		file := pdfHandle()
		file.Content = pngContent
		_, err := uc.UploadResume(authCtx("user1"), "user1", "1.2.3.4", file)

		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
		assert.Contains(t, err.Error(), "Please upload a PDF, DOC, or DOCX file")
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty upload", func(t *testing.T) {
		uc := newIntake(new(MockOnboardingRepo), new(MockStorage), nil, nil)
		_, err := uc.UploadResume(authCtx("user1"), "user1", "1.2.3.4", &domain.FileHandle{Name: "cv.pdf"})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("oversized upload", func(t *testing.T) {
		uc := newIntake(new(MockOnboardingRepo), new(MockStorage), nil, nil)
		file := pdfHandle()
		file.Size = 6 << 20
		_, err := uc.UploadResume(authCtx("user1"), "user1", "1.2.3.4", file)
		assert.Equal(t, http.StatusRequestEntityTooLarge, appCode(t, err))
	})

	t.Run("infected upload", func(t *testing.T) {
		store := new(MockStorage)
		uc := newIntake(new(MockOnboardingRepo), store, nil, infectedScanner{})
		_, err := uc.UploadResume(authCtx("user1"), "user1", "1.2.3.4", pdfHandle())
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rate limited", func(t *testing.T) {
		limiter := new(MockLimiter)
		limiter.On("AllowUpload", mock.Anything, "1.2.3.4", "user1").Return(false, 60, nil)

		uc := newIntake(new(MockOnboardingRepo), new(MockStorage), limiter, nil)
		_, err := uc.UploadResume(authCtx("user1"), "user1", "1.2.3.4", pdfHandle())
		assert.Equal(t, http.StatusTooManyRequests, appCode(t, err))
	})

	t.Run("limiter without redis fails open", func(t *testing.T) {
		limiter := new(MockLimiter)
		limiter.On("AllowUpload", mock.Anything, "1.2.3.4", "user1").Return(true, 0, security.ErrLimiterUnavailable)
		store := new(MockStorage)
		store.On("Save", mock.Anything, "user1", mock.Anything, domain.MimePDF, mock.Anything).Return("k", nil)
		store.On("URL", "k").Return("/uploads/k")

		uc := newIntake(new(MockOnboardingRepo), store, limiter, nil)
		res, err := uc.UploadResume(authCtx("user1"), "user1", "1.2.3.4", pdfHandle())
		require.NoError(t, err)
		assert.Equal(t, "/uploads/k", res.URL)
	})
}

// ============================================================================
// Intake: Submit & Status
// ============================================================================

func TestSubmitOnboarding(t *testing.T) {
	t.Run("valid submission is saved with a derived profile", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		repo.On("SaveSubmission", mock.Anything, mock.AnythingOfType("*domain.OnboardingSubmission")).Return(nil)

		uc := newIntake(repo, new(MockStorage), nil, nil)
		resp, err := uc.SubmitOnboarding(authCtx("user1"), "user1", validSubmission("user1"))

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "Onboarding completed successfully", resp.Message)
		assert.True(t, resp.Data.LinkedInProfile.IsValid)
		assert.Equal(t, "test", resp.Data.LinkedInProfile.Username)
		repo.AssertExpectations(t)
	})

	t.Run("invalid linkedin url is a 422", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		uc := newIntake(repo, new(MockStorage), nil, nil)

		sub := validSubmission("user1")
		sub.LinkedInProfile.URL = "https://linkedin.com/company/acme"
		_, err := uc.SubmitOnboarding(authCtx("user1"), "user1", sub)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
		assert.Equal(t, "Onboarding data is invalid", appErr.Message)
		assert.Contains(t, appErr.Errors, "Please provide a valid LinkedIn profile URL")
		repo.AssertNotCalled(t, "SaveSubmission", mock.Anything, mock.Anything)
	})

	t.Run("too many positions and duplicates", func(t *testing.T) {
		uc := newIntake(new(MockOnboardingRepo), new(MockStorage), nil, nil)

		sub := validSubmission("user1")
		for _, name := range []string{"Data Science", "Data Science", "UX/UI Design"} {
			sub.Positions = append(sub.Positions, domain.CreatePosition(name, domain.PositionData, false))
		}
		_, err := uc.SubmitOnboarding(authCtx("user1"), "user1", sub)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Errors, "You can only select up to 3 positions")
		assert.Contains(t, appErr.Errors, "Duplicate position: Data Science")
	})

	t.Run("repository failure is a 500", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		repo.On("SaveSubmission", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		uc := newIntake(repo, new(MockStorage), nil, nil)
		_, err := uc.SubmitOnboarding(authCtx("user1"), "user1", validSubmission("user1"))
		assert.Equal(t, http.StatusInternalServerError, appCode(t, err))
	})
}

func TestGetOnboardingStatus(t *testing.T) {
	at := time.Now()
	repo := new(MockOnboardingRepo)
	repo.On("GetOnboardingStatus", mock.Anything, "user1").Return(&domain.OnboardingStatus{Completed: true, CompletedAt: &at}, nil)

	uc := newIntake(repo, new(MockStorage), nil, nil)
	status, err := uc.GetOnboardingStatus(authCtx("user1"), "user1")

	require.NoError(t, err)
	assert.True(t, status.Completed)
}
