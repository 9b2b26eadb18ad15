package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"netch-backend/internal/domain"
	"netch-backend/internal/repository/gateway"
	"netch-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resume() *domain.ResumeFile {
	return domain.CreateResumeFile(&domain.FileHandle{
		Name: "cv.pdf", Size: 8, Type: domain.MimePDF, Content: []byte("%PDF-1.4"),
	})
}

func authedCtx() context.Context {
	return context.WithValue(context.Background(), domain.KeyAuthToken, "tok-123")
}

func TestUploadResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload/resume", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("resume")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, domain.MimePDF, header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4", string(content))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Resume uploaded",
			"data":    map[string]string{"url": "https://cdn.example.com/cv.pdf"},
		})
	}))
	defer srv.Close()

	url, err := gateway.NewHTTPGateway(srv.URL, nil).UploadResume(authedCtx(), resume())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cv.pdf", url)
}

func TestUploadResumeWithoutURLFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{}}`))
	}))
	defer srv.Close()

	_, err := gateway.NewHTTPGateway(srv.URL, nil).UploadResume(authedCtx(), resume())
	require.Error(t, err)
}

func TestUploadResumeMalformedDataKeepsCause(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":"https://cdn.example.com/cv.pdf"}`))
	}))
	defer srv.Close()

	_, err := gateway.NewHTTPGateway(srv.URL, nil).UploadResume(authedCtx(), resume())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	require.Error(t, appErr.Err)
	assert.Contains(t, appErr.Err.Error(), "decode upload response")
	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestSubmitOnboarding(t *testing.T) {
	submission := &domain.OnboardingSubmission{
		UserID:          "user-1",
		Positions:       []domain.Position{domain.CreatePosition("Sales", domain.PositionBusiness, false)},
		LinkedInProfile: domain.CreateLinkedInProfile("https://linkedin.com/in/test"),
		Hobbies:         []domain.Hobby{},
		SubmittedAt:     time.Now().UTC(),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/onboarding/submit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got domain.OnboardingSubmission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "user-1", got.UserID)

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Onboarding completed", "data": got})
	}))
	defer srv.Close()

	resp, err := gateway.NewHTTPGateway(srv.URL+"/", nil).SubmitOnboarding(authedCtx(), submission)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Onboarding completed", resp.Message)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "Sales", resp.Data.Positions[0].Name)
}

func TestSubmitOnboardingServerError(t *testing.T) {
	t.Run("server message is kept", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"success":false,"message":"Onboarding data is invalid","errors":["Positions: is required"]}`))
		}))
		defer srv.Close()

		_, err := gateway.NewHTTPGateway(srv.URL, nil).SubmitOnboarding(context.Background(), &domain.OnboardingSubmission{})
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "Onboarding data is invalid", appErr.Message)
		assert.Equal(t, []string{"Positions: is required"}, appErr.Errors)
	})

	t.Run("no body falls back to the generic message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := gateway.NewHTTPGateway(srv.URL, nil).SubmitOnboarding(context.Background(), &domain.OnboardingSubmission{})
		require.Error(t, err)
		assert.Equal(t, "Failed to submit onboarding data", err.Error())
	})
}

func TestSubmitOnboardingHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := gateway.NewHTTPGateway(srv.URL, nil).SubmitOnboarding(ctx, &domain.OnboardingSubmission{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
