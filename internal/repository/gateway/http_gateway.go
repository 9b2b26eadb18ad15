package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"netch-backend/internal/domain"
	"netch-backend/pkg/apperror"
)

const (
	uploadPath = "/api/upload/resume"
	submitPath = "/api/onboarding/submit"

	// maxResponseBody bounds what we read back from the API
	maxResponseBody = 1 << 20
)

// envelope mirrors the API response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

// HTTPGateway calls the upload and submit endpoints of a remote API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

var _ domain.OnboardingGateway = (*HTTPGateway)(nil)

// NewHTTPGateway creates a gateway for baseURL. A nil client gets a default
// one; per-call deadlines come from the context.
func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPGateway{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// UploadResume posts the file as multipart field "resume" and returns the stored URL.
func (g *HTTPGateway) UploadResume(ctx context.Context, resume *domain.ResumeFile) (string, error) {
	if resume == nil || resume.File == nil {
		return "", apperror.BadRequest("Please upload your resume")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, resume.Name))
	header.Set("Content-Type", resume.Type)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if _, err := part.Write(resume.File.Content); err != nil {
		return "", apperror.Internal(err)
	}
	if err := mw.Close(); err != nil {
		return "", apperror.Internal(err)
	}

	env, err := g.do(ctx, uploadPath, mw.FormDataContentType(), &body, "Failed to upload resume")
	if err != nil {
		return "", err
	}

	var data domain.ResumeUploadResult
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return "", failure(env, "Failed to upload resume", fmt.Errorf("decode upload response: %w", err))
		}
	}
	if !env.Success || data.URL == "" {
		return "", failure(env, "Failed to upload resume", errors.New("upload response carried no url"))
	}
	return data.URL, nil
}

// SubmitOnboarding posts the submission as JSON.
func (g *HTTPGateway) SubmitOnboarding(ctx context.Context, submission *domain.OnboardingSubmission) (*domain.OnboardingResponse, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	env, err := g.do(ctx, submitPath, "application/json", bytes.NewReader(payload), "Failed to submit onboarding data")
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure(env, "Failed to submit onboarding data", nil)
	}

	resp := &domain.OnboardingResponse{Success: true, Message: env.Message, Errors: env.Errors}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		var data domain.OnboardingSubmission
		if err := json.Unmarshal(env.Data, &data); err == nil {
			resp.Data = &data
		}
	}
	return resp, nil
}

// do sends one request. Transport errors and non-2xx replies become *apperror.AppError.
func (g *HTTPGateway) do(ctx context.Context, path, contentType string, body io.Reader, fallback string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, body)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if token, ok := ctx.Value(domain.KeyAuthToken).(string); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, apperror.BadGateway(fallback, fmt.Errorf("%s %s: %w", req.Method, path, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, apperror.BadGateway(fallback, fmt.Errorf("read %s response: %w", path, err))
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failure(&env, fallback, fmt.Errorf("%s returned %d", path, resp.StatusCode))
	}
	if decodeErr != nil {
		return nil, apperror.BadGateway(fallback, fmt.Errorf("decode %s response: %w", path, decodeErr))
	}
	return &env, nil
}

// failure keeps the server's message when it sent one.
func failure(env *envelope, fallback string, cause error) *apperror.AppError {
	message := fallback
	if env != nil && env.Message != "" {
		message = env.Message
	}
	appErr := apperror.BadGateway(message, cause)
	if env != nil {
		appErr.WithErrors(env.Errors...)
	}
	return appErr
}
