package usecase

import (
	"context"
	"errors"
	"time"

	"netch-backend/internal/domain"
	"netch-backend/pkg/apperror"
	"netch-backend/pkg/logger"
)

const (
	msgInvalidData     = "Onboarding data is invalid"
	msgUploadFailed    = "Failed to upload resume"
	msgSubmitFailed    = "Failed to submit onboarding data"
	msgNetworkError    = "Network error or server issue"
	msgSubmitCancelled = "Onboarding submission was cancelled"
	msgSubmitTimedOut  = "Onboarding submission timed out"

	defaultSubmitTimeout = 30 * time.Second
)

// Submitter validates a finished wizard, uploads the resume and posts the
// submission. Nothing is retried; the caller decides whether to try again.
type Submitter struct {
	gateway domain.OnboardingGateway
	timeout time.Duration
	now     func() time.Time
}

func NewSubmitter(gateway domain.OnboardingGateway, timeout time.Duration) *Submitter {
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	return &Submitter{gateway: gateway, timeout: timeout, now: time.Now}
}

// Submit runs one submission under the configured timeout. On failure it
// returns the failure envelope together with an *apperror.AppError
// (422 for invalid data, 502 for upload/submit failures). On success the
// mirror, if given, is cleared while ctx is still live.
func (s *Submitter) Submit(ctx context.Context, userID string, data domain.OnboardingData, mirror domain.OnboardingMirror) (*domain.OnboardingResponse, error) {
	// 1. Validate everything; an invalid record never reaches the network
	validation := domain.ValidateCompleteOnboarding(&data)
	if !validation.IsValid {
		return failed(apperror.Unprocessable(msgInvalidData, validation.Errors))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// 2. Upload the resume first; failure aborts the whole submission
	var resumeURL string
	if data.Resume != nil {
		url, err := s.gateway.UploadResume(ctx, data.Resume)
		if err != nil {
			logger.Log.Warn("Resume upload failed", "user_id", userID, "error", err)
			return failed(remoteError(ctx, err, msgUploadFailed))
		}
		resumeURL = url
	}

	// 3. Post the assembled record
	submission := &domain.OnboardingSubmission{
		UserID:          userID,
		Positions:       data.Positions,
		LinkedInProfile: data.LinkedInProfile,
		ResumeURL:       resumeURL,
		Hobbies:         data.Hobbies,
		SubmittedAt:     s.now().UTC(),
	}

	resp, err := s.gateway.SubmitOnboarding(ctx, submission)
	if err != nil {
		logger.Log.Warn("Onboarding submission failed", "user_id", userID, "error", err)
		return failed(remoteError(ctx, err, msgSubmitFailed))
	}
	if resp == nil || !resp.Success {
		message := msgSubmitFailed
		var errs []string
		if resp != nil {
			if resp.Message != "" {
				message = resp.Message
			}
			errs = resp.Errors
		}
		if len(errs) == 0 {
			errs = []string{msgNetworkError}
		}
		return failed(apperror.BadGateway(message, nil).WithErrors(errs...))
	}

	// 4. Success: the mirror has served its purpose, unless the caller
	// abandoned this submission while the server was answering
	if mirror != nil && ctx.Err() == nil {
		mirror.Clear(ctx)
	}
	logger.Log.Info("Onboarding submitted", "user_id", userID, "positions", len(data.Positions), "hobbies", len(data.Hobbies))
	return resp, nil
}

// remoteError keeps a server-supplied message and reports cancellation and
// timeouts as such. Everything else collapses to the generic message.
func remoteError(ctx context.Context, err error, fallback string) *apperror.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperror.New(504, msgSubmitTimedOut, err).WithErrors(msgNetworkError)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return apperror.New(499, msgSubmitCancelled, err)
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		out := apperror.New(appErr.Code, appErr.Message, err).WithErrors(appErr.Errors...)
		if out.Code < 400 || out.Code >= 500 {
			out.Code = 502
		}
		if len(out.Errors) == 0 {
			out.Errors = []string{msgNetworkError}
		}
		return out
	}
	return apperror.BadGateway(fallback, err).WithErrors(msgNetworkError)
}

func failed(appErr *apperror.AppError) (*domain.OnboardingResponse, error) {
	return &domain.OnboardingResponse{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Errors,
	}, appErr
}

// ============================================================================
// Cancellable submission
// ============================================================================

// SubmissionTask is a submission running in the background.
type SubmissionTask struct {
	cancel context.CancelFunc
	done   chan struct{}
	resp   *domain.OnboardingResponse
	err    error
}

// Start runs Submit in a goroutine. Cancelling ctx or calling Cancel aborts
// the network calls in flight.
func (s *Submitter) Start(ctx context.Context, userID string, data domain.OnboardingData, mirror domain.OnboardingMirror) *SubmissionTask {
	ctx, cancel := context.WithCancel(ctx)
	task := &SubmissionTask{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(task.done)
		defer cancel()
		task.resp, task.err = s.Submit(ctx, userID, data, mirror)
	}()

	return task
}

// Cancel aborts the submission. Safe to call more than once.
func (t *SubmissionTask) Cancel() {
	t.cancel()
}

// Done is closed when the submission has finished.
func (t *SubmissionTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the submission finishes and returns its outcome.
func (t *SubmissionTask) Wait() (*domain.OnboardingResponse, error) {
	<-t.done
	return t.resp, t.err
}
