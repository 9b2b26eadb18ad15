package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"netch-backend/internal/domain"
	"netch-backend/pkg/apperror"
	"netch-backend/pkg/logger"
	"netch-backend/pkg/security"
	"netch-backend/pkg/security/antivirus"
	"netch-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// UploadLimiter throttles resume uploads per IP and per user.
type UploadLimiter interface {
	AllowUpload(ctx context.Context, ip, userID string) (bool, int, error)
}

type onboardingUsecase struct {
	repo     domain.OnboardingRepository
	storage  domain.ResumeStorage
	limiter  UploadLimiter
	scanner  antivirus.Scanner
	validate *validator.Validate
	cfg      domain.OnboardingConfig
}

func NewOnboardingUsecase(
	repo domain.OnboardingRepository,
	storage domain.ResumeStorage,
	limiter UploadLimiter,
	scanner antivirus.Scanner,
	validate *validator.Validate,
	cfg domain.OnboardingConfig,
) domain.OnboardingUsecase {
	if scanner == nil {
		scanner = antivirus.NewNoOpScanner()
	}
	return &onboardingUsecase{
		repo:     repo,
		storage:  storage,
		limiter:  limiter,
		scanner:  scanner,
		validate: validate,
		cfg:      cfg,
	}
}

// ============================================================================
// Resume Upload
// ============================================================================

func (u *onboardingUsecase) UploadResume(ctx context.Context, userID, clientIP string, file *domain.FileHandle) (*domain.ResumeUploadResult, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		security.DefaultLogger().LogUnauthorizedAccess(ctx, ctxUserID, userID, "upload_resume")
		return nil, apperror.Forbidden("You can only upload your own resume")
	}

	// Rate limit before touching the payload
	if u.limiter != nil {
		allowed, retryAfter, err := u.limiter.AllowUpload(ctx, clientIP, userID)
		switch {
		case errors.Is(err, security.ErrLimiterUnavailable):
			logger.Log.Debug("Upload limiter unavailable, skipping", "user_id", userID)
		case err != nil:
			logger.Log.Error("Upload rate limit check failed", "user_id", userID, "error", err)
			return nil, apperror.TooManyRequests("Upload temporarily unavailable, please try again later")
		case !allowed:
			security.DefaultLogger().LogUploadLimited(ctx, userID, clientIP, retryAfter)
			return nil, apperror.TooManyRequests(fmt.Sprintf("Too many uploads, try again in %d seconds", retryAfter))
		}
	}

	if file == nil || len(file.Content) == 0 {
		return nil, apperror.BadRequest("Please upload your resume")
	}

	size := file.Size
	if n := int64(len(file.Content)); n > size {
		size = n
	}
	if size > u.cfg.MaxResumeSize {
		return nil, apperror.New(http.StatusRequestEntityTooLarge, "File size must be less than "+domain.FormatFileSize(u.cfg.MaxResumeSize), nil)
	}

	// Content must match the extension, whatever the client claimed
	check := security.ValidateResume(file.Name, file.Content)
	if !check.Valid {
		security.DefaultLogger().LogUploadRejected(ctx, userID, clientIP, file.Name, check.DetectedMIME, check.Error)
		return nil, apperror.BadRequest("Please upload a PDF, DOC, or DOCX file").WithErrors(check.Error)
	}

	scan := u.scanner.Scan(ctx, file.Name, file.Content)
	if scan.Infected {
		security.DefaultLogger().LogMalwareDetected(ctx, userID, clientIP, file.Name, scan.ScannerName, scan.ThreatName)
		return nil, apperror.BadRequest("The uploaded file could not be accepted")
	}

	key, err := u.storage.Save(ctx, userID, file.Name, check.CanonicalMIME, file.Content)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to store resume: "+err.Error(), err)
	}

	logger.Log.Info("Resume uploaded", "user_id", userID, "key", key, "size", size)
	return &domain.ResumeUploadResult{URL: u.storage.URL(key)}, nil
}

// ============================================================================
// Onboarding Status
// ============================================================================

func (u *onboardingUsecase) GetOnboardingStatus(ctx context.Context, userID string) (*domain.OnboardingStatus, error) {
	// Security: Verify context user matches requested user
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if ctxUserID != userID {
		return nil, apperror.Forbidden("You can only check your own onboarding status")
	}

	status, err := u.repo.GetOnboardingStatus(ctx, userID)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to get onboarding status: "+err.Error(), err)
	}

	return status, nil
}

// ============================================================================
// Submit Onboarding
// ============================================================================

func (u *onboardingUsecase) SubmitOnboarding(ctx context.Context, userID string, submission *domain.OnboardingSubmission) (*domain.OnboardingResponse, error) {
	// Security: Verify context user matches requested user
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if ctxUserID != userID {
		security.DefaultLogger().LogUnauthorizedAccess(ctx, ctxUserID, userID, "submit_onboarding")
		return nil, apperror.Forbidden("You can only complete your own onboarding")
	}

	if submission == nil {
		return nil, apperror.BadRequest("Invalid request body")
	}
	if submission.UserID == "" {
		submission.UserID = userID
	}
	if submission.UserID != userID {
		security.DefaultLogger().LogUnauthorizedAccess(ctx, ctxUserID, submission.UserID, "submit_onboarding")
		return nil, apperror.Forbidden("You can only complete your own onboarding")
	}

	// Derived fields are never trusted from the client
	submission.LinkedInProfile = domain.CreateLinkedInProfile(strings.TrimSpace(submission.LinkedInProfile.URL))

	if err := u.validate.Struct(submission); err != nil {
		return nil, apperror.Unprocessable("Onboarding data is invalid", validation.FormatValidationErrors(err))
	}
	if errs := u.checkLimits(submission); len(errs) > 0 {
		return nil, apperror.Unprocessable("Onboarding data is invalid", errs)
	}

	if err := u.repo.SaveSubmission(ctx, submission); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save onboarding: "+err.Error(), err)
	}

	logger.Log.Info("Onboarding completed",
		"user_id", userID,
		"positions", len(submission.Positions),
		"hobbies", len(submission.Hobbies),
		"has_resume", submission.ResumeURL != "",
	)

	return &domain.OnboardingResponse{
		Success: true,
		Message: "Onboarding completed successfully",
		Data:    submission,
	}, nil
}

func (u *onboardingUsecase) checkLimits(s *domain.OnboardingSubmission) []string {
	var errs []string

	if len(s.Positions) > u.cfg.MaxPositions {
		errs = append(errs, fmt.Sprintf("You can only select up to %d positions", u.cfg.MaxPositions))
	}
	if len(s.Hobbies) > u.cfg.MaxHobbies {
		errs = append(errs, fmt.Sprintf("You can only select up to %d hobbies", u.cfg.MaxHobbies))
	}

	seen := make(map[string]bool, len(s.Positions))
	for _, p := range s.Positions {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if seen[key] {
			errs = append(errs, "Duplicate position: "+p.Name)
		}
		seen[key] = true
	}

	seen = make(map[string]bool, len(s.Hobbies))
	for _, h := range s.Hobbies {
		key := strings.ToLower(strings.TrimSpace(h.Name))
		if seen[key] {
			errs = append(errs, "Duplicate hobby: "+h.Name)
		}
		seen[key] = true
	}

	return errs
}
