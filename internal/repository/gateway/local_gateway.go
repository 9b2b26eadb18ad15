package gateway

import (
	"context"
	"errors"

	"netch-backend/internal/domain"
	"netch-backend/pkg/apperror"
)

// LocalGateway serves the wizard from the intake usecase in the same process.
type LocalGateway struct {
	intake domain.OnboardingUsecase
}

var _ domain.OnboardingGateway = (*LocalGateway)(nil)

func NewLocalGateway(intake domain.OnboardingUsecase) *LocalGateway {
	return &LocalGateway{intake: intake}
}

func (g *LocalGateway) UploadResume(ctx context.Context, resume *domain.ResumeFile) (string, error) {
	if resume == nil || resume.File == nil {
		return "", apperror.BadRequest("Please upload your resume")
	}
	userID, _ := ctx.Value(domain.KeyUserID).(string)
	clientIP, _ := ctx.Value(domain.KeyClientIP).(string)
	if clientIP == "" {
		clientIP = "local"
	}

	result, err := g.intake.UploadResume(ctx, userID, clientIP, resume.File)
	if err != nil {
		return "", err
	}
	if result == nil || result.URL == "" {
		return "", apperror.BadGateway("Failed to upload resume", errors.New("upload returned no url"))
	}
	return result.URL, nil
}

func (g *LocalGateway) SubmitOnboarding(ctx context.Context, submission *domain.OnboardingSubmission) (*domain.OnboardingResponse, error) {
	return g.intake.SubmitOnboarding(ctx, submission.UserID, submission)
}
