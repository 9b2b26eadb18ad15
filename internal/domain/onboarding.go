package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ============================================================================
// Wizard Steps
// ============================================================================

// OnboardingStep is one of the three wizard pages.
type OnboardingStep int

const (
	StepPositions OnboardingStep = 1
	StepProfile   OnboardingStep = 2
	StepHobbies   OnboardingStep = 3
)

// TotalOnboardingSteps is the number of wizard steps.
const TotalOnboardingSteps = 3

// OnboardingSteps returns all steps in order
func OnboardingSteps() []OnboardingStep {
	return []OnboardingStep{StepPositions, StepProfile, StepHobbies}
}

// IsValid checks if the step exists
func (s OnboardingStep) IsValid() bool {
	return s >= StepPositions && s <= StepHobbies
}

// StepConfig describes a step for the UI.
type StepConfig struct {
	Number      OnboardingStep `json:"number"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
}

// StepConfigs lists the steps in order. The positions step quotes maxPositions.
func StepConfigs(maxPositions int) []StepConfig {
	return []StepConfig{
		{Number: StepPositions, Title: "Positions", Description: fmt.Sprintf("Select up to %d positions that interest you", maxPositions), Icon: "briefcase"},
		{Number: StepProfile, Title: "Profile", Description: "Connect your LinkedIn and upload your resume", Icon: "user"},
		{Number: StepHobbies, Title: "Hobbies", Description: "Tell us about your interests and activities", Icon: "heart"},
	}
}

// ============================================================================
// Positions (Step 1)
// ============================================================================

// PositionCategory represents valid position groupings
type PositionCategory string

const (
	PositionEngineering PositionCategory = "engineering"
	PositionData        PositionCategory = "data"
	PositionProduct     PositionCategory = "product"
	PositionBusiness    PositionCategory = "business"
	PositionCreative    PositionCategory = "creative"
	PositionOther       PositionCategory = "other"
)

// ValidPositionCategories returns all valid position categories
func ValidPositionCategories() []PositionCategory {
	return []PositionCategory{PositionEngineering, PositionData, PositionProduct, PositionBusiness, PositionCreative, PositionOther}
}

// IsValid checks if the category is valid
func (c PositionCategory) IsValid() bool {
	for _, valid := range ValidPositionCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

type Position struct {
	ID       string           `json:"id"`
	Name     string           `json:"name" validate:"required,max=100"`
	Category PositionCategory `json:"category" validate:"required,oneof=engineering data product business creative other"`
	IsCustom bool             `json:"isCustom"`
}

// ============================================================================
// Profile (Step 2)
// ============================================================================

// LinkedInProfile is derived entirely from URL; build it with CreateLinkedInProfile.
type LinkedInProfile struct {
	URL      string `json:"url" validate:"required,linkedin_url"`
	IsValid  bool   `json:"isValid"`
	Username string `json:"username,omitempty"`
}

// FileHandle carries an uploaded file. Content never serializes, so the JSON
// form of a handle is its metadata only.
type FileHandle struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	LastModified int64  `json:"lastModified"`
	Content      []byte `json:"-"`
}

type ResumeFile struct {
	File         *FileHandle `json:"file"`
	Name         string      `json:"name"`
	Size         int64       `json:"size"`
	Type         string      `json:"type"`
	LastModified int64       `json:"lastModified"`
	IsValid      bool        `json:"isValid"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
}

// ============================================================================
// Hobbies (Step 3)
// ============================================================================

// HobbyCategory represents valid hobby groupings
type HobbyCategory string

const (
	HobbySports       HobbyCategory = "sports"
	HobbyCreative     HobbyCategory = "creative"
	HobbyIntellectual HobbyCategory = "intellectual"
	HobbySocial       HobbyCategory = "social"
	HobbyOutdoor      HobbyCategory = "outdoor"
	HobbyTechnology   HobbyCategory = "technology"
	HobbyOther        HobbyCategory = "other"
)

// ValidHobbyCategories returns all valid hobby categories
func ValidHobbyCategories() []HobbyCategory {
	return []HobbyCategory{HobbySports, HobbyCreative, HobbyIntellectual, HobbySocial, HobbyOutdoor, HobbyTechnology, HobbyOther}
}

// IsValid checks if the category is valid
func (c HobbyCategory) IsValid() bool {
	for _, valid := range ValidHobbyCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// HobbySource records where a hobby selection came from
type HobbySource string

const (
	SourceResume    HobbySource = "resume"
	SourceSuggested HobbySource = "suggested"
	SourceCustom    HobbySource = "custom"
)

// IsValid accepts the known sources and the empty (unspecified) source
func (s HobbySource) IsValid() bool {
	switch s {
	case "", SourceResume, SourceSuggested, SourceCustom:
		return true
	}
	return false
}

type Hobby struct {
	ID       string        `json:"id"`
	Name     string        `json:"name" validate:"required,max=100"`
	Category HobbyCategory `json:"category" validate:"required,oneof=sports creative intellectual social outdoor technology other"`
	IsCustom bool          `json:"isCustom"`
	Source   HobbySource   `json:"source,omitempty" validate:"omitempty,oneof=resume suggested custom"`
}

// ============================================================================
// Aggregate
// ============================================================================

// OnboardingData is the working state of one wizard session.
type OnboardingData struct {
	CurrentStep    OnboardingStep   `json:"currentStep"`
	CompletedSteps []OnboardingStep `json:"completedSteps"`

	Positions    []Position `json:"positions"`
	MaxPositions int        `json:"maxPositions"`

	LinkedInProfile LinkedInProfile `json:"linkedinProfile"`
	Resume          *ResumeFile     `json:"resume"`

	Hobbies []Hobby `json:"hobbies"`

	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	StartedAt   time.Time `json:"startedAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// HasCompletedStep reports whether step is in CompletedSteps
func (d *OnboardingData) HasCompletedStep(step OnboardingStep) bool {
	for _, s := range d.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. File content is shared; it is never mutated in place.
func (d OnboardingData) Clone() OnboardingData {
	out := d
	out.CompletedSteps = append(make([]OnboardingStep, 0, len(d.CompletedSteps)), d.CompletedSteps...)
	out.Positions = append(make([]Position, 0, len(d.Positions)), d.Positions...)
	out.Hobbies = append(make([]Hobby, 0, len(d.Hobbies)), d.Hobbies...)
	if d.Resume != nil {
		resume := *d.Resume
		if d.Resume.File != nil {
			file := *d.Resume.File
			resume.File = &file
		}
		out.Resume = &resume
	}
	if d.CompletedAt != nil {
		at := *d.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

// ValidationResult is the outcome of a rule check.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// WizardState is what the UI renders after every interaction.
type WizardState struct {
	Data        OnboardingData   `json:"data"`
	Steps       []StepConfig     `json:"steps"`
	Progress    int              `json:"progress"`
	CanProceed  bool             `json:"canProceed"`
	Validation  ValidationResult `json:"validation"`
	Suggestions []string         `json:"suggestions"`
	Submitting  bool             `json:"submitting"`
}

// ============================================================================
// Submission Data Transfer Objects
// ============================================================================

// OnboardingSubmission is posted to the submit endpoint once the wizard is done.
type OnboardingSubmission struct {
	UserID          string          `json:"userId" validate:"required"`
	Positions       []Position      `json:"positions" validate:"required,min=1,dive"`
	LinkedInProfile LinkedInProfile `json:"linkedinProfile"`
	ResumeURL       string          `json:"resumeUrl,omitempty" validate:"omitempty,url"`
	Hobbies         []Hobby         `json:"hobbies" validate:"dive"`
	SubmittedAt     time.Time       `json:"submittedAt" validate:"required"`
}

// OnboardingResponse is the envelope returned by the submit endpoint.
type OnboardingResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    *OnboardingSubmission `json:"data,omitempty"`
	Errors  []string              `json:"errors,omitempty"`
}

// ResumeUploadResult is the data part of a successful upload response.
type ResumeUploadResult struct {
	URL string `json:"url"`
}

// OnboardingStatus represents the server-side completion status
type OnboardingStatus struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ============================================================================
// Ports
// ============================================================================

// OnboardingMirror keeps a best-effort copy of one session's working state.
// Implementations log failures and never return them.
type OnboardingMirror interface {
	Save(ctx context.Context, data OnboardingData)
	Load(ctx context.Context) *OnboardingData
	Clear(ctx context.Context)
}

// OnboardingGateway talks to the upload and submit endpoints.
type OnboardingGateway interface {
	UploadResume(ctx context.Context, resume *ResumeFile) (string, error)
	SubmitOnboarding(ctx context.Context, submission *OnboardingSubmission) (*OnboardingResponse, error)
}

// AnalyticsSink receives fire-and-forget events.
type AnalyticsSink interface {
	Track(ctx context.Context, event string, props map[string]any)
}

// ResumeStorage persists uploaded resume binaries.
type ResumeStorage interface {
	Save(ctx context.Context, userID, fileName, contentType string, data []byte) (string, error)
	URL(key string) string
}

// ============================================================================
// Repository Interface
// ============================================================================

// ErrSubmissionNotFound is returned when a user has never submitted
var ErrSubmissionNotFound = errors.New("onboarding submission not found")

type OnboardingRepository interface {
	// Save Onboarding Submission (atomic transaction)
	SaveSubmission(ctx context.Context, submission *OnboardingSubmission) error

	GetSubmission(ctx context.Context, userID string) (*OnboardingSubmission, error)

	GetOnboardingStatus(ctx context.Context, userID string) (*OnboardingStatus, error)
}

// ============================================================================
// Usecase Interfaces
// ============================================================================

// OnboardingUsecase serves the upload and submit endpoints.
type OnboardingUsecase interface {
	UploadResume(ctx context.Context, userID, clientIP string, file *FileHandle) (*ResumeUploadResult, error)

	// Validate and save onboarding data
	SubmitOnboarding(ctx context.Context, userID string, submission *OnboardingSubmission) (*OnboardingResponse, error)

	// Check if user has completed onboarding
	GetOnboardingStatus(ctx context.Context, userID string) (*OnboardingStatus, error)
}

// OnboardingWizardUsecase drives one wizard session per user.
type OnboardingWizardUsecase interface {
	GetState(ctx context.Context, userID string) (*WizardState, error)

	AddPosition(ctx context.Context, userID, name string, category PositionCategory, isCustom bool) (*WizardState, error)
	TogglePosition(ctx context.Context, userID, name string, category PositionCategory) (*WizardState, error)
	RemovePosition(ctx context.Context, userID, positionID string) (*WizardState, error)

	UpdateLinkedIn(ctx context.Context, userID, url string) (*WizardState, error)
	UpdateResume(ctx context.Context, userID string, file *FileHandle) (*WizardState, error)
	RemoveResume(ctx context.Context, userID string) (*WizardState, error)

	AddHobby(ctx context.Context, userID, name string, category HobbyCategory, isCustom bool, source HobbySource) (*WizardState, error)
	ToggleHobby(ctx context.Context, userID, name string, category HobbyCategory, source HobbySource) (*WizardState, error)
	RemoveHobby(ctx context.Context, userID, hobbyID string) (*WizardState, error)

	NextStep(ctx context.Context, userID string) (*WizardState, error)
	PreviousStep(ctx context.Context, userID string) (*WizardState, error)

	Complete(ctx context.Context, userID string) (*WizardState, error)
	CancelCompletion(ctx context.Context, userID string) (*WizardState, error)
	Reset(ctx context.Context, userID string) (*WizardState, error)
}
