package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"netch-backend/pkg/idgen"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	linkedInURLRegex      = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/in/[a-zA-Z0-9-]+/?$`)
	linkedInUsernameRegex = regexp.MustCompile(`linkedin\.com/in/([a-zA-Z0-9-]+)`)
	whitespaceRegex       = regexp.MustCompile(`\s+`)
)

// OnboardingConfig holds the tunable limits of the wizard.
type OnboardingConfig struct {
	MaxPositions       int
	MaxHobbies         int
	MaxResumeSize      int64
	AllowedResumeTypes []string
	MaxSuggestions     int
}

// DefaultOnboardingConfig: 3 positions, 10 hobbies, 5MB resumes in PDF/DOC/DOCX.
func DefaultOnboardingConfig() OnboardingConfig {
	return OnboardingConfig{
		MaxPositions:       3,
		MaxHobbies:         10,
		MaxResumeSize:      5 * 1024 * 1024,
		AllowedResumeTypes: []string{MimePDF, MimeDOC, MimeDOCX},
		MaxSuggestions:     8,
	}
}

// IsAllowedResumeType checks the MIME allow-list
func (c OnboardingConfig) IsAllowedResumeType(mimeType string) bool {
	for _, allowed := range c.AllowedResumeTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// ============================================================================
// Validation Rules
// ============================================================================

// ValidateLinkedInURL accepts http(s)://[www.]linkedin.com/in/<slug> with an optional trailing slash.
func ValidateLinkedInURL(url string) bool {
	return linkedInURLRegex.MatchString(url)
}

// ExtractLinkedInUsername returns the profile slug, or "" when the URL has none.
func ExtractLinkedInUsername(url string) string {
	match := linkedInUsernameRegex.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// ValidateResumeFile checks type and size against the default limits.
func ValidateResumeFile(file *FileHandle) ValidationResult {
	return DefaultOnboardingConfig().ValidateResumeFile(file)
}

func (c OnboardingConfig) ValidateResumeFile(file *FileHandle) ValidationResult {
	result := newValidationResult()
	if file == nil {
		result.Errors = append(result.Errors, "Please upload your resume")
		return result.finish()
	}

	if !c.IsAllowedResumeType(file.Type) {
		result.Errors = append(result.Errors, "Please upload a PDF, DOC, or DOCX file")
	}

	if file.Size > c.MaxResumeSize {
		result.Errors = append(result.Errors, fmt.Sprintf("File size must be less than %s", FormatFileSize(c.MaxResumeSize)))
	}

	if len([]rune(file.Name)) > 100 {
		result.Warnings = append(result.Warnings, "File name is quite long")
	}

	return result.finish()
}

// ValidateOnboardingStep runs the rules of a single step.
func ValidateOnboardingStep(step OnboardingStep, data *OnboardingData) ValidationResult {
	result := newValidationResult()

	switch step {
	case StepPositions:
		if len(data.Positions) == 0 {
			result.Errors = append(result.Errors, "Please select at least one position")
		}
		if len(data.Positions) > data.MaxPositions {
			result.Errors = append(result.Errors, fmt.Sprintf("You can only select up to %d positions", data.MaxPositions))
		}

	case StepProfile:
		if data.LinkedInProfile.URL == "" {
			result.Errors = append(result.Errors, "Please provide your LinkedIn profile URL")
		} else if !data.LinkedInProfile.IsValid {
			result.Errors = append(result.Errors, "Please provide a valid LinkedIn profile URL")
		}
		if data.Resume == nil {
			result.Errors = append(result.Errors, "Please upload your resume")
		} else if !data.Resume.IsValid {
			msg := data.Resume.ErrorMessage
			if msg == "" {
				msg = "Please upload a valid resume file"
			}
			result.Errors = append(result.Errors, msg)
		}

	case StepHobbies:
		if len(data.Hobbies) == 0 {
			result.Warnings = append(result.Warnings, "Adding hobbies helps us personalize your experience")
		}

	default:
		result.Errors = append(result.Errors, fmt.Sprintf("Unknown onboarding step: %d", step))
	}

	return result.finish()
}

// ValidateCompleteOnboarding aggregates the errors and warnings of every step.
func ValidateCompleteOnboarding(data *OnboardingData) ValidationResult {
	result := newValidationResult()
	for _, step := range OnboardingSteps() {
		stepResult := ValidateOnboardingStep(step, data)
		result.Errors = append(result.Errors, stepResult.Errors...)
		result.Warnings = append(result.Warnings, stepResult.Warnings...)
	}
	return result.finish()
}

func newValidationResult() ValidationResult {
	return ValidationResult{Errors: []string{}, Warnings: []string{}}
}

func (r ValidationResult) finish() ValidationResult {
	r.IsValid = len(r.Errors) == 0
	return r
}

// FormatFileSize renders a byte limit the way error messages quote it ("5MB", "2.5MB").
func FormatFileSize(bytes int64) string {
	const mb = 1024 * 1024
	if bytes%mb == 0 {
		return fmt.Sprintf("%dMB", bytes/mb)
	}
	return fmt.Sprintf("%.1fMB", float64(bytes)/mb)
}

// ============================================================================
// Constructors
// ============================================================================

// Slugify lower-cases name and joins whitespace runs with '-'.
func Slugify(name string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

func itemID(category, name string) string {
	return idgen.WithPrefix(category + "-" + Slugify(name))
}

// CreatePosition builds a Position with a fresh identifier. Unknown categories fall back to "other".
func CreatePosition(name string, category PositionCategory, isCustom bool) Position {
	if !category.IsValid() {
		category = PositionOther
	}
	return Position{
		ID:       itemID(string(category), name),
		Name:     name,
		Category: category,
		IsCustom: isCustom,
	}
}

// CreateHobby builds a Hobby with a fresh identifier. Unknown categories fall back to "other".
func CreateHobby(name string, category HobbyCategory, isCustom bool, source HobbySource) Hobby {
	if !category.IsValid() {
		category = HobbyOther
	}
	return Hobby{
		ID:       itemID(string(category), name),
		Name:     name,
		Category: category,
		IsCustom: isCustom,
		Source:   source,
	}
}

// CreateLinkedInProfile derives validity and username from url.
func CreateLinkedInProfile(url string) LinkedInProfile {
	return LinkedInProfile{
		URL:      url,
		IsValid:  ValidateLinkedInURL(url),
		Username: ExtractLinkedInUsername(url),
	}
}

// CreateResumeFile validates file against the default limits.
func CreateResumeFile(file *FileHandle) *ResumeFile {
	return DefaultOnboardingConfig().CreateResumeFile(file)
}

func (c OnboardingConfig) CreateResumeFile(file *FileHandle) *ResumeFile {
	if file == nil {
		return nil
	}
	validation := c.ValidateResumeFile(file)
	resume := &ResumeFile{
		File:         file,
		Name:         file.Name,
		Size:         file.Size,
		Type:         file.Type,
		LastModified: file.LastModified,
		IsValid:      validation.IsValid,
	}
	if len(validation.Errors) > 0 {
		resume.ErrorMessage = validation.Errors[0]
	}
	return resume
}

// InitialOnboardingData is the state of a brand-new session.
func InitialOnboardingData(maxPositions int, now time.Time) OnboardingData {
	return OnboardingData{
		CurrentStep:     StepPositions,
		CompletedSteps:  []OnboardingStep{},
		Positions:       []Position{},
		MaxPositions:    maxPositions,
		LinkedInProfile: LinkedInProfile{},
		Hobbies:         []Hobby{},
		StartedAt:       now,
		LastUpdated:     now,
	}
}

// ProgressPercentage is round(100 * completed / total).
func ProgressPercentage(data *OnboardingData) int {
	return (len(data.CompletedSteps)*100 + TotalOnboardingSteps/2) / TotalOnboardingSteps
}
