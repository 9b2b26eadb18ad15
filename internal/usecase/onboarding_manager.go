package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"netch-backend/internal/domain"
	"netch-backend/pkg/apperror"
	"netch-backend/pkg/logger"
	"netch-backend/pkg/resumetext"
)

const (
	EventStepCompleted       = "step_completed"
	EventOnboardingCompleted = "onboarding_completed"
)

// OnboardingManager owns the working state of one user's wizard. Every
// mutation is mirrored unless the session is completed. While completed or
// while a submission is in flight, mutations are no-ops.
type OnboardingManager struct {
	mu sync.Mutex

	userID    string
	cfg       domain.OnboardingConfig
	data      domain.OnboardingData
	mirror    domain.OnboardingMirror
	submitter *Submitter
	analytics domain.AnalyticsSink
	now       func() time.Time

	task       *SubmissionTask
	generation int

	// extracted resume text, kept for suggestions only
	resumeText string
}

// NewOnboardingManager restores the mirrored state of userID, or starts fresh.
func NewOnboardingManager(ctx context.Context, userID string, cfg domain.OnboardingConfig, mirror domain.OnboardingMirror, submitter *Submitter, analytics domain.AnalyticsSink) *OnboardingManager {
	m := &OnboardingManager{
		userID:    userID,
		cfg:       cfg,
		mirror:    mirror,
		submitter: submitter,
		analytics: analytics,
		now:       time.Now,
	}

	if loaded := m.loadMirror(ctx); loaded != nil {
		m.data = *loaded
	} else {
		m.data = domain.InitialOnboardingData(cfg.MaxPositions, m.now())
	}
	return m
}

func (m *OnboardingManager) loadMirror(ctx context.Context) *domain.OnboardingData {
	if m.mirror == nil {
		return nil
	}
	loaded := m.mirror.Load(ctx)
	if loaded == nil {
		return nil
	}
	loaded.MaxPositions = m.cfg.MaxPositions
	if !loaded.CurrentStep.IsValid() {
		loaded.CurrentStep = domain.StepPositions
	}
	logger.Log.Debug("Restored onboarding session", "user_id", m.userID, "step", loaded.CurrentStep)
	return loaded
}

// mutate applies fn to a copy of the state and commits it when fn reports a
// change. It returns a copy of the resulting state.
func (m *OnboardingManager) mutate(ctx context.Context, fn func(d *domain.OnboardingData) bool) domain.OnboardingData {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data.IsCompleted || m.task != nil {
		return m.data.Clone()
	}

	next := m.data.Clone()
	if !fn(&next) {
		return next
	}
	next.LastUpdated = m.now()
	m.data = next
	m.persist(ctx)
	return m.data.Clone()
}

func (m *OnboardingManager) persist(ctx context.Context) {
	if m.mirror == nil || m.data.IsCompleted {
		return
	}
	m.mirror.Save(ctx, m.data)
}

func (m *OnboardingManager) track(ctx context.Context, event string, props map[string]any) {
	if m.analytics == nil {
		return
	}
	props["userId"] = m.userID
	m.analytics.Track(ctx, event, props)
}

// Data returns a copy of the current state.
func (m *OnboardingManager) Data() domain.OnboardingData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Clone()
}

// ============================================================================
// Positions
// ============================================================================

func hasPosition(positions []domain.Position, name string) bool {
	for _, p := range positions {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// CanAddPosition reports whether another position fits.
func (m *OnboardingManager) CanAddPosition() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.Positions) < m.data.MaxPositions
}

func (m *OnboardingManager) AddPosition(ctx context.Context, name string, category domain.PositionCategory, isCustom bool) domain.OnboardingData {
	name = strings.TrimSpace(name)
	if name == "" {
		return m.Data()
	}
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		if len(d.Positions) >= d.MaxPositions || hasPosition(d.Positions, name) {
			return false
		}
		d.Positions = append(d.Positions, domain.CreatePosition(name, category, isCustom))
		return true
	})
}

func (m *OnboardingManager) RemovePosition(ctx context.Context, positionID string) domain.OnboardingData {
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		for i, p := range d.Positions {
			if p.ID == positionID {
				d.Positions = append(d.Positions[:i], d.Positions[i+1:]...)
				return true
			}
		}
		return false
	})
}

// TogglePosition removes the position called name, or adds it when there is room.
func (m *OnboardingManager) TogglePosition(ctx context.Context, name string, category domain.PositionCategory) domain.OnboardingData {
	name = strings.TrimSpace(name)
	if name == "" {
		return m.Data()
	}
	_, inCatalog := domain.FindPositionOption(name)

	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		for i, p := range d.Positions {
			if strings.EqualFold(p.Name, name) {
				d.Positions = append(d.Positions[:i], d.Positions[i+1:]...)
				return true
			}
		}
		if len(d.Positions) >= d.MaxPositions {
			return false
		}
		d.Positions = append(d.Positions, domain.CreatePosition(name, category, !inCatalog))
		return true
	})
}

// UpdatePositions replaces the selection, truncated to the limit.
func (m *OnboardingManager) UpdatePositions(ctx context.Context, positions []domain.Position) domain.OnboardingData {
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		if len(positions) > d.MaxPositions {
			positions = positions[:d.MaxPositions]
		}
		d.Positions = append([]domain.Position{}, positions...)
		return true
	})
}

// ============================================================================
// Profile
// ============================================================================

func (m *OnboardingManager) UpdateLinkedIn(ctx context.Context, url string) domain.OnboardingData {
	profile := domain.CreateLinkedInProfile(strings.TrimSpace(url))
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		if d.LinkedInProfile == profile {
			return false
		}
		d.LinkedInProfile = profile
		return true
	})
}

// UpdateResume validates file and stores it, invalid or not, so the step can
// report why it was refused. A nil file removes the resume.
func (m *OnboardingManager) UpdateResume(ctx context.Context, file *domain.FileHandle) domain.OnboardingData {
	if file == nil {
		return m.RemoveResume(ctx)
	}

	resume := m.cfg.CreateResumeFile(file)

	var text string
	if resume.IsValid && len(file.Content) > 0 {
		extracted, err := resumetext.Extract(ctx, file.Content, file.Type)
		switch {
		case errors.Is(err, resumetext.ErrUnsupported):
		case err != nil:
			logger.Log.Debug("Resume text extraction failed", "user_id", m.userID, "error", err)
		default:
			text = extracted
		}
	}

	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		d.Resume = resume
		m.resumeText = text
		return true
	})
}

func (m *OnboardingManager) RemoveResume(ctx context.Context) domain.OnboardingData {
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		if d.Resume == nil {
			return false
		}
		d.Resume = nil
		m.resumeText = ""
		return true
	})
}

// ============================================================================
// Hobbies
// ============================================================================

func hasHobby(hobbies []domain.Hobby, name string) bool {
	for _, h := range hobbies {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

func (m *OnboardingManager) CanAddHobby() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.Hobbies) < m.cfg.MaxHobbies
}

func (m *OnboardingManager) AddHobby(ctx context.Context, name string, category domain.HobbyCategory, isCustom bool, source domain.HobbySource) domain.OnboardingData {
	name = strings.TrimSpace(name)
	if name == "" {
		return m.Data()
	}
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		if len(d.Hobbies) >= m.cfg.MaxHobbies || hasHobby(d.Hobbies, name) {
			return false
		}
		d.Hobbies = append(d.Hobbies, domain.CreateHobby(name, category, isCustom, source))
		return true
	})
}

func (m *OnboardingManager) RemoveHobby(ctx context.Context, hobbyID string) domain.OnboardingData {
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		for i, h := range d.Hobbies {
			if h.ID == hobbyID {
				d.Hobbies = append(d.Hobbies[:i], d.Hobbies[i+1:]...)
				return true
			}
		}
		return false
	})
}

// ToggleHobby removes the hobby called name, or adds it when there is room.
// Catalog hobbies keep their catalog category.
func (m *OnboardingManager) ToggleHobby(ctx context.Context, name string, category domain.HobbyCategory, source domain.HobbySource) domain.OnboardingData {
	name = strings.TrimSpace(name)
	if name == "" {
		return m.Data()
	}
	isCustom := true
	if option, ok := domain.FindHobbyOption(name); ok {
		name, category, isCustom = option.Name, option.Category, false
	}

	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		for i, h := range d.Hobbies {
			if strings.EqualFold(h.Name, name) {
				d.Hobbies = append(d.Hobbies[:i], d.Hobbies[i+1:]...)
				return true
			}
		}
		if len(d.Hobbies) >= m.cfg.MaxHobbies {
			return false
		}
		d.Hobbies = append(d.Hobbies, domain.CreateHobby(name, category, isCustom, source))
		return true
	})
}

func (m *OnboardingManager) UpdateHobbies(ctx context.Context, hobbies []domain.Hobby) domain.OnboardingData {
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		if len(hobbies) > m.cfg.MaxHobbies {
			hobbies = hobbies[:m.cfg.MaxHobbies]
		}
		d.Hobbies = append([]domain.Hobby{}, hobbies...)
		return true
	})
}

// Suggestions hints hobbies from the resume name and, when available, its text.
func (m *OnboardingManager) Suggestions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suggestions()
}

func (m *OnboardingManager) suggestions() []string {
	if m.data.Resume == nil {
		return []string{}
	}
	return domain.SuggestHobbies(m.data.Resume.Name+" "+m.resumeText, m.cfg.MaxSuggestions)
}

// ============================================================================
// Navigation
// ============================================================================

// ValidateStep checks the current step.
func (m *OnboardingManager) ValidateStep() domain.ValidationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.ValidateOnboardingStep(m.data.CurrentStep, &m.data)
}

func (m *OnboardingManager) CanProceed() bool {
	return m.ValidateStep().IsValid
}

// GoToNextStep advances when the current step is valid and is not the last
// one, marking it completed. The validation result is returned either way.
func (m *OnboardingManager) GoToNextStep(ctx context.Context) domain.ValidationResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.data.CurrentStep
	result := domain.ValidateOnboardingStep(current, &m.data)
	if !result.IsValid || current >= domain.StepHobbies || m.data.IsCompleted || m.task != nil {
		return result
	}

	now := m.now()
	next := m.data.Clone()
	if !next.HasCompletedStep(current) {
		next.CompletedSteps = append(next.CompletedSteps, current)
	}
	next.CurrentStep = current + 1
	next.LastUpdated = now
	m.data = next
	m.persist(ctx)

	m.track(ctx, EventStepCompleted, map[string]any{
		"step":         int(current),
		"completedAt":  now.UTC().Format(time.RFC3339),
		"hasPositions": len(next.Positions) > 0,
		"hasLinkedIn":  next.LinkedInProfile.URL != "",
		"hasResume":    next.Resume != nil,
		"hasHobbies":   len(next.Hobbies) > 0,
	})
	return result
}

// GoToPreviousStep moves back one step. Completed steps stay completed.
func (m *OnboardingManager) GoToPreviousStep(ctx context.Context) domain.OnboardingData {
	return m.mutate(ctx, func(d *domain.OnboardingData) bool {
		if d.CurrentStep <= domain.StepPositions {
			return false
		}
		d.CurrentStep--
		return true
	})
}

// Progress is the share of completed steps in percent.
func (m *OnboardingManager) Progress() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.ProgressPercentage(&m.data)
}

// State snapshots everything a client renders.
func (m *OnboardingManager) State() domain.WizardState {
	m.mu.Lock()
	defer m.mu.Unlock()

	validation := domain.ValidateOnboardingStep(m.data.CurrentStep, &m.data)

	return domain.WizardState{
		Data:        m.data.Clone(),
		Steps:       domain.StepConfigs(m.cfg.MaxPositions),
		Progress:    domain.ProgressPercentage(&m.data),
		CanProceed:  validation.IsValid,
		Validation:  validation,
		Suggestions: m.suggestions(),
		Submitting:  m.task != nil,
	}
}

// ============================================================================
// Completion
// ============================================================================

// Complete submits the session from the last step and blocks until the
// submission finishes. On success the session is marked completed.
func (m *OnboardingManager) Complete(ctx context.Context) (*domain.OnboardingResponse, error) {
	m.mu.Lock()
	if m.data.IsCompleted {
		m.mu.Unlock()
		return &domain.OnboardingResponse{Success: true, Message: "Onboarding already completed"}, nil
	}
	if m.task != nil {
		m.mu.Unlock()
		return nil, apperror.Conflict("Onboarding submission already in progress")
	}
	if m.data.CurrentStep != domain.StepHobbies {
		m.mu.Unlock()
		return nil, apperror.Unprocessable("Please complete all steps before submitting", nil)
	}

	// The mirror is cleared below, once the result is known to belong to
	// this generation.
	task := m.submitter.Start(ctx, m.userID, m.data.Clone(), nil)
	m.task = task
	generation := m.generation
	m.mu.Unlock()

	resp, err := task.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.task == task {
		m.task = nil
	}
	if err != nil || generation != m.generation {
		return resp, err
	}

	if m.mirror != nil {
		m.mirror.Clear(ctx)
	}

	now := m.now()
	m.data.IsCompleted = true
	m.data.CompletedAt = &now
	m.data.LastUpdated = now
	if !m.data.HasCompletedStep(domain.StepHobbies) {
		m.data.CompletedSteps = append(m.data.CompletedSteps, domain.StepHobbies)
	}

	// The resume is stored upstream now; keep only its metadata
	if m.data.Resume != nil && m.data.Resume.File != nil {
		resume := *m.data.Resume
		file := *resume.File
		file.Content = nil
		resume.File = &file
		m.data.Resume = &resume
	}
	m.resumeText = ""

	m.track(ctx, EventOnboardingCompleted, map[string]any{
		"completedAt":    now.UTC().Format(time.RFC3339),
		"totalSteps":     domain.TotalOnboardingSteps,
		"positionsCount": len(m.data.Positions),
		"hobbiesCount":   len(m.data.Hobbies),
		"hasLinkedIn":    m.data.LinkedInProfile.URL != "",
		"hasResume":      m.data.Resume != nil,
		"timeToComplete": now.Sub(m.data.StartedAt).Milliseconds(),
	})
	return resp, nil
}

// Busy reports whether a submission is in flight.
func (m *OnboardingManager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task != nil
}

// CancelCompletion aborts a submission in flight. It reports whether there was one.
func (m *OnboardingManager) CancelCompletion() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.task == nil {
		return false
	}
	m.task.Cancel()
	return true
}

// Reset discards the session and its mirror, cancelling any submission.
func (m *OnboardingManager) Reset(ctx context.Context) domain.OnboardingData {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.task != nil {
		m.task.Cancel()
		m.task = nil
	}
	m.generation++
	m.data = domain.InitialOnboardingData(m.cfg.MaxPositions, m.now())
	m.resumeText = ""
	if m.mirror != nil {
		m.mirror.Clear(ctx)
	}
	return m.data.Clone()
}
