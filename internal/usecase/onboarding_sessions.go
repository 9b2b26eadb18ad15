package usecase

import (
	"context"
	"sync"
	"time"

	"netch-backend/internal/domain"
	"netch-backend/pkg/apperror"
	"netch-backend/pkg/logger"
)

// MirrorFactory hands out the mirror of one user's session.
type MirrorFactory interface {
	For(userID string) domain.OnboardingMirror
}

// DefaultSessionIdleTTL is how long an untouched session stays in memory.
// An evicted session is restored from its mirror on the next request.
const DefaultSessionIdleTTL = 30 * time.Minute

type wizardSession struct {
	manager  *OnboardingManager
	lastSeen time.Time
}

type onboardingWizardUsecase struct {
	mu        sync.Mutex
	sessions  map[string]*wizardSession
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time

	mirrors   MirrorFactory
	submitter *Submitter
	analytics domain.AnalyticsSink
	cfg       domain.OnboardingConfig
}

// WizardOption tunes the session registry.
type WizardOption func(*onboardingWizardUsecase)

// WithSessionIdleTTL sets the idle time after which a session is dropped.
// Non-positive values keep the default.
func WithSessionIdleTTL(ttl time.Duration) WizardOption {
	return func(u *onboardingWizardUsecase) {
		if ttl > 0 {
			u.idleTTL = ttl
		}
	}
}

// WithWizardClock replaces time.Now for the registry.
func WithWizardClock(now func() time.Time) WizardOption {
	return func(u *onboardingWizardUsecase) {
		u.now = now
	}
}

func NewOnboardingWizardUsecase(mirrors MirrorFactory, submitter *Submitter, analytics domain.AnalyticsSink, cfg domain.OnboardingConfig, opts ...WizardOption) domain.OnboardingWizardUsecase {
	u := &onboardingWizardUsecase{
		sessions:  make(map[string]*wizardSession),
		idleTTL:   DefaultSessionIdleTTL,
		now:       time.Now,
		mirrors:   mirrors,
		submitter: submitter,
		analytics: analytics,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(u)
	}
	u.lastSweep = u.now()
	return u
}

// session returns the caller's manager, restoring it from the mirror on first use.
func (u *onboardingWizardUsecase) session(ctx context.Context, userID string) (*OnboardingManager, error) {
	// Security: Verify context user matches requested user
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if ctxUserID != userID {
		return nil, apperror.Forbidden("You can only access your own onboarding")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	u.sweep(now)

	if s, ok := u.sessions[userID]; ok {
		s.lastSeen = now
		return s.manager, nil
	}

	var mirror domain.OnboardingMirror
	if u.mirrors != nil {
		mirror = u.mirrors.For(userID)
	}
	m := NewOnboardingManager(ctx, userID, u.cfg, mirror, u.submitter, u.analytics)
	u.sessions[userID] = &wizardSession{manager: m, lastSeen: now}
	return m, nil
}

// sweep drops sessions idle for longer than idleTTL, at most once per
// minute. Sessions with a submission in flight are kept. Caller holds u.mu.
func (u *onboardingWizardUsecase) sweep(now time.Time) {
	interval := time.Minute
	if u.idleTTL < interval {
		interval = u.idleTTL
	}
	if now.Sub(u.lastSweep) < interval {
		return
	}
	u.lastSweep = now

	for userID, s := range u.sessions {
		if now.Sub(s.lastSeen) > u.idleTTL && !s.manager.Busy() {
			delete(u.sessions, userID)
			logger.Log.Debug("Evicted idle onboarding session", "user_id", userID)
		}
	}
}

// Sessions is the number of sessions held in memory.
func (u *onboardingWizardUsecase) Sessions() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.sessions)
}

// apply runs fn on the caller's session and returns the resulting state.
func (u *onboardingWizardUsecase) apply(ctx context.Context, userID string, fn func(m *OnboardingManager)) (*domain.WizardState, error) {
	m, err := u.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(m)
	state := m.State()
	return &state, nil
}

func (u *onboardingWizardUsecase) GetState(ctx context.Context, userID string) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(*OnboardingManager) {})
}

// ============================================================================
// Positions
// ============================================================================

func (u *onboardingWizardUsecase) AddPosition(ctx context.Context, userID, name string, category domain.PositionCategory, isCustom bool) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.AddPosition(ctx, name, category, isCustom)
	})
}

func (u *onboardingWizardUsecase) TogglePosition(ctx context.Context, userID, name string, category domain.PositionCategory) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.TogglePosition(ctx, name, category)
	})
}

func (u *onboardingWizardUsecase) RemovePosition(ctx context.Context, userID, positionID string) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.RemovePosition(ctx, positionID)
	})
}

// ============================================================================
// Profile
// ============================================================================

func (u *onboardingWizardUsecase) UpdateLinkedIn(ctx context.Context, userID, url string) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.UpdateLinkedIn(ctx, url)
	})
}

func (u *onboardingWizardUsecase) UpdateResume(ctx context.Context, userID string, file *domain.FileHandle) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.UpdateResume(ctx, file)
	})
}

func (u *onboardingWizardUsecase) RemoveResume(ctx context.Context, userID string) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.RemoveResume(ctx)
	})
}

// ============================================================================
// Hobbies
// ============================================================================

func (u *onboardingWizardUsecase) AddHobby(ctx context.Context, userID, name string, category domain.HobbyCategory, isCustom bool, source domain.HobbySource) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.AddHobby(ctx, name, category, isCustom, source)
	})
}

func (u *onboardingWizardUsecase) ToggleHobby(ctx context.Context, userID, name string, category domain.HobbyCategory, source domain.HobbySource) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.ToggleHobby(ctx, name, category, source)
	})
}

func (u *onboardingWizardUsecase) RemoveHobby(ctx context.Context, userID, hobbyID string) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.RemoveHobby(ctx, hobbyID)
	})
}

// ============================================================================
// Navigation & Completion
// ============================================================================

// NextStep returns the state together with a 422 when the current step is invalid.
func (u *onboardingWizardUsecase) NextStep(ctx context.Context, userID string) (*domain.WizardState, error) {
	var result domain.ValidationResult
	state, err := u.apply(ctx, userID, func(m *OnboardingManager) {
		result = m.GoToNextStep(ctx)
	})
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		return state, apperror.Unprocessable("Please complete this step before continuing", result.Errors)
	}
	return state, nil
}

func (u *onboardingWizardUsecase) PreviousStep(ctx context.Context, userID string) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.GoToPreviousStep(ctx)
	})
}

// Complete blocks until the submission finishes. A failed submission returns
// the unchanged state with the failure as error.
func (u *onboardingWizardUsecase) Complete(ctx context.Context, userID string) (*domain.WizardState, error) {
	var submitErr error
	state, err := u.apply(ctx, userID, func(m *OnboardingManager) {
		_, submitErr = m.Complete(ctx)
	})
	if err != nil {
		return nil, err
	}
	return state, submitErr
}

func (u *onboardingWizardUsecase) CancelCompletion(ctx context.Context, userID string) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.CancelCompletion()
	})
}

func (u *onboardingWizardUsecase) Reset(ctx context.Context, userID string) (*domain.WizardState, error) {
	return u.apply(ctx, userID, func(m *OnboardingManager) {
		m.Reset(ctx)
	})
}
