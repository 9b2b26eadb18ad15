package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"netch-backend/internal/domain"

	"github.com/lib/pq"
)

type onboardingRepo struct {
	db *sql.DB
}

func NewOnboardingRepository(db *sql.DB) domain.OnboardingRepository {
	return &onboardingRepo{db: db}
}

// ============================================================================
// Save Onboarding Submission (Transaction)
// ============================================================================

func (r *onboardingRepo) SaveSubmission(ctx context.Context, s *domain.OnboardingSubmission) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	positionNames := make([]string, 0, len(s.Positions))
	for _, p := range s.Positions {
		positionNames = append(positionNames, p.Name)
	}
	hobbyNames := make([]string, 0, len(s.Hobbies))
	for _, h := range s.Hobbies {
		hobbyNames = append(hobbyNames, h.Name)
	}

	// 1. Upsert the submission row. Resubmitting replaces the previous answers.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO onboarding_submissions
			(user_id, linkedin_url, linkedin_username, resume_url, position_names, hobby_names, submitted_at, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			linkedin_url      = EXCLUDED.linkedin_url,
			linkedin_username = EXCLUDED.linkedin_username,
			resume_url        = EXCLUDED.resume_url,
			position_names    = EXCLUDED.position_names,
			hobby_names       = EXCLUDED.hobby_names,
			submitted_at      = EXCLUDED.submitted_at,
			updated_at        = NOW()
	`, s.UserID, s.LinkedInProfile.URL, nullString(s.LinkedInProfile.Username), nullString(s.ResumeURL),
		pq.Array(positionNames), pq.Array(hobbyNames), s.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert onboarding submission: %w", err)
	}

	// 2. Replace positions
	if _, err := tx.ExecContext(ctx, `DELETE FROM onboarding_positions WHERE user_id = $1`, s.UserID); err != nil {
		return fmt.Errorf("failed to delete positions: %w", err)
	}
	for i, p := range s.Positions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO onboarding_positions (user_id, position_id, name, category, is_custom, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, s.UserID, p.ID, p.Name, string(p.Category), p.IsCustom, i)
		if err != nil {
			return fmt.Errorf("failed to insert position %s: %w", p.Name, err)
		}
	}

	// 3. Replace hobbies
	if _, err := tx.ExecContext(ctx, `DELETE FROM onboarding_hobbies WHERE user_id = $1`, s.UserID); err != nil {
		return fmt.Errorf("failed to delete hobbies: %w", err)
	}
	for i, h := range s.Hobbies {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO onboarding_hobbies (user_id, hobby_id, name, category, is_custom, source, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, s.UserID, h.ID, h.Name, string(h.Category), h.IsCustom, nullString(string(h.Source)), i)
		if err != nil {
			return fmt.Errorf("failed to insert hobby %s: %w", h.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ============================================================================
// Get Onboarding Submission
// ============================================================================

func (r *onboardingRepo) GetSubmission(ctx context.Context, userID string) (*domain.OnboardingSubmission, error) {
	s := &domain.OnboardingSubmission{
		UserID:    userID,
		Positions: []domain.Position{},
		Hobbies:   []domain.Hobby{},
	}

	var username, resumeURL sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT linkedin_url, linkedin_username, resume_url, submitted_at
		FROM onboarding_submissions
		WHERE user_id = $1
	`, userID).Scan(&s.LinkedInProfile.URL, &username, &resumeURL, &s.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get onboarding submission: %w", err)
	}
	s.LinkedInProfile = domain.CreateLinkedInProfile(s.LinkedInProfile.URL)
	s.ResumeURL = resumeURL.String

	positionRows, err := r.db.QueryContext(ctx, `
		SELECT position_id, name, category, is_custom
		FROM onboarding_positions
		WHERE user_id = $1
		ORDER BY sort_order
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	defer positionRows.Close()
	for positionRows.Next() {
		var p domain.Position
		var category string
		if err := positionRows.Scan(&p.ID, &p.Name, &category, &p.IsCustom); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		p.Category = domain.PositionCategory(category)
		s.Positions = append(s.Positions, p)
	}
	if err := positionRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	hobbyRows, err := r.db.QueryContext(ctx, `
		SELECT hobby_id, name, category, is_custom, source
		FROM onboarding_hobbies
		WHERE user_id = $1
		ORDER BY sort_order
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hobbies: %w", err)
	}
	defer hobbyRows.Close()
	for hobbyRows.Next() {
		var h domain.Hobby
		var category string
		var source sql.NullString
		if err := hobbyRows.Scan(&h.ID, &h.Name, &category, &h.IsCustom, &source); err != nil {
			return nil, fmt.Errorf("failed to scan hobby: %w", err)
		}
		h.Category = domain.HobbyCategory(category)
		h.Source = domain.HobbySource(source.String)
		s.Hobbies = append(s.Hobbies, h)
	}
	if err := hobbyRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hobbies: %w", err)
	}

	return s, nil
}

// ============================================================================
// Onboarding Status
// ============================================================================

func (r *onboardingRepo) GetOnboardingStatus(ctx context.Context, userID string) (*domain.OnboardingStatus, error) {
	var completedAt time.Time
	err := r.db.QueryRowContext(ctx, `
		SELECT completed_at FROM onboarding_submissions WHERE user_id = $1
	`, userID).Scan(&completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.OnboardingStatus{Completed: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check onboarding status: %w", err)
	}
	return &domain.OnboardingStatus{Completed: true, CompletedAt: &completedAt}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
