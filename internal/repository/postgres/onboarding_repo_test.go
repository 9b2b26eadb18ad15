package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"netch-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (domain.OnboardingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewOnboardingRepository(db), mock
}

func sampleSubmission() *domain.OnboardingSubmission {
	return &domain.OnboardingSubmission{
		UserID: "user-1",
		Positions: []domain.Position{
			{ID: "engineering-software-engineering-01J", Name: "Software Engineering", Category: domain.PositionEngineering},
		},
		LinkedInProfile: domain.CreateLinkedInProfile("https://linkedin.com/in/test"),
		ResumeURL:       "https://cdn.example.com/cv.pdf",
		Hobbies: []domain.Hobby{
			{ID: "sports-hiking-01J", Name: "Hiking", Category: domain.HobbySports, Source: domain.SourceSuggested},
		},
		SubmittedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSaveSubmission(t *testing.T) {
	repo, mock := newMock(t)
	s := sampleSubmission()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO onboarding_submissions").
		WithArgs(s.UserID, s.LinkedInProfile.URL, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), s.SubmittedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM onboarding_positions").WithArgs(s.UserID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO onboarding_positions").
		WithArgs(s.UserID, s.Positions[0].ID, "Software Engineering", "engineering", false, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM onboarding_hobbies").WithArgs(s.UserID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO onboarding_hobbies").
		WithArgs(s.UserID, s.Hobbies[0].ID, "Hiking", "sports", false, sqlmock.AnyArg(), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveSubmission(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSubmissionRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	s := sampleSubmission()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO onboarding_submissions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM onboarding_positions").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.SaveSubmission(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete positions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubmission(t *testing.T) {
	repo, mock := newMock(t)
	submittedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT linkedin_url, linkedin_username, resume_url, submitted_at").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"linkedin_url", "linkedin_username", "resume_url", "submitted_at"}).
			AddRow("https://linkedin.com/in/test", "test", nil, submittedAt))
	mock.ExpectQuery("FROM onboarding_positions").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"position_id", "name", "category", "is_custom"}).
			AddRow("p1", "Data Science", "data", false))
	mock.ExpectQuery("FROM onboarding_hobbies").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"hobby_id", "name", "category", "is_custom", "source"}).
			AddRow("h1", "Chess", "intellectual", false, nil))

	s, err := repo.GetSubmission(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, s.LinkedInProfile.IsValid)
	assert.Equal(t, "test", s.LinkedInProfile.Username)
	assert.Empty(t, s.ResumeURL)
	require.Len(t, s.Positions, 1)
	assert.Equal(t, domain.PositionData, s.Positions[0].Category)
	require.Len(t, s.Hobbies, 1)
	assert.Equal(t, domain.HobbySource(""), s.Hobbies[0].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubmissionNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM onboarding_submissions").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"linkedin_url", "linkedin_username", "resume_url", "submitted_at"}))

	_, err := repo.GetSubmission(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)
}

func TestGetOnboardingStatus(t *testing.T) {
	repo, mock := newMock(t)
	completedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT completed_at FROM onboarding_submissions").WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"completed_at"}).AddRow(completedAt))
	mock.ExpectQuery("SELECT completed_at FROM onboarding_submissions").WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows([]string{"completed_at"}))

	status, err := repo.GetOnboardingStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, status.Completed)
	assert.Equal(t, completedAt, *status.CompletedAt)

	status, err = repo.GetOnboardingStatus(context.Background(), "user-2")
	require.NoError(t, err)
	assert.False(t, status.Completed)
	assert.Nil(t, status.CompletedAt)
}
