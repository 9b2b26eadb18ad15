package usecase_test

import (
	"context"
	"errors"
	"testing"

	"netch-backend/internal/usecase"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	t.Run("Database Up", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectPing()

		status, healthy := usecase.NewHealthUsecase(db, nil).Check(context.Background())

		assert.True(t, healthy)
		assert.Equal(t, map[string]string{"status": "ok", "database": "ok", "redis": "disabled"}, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Down", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		status, healthy := usecase.NewHealthUsecase(db, nil).Check(context.Background())

		assert.False(t, healthy)
		assert.Equal(t, "down", status["status"])
		assert.Equal(t, "down", status["database"])
	})
}
