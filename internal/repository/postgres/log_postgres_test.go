package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"arcapi/internal/model"
)

func TestLogPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLogPostgres(db)
	ctx := context.Background()

	t.Run("with data blob", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO logs").
			WithArgs(model.LogInfo, "anna", "auth", "login succeeded", []byte(`{"ip":"10.0.0.1"}`)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Append(ctx, &model.LogEntry{
			Level:     model.LogInfo,
			UserLogin: "anna",
			Category:  "auth",
			Message:   "login succeeded",
			Data:      map[string]any{"ip": "10.0.0.1"},
		})
		assert.NoError(t, err)
	})

	t.Run("without data", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO logs").
			WithArgs(model.LogError, "", "auth", "login failed: unknown user", nil).
			WillReturnResult(sqlmock.NewResult(2, 1))

		err := repo.Append(ctx, &model.LogEntry{
			Level:    model.LogError,
			Category: "auth",
			Message:  "login failed: unknown user",
		})
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogPostgres_PurgeOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLogPostgres(db)
	cutoff := time.Now().AddDate(0, 0, -30)

	mock.ExpectExec("DELETE FROM logs WHERE created_on < ?").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 12))

	n, err := repo.PurgeOlderThan(context.Background(), cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
