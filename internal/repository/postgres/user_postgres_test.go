package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"arcapi/internal/model"
)

func TestUserPostgres_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"user_id", "login", "password_hash", "role", "created_on"}).
		AddRow(1, "anna", "hash", "regular_user", time.Now())

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("anna", "hash", model.RoleRegular).
		WillReturnRows(rows)

	user, err := repo.CreateUser(ctx, "anna", "hash", model.RoleRegular)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)
	assert.Equal(t, model.RoleRegular, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindUserByLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_id", "login", "password_hash", "role", "created_on"}).
			AddRow(1, "anna", "hash", "admin", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE login = ?").
			WithArgs("anna").
			WillReturnRows(rows)

		user, err := repo.FindUserByLogin(ctx, "anna")

		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE login = ?").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.FindUserByLogin(ctx, "ghost")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)
	})
}

func TestUserPostgres_UpdateUserRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"user_id", "login", "password_hash", "role", "created_on"}).
		AddRow(2, "anna", "hash", "admin", time.Now())

	mock.ExpectQuery("UPDATE users SET role = (.+) WHERE login = ?").
		WithArgs("anna", model.RoleAdmin).
		WillReturnRows(rows)

	user, err := repo.UpdateUserRole(ctx, "anna", model.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Sessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		expires := time.Now().Add(24 * time.Hour)
		rows := sqlmock.NewRows([]string{"token", "user_id", "created_on", "expires_on"}).
			AddRow("tok", 1, time.Now(), expires)

		mock.ExpectQuery("INSERT INTO sessions").
			WithArgs("tok", int64(1), expires).
			WillReturnRows(rows)

		session, err := repo.CreateSession(ctx, "tok", 1, expires)

		assert.NoError(t, err)
		assert.Equal(t, "tok", session.Token)
	})

	t.Run("expired sessions are not found", func(t *testing.T) {
		// The lookup filters on expires_on in SQL, so a stale token behaves
		// exactly like an unknown one.
		mock.ExpectQuery("SELECT (.+) FROM sessions").
			WithArgs("stale").
			WillReturnError(sql.ErrNoRows)

		session, err := repo.FindSession(ctx, "stale")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, session)
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM sessions WHERE token = ?").
			WithArgs("tok").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteSession(ctx, "tok"))
	})
}
