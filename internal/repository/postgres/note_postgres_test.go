package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

func TestNotePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNotePostgres(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO notes").
		WithArgs("shelf list", "row 4", false, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"note_id", "created_on", "modified_on"}).AddRow(9, now, now))
	mock.ExpectExec("INSERT INTO note_tags").
		WithArgs(int64(9), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Create re-reads the note with its owner login and tags.
	mock.ExpectQuery("SELECT (.+) FROM notes JOIN users").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"note_id", "title", "content", "shared", "owner_user_id", "login", "created_on", "modified_on"}).
			AddRow(9, "shelf list", "row 4", false, 2, "anna", now, now))
	mock.ExpectQuery("SELECT (.+) FROM note_tags nt JOIN tags t").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"note_id", "tag_id", "name", "description", "created_on"}).
			AddRow(9, 4, "maps", "", now))

	note, err := repo.Create(ctx, &model.Note{Title: "shelf list", Content: "row 4", OwnerUserID: 2}, []int64{4})

	assert.NoError(t, err)
	assert.Equal(t, int64(9), note.NoteID)
	assert.Equal(t, "anna", note.OwnerLogin)
	assert.Len(t, note.Tags, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotePostgres_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNotePostgres(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notes JOIN users").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM notes JOIN users (.+) ORDER BY").
		WithArgs(int64(2), 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"note_id", "title", "content", "shared", "owner_user_id", "login", "created_on", "modified_on"}).
			AddRow(9, "shelf list", "", false, 2, "anna", now, now))
	mock.ExpectQuery("SELECT (.+) FROM note_tags nt JOIN tags t").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"note_id", "tag_id", "name", "description", "created_on"}))

	visibility := search.Clause{SQL: "notes.owner_user_id = ? OR notes.shared = TRUE", Args: []any{int64(2)}}
	page, err := repo.Search(ctx, search.Request{}, visibility)

	assert.NoError(t, err)
	assert.Equal(t, 1, page.TotalSize)
	assert.Len(t, page.Data, 1)
	assert.Empty(t, page.Data[0].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotePostgres_SearchRejectsUnknownField(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNotePostgres(db)

	_, err = repo.Search(context.Background(), search.Request{
		Query: []search.QueryElement{{Field: "owner_user_id", Condition: search.CondEq, Value: float64(1)}},
	}, search.Clause{})

	assert.Error(t, err)
}
