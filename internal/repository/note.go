package repository

import (
	"context"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

// NoteRepository defines data access for notes. Create and Update write
// the note row and its tag links inside a single transaction.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note, tagIDs []int64) (*model.Note, error)
	FindByID(ctx context.Context, id int64) (*model.Note, error)
	Update(ctx context.Context, note *model.Note, tagIDs []int64) (*model.Note, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.Note], error)
}
