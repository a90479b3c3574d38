package repository

import (
	"context"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

// ArchiveRepository defines data access for archive documents. Create and
// Update write the document row, its tag links and its denormalized
// signature paths inside a single transaction.
type ArchiveRepository interface {
	Create(ctx context.Context, doc *model.ArchiveDocument, tagIDs []int64) (*model.ArchiveDocument, error)
	FindByID(ctx context.Context, id int64) (*model.ArchiveDocument, error)
	Update(ctx context.Context, doc *model.ArchiveDocument, tagIDs []int64) (*model.ArchiveDocument, error)
	// Disable soft-deletes: flips active to false, never removes the row.
	Disable(ctx context.Context, id int64) error
	Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.ArchiveDocument], error)
}
