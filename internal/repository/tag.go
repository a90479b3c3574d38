package repository

import (
	"context"

	"arcapi/internal/model"
)

// TagRepository defines data access for tags.
type TagRepository interface {
	Create(ctx context.Context, name, description string) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	FindByID(ctx context.Context, id int64) (*model.Tag, error)
	// FindByIDs returns the subset of ids that exist, in id order.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Tag, error)
	Update(ctx context.Context, id int64, name, description string) (*model.Tag, error)
	Delete(ctx context.Context, id int64) error
}
