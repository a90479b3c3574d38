package repository

import (
	"context"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

// IndexAssignment is one element's new display index in a bulk re-index.
type IndexAssignment struct {
	SignatureElementID int64
	Index              string
}

// SignatureRepository defines data access for signature components,
// elements and the parent-link graph. Multi-row writes (element + parent
// links, bulk re-index) run inside a single transaction.
type SignatureRepository interface {
	CreateComponent(ctx context.Context, name, description string, indexType model.IndexType) (*model.SignatureComponent, error)
	ListComponents(ctx context.Context) ([]model.SignatureComponent, error)
	FindComponentByID(ctx context.Context, id int64) (*model.SignatureComponent, error)
	UpdateComponent(ctx context.Context, c *model.SignatureComponent) (*model.SignatureComponent, error)
	// DeleteComponent fails on a foreign key violation while elements
	// still reference the component; the service maps that to a
	// validation error.
	DeleteComponent(ctx context.Context, id int64) error

	CreateElement(ctx context.Context, el *model.SignatureElement, parentIDs []int64) (*model.SignatureElement, error)
	FindElementByID(ctx context.Context, id int64) (*model.SignatureElement, error)
	UpdateElement(ctx context.Context, el *model.SignatureElement, parentIDs []int64) (*model.SignatureElement, error)
	DeleteElement(ctx context.Context, id int64) error
	ElementsByComponent(ctx context.Context, componentID int64) ([]model.SignatureElement, error)
	// ElementsByIDs returns the found elements keyed by ID; missing ids
	// are simply absent from the map.
	ElementsByIDs(ctx context.Context, ids []int64) (map[int64]model.SignatureElement, error)
	// ParentsOf returns the direct parent ids of each given element.
	ParentsOf(ctx context.Context, ids []int64) (map[int64][]int64, error)
	// ChildCount counts elements that reference id as a parent.
	ChildCount(ctx context.Context, id int64) (int, error)
	// UpdateIndexes applies a bulk re-index atomically and refreshes the
	// component's cached index_count.
	UpdateIndexes(ctx context.Context, componentID int64, assignments []IndexAssignment) error
	SearchElements(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.SignatureElement], error)
}
