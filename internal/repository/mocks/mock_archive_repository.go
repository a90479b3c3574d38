package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Create(ctx context.Context, doc *model.ArchiveDocument, tagIDs []int64) (*model.ArchiveDocument, error) {
	args := m.Called(ctx, doc, tagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ArchiveDocument), args.Error(1)
}

func (m *MockArchiveRepository) FindByID(ctx context.Context, id int64) (*model.ArchiveDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ArchiveDocument), args.Error(1)
}

func (m *MockArchiveRepository) Update(ctx context.Context, doc *model.ArchiveDocument, tagIDs []int64) (*model.ArchiveDocument, error) {
	args := m.Called(ctx, doc, tagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ArchiveDocument), args.Error(1)
}

func (m *MockArchiveRepository) Disable(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArchiveRepository) Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.ArchiveDocument], error) {
	args := m.Called(ctx, req, visibility)
	return args.Get(0).(search.Page[model.ArchiveDocument]), args.Error(1)
}
