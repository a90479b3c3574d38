package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *model.Note, tagIDs []int64) (*model.Note, error) {
	args := m.Called(ctx, note, tagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteRepository) FindByID(ctx context.Context, id int64) (*model.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteRepository) Update(ctx context.Context, note *model.Note, tagIDs []int64) (*model.Note, error) {
	args := m.Called(ctx, note, tagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNoteRepository) Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.Note], error) {
	args := m.Called(ctx, req, visibility)
	return args.Get(0).(search.Page[model.Note]), args.Error(1)
}
