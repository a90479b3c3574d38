package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
	"arcapi/internal/search"
	"arcapi/internal/service"
)

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) Create(ctx context.Context, actor *model.User, in service.NoteInput) (*model.Note, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteService) Get(ctx context.Context, actor *model.User, id int64) (*model.Note, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteService) Update(ctx context.Context, actor *model.User, id int64, in service.NoteInput) (*model.Note, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteService) Delete(ctx context.Context, actor *model.User, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockNoteService) Search(ctx context.Context, actor *model.User, req search.Request) (search.Page[model.Note], error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(search.Page[model.Note]), args.Error(1)
}
