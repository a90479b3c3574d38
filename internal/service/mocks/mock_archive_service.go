package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
	"arcapi/internal/search"
	"arcapi/internal/service"
)

type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) Create(ctx context.Context, actor *model.User, in service.ArchiveDocumentInput) (*model.ArchiveDocument, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ArchiveDocument), args.Error(1)
}

func (m *MockArchiveService) Get(ctx context.Context, actor *model.User, id int64) (*model.ArchiveDocument, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ArchiveDocument), args.Error(1)
}

func (m *MockArchiveService) Update(ctx context.Context, actor *model.User, id int64, in service.ArchiveDocumentInput) (*model.ArchiveDocument, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ArchiveDocument), args.Error(1)
}

func (m *MockArchiveService) Delete(ctx context.Context, actor *model.User, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockArchiveService) Search(ctx context.Context, actor *model.User, req search.Request) (search.Page[model.ArchiveDocumentSearchResult], error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(search.Page[model.ArchiveDocumentSearchResult]), args.Error(1)
}
