package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
	"arcapi/internal/search"
	"arcapi/internal/service"
)

type MockSignatureService struct {
	mock.Mock
}

func (m *MockSignatureService) CreateComponent(ctx context.Context, name, description string, indexType model.IndexType) (*model.SignatureComponent, error) {
	args := m.Called(ctx, name, description, indexType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureService) ListComponents(ctx context.Context) ([]model.SignatureComponent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureService) GetComponent(ctx context.Context, id int64) (*model.SignatureComponent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureService) UpdateComponent(ctx context.Context, id int64, name, description string, indexType model.IndexType) (*model.SignatureComponent, error) {
	args := m.Called(ctx, id, name, description, indexType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureService) DeleteComponent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSignatureService) Reindex(ctx context.Context, componentID int64) (*model.SignatureComponent, error) {
	args := m.Called(ctx, componentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureService) CreateElement(ctx context.Context, in service.ElementInput) (*model.SignatureElement, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureElement), args.Error(1)
}

func (m *MockSignatureService) GetElement(ctx context.Context, id int64, populate []string) (*model.SignatureElement, error) {
	args := m.Called(ctx, id, populate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureElement), args.Error(1)
}

func (m *MockSignatureService) UpdateElement(ctx context.Context, id int64, in service.ElementInput) (*model.SignatureElement, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureElement), args.Error(1)
}

func (m *MockSignatureService) DeleteElement(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSignatureService) SearchElements(ctx context.Context, req search.Request) (search.Page[model.SignatureElementSearchResult], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(search.Page[model.SignatureElementSearchResult]), args.Error(1)
}

func (m *MockSignatureService) ResolvePath(ctx context.Context, ids []int64) (string, error) {
	args := m.Called(ctx, ids)
	return args.String(0), args.Error(1)
}
