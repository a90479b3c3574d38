package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
)

type MockSignatureRepository struct {
	mock.Mock
}

func (m *MockSignatureRepository) CreateComponent(ctx context.Context, name, description string, indexType model.IndexType) (*model.SignatureComponent, error) {
	args := m.Called(ctx, name, description, indexType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureRepository) ListComponents(ctx context.Context) ([]model.SignatureComponent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureRepository) FindComponentByID(ctx context.Context, id int64) (*model.SignatureComponent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureRepository) UpdateComponent(ctx context.Context, c *model.SignatureComponent) (*model.SignatureComponent, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureComponent), args.Error(1)
}

func (m *MockSignatureRepository) DeleteComponent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSignatureRepository) CreateElement(ctx context.Context, el *model.SignatureElement, parentIDs []int64) (*model.SignatureElement, error) {
	args := m.Called(ctx, el, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureElement), args.Error(1)
}

func (m *MockSignatureRepository) FindElementByID(ctx context.Context, id int64) (*model.SignatureElement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureElement), args.Error(1)
}

func (m *MockSignatureRepository) UpdateElement(ctx context.Context, el *model.SignatureElement, parentIDs []int64) (*model.SignatureElement, error) {
	args := m.Called(ctx, el, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignatureElement), args.Error(1)
}

func (m *MockSignatureRepository) DeleteElement(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSignatureRepository) ElementsByComponent(ctx context.Context, componentID int64) ([]model.SignatureElement, error) {
	args := m.Called(ctx, componentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SignatureElement), args.Error(1)
}

func (m *MockSignatureRepository) ElementsByIDs(ctx context.Context, ids []int64) (map[int64]model.SignatureElement, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]model.SignatureElement), args.Error(1)
}

func (m *MockSignatureRepository) ParentsOf(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]int64), args.Error(1)
}

func (m *MockSignatureRepository) ChildCount(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockSignatureRepository) UpdateIndexes(ctx context.Context, componentID int64, assignments []repository.IndexAssignment) error {
	args := m.Called(ctx, componentID, assignments)
	return args.Error(0)
}

func (m *MockSignatureRepository) SearchElements(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.SignatureElement], error) {
	args := m.Called(ctx, req, visibility)
	return args.Get(0).(search.Page[model.SignatureElement]), args.Error(1)
}
