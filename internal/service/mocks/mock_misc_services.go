package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) Create(ctx context.Context, name, description string) (*model.Tag, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) List(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagService) Get(ctx context.Context, id int64) (*model.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) Update(ctx context.Context, id int64, name, description string) (*model.Tag, error) {
	args := m.Called(ctx, id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockConfigService struct {
	mock.Mock
}

func (m *MockConfigService) List(ctx context.Context) ([]model.ConfigEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ConfigEntry), args.Error(1)
}

func (m *MockConfigService) Get(ctx context.Context, key string) (*model.ConfigEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConfigEntry), args.Error(1)
}

func (m *MockConfigService) Set(ctx context.Context, key, value string) (*model.ConfigEntry, error) {
	args := m.Called(ctx, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConfigEntry), args.Error(1)
}

type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) Info(ctx context.Context, userLogin, category, message string, data map[string]any) {
	m.Called(ctx, userLogin, category, message, data)
}

func (m *MockLogService) Error(ctx context.Context, userLogin, category, message string, data map[string]any) {
	m.Called(ctx, userLogin, category, message, data)
}

func (m *MockLogService) Search(ctx context.Context, req search.Request) (search.Page[model.LogEntry], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(search.Page[model.LogEntry]), args.Error(1)
}

func (m *MockLogService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}
