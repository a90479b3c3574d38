package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
)

type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) List(ctx context.Context) ([]model.ConfigEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ConfigEntry), args.Error(1)
}

func (m *MockConfigRepository) Get(ctx context.Context, key string) (*model.ConfigEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConfigEntry), args.Error(1)
}

func (m *MockConfigRepository) Upsert(ctx context.Context, key, value string) (*model.ConfigEntry, error) {
	args := m.Called(ctx, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConfigEntry), args.Error(1)
}
