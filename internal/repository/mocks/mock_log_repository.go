package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) Append(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogRepository) Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.LogEntry], error) {
	args := m.Called(ctx, req, visibility)
	return args.Get(0).(search.Page[model.LogEntry]), args.Error(1)
}

func (m *MockLogRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
