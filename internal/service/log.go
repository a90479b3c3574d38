package service

import (
	"context"
	"time"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
)

// LogService defines the use cases for the append-only audit log.
type LogService interface {
	// Info and Error append audit entries best-effort; a failed append
	// never fails the operation being audited.
	Info(ctx context.Context, userLogin, category, message string, data map[string]any)
	Error(ctx context.Context, userLogin, category, message string, data map[string]any)

	Search(ctx context.Context, req search.Request) (search.Page[model.LogEntry], error)

	// PurgeOlderThan deletes entries older than the given number of days
	// and returns how many were removed.
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
}

type logService struct {
	repo repository.LogRepository
}

// NewLogService constructs a new LogService.
func NewLogService(repo repository.LogRepository) LogService {
	return &logService{repo: repo}
}

func (s *logService) Info(ctx context.Context, userLogin, category, message string, data map[string]any) {
	s.append(ctx, model.LogInfo, userLogin, category, message, data)
}

func (s *logService) Error(ctx context.Context, userLogin, category, message string, data map[string]any) {
	s.append(ctx, model.LogError, userLogin, category, message, data)
}

func (s *logService) append(ctx context.Context, level model.LogLevel, userLogin, category, message string, data map[string]any) {
	_ = s.repo.Append(ctx, &model.LogEntry{
		Level:     level,
		UserLogin: userLogin,
		Category:  category,
		Message:   message,
		Data:      data,
	})
}

func (s *logService) Search(ctx context.Context, req search.Request) (search.Page[model.LogEntry], error) {
	page, err := s.repo.Search(ctx, req, search.Clause{})
	if err != nil {
		if apperr.KindOf(err) != 0 {
			return page, err
		}
		return page, apperr.Storage(err)
	}
	return page, nil
}

func (s *logService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 1 {
		return 0, apperr.Validation("days", "must be >= 1, got %d", days)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	n, err := s.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperr.Storage(err)
	}
	s.Info(ctx, "", "logs", "purged old entries", map[string]any{"days": days, "removed": n})
	return n, nil
}
