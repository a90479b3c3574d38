package repository

import (
	"context"
	"time"

	"arcapi/internal/model"
	"arcapi/internal/search"
)

// LogRepository defines data access for the append-only audit log.
type LogRepository interface {
	Append(ctx context.Context, entry *model.LogEntry) error
	Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.LogEntry], error)
	// PurgeOlderThan deletes entries older than the cutoff and returns
	// the number of rows removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
