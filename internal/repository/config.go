package repository

import (
	"context"

	"arcapi/internal/model"
)

// ConfigRepository defines data access for the key-value config table.
type ConfigRepository interface {
	List(ctx context.Context) ([]model.ConfigEntry, error)
	Get(ctx context.Context, key string) (*model.ConfigEntry, error)
	Upsert(ctx context.Context, key, value string) (*model.ConfigEntry, error)
}
