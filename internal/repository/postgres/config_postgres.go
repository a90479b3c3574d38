package postgres

import (
	"context"
	"database/sql"

	"arcapi/internal/model"
	"arcapi/internal/repository"
)

// ConfigPostgres is a PostgreSQL implementation of repository.ConfigRepository.
type ConfigPostgres struct {
	db *sql.DB
}

// NewConfigPostgres creates a new ConfigPostgres repository.
func NewConfigPostgres(db *sql.DB) *ConfigPostgres {
	return &ConfigPostgres{db: db}
}

var _ repository.ConfigRepository = (*ConfigPostgres)(nil)

func scanConfig(row interface{ Scan(...any) error }) (*model.ConfigEntry, error) {
	var c model.ConfigEntry
	if err := row.Scan(&c.Key, &c.Value, &c.ModifiedOn); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConfigPostgres) List(ctx context.Context) ([]model.ConfigEntry, error) {
	const q = `SELECT key, value, modified_on FROM app_configs ORDER BY key ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.ConfigEntry, 0)
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *c)
	}
	return entries, rows.Err()
}

func (r *ConfigPostgres) Get(ctx context.Context, key string) (*model.ConfigEntry, error) {
	const q = `SELECT key, value, modified_on FROM app_configs WHERE key = $1`
	return scanConfig(r.db.QueryRowContext(ctx, q, key))
}

func (r *ConfigPostgres) Upsert(ctx context.Context, key, value string) (*model.ConfigEntry, error) {
	const q = `
		INSERT INTO app_configs (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, modified_on = now()
		RETURNING key, value, modified_on
	`
	return scanConfig(r.db.QueryRowContext(ctx, q, key, value))
}
