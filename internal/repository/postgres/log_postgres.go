package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
)

// logSchema is the searchable-field allow-list for audit log entries.
var logSchema = &search.Schema{
	Table:         "logs",
	Key:           "logs.log_id",
	SelectColumns: "logs.log_id, logs.level, logs.user_login, logs.category, logs.message, logs.data, logs.created_on",
	DefaultOrder:  "logs.created_on DESC",
	Fields: map[string]search.Field{
		"level":     {Column: "logs.level", Type: search.TypeText, Filterable: true, Sortable: true},
		"userLogin": {Column: "logs.user_login", Type: search.TypeText, Filterable: true, Sortable: true},
		"category":  {Column: "logs.category", Type: search.TypeText, Filterable: true, Sortable: true},
		"message":   {Column: "logs.message", Type: search.TypeText, Filterable: true},
		"createdOn": {Column: "logs.created_on", Type: search.TypeDate, Filterable: true, Sortable: true},
	},
}

// LogPostgres is a PostgreSQL implementation of repository.LogRepository.
type LogPostgres struct {
	db *sql.DB
}

// NewLogPostgres creates a new LogPostgres repository.
func NewLogPostgres(db *sql.DB) *LogPostgres {
	return &LogPostgres{db: db}
}

var _ repository.LogRepository = (*LogPostgres)(nil)

func (r *LogPostgres) Append(ctx context.Context, entry *model.LogEntry) error {
	const q = `
		INSERT INTO logs (level, user_login, category, message, data)
		VALUES ($1, $2, $3, $4, $5)
	`
	var data any
	if entry.Data != nil {
		raw, err := json.Marshal(entry.Data)
		if err != nil {
			return err
		}
		data = raw
	}
	_, err := r.db.ExecContext(ctx, q, entry.Level, entry.UserLogin, entry.Category, entry.Message, data)
	return err
}

func (r *LogPostgres) Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.LogEntry], error) {
	return runSearch(ctx, r.db, logSchema, req, visibility, func(rows *sql.Rows) (model.LogEntry, error) {
		var e model.LogEntry
		var raw []byte
		if err := rows.Scan(&e.LogID, &e.Level, &e.UserLogin, &e.Category, &e.Message, &raw, &e.CreatedOn); err != nil {
			return model.LogEntry{}, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Data); err != nil {
				return model.LogEntry{}, err
			}
		}
		return e, nil
	})
}

func (r *LogPostgres) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM logs WHERE created_on < $1`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
