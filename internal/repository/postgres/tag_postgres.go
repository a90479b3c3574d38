package postgres

import (
	"context"
	"database/sql"

	"arcapi/internal/model"
	"arcapi/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
type TagPostgres struct {
	db *sql.DB
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(db *sql.DB) *TagPostgres {
	return &TagPostgres{db: db}
}

var _ repository.TagRepository = (*TagPostgres)(nil)

const tagColumns = "tag_id, name, description, created_on"

func scanTag(row interface{ Scan(...any) error }) (*model.Tag, error) {
	var t model.Tag
	if err := row.Scan(&t.TagID, &t.Name, &t.Description, &t.CreatedOn); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagPostgres) Create(ctx context.Context, name, description string) (*model.Tag, error) {
	const q = `
		INSERT INTO tags (name, description)
		VALUES ($1, $2)
		RETURNING tag_id, name, description, created_on
	`
	return scanTag(r.db.QueryRowContext(ctx, q, name, description))
}

func (r *TagPostgres) List(ctx context.Context) ([]model.Tag, error) {
	const q = `SELECT ` + tagColumns + ` FROM tags ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

func (r *TagPostgres) FindByID(ctx context.Context, id int64) (*model.Tag, error) {
	const q = `SELECT ` + tagColumns + ` FROM tags WHERE tag_id = $1`
	return scanTag(r.db.QueryRowContext(ctx, q, id))
}

func (r *TagPostgres) FindByIDs(ctx context.Context, ids []int64) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	in, args := inClause(1, ids)
	q := `SELECT ` + tagColumns + ` FROM tags WHERE tag_id IN (` + in + `) ORDER BY tag_id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]model.Tag, 0, len(ids))
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

func (r *TagPostgres) Update(ctx context.Context, id int64, name, description string) (*model.Tag, error) {
	const q = `
		UPDATE tags SET name = $2, description = $3 WHERE tag_id = $1
		RETURNING tag_id, name, description, created_on
	`
	return scanTag(r.db.QueryRowContext(ctx, q, id, name, description))
}

func (r *TagPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tags WHERE tag_id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
