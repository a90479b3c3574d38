package postgres

import (
	"context"
	"database/sql"

	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
)

// noteSchema is the searchable-field allow-list for notes. The visibility
// clause (own or shared) is supplied by the service, never by the client.
var noteSchema = &search.Schema{
	Table: "notes JOIN users ON users.user_id = notes.owner_user_id",
	Key:   "notes.note_id",
	SelectColumns: "notes.note_id, notes.title, notes.content, notes.shared, " +
		"notes.owner_user_id, users.login, notes.created_on, notes.modified_on",
	DefaultOrder: "notes.modified_on DESC",
	Fields: map[string]search.Field{
		"title":      {Column: "notes.title", Type: search.TypeText, Filterable: true, Sortable: true},
		"content":    {Column: "notes.content", Type: search.TypeText, Filterable: true},
		"shared":     {Column: "notes.shared", Type: search.TypeBool, Filterable: true, Sortable: true},
		"ownerLogin": {Column: "users.login", Type: search.TypeText, Filterable: true, Sortable: true},
		"tagIds": {
			SetTemplate: "EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = notes.note_id AND nt.tag_id IN (%s))",
			Type:        search.TypeNumber,
			Filterable:  true,
		},
		"createdOn":  {Column: "notes.created_on", Type: search.TypeDate, Filterable: true, Sortable: true},
		"modifiedOn": {Column: "notes.modified_on", Type: search.TypeDate, Filterable: true, Sortable: true},
	},
}

// NotePostgres is a PostgreSQL implementation of repository.NoteRepository.
type NotePostgres struct {
	db *sql.DB
}

// NewNotePostgres creates a new NotePostgres repository.
func NewNotePostgres(db *sql.DB) *NotePostgres {
	return &NotePostgres{db: db}
}

var _ repository.NoteRepository = (*NotePostgres)(nil)

func scanNote(row interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	if err := row.Scan(
		&n.NoteID,
		&n.Title,
		&n.Content,
		&n.Shared,
		&n.OwnerUserID,
		&n.OwnerLogin,
		&n.CreatedOn,
		&n.ModifiedOn,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts the note and its tag links in one transaction.
func (r *NotePostgres) Create(ctx context.Context, note *model.Note, tagIDs []int64) (*model.Note, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO notes (title, content, shared, owner_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING note_id, created_on, modified_on
	`
	out := *note
	if err := tx.QueryRowContext(ctx, q, note.Title, note.Content, note.Shared, note.OwnerUserID).
		Scan(&out.NoteID, &out.CreatedOn, &out.ModifiedOn); err != nil {
		return nil, err
	}
	if err := replaceNoteTags(ctx, tx, out.NoteID, tagIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, out.NoteID)
}

func (r *NotePostgres) FindByID(ctx context.Context, id int64) (*model.Note, error) {
	const q = `
		SELECT notes.note_id, notes.title, notes.content, notes.shared,
		       notes.owner_user_id, users.login, notes.created_on, notes.modified_on
		FROM notes JOIN users ON users.user_id = notes.owner_user_id
		WHERE notes.note_id = $1
	`
	n, err := scanNote(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	tagsByNote, err := noteTags(ctx, r.db, []int64{n.NoteID})
	if err != nil {
		return nil, err
	}
	n.Tags = tagsByNote[n.NoteID]
	if n.Tags == nil {
		n.Tags = []model.Tag{}
	}
	return n, nil
}

// Update rewrites the note row and replaces its tag links in one transaction.
func (r *NotePostgres) Update(ctx context.Context, note *model.Note, tagIDs []int64) (*model.Note, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		UPDATE notes
		SET title = $2, content = $3, shared = $4, modified_on = now()
		WHERE note_id = $1
		RETURNING note_id
	`
	var id int64
	if err := tx.QueryRowContext(ctx, q, note.NoteID, note.Title, note.Content, note.Shared).Scan(&id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = $1`, id); err != nil {
		return nil, err
	}
	if err := replaceNoteTags(ctx, tx, id, tagIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *NotePostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM notes WHERE note_id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Search runs the compiled query and attaches tags to the page of notes.
func (r *NotePostgres) Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.Note], error) {
	page, err := runSearch(ctx, r.db, noteSchema, req, visibility, func(rows *sql.Rows) (model.Note, error) {
		n, err := scanNote(rows)
		if err != nil {
			return model.Note{}, err
		}
		return *n, nil
	})
	if err != nil {
		return page, err
	}

	ids := make([]int64, len(page.Data))
	for i, n := range page.Data {
		ids[i] = n.NoteID
	}
	tagsByNote, err := noteTags(ctx, r.db, ids)
	if err != nil {
		return search.Page[model.Note]{}, err
	}
	for i := range page.Data {
		tags := tagsByNote[page.Data[i].NoteID]
		if tags == nil {
			tags = []model.Tag{}
		}
		page.Data[i].Tags = tags
	}
	return page, nil
}

func replaceNoteTags(ctx context.Context, tx repository.DBTX, noteID int64, tagIDs []int64) error {
	const q = `INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, q, noteID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// noteTags fetches tags for a batch of notes keyed by note id.
func noteTags(ctx context.Context, db repository.DBTX, noteIDs []int64) (map[int64][]model.Tag, error) {
	out := make(map[int64][]model.Tag)
	if len(noteIDs) == 0 {
		return out, nil
	}
	in, args := inClause(1, noteIDs)
	q := `
		SELECT nt.note_id, t.tag_id, t.name, t.description, t.created_on
		FROM note_tags nt JOIN tags t ON t.tag_id = nt.tag_id
		WHERE nt.note_id IN (` + in + `)
		ORDER BY t.name ASC
	`
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var noteID int64
		var t model.Tag
		if err := rows.Scan(&noteID, &t.TagID, &t.Name, &t.Description, &t.CreatedOn); err != nil {
			return nil, err
		}
		out[noteID] = append(out[noteID], t)
	}
	return out, rows.Err()
}
