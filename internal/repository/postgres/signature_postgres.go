package postgres

import (
	"context"
	"database/sql"

	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
)

// elementSchema is the searchable-field allow-list for signature elements.
// parentIds and hasParents are relationship fields resolved through the
// parent-link table rather than columns.
var elementSchema = &search.Schema{
	Table: "signature_elements",
	Key:   "signature_elements.signature_element_id",
	SelectColumns: "signature_elements.signature_element_id, signature_elements.signature_component_id, " +
		"signature_elements.name, signature_elements.description, signature_elements.index, " +
		"signature_elements.created_on, signature_elements.modified_on",
	DefaultOrder: "signature_elements.index ASC, signature_elements.name ASC",
	Fields: map[string]search.Field{
		"name":        {Column: "signature_elements.name", Type: search.TypeText, Filterable: true, Sortable: true},
		"description": {Column: "signature_elements.description", Type: search.TypeText, Filterable: true},
		"index":       {Column: "signature_elements.index", Type: search.TypeText, Filterable: true, Sortable: true},
		"signatureComponentId": {
			Column: "signature_elements.signature_component_id",
			Type:   search.TypeNumber, Filterable: true, Sortable: true,
		},
		"parentIds": {
			SetTemplate: "EXISTS (SELECT 1 FROM signature_element_parents sep " +
				"WHERE sep.signature_element_id = signature_elements.signature_element_id " +
				"AND sep.parent_signature_element_id IN (%s))",
			Type:       search.TypeNumber,
			Filterable: true,
		},
		"hasParents": {
			Expr: "EXISTS (SELECT 1 FROM signature_element_parents sep " +
				"WHERE sep.signature_element_id = signature_elements.signature_element_id)",
			Type:       search.TypeBool,
			Filterable: true,
		},
		"createdOn":  {Column: "signature_elements.created_on", Type: search.TypeDate, Filterable: true, Sortable: true},
		"modifiedOn": {Column: "signature_elements.modified_on", Type: search.TypeDate, Filterable: true, Sortable: true},
	},
}

// SignaturePostgres is a PostgreSQL implementation of repository.SignatureRepository.
type SignaturePostgres struct {
	db *sql.DB
}

// NewSignaturePostgres creates a new SignaturePostgres repository.
func NewSignaturePostgres(db *sql.DB) *SignaturePostgres {
	return &SignaturePostgres{db: db}
}

var _ repository.SignatureRepository = (*SignaturePostgres)(nil)

const componentColumns = "signature_component_id, name, description, index_type, index_count, created_on, modified_on"

func scanComponent(row interface{ Scan(...any) error }) (*model.SignatureComponent, error) {
	var c model.SignatureComponent
	if err := row.Scan(
		&c.SignatureComponentID,
		&c.Name,
		&c.Description,
		&c.IndexType,
		&c.IndexCount,
		&c.CreatedOn,
		&c.ModifiedOn,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanElement(row interface{ Scan(...any) error }) (*model.SignatureElement, error) {
	var el model.SignatureElement
	if err := row.Scan(
		&el.SignatureElementID,
		&el.SignatureComponentID,
		&el.Name,
		&el.Description,
		&el.Index,
		&el.CreatedOn,
		&el.ModifiedOn,
	); err != nil {
		return nil, err
	}
	return &el, nil
}

func (r *SignaturePostgres) CreateComponent(ctx context.Context, name, description string, indexType model.IndexType) (*model.SignatureComponent, error) {
	const q = `
		INSERT INTO signature_components (name, description, index_type)
		VALUES ($1, $2, $3)
		RETURNING ` + componentColumns
	return scanComponent(r.db.QueryRowContext(ctx, q, name, description, indexType))
}

func (r *SignaturePostgres) ListComponents(ctx context.Context) ([]model.SignatureComponent, error) {
	const q = `SELECT ` + componentColumns + ` FROM signature_components ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	components := make([]model.SignatureComponent, 0)
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		components = append(components, *c)
	}
	return components, rows.Err()
}

func (r *SignaturePostgres) FindComponentByID(ctx context.Context, id int64) (*model.SignatureComponent, error) {
	const q = `SELECT ` + componentColumns + ` FROM signature_components WHERE signature_component_id = $1`
	return scanComponent(r.db.QueryRowContext(ctx, q, id))
}

func (r *SignaturePostgres) UpdateComponent(ctx context.Context, c *model.SignatureComponent) (*model.SignatureComponent, error) {
	const q = `
		UPDATE signature_components
		SET name = $2, description = $3, index_type = $4, modified_on = now()
		WHERE signature_component_id = $1
		RETURNING ` + componentColumns
	return scanComponent(r.db.QueryRowContext(ctx, q, c.SignatureComponentID, c.Name, c.Description, c.IndexType))
}

func (r *SignaturePostgres) DeleteComponent(ctx context.Context, id int64) error {
	const q = `DELETE FROM signature_components WHERE signature_component_id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// CreateElement inserts the element and its parent links in one
// transaction, bumping the component's cached element count.
func (r *SignaturePostgres) CreateElement(ctx context.Context, el *model.SignatureElement, parentIDs []int64) (*model.SignatureElement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO signature_elements (signature_component_id, name, description, index)
		VALUES ($1, $2, $3, $4)
		RETURNING signature_element_id
	`
	var id int64
	if err := tx.QueryRowContext(ctx, q, el.SignatureComponentID, el.Name, el.Description, el.Index).Scan(&id); err != nil {
		return nil, err
	}
	if err := replaceParentLinks(ctx, tx, id, parentIDs); err != nil {
		return nil, err
	}
	if err := refreshIndexCount(ctx, tx, el.SignatureComponentID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindElementByID(ctx, id)
}

func (r *SignaturePostgres) FindElementByID(ctx context.Context, id int64) (*model.SignatureElement, error) {
	const q = `
		SELECT signature_element_id, signature_component_id, name, description, index, created_on, modified_on
		FROM signature_elements
		WHERE signature_element_id = $1
	`
	el, err := scanElement(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	parents, err := r.ParentsOf(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	el.ParentIDs = parents[id]
	return el, nil
}

// UpdateElement rewrites the element row and replaces its parent links in
// one transaction.
func (r *SignaturePostgres) UpdateElement(ctx context.Context, el *model.SignatureElement, parentIDs []int64) (*model.SignatureElement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		UPDATE signature_elements
		SET name = $2, description = $3, index = $4, modified_on = now()
		WHERE signature_element_id = $1
		RETURNING signature_element_id
	`
	var id int64
	if err := tx.QueryRowContext(ctx, q, el.SignatureElementID, el.Name, el.Description, el.Index).Scan(&id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM signature_element_parents WHERE signature_element_id = $1`, id); err != nil {
		return nil, err
	}
	if err := replaceParentLinks(ctx, tx, id, parentIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindElementByID(ctx, id)
}

// DeleteElement removes the element and refreshes the owning component's
// cached count in one transaction.
func (r *SignaturePostgres) DeleteElement(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var componentID int64
	const q = `DELETE FROM signature_elements WHERE signature_element_id = $1 RETURNING signature_component_id`
	if err := tx.QueryRowContext(ctx, q, id).Scan(&componentID); err != nil {
		return err
	}
	if err := refreshIndexCount(ctx, tx, componentID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SignaturePostgres) ElementsByComponent(ctx context.Context, componentID int64) ([]model.SignatureElement, error) {
	const q = `
		SELECT signature_element_id, signature_component_id, name, description, index, created_on, modified_on
		FROM signature_elements
		WHERE signature_component_id = $1
		ORDER BY index ASC NULLS LAST, name ASC, signature_element_id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, componentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	els := make([]model.SignatureElement, 0)
	for rows.Next() {
		el, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		els = append(els, *el)
	}
	return els, rows.Err()
}

func (r *SignaturePostgres) ElementsByIDs(ctx context.Context, ids []int64) (map[int64]model.SignatureElement, error) {
	out := make(map[int64]model.SignatureElement)
	if len(ids) == 0 {
		return out, nil
	}
	in, args := inClause(1, ids)
	q := `
		SELECT signature_element_id, signature_component_id, name, description, index, created_on, modified_on
		FROM signature_elements
		WHERE signature_element_id IN (` + in + `)
	`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		el, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		out[el.SignatureElementID] = *el
	}
	return out, rows.Err()
}

func (r *SignaturePostgres) ParentsOf(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64)
	if len(ids) == 0 {
		return out, nil
	}
	in, args := inClause(1, ids)
	q := `
		SELECT signature_element_id, parent_signature_element_id
		FROM signature_element_parents
		WHERE signature_element_id IN (` + in + `)
		ORDER BY parent_signature_element_id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var child, parent int64
		if err := rows.Scan(&child, &parent); err != nil {
			return nil, err
		}
		out[child] = append(out[child], parent)
	}
	return out, rows.Err()
}

func (r *SignaturePostgres) ChildCount(ctx context.Context, id int64) (int, error) {
	const q = `SELECT COUNT(*) FROM signature_element_parents WHERE parent_signature_element_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateIndexes applies a bulk re-index as a single transaction so a
// failure partway leaves no partially renumbered component.
func (r *SignaturePostgres) UpdateIndexes(ctx context.Context, componentID int64, assignments []repository.IndexAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		UPDATE signature_elements
		SET index = $2, modified_on = now()
		WHERE signature_element_id = $1 AND signature_component_id = $3
	`
	for _, a := range assignments {
		if _, err := tx.ExecContext(ctx, q, a.SignatureElementID, a.Index, componentID); err != nil {
			return err
		}
	}
	if err := refreshIndexCount(ctx, tx, componentID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SignaturePostgres) SearchElements(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.SignatureElement], error) {
	page, err := runSearch(ctx, r.db, elementSchema, req, visibility, func(rows *sql.Rows) (model.SignatureElement, error) {
		el, err := scanElement(rows)
		if err != nil {
			return model.SignatureElement{}, err
		}
		return *el, nil
	})
	if err != nil {
		return page, err
	}

	ids := make([]int64, len(page.Data))
	for i, el := range page.Data {
		ids[i] = el.SignatureElementID
	}
	parents, err := r.ParentsOf(ctx, ids)
	if err != nil {
		return search.Page[model.SignatureElement]{}, err
	}
	for i := range page.Data {
		page.Data[i].ParentIDs = parents[page.Data[i].SignatureElementID]
	}
	return page, nil
}

func replaceParentLinks(ctx context.Context, tx repository.DBTX, elementID int64, parentIDs []int64) error {
	const q = `
		INSERT INTO signature_element_parents (signature_element_id, parent_signature_element_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, pid := range parentIDs {
		if _, err := tx.ExecContext(ctx, q, elementID, pid); err != nil {
			return err
		}
	}
	return nil
}

// refreshIndexCount recomputes the component's cached element count.
func refreshIndexCount(ctx context.Context, tx repository.DBTX, componentID int64) error {
	const q = `
		UPDATE signature_components
		SET index_count = (SELECT COUNT(*) FROM signature_elements WHERE signature_component_id = $1)
		WHERE signature_component_id = $1
	`
	_, err := tx.ExecContext(ctx, q, componentID)
	return err
}
