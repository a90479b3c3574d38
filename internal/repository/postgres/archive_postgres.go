package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
)

// archiveSchema is the searchable-field allow-list for archive documents.
// "type" and "doc_type" alias the same column; clients have historically
// used both. The service layer forces active = TRUE through the
// visibility clause for non-admin callers.
var archiveSchema = &search.Schema{
	Table: "archive_documents JOIN users ON users.user_id = archive_documents.owner_user_id",
	Key:   "archive_documents.archive_document_id",
	SelectColumns: "archive_documents.archive_document_id, archive_documents.doc_type, " +
		"archive_documents.parent_unit_archive_document_id, archive_documents.title, " +
		"archive_documents.creator, archive_documents.creation_date, archive_documents.number_of_pages, " +
		"archive_documents.document_type, archive_documents.dimensions, archive_documents.binding, " +
		"archive_documents.condition, archive_documents.document_language, archive_documents.content_description, " +
		"archive_documents.remarks, archive_documents.access_level, archive_documents.access_conditions, " +
		"archive_documents.additional_information, archive_documents.related_documents_references, " +
		"archive_documents.is_digitized, archive_documents.digitized_version_link, archive_documents.active, " +
		"archive_documents.owner_user_id, users.login, archive_documents.created_on, archive_documents.modified_on",
	DefaultOrder: "archive_documents.doc_type ASC, archive_documents.title ASC",
	Fields: map[string]search.Field{
		"title":        {Column: "archive_documents.title", Type: search.TypeText, Filterable: true, Sortable: true},
		"creator":      {Column: "archive_documents.creator", Type: search.TypeText, Filterable: true, Sortable: true},
		"creationDate": {Column: "archive_documents.creation_date", Type: search.TypeText, Filterable: true, Sortable: true},
		"type":         {Column: "archive_documents.doc_type", Type: search.TypeText, Filterable: true, Sortable: true},
		"doc_type":     {Column: "archive_documents.doc_type", Type: search.TypeText, Filterable: true, Sortable: true},
		"parentUnitArchiveDocumentId": {
			Column: "archive_documents.parent_unit_archive_document_id",
			Type:   search.TypeNumber, Filterable: true,
		},
		"active":      {Column: "archive_documents.active", Type: search.TypeBool, Filterable: true},
		"isDigitized": {Column: "archive_documents.is_digitized", Type: search.TypeBool, Filterable: true},
		"tagIds": {
			SetTemplate: "EXISTS (SELECT 1 FROM archive_document_tags adt " +
				"WHERE adt.archive_document_id = archive_documents.archive_document_id AND adt.tag_id IN (%s))",
			Type:       search.TypeNumber,
			Filterable: true,
		},
		"documentType":       {Column: "archive_documents.document_type", Type: search.TypeText, Filterable: true},
		"dimensions":         {Column: "archive_documents.dimensions", Type: search.TypeText, Filterable: true},
		"binding":            {Column: "archive_documents.binding", Type: search.TypeText, Filterable: true},
		"condition":          {Column: "archive_documents.condition", Type: search.TypeText, Filterable: true},
		"documentLanguage":   {Column: "archive_documents.document_language", Type: search.TypeText, Filterable: true},
		"contentDescription": {Column: "archive_documents.content_description", Type: search.TypeText, Filterable: true},
		"remarks":            {Column: "archive_documents.remarks", Type: search.TypeText, Filterable: true},
		"accessLevel":        {Column: "archive_documents.access_level", Type: search.TypeText, Filterable: true},
		"ownerLogin":         {Column: "users.login", Type: search.TypeText, Filterable: true, Sortable: true},
		"createdOn":          {Column: "archive_documents.created_on", Type: search.TypeDate, Filterable: true, Sortable: true},
		"modifiedOn":         {Column: "archive_documents.modified_on", Type: search.TypeDate, Filterable: true, Sortable: true},
	},
}

// ArchivePostgres is a PostgreSQL implementation of repository.ArchiveRepository.
type ArchivePostgres struct {
	db *sql.DB
}

// NewArchivePostgres creates a new ArchivePostgres repository.
func NewArchivePostgres(db *sql.DB) *ArchivePostgres {
	return &ArchivePostgres{db: db}
}

var _ repository.ArchiveRepository = (*ArchivePostgres)(nil)

func scanArchiveDocument(row interface{ Scan(...any) error }) (*model.ArchiveDocument, error) {
	var d model.ArchiveDocument
	if err := row.Scan(
		&d.ArchiveDocumentID,
		&d.Type,
		&d.ParentUnitArchiveDocumentID,
		&d.Title,
		&d.Creator,
		&d.CreationDate,
		&d.NumberOfPages,
		&d.DocumentType,
		&d.Dimensions,
		&d.Binding,
		&d.Condition,
		&d.DocumentLanguage,
		&d.ContentDescription,
		&d.Remarks,
		&d.AccessLevel,
		&d.AccessConditions,
		&d.AdditionalInformation,
		&d.RelatedDocumentsReferences,
		&d.IsDigitized,
		&d.DigitizedVersionLink,
		&d.Active,
		&d.OwnerUserID,
		&d.OwnerLogin,
		&d.CreatedOn,
		&d.ModifiedOn,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts the document row, its tag links and its signature paths
// in one transaction.
func (r *ArchivePostgres) Create(ctx context.Context, doc *model.ArchiveDocument, tagIDs []int64) (*model.ArchiveDocument, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO archive_documents (
			doc_type, parent_unit_archive_document_id, title, creator, creation_date,
			number_of_pages, document_type, dimensions, binding, condition,
			document_language, content_description, remarks, access_level, access_conditions,
			additional_information, related_documents_references, is_digitized, digitized_version_link,
			owner_user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING archive_document_id
	`
	var id int64
	if err := tx.QueryRowContext(ctx, q,
		doc.Type, doc.ParentUnitArchiveDocumentID, doc.Title, doc.Creator, doc.CreationDate,
		doc.NumberOfPages, doc.DocumentType, doc.Dimensions, doc.Binding, doc.Condition,
		doc.DocumentLanguage, doc.ContentDescription, doc.Remarks, doc.AccessLevel, doc.AccessConditions,
		doc.AdditionalInformation, doc.RelatedDocumentsReferences, doc.IsDigitized, doc.DigitizedVersionLink,
		doc.OwnerUserID,
	).Scan(&id); err != nil {
		return nil, err
	}
	if err := replaceDocumentTags(ctx, tx, id, tagIDs); err != nil {
		return nil, err
	}
	if err := replaceDocumentSignatures(ctx, tx, id, doc.TopographicSignatures, doc.DescriptiveSignatures); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *ArchivePostgres) FindByID(ctx context.Context, id int64) (*model.ArchiveDocument, error) {
	q := `SELECT ` + archiveSchema.SelectColumns + ` FROM ` + archiveSchema.Table +
		` WHERE archive_documents.archive_document_id = $1`
	d, err := scanArchiveDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, []*model.ArchiveDocument{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// Update rewrites the document row and replaces its tag links and
// signature paths in one transaction. Active is not touched here; only
// Disable flips it.
func (r *ArchivePostgres) Update(ctx context.Context, doc *model.ArchiveDocument, tagIDs []int64) (*model.ArchiveDocument, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		UPDATE archive_documents SET
			doc_type = $2, parent_unit_archive_document_id = $3, title = $4, creator = $5,
			creation_date = $6, number_of_pages = $7, document_type = $8, dimensions = $9,
			binding = $10, condition = $11, document_language = $12, content_description = $13,
			remarks = $14, access_level = $15, access_conditions = $16, additional_information = $17,
			related_documents_references = $18, is_digitized = $19, digitized_version_link = $20,
			modified_on = now()
		WHERE archive_document_id = $1
		RETURNING archive_document_id
	`
	var id int64
	if err := tx.QueryRowContext(ctx, q,
		doc.ArchiveDocumentID, doc.Type, doc.ParentUnitArchiveDocumentID, doc.Title, doc.Creator,
		doc.CreationDate, doc.NumberOfPages, doc.DocumentType, doc.Dimensions,
		doc.Binding, doc.Condition, doc.DocumentLanguage, doc.ContentDescription,
		doc.Remarks, doc.AccessLevel, doc.AccessConditions, doc.AdditionalInformation,
		doc.RelatedDocumentsReferences, doc.IsDigitized, doc.DigitizedVersionLink,
	).Scan(&id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM archive_document_tags WHERE archive_document_id = $1`, id); err != nil {
		return nil, err
	}
	if err := replaceDocumentTags(ctx, tx, id, tagIDs); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM archive_document_signatures WHERE archive_document_id = $1`, id); err != nil {
		return nil, err
	}
	if err := replaceDocumentSignatures(ctx, tx, id, doc.TopographicSignatures, doc.DescriptiveSignatures); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Disable soft-deletes the document.
func (r *ArchivePostgres) Disable(ctx context.Context, id int64) error {
	const q = `UPDATE archive_documents SET active = FALSE, modified_on = now() WHERE archive_document_id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ArchivePostgres) Search(ctx context.Context, req search.Request, visibility search.Clause) (search.Page[model.ArchiveDocument], error) {
	page, err := runSearch(ctx, r.db, archiveSchema, req, visibility, func(rows *sql.Rows) (model.ArchiveDocument, error) {
		d, err := scanArchiveDocument(rows)
		if err != nil {
			return model.ArchiveDocument{}, err
		}
		return *d, nil
	})
	if err != nil {
		return page, err
	}

	docs := make([]*model.ArchiveDocument, len(page.Data))
	for i := range page.Data {
		docs[i] = &page.Data[i]
	}
	if err := r.attachRelations(ctx, docs); err != nil {
		return search.Page[model.ArchiveDocument]{}, err
	}
	return page, nil
}

// attachRelations loads tags and signature paths for a batch of documents.
func (r *ArchivePostgres) attachRelations(ctx context.Context, docs []*model.ArchiveDocument) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]int64, len(docs))
	byID := make(map[int64]*model.ArchiveDocument, len(docs))
	for i, d := range docs {
		ids[i] = d.ArchiveDocumentID
		byID[d.ArchiveDocumentID] = d
		d.Tags = []model.Tag{}
		d.TopographicSignatures = []model.SignaturePath{}
		d.DescriptiveSignatures = []model.SignaturePath{}
	}

	in, args := inClause(1, ids)
	qTags := `
		SELECT adt.archive_document_id, t.tag_id, t.name, t.description, t.created_on
		FROM archive_document_tags adt JOIN tags t ON t.tag_id = adt.tag_id
		WHERE adt.archive_document_id IN (` + in + `)
		ORDER BY t.name ASC
	`
	rows, err := r.db.QueryContext(ctx, qTags, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var docID int64
		var t model.Tag
		if err := rows.Scan(&docID, &t.TagID, &t.Name, &t.Description, &t.CreatedOn); err != nil {
			return err
		}
		byID[docID].Tags = append(byID[docID].Tags, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	qSigs := `
		SELECT archive_document_id, signature_type, element_id_path
		FROM archive_document_signatures
		WHERE archive_document_id IN (` + in + `)
		ORDER BY archive_document_signature_id ASC
	`
	sigRows, err := r.db.QueryContext(ctx, qSigs, args...)
	if err != nil {
		return err
	}
	defer sigRows.Close()
	for sigRows.Next() {
		var docID int64
		var sigType string
		var raw []byte
		if err := sigRows.Scan(&docID, &sigType, &raw); err != nil {
			return err
		}
		var path model.SignaturePath
		if err := json.Unmarshal(raw, &path); err != nil {
			return err
		}
		doc := byID[docID]
		if sigType == "topographic" {
			doc.TopographicSignatures = append(doc.TopographicSignatures, path)
		} else {
			doc.DescriptiveSignatures = append(doc.DescriptiveSignatures, path)
		}
	}
	return sigRows.Err()
}

func replaceDocumentTags(ctx context.Context, tx repository.DBTX, docID int64, tagIDs []int64) error {
	const q = `INSERT INTO archive_document_tags (archive_document_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, q, docID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func replaceDocumentSignatures(ctx context.Context, tx repository.DBTX, docID int64, topographic, descriptive []model.SignaturePath) error {
	const q = `
		INSERT INTO archive_document_signatures (archive_document_id, signature_type, element_id_path)
		VALUES ($1, $2, $3)
	`
	insert := func(sigType string, paths []model.SignaturePath) error {
		for _, path := range paths {
			raw, err := json.Marshal(path)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, docID, sigType, raw); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert("topographic", topographic); err != nil {
		return err
	}
	return insert("descriptive", descriptive)
}
