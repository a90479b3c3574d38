package service

import (
	"context"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
)

// ArchiveDocumentInput carries the writable fields of an archive document.
type ArchiveDocumentInput struct {
	Type                        model.ArchiveDocumentType `json:"type"`
	ParentUnitArchiveDocumentID *int64                    `json:"parentUnitArchiveDocumentId"`
	Title                       string                    `json:"title"`
	Creator                     string                    `json:"creator"`
	CreationDate                string                    `json:"creationDate"`
	NumberOfPages               *int                      `json:"numberOfPages"`
	DocumentType                string                    `json:"documentType"`
	Dimensions                  string                    `json:"dimensions"`
	Binding                     string                    `json:"binding"`
	Condition                   string                    `json:"condition"`
	DocumentLanguage            string                    `json:"documentLanguage"`
	ContentDescription          string                    `json:"contentDescription"`
	Remarks                     string                    `json:"remarks"`
	AccessLevel                 string                    `json:"accessLevel"`
	AccessConditions            string                    `json:"accessConditions"`
	AdditionalInformation       string                    `json:"additionalInformation"`
	RelatedDocumentsReferences  string                    `json:"relatedDocumentsReferences"`
	IsDigitized                 bool                      `json:"isDigitized"`
	DigitizedVersionLink        string                    `json:"digitizedVersionLink"`
	TagIDs                      []int64                   `json:"tagIds"`
	TopographicSignatures       []model.SignaturePath     `json:"topographicSignatureElementIds"`
	DescriptiveSignatures       []model.SignaturePath     `json:"descriptiveSignatureElementIds"`
}

// ArchiveService defines the use cases for archive documents. Documents
// are soft-deleted; inactive ones stay visible to admins only.
type ArchiveService interface {
	Create(ctx context.Context, actor *model.User, in ArchiveDocumentInput) (*model.ArchiveDocument, error)
	Get(ctx context.Context, actor *model.User, id int64) (*model.ArchiveDocument, error)
	Update(ctx context.Context, actor *model.User, id int64, in ArchiveDocumentInput) (*model.ArchiveDocument, error)
	Delete(ctx context.Context, actor *model.User, id int64) error
	Search(ctx context.Context, actor *model.User, req search.Request) (search.Page[model.ArchiveDocumentSearchResult], error)
}

type archiveService struct {
	repo repository.ArchiveRepository
	tags repository.TagRepository
	sigs SignatureService
	logs LogService
}

// NewArchiveService constructs a new ArchiveService.
func NewArchiveService(repo repository.ArchiveRepository, tags repository.TagRepository, sigs SignatureService, logs LogService) ArchiveService {
	return &archiveService{repo: repo, tags: tags, sigs: sigs, logs: logs}
}

func (s *archiveService) Create(ctx context.Context, actor *model.User, in ArchiveDocumentInput) (*model.ArchiveDocument, error) {
	if err := s.validate(ctx, in, 0); err != nil {
		return nil, err
	}
	doc := docFromInput(in)
	doc.OwnerUserID = actor.UserID
	created, err := s.repo.Create(ctx, doc, dedupe(in.TagIDs))
	if err != nil {
		return nil, apperr.Storage(err)
	}
	s.logs.Info(ctx, actor.Login, "archive", "document created",
		map[string]any{"archiveDocumentId": created.ArchiveDocumentID})
	return created, nil
}

func (s *archiveService) Get(ctx context.Context, actor *model.User, id int64) (*model.ArchiveDocument, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "archive document", id)
	}
	if !doc.Active && actor.Role != model.RoleAdmin {
		return nil, apperr.NotFound("archive document", id)
	}
	return doc, nil
}

func (s *archiveService) Update(ctx context.Context, actor *model.User, id int64, in ArchiveDocumentInput) (*model.ArchiveDocument, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, id); err != nil {
		return nil, err
	}
	doc := docFromInput(in)
	doc.ArchiveDocumentID = existing.ArchiveDocumentID
	doc.OwnerUserID = existing.OwnerUserID
	updated, err := s.repo.Update(ctx, doc, dedupe(in.TagIDs))
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return updated, nil
}

func (s *archiveService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Disable(ctx, id); err != nil {
		return mapErr(err, "archive document", id)
	}
	s.logs.Info(ctx, actor.Login, "archive", "document disabled",
		map[string]any{"archiveDocumentId": id})
	return nil
}

func (s *archiveService) Search(ctx context.Context, actor *model.User, req search.Request) (search.Page[model.ArchiveDocumentSearchResult], error) {
	visibility := search.Clause{}
	if actor.Role != model.RoleAdmin {
		visibility = search.Clause{SQL: "archive_documents.active = TRUE"}
	}
	page, err := s.repo.Search(ctx, req, visibility)
	if err != nil {
		if apperr.KindOf(err) != 0 {
			return search.Page[model.ArchiveDocumentSearchResult]{}, err
		}
		return search.Page[model.ArchiveDocumentSearchResult]{}, apperr.Storage(err)
	}

	results := make([]model.ArchiveDocumentSearchResult, len(page.Data))
	for i, doc := range page.Data {
		topo, err := s.resolveAll(ctx, doc.TopographicSignatures)
		if err != nil {
			return search.Page[model.ArchiveDocumentSearchResult]{}, err
		}
		desc, err := s.resolveAll(ctx, doc.DescriptiveSignatures)
		if err != nil {
			return search.Page[model.ArchiveDocumentSearchResult]{}, err
		}
		results[i] = model.ArchiveDocumentSearchResult{
			ArchiveDocument:               doc,
			ResolvedTopographicSignatures: topo,
			ResolvedDescriptiveSignatures: desc,
		}
	}
	return search.Page[model.ArchiveDocumentSearchResult]{
		Data:       results,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalSize:  page.TotalSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *archiveService) resolveAll(ctx context.Context, paths []model.SignaturePath) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		resolved, err := s.sigs.ResolvePath(ctx, p)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// validate checks the writable fields. selfID is nonzero on update so a
// unit cannot become its own parent or be moved under one of its
// descendants.
func (s *archiveService) validate(ctx context.Context, in ArchiveDocumentInput, selfID int64) error {
	if in.Title == "" {
		return apperr.Validation("title", "must not be empty")
	}
	if !in.Type.Valid() {
		return apperr.Validation("type", "unknown document type %q", in.Type)
	}
	if err := requireTags(ctx, s.tags, in.TagIDs); err != nil {
		return err
	}
	if in.ParentUnitArchiveDocumentID == nil {
		return nil
	}

	parentID := *in.ParentUnitArchiveDocumentID
	if selfID != 0 && parentID == selfID {
		return apperr.Validation("parentUnitArchiveDocumentId", "document cannot be its own parent")
	}
	parent, err := s.repo.FindByID(ctx, parentID)
	if err != nil {
		return mapErr(err, "archive document", parentID)
	}
	if parent.Type != model.DocTypeUnit {
		return apperr.Validation("parentUnitArchiveDocumentId", "document %d is not a unit", parentID)
	}
	if !parent.Active {
		return apperr.Validation("parentUnitArchiveDocumentId", "unit %d is disabled", parentID)
	}
	if selfID == 0 {
		return nil
	}

	// The candidate parent's ancestor chain must not pass through the
	// document being updated, or the unit tree closes into a loop. A
	// visited set caps the walk on malformed link data.
	visited := map[int64]bool{parentID: true}
	cur := parent
	for cur.ParentUnitArchiveDocumentID != nil {
		next := *cur.ParentUnitArchiveDocumentID
		if next == selfID {
			return apperr.Validation("parentUnitArchiveDocumentId", "unit %d would create a cycle", parentID)
		}
		if visited[next] {
			break
		}
		visited[next] = true
		cur, err = s.repo.FindByID(ctx, next)
		if err != nil {
			return mapErr(err, "archive document", next)
		}
	}
	return nil
}

func docFromInput(in ArchiveDocumentInput) *model.ArchiveDocument {
	topo := in.TopographicSignatures
	if topo == nil {
		topo = []model.SignaturePath{}
	}
	desc := in.DescriptiveSignatures
	if desc == nil {
		desc = []model.SignaturePath{}
	}
	return &model.ArchiveDocument{
		Type:                        in.Type,
		ParentUnitArchiveDocumentID: in.ParentUnitArchiveDocumentID,
		Title:                       in.Title,
		Creator:                     in.Creator,
		CreationDate:                in.CreationDate,
		NumberOfPages:               in.NumberOfPages,
		DocumentType:                in.DocumentType,
		Dimensions:                  in.Dimensions,
		Binding:                     in.Binding,
		Condition:                   in.Condition,
		DocumentLanguage:            in.DocumentLanguage,
		ContentDescription:          in.ContentDescription,
		Remarks:                     in.Remarks,
		AccessLevel:                 in.AccessLevel,
		AccessConditions:            in.AccessConditions,
		AdditionalInformation:       in.AdditionalInformation,
		RelatedDocumentsReferences:  in.RelatedDocumentsReferences,
		IsDigitized:                 in.IsDigitized,
		DigitizedVersionLink:        in.DigitizedVersionLink,
		TopographicSignatures:       topo,
		DescriptiveSignatures:       desc,
	}
}
