package service

import (
	"context"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
	"arcapi/internal/signature"
)

// ElementInput carries the writable fields of a signature element.
type ElementInput struct {
	SignatureComponentID int64   `json:"signatureComponentId"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	ParentIDs            []int64 `json:"parentIds"`
}

// SignatureService defines the use cases for signature components, the
// element DAG, re-indexing and display-path resolution.
type SignatureService interface {
	CreateComponent(ctx context.Context, name, description string, indexType model.IndexType) (*model.SignatureComponent, error)
	ListComponents(ctx context.Context) ([]model.SignatureComponent, error)
	GetComponent(ctx context.Context, id int64) (*model.SignatureComponent, error)
	UpdateComponent(ctx context.Context, id int64, name, description string, indexType model.IndexType) (*model.SignatureComponent, error)
	// DeleteComponent refuses while elements still reference the
	// component; there is no cascade.
	DeleteComponent(ctx context.Context, id int64) error
	// Reindex recomputes every element index in the component under its
	// numbering scheme, atomically.
	Reindex(ctx context.Context, componentID int64) (*model.SignatureComponent, error)

	CreateElement(ctx context.Context, in ElementInput) (*model.SignatureElement, error)
	// GetElement optionally populates relations; recognized populate
	// values are "parents" and "component".
	GetElement(ctx context.Context, id int64, populate []string) (*model.SignatureElement, error)
	UpdateElement(ctx context.Context, id int64, in ElementInput) (*model.SignatureElement, error)
	DeleteElement(ctx context.Context, id int64) error
	SearchElements(ctx context.Context, req search.Request) (search.Page[model.SignatureElementSearchResult], error)

	// ResolvePath renders a stored signature path. Dangling ids render as
	// placeholders; resolution never fails on them.
	ResolvePath(ctx context.Context, ids []int64) (string, error)
}

type signatureService struct {
	repo repository.SignatureRepository
	logs LogService
}

// NewSignatureService constructs a new SignatureService.
func NewSignatureService(repo repository.SignatureRepository, logs LogService) SignatureService {
	return &signatureService{repo: repo, logs: logs}
}

func (s *signatureService) CreateComponent(ctx context.Context, name, description string, indexType model.IndexType) (*model.SignatureComponent, error) {
	if name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	if !indexType.Valid() {
		return nil, apperr.Validation("index_type", "unknown index type %q", indexType)
	}
	c, err := s.repo.CreateComponent(ctx, name, description, indexType)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Validation("name", "component %q already exists", name)
		}
		return nil, apperr.Storage(err)
	}
	return c, nil
}

func (s *signatureService) ListComponents(ctx context.Context) ([]model.SignatureComponent, error) {
	cs, err := s.repo.ListComponents(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return cs, nil
}

func (s *signatureService) GetComponent(ctx context.Context, id int64) (*model.SignatureComponent, error) {
	c, err := s.repo.FindComponentByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "signature component", id)
	}
	return c, nil
}

func (s *signatureService) UpdateComponent(ctx context.Context, id int64, name, description string, indexType model.IndexType) (*model.SignatureComponent, error) {
	if name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	if !indexType.Valid() {
		return nil, apperr.Validation("index_type", "unknown index type %q", indexType)
	}
	existing, err := s.repo.FindComponentByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "signature component", id)
	}
	existing.Name = name
	existing.Description = description
	existing.IndexType = indexType
	c, err := s.repo.UpdateComponent(ctx, existing)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Validation("name", "component %q already exists", name)
		}
		return nil, apperr.Storage(err)
	}
	return c, nil
}

func (s *signatureService) DeleteComponent(ctx context.Context, id int64) error {
	els, err := s.repo.ElementsByComponent(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if len(els) > 0 {
		return apperr.Validation("signatureComponentId", "component %d still has %d elements", id, len(els))
	}
	if err := s.repo.DeleteComponent(ctx, id); err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Validation("signatureComponentId", "component %d is still referenced", id)
		}
		return mapErr(err, "signature component", id)
	}
	return nil
}

func (s *signatureService) Reindex(ctx context.Context, componentID int64) (*model.SignatureComponent, error) {
	comp, err := s.repo.FindComponentByID(ctx, componentID)
	if err != nil {
		return nil, mapErr(err, "signature component", componentID)
	}
	els, err := s.repo.ElementsByComponent(ctx, componentID)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	order := make([]signature.Orderable, len(els))
	for i, el := range els {
		idx := ""
		if el.Index != nil {
			idx = *el.Index
		}
		order[i] = signature.Orderable{ID: el.SignatureElementID, Index: idx, Name: el.Name}
	}
	signature.SortForReindex(comp.IndexType, order)

	assignments := make([]repository.IndexAssignment, len(order))
	for i, o := range order {
		idx, err := signature.FormatIndex(comp.IndexType, i+1)
		if err != nil {
			return nil, err
		}
		assignments[i] = repository.IndexAssignment{SignatureElementID: o.ID, Index: idx}
	}
	if err := s.repo.UpdateIndexes(ctx, componentID, assignments); err != nil {
		return nil, apperr.Storage(err)
	}

	s.logs.Info(ctx, "", "signature", "component re-indexed",
		map[string]any{"signatureComponentId": componentID, "elements": len(assignments)})
	return s.GetComponent(ctx, componentID)
}

func (s *signatureService) CreateElement(ctx context.Context, in ElementInput) (*model.SignatureElement, error) {
	if in.Name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	if _, err := s.repo.FindComponentByID(ctx, in.SignatureComponentID); err != nil {
		return nil, mapErr(err, "signature component", in.SignatureComponentID)
	}
	if err := s.requireParents(ctx, in.ParentIDs); err != nil {
		return nil, err
	}
	el := &model.SignatureElement{
		SignatureComponentID: in.SignatureComponentID,
		Name:                 in.Name,
		Description:          in.Description,
	}
	created, err := s.repo.CreateElement(ctx, el, dedupe(in.ParentIDs))
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return created, nil
}

func (s *signatureService) GetElement(ctx context.Context, id int64, populate []string) (*model.SignatureElement, error) {
	el, err := s.repo.FindElementByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "signature element", id)
	}
	for _, p := range populate {
		switch p {
		case "parents":
			// Parent ids are always loaded; populate expands them into
			// full elements, in id order.
			loaded, err := s.repo.ElementsByIDs(ctx, el.ParentIDs)
			if err != nil {
				return nil, apperr.Storage(err)
			}
			el.Parents = make([]model.SignatureElement, 0, len(el.ParentIDs))
			for _, pid := range el.ParentIDs {
				if p, ok := loaded[pid]; ok {
					el.Parents = append(el.Parents, p)
				}
			}
		case "component":
			comp, err := s.repo.FindComponentByID(ctx, el.SignatureComponentID)
			if err != nil {
				return nil, mapErr(err, "signature component", el.SignatureComponentID)
			}
			el.Component = comp
		default:
			return nil, apperr.Validation("populate", "unknown relation %q", p)
		}
	}
	return el, nil
}

func (s *signatureService) UpdateElement(ctx context.Context, id int64, in ElementInput) (*model.SignatureElement, error) {
	if in.Name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	existing, err := s.repo.FindElementByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "signature element", id)
	}

	parentIDs := dedupe(in.ParentIDs)
	if err := s.requireParents(ctx, parentIDs); err != nil {
		return nil, err
	}
	offender, cyclic, err := signature.FindCycle(ctx, id, parentIDs, s.repo.ParentsOf)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if cyclic {
		return nil, apperr.Validation("parentIds", "parent %d would create a cycle", offender)
	}

	existing.Name = in.Name
	existing.Description = in.Description
	updated, err := s.repo.UpdateElement(ctx, existing, parentIDs)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return updated, nil
}

func (s *signatureService) DeleteElement(ctx context.Context, id int64) error {
	n, err := s.repo.ChildCount(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if n > 0 {
		return apperr.Validation("signatureElementId", "element %d is a parent of %d elements", id, n)
	}
	if err := s.repo.DeleteElement(ctx, id); err != nil {
		return mapErr(err, "signature element", id)
	}
	return nil
}

func (s *signatureService) SearchElements(ctx context.Context, req search.Request) (search.Page[model.SignatureElementSearchResult], error) {
	page, err := s.repo.SearchElements(ctx, req, search.Clause{})
	if err != nil {
		if apperr.KindOf(err) != 0 {
			return search.Page[model.SignatureElementSearchResult]{}, err
		}
		return search.Page[model.SignatureElementSearchResult]{}, apperr.Storage(err)
	}

	seed := make([]int64, 0)
	for _, el := range page.Data {
		seed = append(seed, el.ParentIDs...)
	}
	els, parents, err := s.ancestorClosure(ctx, seed)
	if err != nil {
		return search.Page[model.SignatureElementSearchResult]{}, err
	}

	results := make([]model.SignatureElementSearchResult, len(page.Data))
	for i, el := range page.Data {
		paths := make([]string, len(el.ParentIDs))
		for j, pid := range el.ParentIDs {
			paths[j] = formatChain(chainTo(pid, parents), els)
		}
		results[i] = model.SignatureElementSearchResult{
			SignatureElement:    el,
			ResolvedParentPaths: paths,
		}
	}
	return search.Page[model.SignatureElementSearchResult]{
		Data:       results,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalSize:  page.TotalSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *signatureService) ResolvePath(ctx context.Context, ids []int64) (string, error) {
	els, err := s.repo.ElementsByIDs(ctx, ids)
	if err != nil {
		return "", apperr.Storage(err)
	}
	return formatChain(ids, els), nil
}

// requireParents verifies every candidate parent exists. The first missing
// id is named in the validation error.
func (s *signatureService) requireParents(ctx context.Context, parentIDs []int64) error {
	if len(parentIDs) == 0 {
		return nil
	}
	found, err := s.repo.ElementsByIDs(ctx, parentIDs)
	if err != nil {
		return apperr.Storage(err)
	}
	for _, id := range parentIDs {
		if _, ok := found[id]; !ok {
			return apperr.Validation("parentIds", "parent element %d does not exist", id)
		}
	}
	return nil
}

// ancestorClosure batch-loads every element and parent link reachable
// upward from the seed ids, so per-element path building needs no further
// queries.
func (s *signatureService) ancestorClosure(ctx context.Context, seed []int64) (map[int64]model.SignatureElement, map[int64][]int64, error) {
	els := make(map[int64]model.SignatureElement)
	parents := make(map[int64][]int64)
	visited := make(map[int64]bool)

	frontier := dedupe(seed)
	for len(frontier) > 0 {
		loaded, err := s.repo.ElementsByIDs(ctx, frontier)
		if err != nil {
			return nil, nil, apperr.Storage(err)
		}
		for id, el := range loaded {
			els[id] = el
		}
		links, err := s.repo.ParentsOf(ctx, frontier)
		if err != nil {
			return nil, nil, apperr.Storage(err)
		}
		var next []int64
		for id, ps := range links {
			parents[id] = ps
			for _, p := range ps {
				if !visited[p] {
					visited[p] = true
					next = append(next, p)
				}
			}
		}
		frontier = next
	}
	return els, parents, nil
}

// chainTo walks upward from id to a root, picking the lowest-numbered
// parent at each hop so the rendered path is deterministic, and returns
// the chain in root-first order. A visited guard caps the walk on any
// malformed link data.
func chainTo(id int64, parents map[int64][]int64) []int64 {
	chain := []int64{id}
	visited := map[int64]bool{id: true}
	cur := id
	for {
		ps := parents[cur]
		if len(ps) == 0 {
			break
		}
		next := ps[0]
		for _, p := range ps[1:] {
			if p < next {
				next = p
			}
		}
		if visited[next] {
			break
		}
		visited[next] = true
		chain = append([]int64{next}, chain...)
		cur = next
	}
	return chain
}

// formatChain renders an ordered id sequence as a display path, with
// placeholders for ids that no longer resolve.
func formatChain(ids []int64, els map[int64]model.SignatureElement) string {
	hops := make([]signature.PathElement, len(ids))
	for i, id := range ids {
		el, ok := els[id]
		if !ok {
			hops[i] = signature.PathElement{ID: id, Missing: true}
			continue
		}
		idx := ""
		if el.Index != nil {
			idx = *el.Index
		}
		hops[i] = signature.PathElement{ID: id, Index: idx, Name: el.Name}
	}
	return signature.FormatPath(hops)
}

// dedupe drops duplicate ids preserving first occurrence order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
