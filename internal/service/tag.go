package service

import (
	"context"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
	"arcapi/internal/repository"
)

// TagService defines the use cases for tags.
type TagService interface {
	Create(ctx context.Context, name, description string) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id int64) (*model.Tag, error)
	Update(ctx context.Context, id int64, name, description string) (*model.Tag, error)
	Delete(ctx context.Context, id int64) error
}

type tagService struct {
	repo repository.TagRepository
}

// NewTagService constructs a new TagService.
func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) Create(ctx context.Context, name, description string) (*model.Tag, error) {
	if name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	tag, err := s.repo.Create(ctx, name, description)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Validation("name", "tag %q already exists", name)
		}
		return nil, apperr.Storage(err)
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return tags, nil
}

func (s *tagService) Get(ctx context.Context, id int64) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "tag", id)
	}
	return tag, nil
}

func (s *tagService) Update(ctx context.Context, id int64, name, description string) (*model.Tag, error) {
	if name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	tag, err := s.repo.Update(ctx, id, name, description)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Validation("name", "tag %q already exists", name)
		}
		return nil, mapErr(err, "tag", id)
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// requireTags verifies every referenced tag exists before a write links
// them. The first missing id is named in the validation error.
func requireTags(ctx context.Context, repo repository.TagRepository, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	found, err := repo.FindByIDs(ctx, tagIDs)
	if err != nil {
		return apperr.Storage(err)
	}
	known := make(map[int64]bool, len(found))
	for _, t := range found {
		known[t.TagID] = true
	}
	for _, id := range tagIDs {
		if !known[id] {
			return apperr.Validation("tagIds", "tag %d does not exist", id)
		}
	}
	return nil
}
