package service

import (
	"context"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
	"arcapi/internal/repository"
	"arcapi/internal/search"
)

// NoteInput carries the writable fields of a note.
type NoteInput struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Shared  bool    `json:"shared"`
	TagIDs  []int64 `json:"tagIds"`
}

// NoteService defines the use cases for notes. Every call carries the
// acting user; visibility and ownership rules are enforced here, never
// from client-supplied filters.
type NoteService interface {
	Create(ctx context.Context, actor *model.User, in NoteInput) (*model.Note, error)
	Get(ctx context.Context, actor *model.User, id int64) (*model.Note, error)
	Update(ctx context.Context, actor *model.User, id int64, in NoteInput) (*model.Note, error)
	Delete(ctx context.Context, actor *model.User, id int64) error
	Search(ctx context.Context, actor *model.User, req search.Request) (search.Page[model.Note], error)
}

type noteService struct {
	repo repository.NoteRepository
	tags repository.TagRepository
}

// NewNoteService constructs a new NoteService.
func NewNoteService(repo repository.NoteRepository, tags repository.TagRepository) NoteService {
	return &noteService{repo: repo, tags: tags}
}

func (s *noteService) Create(ctx context.Context, actor *model.User, in NoteInput) (*model.Note, error) {
	if in.Title == "" {
		return nil, apperr.Validation("title", "must not be empty")
	}
	if err := requireTags(ctx, s.tags, in.TagIDs); err != nil {
		return nil, err
	}
	note := &model.Note{
		Title:       in.Title,
		Content:     in.Content,
		Shared:      in.Shared,
		OwnerUserID: actor.UserID,
	}
	created, err := s.repo.Create(ctx, note, in.TagIDs)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return created, nil
}

func (s *noteService) Get(ctx context.Context, actor *model.User, id int64) (*model.Note, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "note", id)
	}
	if !canReadNote(actor, note) {
		// Hidden notes are indistinguishable from absent ones.
		return nil, apperr.NotFound("note", id)
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, actor *model.User, id int64, in NoteInput) (*model.Note, error) {
	if in.Title == "" {
		return nil, apperr.Validation("title", "must not be empty")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "note", id)
	}
	if !canWriteNote(actor, existing) {
		return nil, apperr.Authorization("only the owner may modify this note")
	}
	if err := requireTags(ctx, s.tags, in.TagIDs); err != nil {
		return nil, err
	}
	existing.Title = in.Title
	existing.Content = in.Content
	existing.Shared = in.Shared
	updated, err := s.repo.Update(ctx, existing, in.TagIDs)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return updated, nil
}

func (s *noteService) Delete(ctx context.Context, actor *model.User, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapErr(err, "note", id)
	}
	if !canWriteNote(actor, existing) {
		return apperr.Authorization("only the owner may delete this note")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *noteService) Search(ctx context.Context, actor *model.User, req search.Request) (search.Page[model.Note], error) {
	visibility := search.Clause{}
	if actor.Role != model.RoleAdmin {
		visibility = search.Clause{
			SQL:  "notes.owner_user_id = ? OR notes.shared = TRUE",
			Args: []any{actor.UserID},
		}
	}
	page, err := s.repo.Search(ctx, req, visibility)
	if err != nil {
		if apperr.KindOf(err) != 0 {
			return page, err
		}
		return page, apperr.Storage(err)
	}
	return page, nil
}

func canReadNote(actor *model.User, note *model.Note) bool {
	return actor.Role == model.RoleAdmin || note.Shared || note.OwnerUserID == actor.UserID
}

func canWriteNote(actor *model.User, note *model.Note) bool {
	return actor.Role == model.RoleAdmin || note.OwnerUserID == actor.UserID
}
