package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
	repoMocks "arcapi/internal/repository/mocks"
	"arcapi/internal/search"
)

var (
	regularActor = &model.User{UserID: 2, Login: "anna", Role: model.RoleRegular}
	adminActor   = &model.User{UserID: 1, Login: "root", Role: model.RoleAdmin}
)

func TestNoteServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner comes from the actor", func(t *testing.T) {
		repo := new(repoMocks.MockNoteRepository)
		tags := new(repoMocks.MockTagRepository)
		svc := NewNoteService(repo, tags)

		repo.On("Create", ctx, mock.MatchedBy(func(n *model.Note) bool {
			return n.OwnerUserID == regularActor.UserID && n.Title == "shelf list"
		}), []int64(nil)).Return(&model.Note{NoteID: 1, Title: "shelf list", OwnerUserID: 2}, nil)

		note, err := svc.Create(ctx, regularActor, NoteInput{Title: "shelf list"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), note.OwnerUserID)
	})

	t.Run("missing tag named in error", func(t *testing.T) {
		repo := new(repoMocks.MockNoteRepository)
		tags := new(repoMocks.MockTagRepository)
		svc := NewNoteService(repo, tags)

		tags.On("FindByIDs", ctx, []int64{4, 5}).Return([]model.Tag{{TagID: 4}}, nil)

		_, err := svc.Create(ctx, regularActor, NoteInput{Title: "t", TagIDs: []int64{4, 5}})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "tagIds", apperr.FieldOf(err))
		assert.Contains(t, err.Error(), "tag 5")
	})

	t.Run("empty title rejected", func(t *testing.T) {
		svc := NewNoteService(new(repoMocks.MockNoteRepository), new(repoMocks.MockTagRepository))
		_, err := svc.Create(ctx, regularActor, NoteInput{})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestNoteServiceGetVisibility(t *testing.T) {
	ctx := context.Background()
	private := &model.Note{NoteID: 9, Title: "draft", OwnerUserID: 77, Shared: false}

	t.Run("foreign private note reads as absent", func(t *testing.T) {
		repo := new(repoMocks.MockNoteRepository)
		svc := NewNoteService(repo, new(repoMocks.MockTagRepository))
		repo.On("FindByID", ctx, int64(9)).Return(private, nil)

		_, err := svc.Get(ctx, regularActor, 9)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("admin reads anything", func(t *testing.T) {
		repo := new(repoMocks.MockNoteRepository)
		svc := NewNoteService(repo, new(repoMocks.MockTagRepository))
		repo.On("FindByID", ctx, int64(9)).Return(private, nil)

		note, err := svc.Get(ctx, adminActor, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(9), note.NoteID)
	})

	t.Run("shared note readable by anyone", func(t *testing.T) {
		repo := new(repoMocks.MockNoteRepository)
		svc := NewNoteService(repo, new(repoMocks.MockTagRepository))
		repo.On("FindByID", ctx, int64(9)).Return(&model.Note{NoteID: 9, OwnerUserID: 77, Shared: true}, nil)

		_, err := svc.Get(ctx, regularActor, 9)
		assert.NoError(t, err)
	})
}

func TestNoteServiceWriteRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	// Shared makes a note readable, never writable.
	shared := &model.Note{NoteID: 9, Title: "plan", OwnerUserID: 77, Shared: true}

	repo := new(repoMocks.MockNoteRepository)
	svc := NewNoteService(repo, new(repoMocks.MockTagRepository))
	repo.On("FindByID", ctx, int64(9)).Return(shared, nil)

	_, err := svc.Update(ctx, regularActor, 9, NoteInput{Title: "plan"})
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	err = svc.Delete(ctx, regularActor, 9)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestNoteServiceSearchVisibilityClause(t *testing.T) {
	ctx := context.Background()
	req := search.Request{PageSize: 10}
	empty := search.Page[model.Note]{Data: []model.Note{}, Page: 1, PageSize: 10}

	t.Run("regular user is scoped to own or shared", func(t *testing.T) {
		repo := new(repoMocks.MockNoteRepository)
		svc := NewNoteService(repo, new(repoMocks.MockTagRepository))

		repo.On("Search", ctx, req, search.Clause{
			SQL:  "notes.owner_user_id = ? OR notes.shared = TRUE",
			Args: []any{regularActor.UserID},
		}).Return(empty, nil).Once()

		_, err := svc.Search(ctx, regularActor, req)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("admin search is unscoped", func(t *testing.T) {
		repo := new(repoMocks.MockNoteRepository)
		svc := NewNoteService(repo, new(repoMocks.MockTagRepository))

		repo.On("Search", ctx, req, search.Clause{}).Return(empty, nil).Once()

		_, err := svc.Search(ctx, adminActor, req)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
