package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"arcapi/internal/apperr"
	"arcapi/internal/config"
	"arcapi/internal/model"
	repoMocks "arcapi/internal/repository/mocks"
)

var testAuth = config.AuthConfig{SessionTTLHours: 24, BcryptCost: bcrypt.MinCost}

func newUserService(repo *repoMocks.MockUserRepository, logs *repoMocks.MockLogRepository) UserService {
	logs.On("Append", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewUserService(repo, NewLogService(logs), testAuth)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues session", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		logs := new(repoMocks.MockLogRepository)
		svc := newUserService(repo, logs)

		stored := &model.User{UserID: 7, Login: "anna", PasswordHash: hashOf(t, "correct horse"), Role: model.RoleRegular}
		repo.On("FindUserByLogin", ctx, "anna").Return(stored, nil)
		repo.On("CreateSession", ctx, mock.AnythingOfType("string"), int64(7), mock.AnythingOfType("time.Time")).
			Return(&model.Session{Token: "tok", UserID: 7, ExpiresOn: time.Now().Add(24 * time.Hour)}, nil)

		user, session, err := svc.Login(ctx, "anna", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.UserID)
		assert.NotEmpty(t, session.Token)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password is audited and rejected", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		logs := new(repoMocks.MockLogRepository)
		logs.On("Append", mock.Anything, mock.MatchedBy(func(e *model.LogEntry) bool {
			return e.Level == model.LogError && e.Category == "auth" && e.UserLogin == "anna"
		})).Return(nil).Once()
		svc := NewUserService(repo, NewLogService(logs), testAuth)

		stored := &model.User{UserID: 7, Login: "anna", PasswordHash: hashOf(t, "correct horse")}
		repo.On("FindUserByLogin", ctx, "anna").Return(stored, nil)

		_, _, err := svc.Login(ctx, "anna", "wrong")
		assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
		logs.AssertExpectations(t)
	})

	t.Run("unknown user rejected without detail", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		logs := new(repoMocks.MockLogRepository)
		svc := newUserService(repo, logs)

		repo.On("FindUserByLogin", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, _, err := svc.Login(ctx, "ghost", "whatever")
		assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token resolves user", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		logs := new(repoMocks.MockLogRepository)
		svc := newUserService(repo, logs)

		repo.On("FindSession", ctx, "tok").Return(&model.Session{Token: "tok", UserID: 3}, nil)
		repo.On("FindUserByID", ctx, int64(3)).Return(&model.User{UserID: 3, Login: "bo"}, nil)

		user, err := svc.Authenticate(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "bo", user.Login)
	})

	t.Run("expired or unknown token", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		logs := new(repoMocks.MockLogRepository)
		svc := newUserService(repo, logs)

		repo.On("FindSession", ctx, "stale").Return(nil, sql.ErrNoRows)

		_, err := svc.Authenticate(ctx, "stale")
		assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	})
}

func TestUserServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("short password rejected", func(t *testing.T) {
		svc := newUserService(new(repoMocks.MockUserRepository), new(repoMocks.MockLogRepository))
		_, err := svc.Create(ctx, "anna", "short", model.RoleRegular)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "password", apperr.FieldOf(err))
	})

	t.Run("duplicate login surfaces as validation", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		svc := newUserService(repo, new(repoMocks.MockLogRepository))

		repo.On("CreateUser", ctx, "anna", mock.AnythingOfType("string"), model.RoleRegular).
			Return(nil, &pgconn.PgError{Code: "23505"})

		_, err := svc.Create(ctx, "anna", "long enough password", model.RoleRegular)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "login", apperr.FieldOf(err))
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		svc := newUserService(repo, new(repoMocks.MockLogRepository))

		repo.On("CreateUser", ctx, "anna", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("long enough password")) == nil
		}), model.RoleRegular).Return(&model.User{UserID: 1, Login: "anna"}, nil)

		_, err := svc.Create(ctx, "anna", "long enough password", model.RoleRegular)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestUserServiceUpdateRole(t *testing.T) {
	ctx := context.Background()
	admin := &model.User{UserID: 1, Login: "root", Role: model.RoleAdmin}

	t.Run("self-demotion blocked", func(t *testing.T) {
		svc := newUserService(new(repoMocks.MockUserRepository), new(repoMocks.MockLogRepository))
		_, err := svc.UpdateRole(ctx, admin, "root", model.RoleRegular)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("promoting another user", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		svc := newUserService(repo, new(repoMocks.MockLogRepository))

		repo.On("UpdateUserRole", ctx, "anna", model.RoleAdmin).
			Return(&model.User{UserID: 2, Login: "anna", Role: model.RoleAdmin}, nil)

		user, err := svc.UpdateRole(ctx, admin, "anna", model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		svc := newUserService(new(repoMocks.MockUserRepository), new(repoMocks.MockLogRepository))
		_, err := svc.UpdateRole(ctx, admin, "anna", model.Role("sudo"))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}
