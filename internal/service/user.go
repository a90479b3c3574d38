package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"arcapi/internal/apperr"
	"arcapi/internal/config"
	"arcapi/internal/model"
	"arcapi/internal/repository"
)

const minPasswordLength = 8

// UserService defines the use cases for accounts and sessions.
type UserService interface {
	// Login verifies credentials and issues an opaque bearer session.
	// Failed attempts are recorded in the audit log.
	Login(ctx context.Context, login, password string) (*model.User, *model.Session, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a bearer token to its user. Expired or unknown
	// tokens yield an authorization error.
	Authenticate(ctx context.Context, token string) (*model.User, error)

	Create(ctx context.Context, login, password string, role model.Role) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	// UpdateRole changes a user's role. An admin cannot demote their own
	// account; that would allow locking every admin out.
	UpdateRole(ctx context.Context, actor *model.User, login string, role model.Role) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
	logs LogService
	auth config.AuthConfig
}

// NewUserService constructs a new UserService.
func NewUserService(repo repository.UserRepository, logs LogService, auth config.AuthConfig) UserService {
	return &userService{repo: repo, logs: logs, auth: auth}
}

func (s *userService) Login(ctx context.Context, login, password string) (*model.User, *model.Session, error) {
	if login == "" {
		return nil, nil, apperr.Validation("login", "must not be empty")
	}
	user, err := s.repo.FindUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logs.Error(ctx, login, "auth", "login failed: unknown user", nil)
			return nil, nil, apperr.Authorization("invalid credentials")
		}
		return nil, nil, apperr.Storage(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logs.Error(ctx, login, "auth", "login failed: wrong password", nil)
		return nil, nil, apperr.Authorization("invalid credentials")
	}

	expires := time.Now().UTC().Add(time.Duration(s.auth.SessionTTLHours) * time.Hour)
	session, err := s.repo.CreateSession(ctx, uuid.NewString(), user.UserID, expires)
	if err != nil {
		return nil, nil, apperr.Storage(err)
	}
	s.logs.Info(ctx, login, "auth", "login succeeded", nil)
	return user, session, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *userService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	session, err := s.repo.FindSession(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Authorization("invalid or expired session")
		}
		return nil, apperr.Storage(err)
	}
	user, err := s.repo.FindUserByID(ctx, session.UserID)
	if err != nil {
		return nil, mapErr(err, "user", session.UserID)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, login, password string, role model.Role) (*model.User, error) {
	if login == "" {
		return nil, apperr.Validation("login", "must not be empty")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Validation("password", "must be at least %d characters", minPasswordLength)
	}
	if role == "" {
		role = model.RoleRegular
	}
	if !role.Valid() {
		return nil, apperr.Validation("role", "unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.auth.BcryptCost)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	user, err := s.repo.CreateUser(ctx, login, string(hash), role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Validation("login", "login %q is already taken", login)
		}
		return nil, apperr.Storage(err)
	}
	s.logs.Info(ctx, login, "user", "user created", map[string]any{"role": string(role)})
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return users, nil
}

func (s *userService) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	user, err := s.repo.FindUserByLogin(ctx, login)
	if err != nil {
		return nil, mapErr(err, "user", login)
	}
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, actor *model.User, login string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role", "unknown role %q", role)
	}
	if actor != nil && actor.Login == login && role != actor.Role {
		return nil, apperr.Validation("login", "cannot change the role of your own account")
	}
	user, err := s.repo.UpdateUserRole(ctx, login, role)
	if err != nil {
		return nil, mapErr(err, "user", login)
	}
	actorLogin := ""
	if actor != nil {
		actorLogin = actor.Login
	}
	s.logs.Info(ctx, actorLogin, "user", "role updated", map[string]any{"login": login, "role": string(role)})
	return user, nil
}
