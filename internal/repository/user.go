package repository

import (
	"context"
	"time"

	"arcapi/internal/model"
)

// UserRepository defines data access for users and their sessions using
// SQL queries only. No business logic here.
type UserRepository interface {
	CreateUser(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error)
	FindUserByLogin(ctx context.Context, login string) (*model.User, error)
	FindUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUserRole(ctx context.Context, login string, role model.Role) (*model.User, error)

	CreateSession(ctx context.Context, token string, userID int64, expiresOn time.Time) (*model.Session, error)
	// FindSession returns only sessions that have not expired.
	FindSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}
