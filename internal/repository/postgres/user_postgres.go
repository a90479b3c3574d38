package postgres

import (
	"context"
	"database/sql"
	"time"

	"arcapi/internal/model"
	"arcapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = "user_id, login, password_hash, role, created_on"

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.UserID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedOn); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) CreateUser(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	const q = `
		INSERT INTO users (login, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING user_id, login, password_hash, role, created_on
	`
	return scanUser(r.db.QueryRowContext(ctx, q, login, passwordHash, role))
}

func (r *UserPostgres) FindUserByLogin(ctx context.Context, login string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE login = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, login))
}

func (r *UserPostgres) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *UserPostgres) ListUsers(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY login ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserPostgres) UpdateUserRole(ctx context.Context, login string, role model.Role) (*model.User, error) {
	const q = `
		UPDATE users SET role = $2 WHERE login = $1
		RETURNING user_id, login, password_hash, role, created_on
	`
	return scanUser(r.db.QueryRowContext(ctx, q, login, role))
}

func (r *UserPostgres) CreateSession(ctx context.Context, token string, userID int64, expiresOn time.Time) (*model.Session, error) {
	const q = `
		INSERT INTO sessions (token, user_id, expires_on)
		VALUES ($1, $2, $3)
		RETURNING token, user_id, created_on, expires_on
	`
	var s model.Session
	if err := r.db.QueryRowContext(ctx, q, token, userID, expiresOn).Scan(&s.Token, &s.UserID, &s.CreatedOn, &s.ExpiresOn); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *UserPostgres) FindSession(ctx context.Context, token string) (*model.Session, error) {
	const q = `
		SELECT token, user_id, created_on, expires_on
		FROM sessions
		WHERE token = $1 AND expires_on > now()
	`
	var s model.Session
	if err := r.db.QueryRowContext(ctx, q, token).Scan(&s.Token, &s.UserID, &s.CreatedOn, &s.ExpiresOn); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *UserPostgres) DeleteSession(ctx context.Context, token string) error {
	const q = `DELETE FROM sessions WHERE token = $1`
	_, err := r.db.ExecContext(ctx, q, token)
	return err
}
