package model

import "time"

// Role is the coarse authorization level of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular_user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRegular
}

// User is the account record. PasswordHash never crosses the API boundary.
type User struct {
	UserID       int64     `json:"userId"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedOn    time.Time `json:"createdOn"`
}

// Session is an opaque bearer token bound to a user.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"-"`
	CreatedOn time.Time `json:"createdOn"`
	ExpiresOn time.Time `json:"expiresOn"`
}
