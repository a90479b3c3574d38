package model

import "time"

// Note is a user-owned text note. Shared notes are readable by every
// authenticated user; only the owner may modify them.
type Note struct {
	NoteID      int64     `json:"noteId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Shared      bool      `json:"shared"`
	OwnerUserID int64     `json:"ownerUserId"`
	OwnerLogin  string    `json:"ownerLogin,omitempty"`
	Tags        []Tag     `json:"tags"`
	CreatedOn   time.Time `json:"createdOn"`
	ModifiedOn  time.Time `json:"modifiedOn"`
}
