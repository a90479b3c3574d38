package model

import "time"

// Tag is a flat label attached to notes and archive documents.
type Tag struct {
	TagID       int64     `json:"tagId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedOn   time.Time `json:"createdOn"`
}
