package model

import "time"

// ConfigEntry is one row of the generic key-value configuration table.
type ConfigEntry struct {
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	ModifiedOn time.Time `json:"modifiedOn"`
}
