package model

import "time"

// LogLevel is the severity of an audit log entry.
type LogLevel string

const (
	LogInfo  LogLevel = "info"
	LogError LogLevel = "error"
)

// LogEntry is an append-only audit record. Data holds an optional
// structured blob serialized as JSON.
type LogEntry struct {
	LogID     int64          `json:"logId"`
	Level     LogLevel       `json:"level"`
	UserLogin string         `json:"userLogin,omitempty"`
	Category  string         `json:"category,omitempty"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedOn time.Time      `json:"createdOn"`
}
