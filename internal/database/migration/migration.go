package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  user_id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  login         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  role          TEXT        NOT NULL CHECK (role IN ('admin', 'regular_user')),
  created_on    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_sessions",
		SQL: `CREATE TABLE IF NOT EXISTS sessions (
  token      UUID        PRIMARY KEY,
  user_id    BIGINT      NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  created_on TIMESTAMPTZ NOT NULL DEFAULT now(),
  expires_on TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_tags",
		SQL: `CREATE TABLE IF NOT EXISTS tags (
  tag_id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  name        TEXT        NOT NULL UNIQUE,
  description TEXT        NOT NULL DEFAULT '',
  created_on  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_notes",
		SQL: `CREATE TABLE IF NOT EXISTS notes (
  note_id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  title         TEXT        NOT NULL,
  content       TEXT        NOT NULL DEFAULT '',
  shared        BOOLEAN     NOT NULL DEFAULT FALSE,
  owner_user_id BIGINT      NOT NULL REFERENCES users(user_id),
  created_on    TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_on   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_note_tags",
		SQL: `CREATE TABLE IF NOT EXISTS note_tags (
  note_id BIGINT NOT NULL REFERENCES notes(note_id) ON DELETE CASCADE,
  tag_id  BIGINT NOT NULL REFERENCES tags(tag_id) ON DELETE CASCADE,
  PRIMARY KEY (note_id, tag_id)
);`,
	},
	{
		Name: "create_table_signature_components",
		SQL: `CREATE TABLE IF NOT EXISTS signature_components (
  signature_component_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  name        TEXT        NOT NULL UNIQUE,
  description TEXT        NOT NULL DEFAULT '',
  index_type  TEXT        NOT NULL CHECK (index_type IN ('dec', 'roman', 'small_char', 'capital_char')),
  index_count INTEGER     NOT NULL DEFAULT 0,
  created_on  TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_on TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_signature_elements",
		SQL: `CREATE TABLE IF NOT EXISTS signature_elements (
  signature_element_id   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  signature_component_id BIGINT      NOT NULL REFERENCES signature_components(signature_component_id),
  name        TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  index       TEXT,
  created_on  TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_on TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_signature_element_parents",
		SQL: `CREATE TABLE IF NOT EXISTS signature_element_parents (
  signature_element_id        BIGINT NOT NULL REFERENCES signature_elements(signature_element_id) ON DELETE CASCADE,
  parent_signature_element_id BIGINT NOT NULL REFERENCES signature_elements(signature_element_id),
  PRIMARY KEY (signature_element_id, parent_signature_element_id)
);`,
	},
	{
		Name: "create_table_archive_documents",
		SQL: `CREATE TABLE IF NOT EXISTS archive_documents (
  archive_document_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  doc_type    TEXT        NOT NULL CHECK (doc_type IN ('document', 'unit')),
  parent_unit_archive_document_id BIGINT REFERENCES archive_documents(archive_document_id),
  title       TEXT        NOT NULL,
  creator     TEXT        NOT NULL,
  creation_date TEXT      NOT NULL DEFAULT '',
  number_of_pages INTEGER,
  document_type TEXT      NOT NULL DEFAULT '',
  dimensions  TEXT        NOT NULL DEFAULT '',
  binding     TEXT        NOT NULL DEFAULT '',
  condition   TEXT        NOT NULL DEFAULT '',
  document_language TEXT  NOT NULL DEFAULT '',
  content_description TEXT NOT NULL DEFAULT '',
  remarks     TEXT        NOT NULL DEFAULT '',
  access_level TEXT       NOT NULL DEFAULT '',
  access_conditions TEXT  NOT NULL DEFAULT '',
  additional_information TEXT NOT NULL DEFAULT '',
  related_documents_references TEXT NOT NULL DEFAULT '',
  is_digitized BOOLEAN    NOT NULL DEFAULT FALSE,
  digitized_version_link TEXT NOT NULL DEFAULT '',
  active      BOOLEAN     NOT NULL DEFAULT TRUE,
  owner_user_id BIGINT    NOT NULL REFERENCES users(user_id),
  created_on  TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_on TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_archive_document_tags",
		SQL: `CREATE TABLE IF NOT EXISTS archive_document_tags (
  archive_document_id BIGINT NOT NULL REFERENCES archive_documents(archive_document_id) ON DELETE CASCADE,
  tag_id              BIGINT NOT NULL REFERENCES tags(tag_id) ON DELETE CASCADE,
  PRIMARY KEY (archive_document_id, tag_id)
);`,
	},
	{
		Name: "create_table_archive_document_signatures",
		SQL: `CREATE TABLE IF NOT EXISTS archive_document_signatures (
  archive_document_signature_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  archive_document_id BIGINT NOT NULL REFERENCES archive_documents(archive_document_id) ON DELETE CASCADE,
  signature_type      TEXT   NOT NULL CHECK (signature_type IN ('topographic', 'descriptive')),
  element_id_path     JSONB  NOT NULL
);`,
	},
	{
		Name: "create_table_logs",
		SQL: `CREATE TABLE IF NOT EXISTS logs (
  log_id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  level      TEXT        NOT NULL CHECK (level IN ('info', 'error')),
  user_login TEXT        NOT NULL DEFAULT '',
  category   TEXT        NOT NULL DEFAULT '',
  message    TEXT        NOT NULL,
  data       JSONB,
  created_on TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_app_configs",
		SQL: `CREATE TABLE IF NOT EXISTS app_configs (
  key         TEXT        PRIMARY KEY,
  value       TEXT        NOT NULL,
  modified_on TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_sessions_expires_on",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sessions_expires_on ON sessions (expires_on);`,
	},
	{
		Name: "create_index_notes_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notes_owner ON notes (owner_user_id);`,
	},
	{
		Name: "create_index_elements_component",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_elements_component ON signature_elements (signature_component_id);`,
	},
	{
		Name: "create_index_element_parents_parent",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_element_parents_parent ON signature_element_parents (parent_signature_element_id);`,
	},
	{
		Name: "create_index_archive_documents_parent",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_archive_documents_parent ON archive_documents (parent_unit_archive_document_id);`,
	},
	{
		Name: "create_index_archive_documents_title",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_archive_documents_title ON archive_documents (title);`,
	},
	{
		Name: "create_index_logs_created_on",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_logs_created_on ON logs (created_on);`,
	},
}

// EnsureMigrated checks if the 'users' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.users') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
