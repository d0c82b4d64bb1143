package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last table step; its presence means the schema is current.
const sentinelTable = "public.version_comparisons"

var steps = []migrationStep{
	{
		Name: "create_table_loans",
		SQL: `CREATE TABLE IF NOT EXISTS loans (
  id                TEXT           PRIMARY KEY,
  name              TEXT           NOT NULL,
  borrower          TEXT           NOT NULL,
  facility_amount   NUMERIC(20, 2) NOT NULL CHECK (facility_amount > 0),
  currency          CHAR(3)        NOT NULL,
  margin            TEXT           NOT NULL DEFAULT '',
  maturity_date     TEXT           NOT NULL DEFAULT '',
  agent_bank        TEXT           NOT NULL DEFAULT '',
  syndicate_members JSONB          NOT NULL DEFAULT '[]'::jsonb,
  loan_type         TEXT           NOT NULL DEFAULT '',
  status            TEXT           NOT NULL DEFAULT 'active',
  health_score      INTEGER        NOT NULL DEFAULT 100 CHECK (health_score BETWEEN 0 AND 100),
  health_status     TEXT           NOT NULL DEFAULT 'healthy',
  created_at        TIMESTAMPTZ    NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ    NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_covenants",
		SQL: `CREATE TABLE IF NOT EXISTS covenants (
  seq           BIGSERIAL,
  id            TEXT        PRIMARY KEY,
  loan_id       TEXT        NOT NULL,
  type          TEXT        NOT NULL,
  name          TEXT        NOT NULL,
  description   TEXT        NOT NULL DEFAULT '',
  threshold     TEXT,
  current_value TEXT,
  status        TEXT        NOT NULL DEFAULT 'pending',
  risk_level    TEXT        NOT NULL DEFAULT 'medium',
  due_date      TEXT,
  explanation   TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_obligations",
		SQL: `CREATE TABLE IF NOT EXISTS obligations (
  seq            BIGSERIAL,
  id             TEXT        PRIMARY KEY,
  loan_id        TEXT        NOT NULL,
  type           TEXT        NOT NULL,
  name           TEXT        NOT NULL,
  description    TEXT        NOT NULL DEFAULT '',
  frequency      TEXT        NOT NULL,
  due_date       TEXT        NOT NULL,
  status         TEXT        NOT NULL DEFAULT 'pending',
  submitted_date TEXT,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_risk_factors",
		SQL: `CREATE TABLE IF NOT EXISTS risk_factors (
  seq            BIGSERIAL,
  id             TEXT        PRIMARY KEY,
  loan_id        TEXT        NOT NULL,
  category       TEXT        NOT NULL,
  severity       TEXT        NOT NULL,
  title          TEXT        NOT NULL,
  description    TEXT        NOT NULL DEFAULT '',
  impact         TEXT        NOT NULL DEFAULT '',
  recommendation TEXT        NOT NULL DEFAULT '',
  score          INTEGER     NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_audit_events",
		SQL: `CREATE TABLE IF NOT EXISTS audit_events (
  id          TEXT        PRIMARY KEY,
  loan_id     TEXT        NOT NULL,
  event_type  TEXT        NOT NULL,
  title       TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  actor       TEXT        NOT NULL DEFAULT 'System',
  timestamp   TIMESTAMPTZ NOT NULL DEFAULT now(),
  metadata    JSONB
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id              TEXT        PRIMARY KEY,
  loan_id         TEXT        NOT NULL,
  filename        TEXT        NOT NULL,
  content_type    TEXT        NOT NULL,
  size            BIGINT      NOT NULL CHECK (size >= 0),
  version         INTEGER     NOT NULL CHECK (version >= 1),
  storage_path    TEXT        NOT NULL DEFAULT '',
  content_preview TEXT,
  extracted_terms JSONB,
  uploaded_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (loan_id, version)
);`,
	},
	{
		Name: "create_table_version_comparisons",
		SQL: `CREATE TABLE IF NOT EXISTS version_comparisons (
  id          TEXT        PRIMARY KEY,
  loan_id     TEXT        NOT NULL,
  doc1_id     TEXT        NOT NULL,
  doc2_id     TEXT        NOT NULL,
  differences JSONB       NOT NULL DEFAULT '[]'::jsonb,
  compared_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_children_loan_id",
		SQL: `CREATE INDEX IF NOT EXISTS idx_covenants_loan_id ON covenants (loan_id, seq);
CREATE INDEX IF NOT EXISTS idx_obligations_loan_id ON obligations (loan_id, seq);
CREATE INDEX IF NOT EXISTS idx_risk_factors_loan_id ON risk_factors (loan_id, seq);
CREATE INDEX IF NOT EXISTS idx_audit_events_loan_id_ts ON audit_events (loan_id, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_version_comparisons_loan_id ON version_comparisons (loan_id, compared_at DESC);`,
	},
	{
		Name: "create_index_loans_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_loans_status ON loans (status);`,
	},
}

// EnsureMigrated checks whether the schema exists and runs every step if it doesn't.
// Loan children reference their loan by id without foreign keys; the cascade
// delete in the service layer owns their lifecycle.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logrus.FieldLogger, dbHost string) error {
	start := time.Now()
	log = log.WithFields(logrus.Fields{"component": "database", "db_host": dbHost})

	log.WithField("event", "db_migration_check").Info("checking schema")

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, sentinelTable).Scan(&exists); err != nil {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_failed",
			"duration_ms": time.Since(start).Milliseconds(),
		}).WithError(err).Error("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_skip",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("schema already exists, skipping migration")
		return nil
	}

	log.WithField("event", "db_migration_start").Info("applying schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.WithFields(logrus.Fields{
				"event":            "db_migration_failed",
				"migration_step":   step.Name,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).WithError(err).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Debug("migration step applied")
	}

	log.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"steps":       len(steps),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("schema migrated")

	return nil
}
