package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is checked before migrating; its presence means the schema is in place.
const sentinelTable = "files"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_doctors",
		SQL: `CREATE TABLE IF NOT EXISTS doctors (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name           TEXT        NOT NULL,
  specialization TEXT,
  email          TEXT,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_patients",
		SQL: `CREATE TABLE IF NOT EXISTS patients (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  doctor_id      UUID        NOT NULL REFERENCES doctors (id),
  name           TEXT        NOT NULL,
  gender         TEXT,
  contact_number TEXT,
  email          TEXT,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_patients_doctor_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_patients_doctor_id ON patients (doctor_id, name, id);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_kind    TEXT        NOT NULL CHECK (owner_kind IN ('Patient', 'Doctor')),
  owner_id      UUID        NOT NULL,
  provider_id   TEXT        NOT NULL UNIQUE,
  url           TEXT        NOT NULL,
  secure_url    TEXT        NOT NULL,
  format        TEXT        NOT NULL DEFAULT '',
  resource_type TEXT        NOT NULL,
  storage_bytes BIGINT      NOT NULL CHECK (storage_bytes >= 0),
  filename      TEXT        NOT NULL,
  mime_type     TEXT        NOT NULL,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  description   TEXT        NOT NULL DEFAULT '',
  category      TEXT        NOT NULL CHECK (category IN (
    'medical_record', 'prescription', 'lab_result', 'doctor_certification',
    'registration_certificate', 'government_id', 'profile_photo', 'other')),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  uploaded_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  deleted_at    TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_files_owner_active",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_owner_active ON files (owner_kind, owner_id, created_at DESC) WHERE deleted_at IS NULL;`,
	},
	{
		Name: "create_index_files_deleted_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_deleted_at ON files (deleted_at) WHERE deleted_at IS NOT NULL;`,
	},
}

// EnsureMigrated checks whether the sentinel table exists and runs every step when it does not.
// All steps run in one transaction, so the sentinel only becomes visible together with the
// rest of the schema and an interrupted run leaves nothing behind for the next start to skip.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger zerolog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Msg("checking schema")

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('public.%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Dur("duration", time.Since(start)).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Dur("duration", time.Since(start)).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Int("steps", len(steps)).Msg("running migration")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Dur("duration", time.Since(start)).
			Msg("failed to begin migration")
		return fmt.Errorf("begin migration: %w", err)
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Warn().Err(rbErr).Str("migration_step", step.Name).Msg("rollback failed")
			}
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Dur("duration", time.Since(start)).
				Dur("step_duration", time.Since(stepStart)).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Dur("step_duration", time.Since(stepStart)).
			Msg("migration step applied")
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Dur("duration", time.Since(start)).
			Msg("failed to commit migration")
		return fmt.Errorf("commit migration: %w", err)
	}

	log.Info().
		Str("event", "db_migration_success").
		Dur("duration", time.Since(start)).
		Msg("migration complete")

	return nil
}
