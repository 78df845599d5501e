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

var steps = []migrationStep{
	{
		Name: "create_table_categories",
		SQL: `CREATE TABLE IF NOT EXISTS categories (
  id          BIGSERIAL   PRIMARY KEY,
  name        TEXT        NOT NULL,
  slug        TEXT        NOT NULL UNIQUE,
  description TEXT,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  deleted_at  TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE IF NOT EXISTS products (
  id          BIGSERIAL     PRIMARY KEY,
  category_id BIGINT        REFERENCES categories (id) ON DELETE SET NULL,
  name        TEXT          NOT NULL,
  sku         TEXT          NOT NULL UNIQUE,
  description TEXT,
  price       NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
  created_at  TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ   NOT NULL DEFAULT now(),
  deleted_at  TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_services",
		SQL: `CREATE TABLE IF NOT EXISTS services (
  id               BIGSERIAL     PRIMARY KEY,
  name             TEXT          NOT NULL,
  description      TEXT,
  price            NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
  duration_minutes INTEGER       NOT NULL DEFAULT 0 CHECK (duration_minutes >= 0),
  created_at       TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ   NOT NULL DEFAULT now(),
  deleted_at       TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_email_logs",
		SQL: `CREATE TABLE IF NOT EXISTS email_logs (
  id                  TEXT        PRIMARY KEY,
  recipient           TEXT        NOT NULL,
  subject             TEXT        NOT NULL,
  html_body           TEXT        NOT NULL,
  status              TEXT        NOT NULL,
  error               TEXT,
  provider_message_id TEXT,
  resent_from         TEXT        REFERENCES email_logs (id) ON DELETE SET NULL,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  sent_at             TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_products_category_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_products_category_id ON products (category_id);`,
	},
	{
		Name: "create_index_email_logs_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_email_logs_created_at ON email_logs (created_at);`,
	},
}

// schemaTables are checked before migrating; the catalog tables may be owned by another system.
var schemaTables = []string{"categories", "products", "services", "email_logs"}

const tableExistsQuery = "SELECT to_regclass($1) IS NOT NULL"

// EnsureMigrated applies the schema unless every table in schemaTables already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Msg("checking schema")

	var missing []string
	for _, table := range schemaTables {
		var exists bool
		if err := db.QueryRowContext(ctx, tableExistsQuery, "public."+table).Scan(&exists); err != nil {
			log.Error().
				Err(err).
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("table", table).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("failed to check table")
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}

	if len(missing) == 0 {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().
		Str("event", "db_migration_start").
		Str("status", "in_progress").
		Strs("missing_tables", missing).
		Msg("applying schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Err(err).
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema migrated")

	return nil
}
