package runlog

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/rohmanhakim/frontier-crawler/internal/runlog/migrations"
)

// Migrate applies the config_url_logs migration set against db. It is
// idempotent: goose tracks applied versions in its own table, so
// re-running against an already-migrated database is a no-op.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
