// Package migrations provides embedded SQL migration files.
package migrations

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sql/001_initial.sql
var InitialSQL string

//go:embed sql/002_run_items.sql
var Migration002RunItems string

// Apply runs every migration in order. Statements are idempotent, so Apply
// is safe to call on every start.
func Apply(db *sql.DB) error {
	for i, stmt := range []string{InitialSQL, Migration002RunItems} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration %03d: %w", i+1, err)
		}
	}
	return nil
}
