// Package migrations embeds the reference API schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
)

//go:embed *.sql
var files embed.FS

// Up applies the schema. Statements use IF NOT EXISTS so repeated runs are safe.
func Up(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, "000001_init.up.sql")
}

// Down drops every table created by Up.
func Down(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, "000001_init.down.sql")
}

func run(ctx context.Context, db *sql.DB, name string) error {
	body, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := db.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	return nil
}
