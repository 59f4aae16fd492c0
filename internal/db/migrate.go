package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the embedded DDL.
func Schema() string {
	return schemaSQL
}

// Migrate applies the embedded schema. Every statement is idempotent, so it
// is safe to run on every deploy.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// No arguments: pgx sends the script over the simple protocol, which
	// accepts several statements at once.
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
