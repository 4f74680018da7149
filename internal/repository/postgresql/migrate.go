package postgresql

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

//go:embed migrations/schema.sql
var schemaSQL string

// schemaLockID serializes concurrent Migrate calls from several instances.
const schemaLockID = 724001

// Migrate creates the tables and indexes the repositories rely on. It is
// idempotent and runs in one transaction.
func Migrate(ctx context.Context, db *database.DB) error {
	slog.Info("Applying database schema")

	err := WithTransaction(ctx, db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", schemaLockID); err != nil {
			return fmt.Errorf("acquire schema lock: %w", err)
		}
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Database schema is up to date")
	return nil
}
