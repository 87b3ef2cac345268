package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"hotelbooking/pkg/db/postgres"
	"hotelbooking/pkg/logger"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// Statements splits the embedded schema into individual statements.
func Statements() []string {
	var statements []string
	for _, stmt := range strings.Split(schema, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// RunMigration applies the schema in a single transaction. Every statement is
// idempotent so the job can be rerun.
func RunMigration(ctx context.Context, db *sqlx.DB, log *logger.Logger) error {
	log.Info("Running PostgreSQL migrations")

	txManager := postgres.NewTransactionManager(db)
	err := txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		exec := postgres.Executor(txCtx, db)
		for i, stmt := range Statements() {
			if _, err := exec.ExecContext(txCtx, stmt); err != nil {
				return fmt.Errorf("statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info("All PostgreSQL migrations applied", "statements", len(Statements()))
	return nil
}
