// Package cli defines the fleetdesk command tree.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/dmaia/fleetdesk/backend/migrations"
)

// NewRootCommand creates the root command for the FleetDesk CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fleetdesk",
		Short:         "FleetDesk - local fleet-management console",
		Long:          "Local-first fleet-management console: vehicle-use requests, role-gated approvals, and fleet records over a single SQLite file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewSeedCommand())

	return cmd
}

// migrate applies all pending migrations to db.
// Both serve and seed call it, so the schema is always current regardless of
// which command touches a fresh database first.
func migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
