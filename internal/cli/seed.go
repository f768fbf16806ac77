package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmaia/fleetdesk/backend/internal/config"
	"github.com/dmaia/fleetdesk/backend/internal/seed"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// NewSeedCommand creates the seed command: bootstrap a fresh database with
// the default accounts, sectors, and example vehicles.
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Bootstrap the database with first-run data",
		Long: `Bootstrap the database with first-run data.

Creates the administrator account (admin/admin123), the transport supervisor
(gestor/gestor123) with privileged-sector affiliation, the transport sectors,
and two example vehicles. Collections that already hold data are skipped, so
seeding an existing database is safe.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrate(cmd.Context(), db); err != nil {
				return err
			}

			if err := seed.Run(cmd.Context(), store.New(db), cfg.PrivilegedSector); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", cfg.DBPath)
			return nil
		},
	}
}
