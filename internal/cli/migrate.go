package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the badge tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := repo.OpenSQLite(opts.DBPath)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := repo.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", opts.DBPath)
			return nil
		},
	}
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the built-in badge catalog",
		Long: `Upsert the built-in badge catalog into the badges table.

Seeding is idempotent; changed names, descriptions or thresholds overwrite
the stored rows. Existing awards are never touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeFn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rows, err := repo.ListBadges(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d badges (%d in catalog)\n", len(rows), len(catalog.DefaultDefinitions))
			return nil
		},
	}
}
