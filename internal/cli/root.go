// Package cli implements badgectl, the operator CLI of the badge service.
// It works directly against the service database: schema migration, catalog
// seeding and inspection, on-demand badge checks, and award/progress dumps
// for support cases.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
	"github.com/BooManLag/trippit-app-sub000/internal/sysutil"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath   string
	LogLevel string
	Format   string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for badgectl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "badgectl",
		Short: "Operate the Trippit badge engine",
		Long:  "Migrate and seed the badge database, inspect the catalog, and run badge checks by hand.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			sysutil.SetupLogger(cmd.ErrOrStderr(), opts.LogLevel, true)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", sysutil.FirstNonEmpty(os.Getenv("DB_PATH"), "badges.db"), "SQLite database path")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewAwardsCommand(opts))
	cmd.AddCommand(NewProgressCommand(opts))

	return cmd
}

// openDB opens the configured database and migrates it. Every command runs
// against a migrated, seeded schema so reads never hit missing tables.
func (o *RootOptions) openDB(ctx context.Context) (*gorm.DB, func(), error) {
	db, err := repo.OpenSQLite(o.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", o.DBPath, err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	if err := repo.SeedBadges(ctx, db, catalog.Default().List()); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("seed: %w", err)
	}
	return db, closeFn, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
