// Package repo implements the data persistence layer for the badge engine,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and catalog seeding.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// connPragmas are applied to every pooled connection through the DSN, so
// concurrent writers all wait on busy locks instead of failing fast.
var connPragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string, opts ...gorm.Option) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(path)), append([]gorm.Option{&gorm.Config{}}, opts...)...)
	if err != nil {
		return nil, err
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

func withPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(path)
	for _, p := range connPragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// AutoMigrate creates the engine's tables plus the collaborator-owned source
// tables it reads from.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Badge{},
		&domain.Progress{},
		&domain.Award{},
		&domain.Trip{},
		&domain.BucketListItem{},
		&domain.ChecklistItem{},
		&domain.TripInvitation{},
	)
}

// SeedBadges upserts the catalog rows so awards can be joined with badge
// metadata. Re-running it with the same catalog is a no-op.
func SeedBadges(ctx context.Context, db *gorm.DB, badges []domain.Badge) error {
	if len(badges) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "icon", "category", "family", "metric",
				"requirement_type", "requirement_value", "scope",
			}),
		}).
		Create(&badges).Error
}

// ListBadges returns the seeded badge rows ordered by category and key.
func ListBadges(ctx context.Context, db *gorm.DB) ([]domain.Badge, error) {
	var out []domain.Badge
	err := db.WithContext(ctx).Order("category, key").Find(&out).Error
	return out, err
}
