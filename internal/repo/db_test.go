package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// newTestDB opens an isolated in-memory database with the engine schema and
// a couple of catalog rows so award foreign keys resolve.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := SeedBadges(context.Background(), db, testBadges()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testBadges() []domain.Badge {
	return []domain.Badge{
		{
			Key: "daredevil", Name: "Daredevil", Category: "bucket_list",
			Family: domain.FamilyDare, Metric: domain.MetricDaresCompleted,
			RequirementType: domain.RequirementCount, RequirementValue: 1, Scope: domain.ScopePerTrip,
		},
		{
			Key: "crowd_puller", Name: "Crowd Puller", Category: "social",
			Family: domain.FamilyInvitation, Metric: domain.MetricInvitesAccepted,
			RequirementType: domain.RequirementCount, RequirementValue: 10, Scope: domain.ScopeGlobal,
		},
	}
}

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	base := t.TempDir()
	bad := filepath.Join(base, "does-not-exist", "app.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}

	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpenSQLite_SetsPragmas_AndAutoMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	db, err := OpenSQLite(path, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	var (
		journalMode string
		syncVal     int
		fkOn        int
		busyMS      int
	)
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", journalMode)
	}
	if err := db.Raw("PRAGMA synchronous;").Row().Scan(&syncVal); err != nil {
		t.Fatalf("PRAGMA synchronous: %v", err)
	}
	if syncVal != 1 {
		t.Fatalf("expected synchronous=1 (NORMAL), got %d", syncVal)
	}
	if err := db.Raw("PRAGMA foreign_keys;").Row().Scan(&fkOn); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fkOn != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fkOn)
	}
	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if busyMS != 5000 {
		t.Fatalf("expected busy_timeout=5000, got %d", busyMS)
	}

	if st := sqlDB.Stats(); st.MaxOpenConnections != 10 {
		t.Fatalf("expected MaxOpenConnections=10, got %d", st.MaxOpenConnections)
	}

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, m := range []any{
		&domain.Badge{}, &domain.Progress{}, &domain.Award{},
		&domain.Trip{}, &domain.BucketListItem{}, &domain.ChecklistItem{}, &domain.TripInvitation{},
	} {
		if !db.Migrator().HasTable(m) {
			t.Fatalf("expected table for %T", m)
		}
	}
	if !db.Migrator().HasIndex(&domain.Award{}, "ux_award_user_badge_trip") {
		t.Fatalf("expected unique award index")
	}
}

func TestWithPragmas_AppendsToExistingQuery(t *testing.T) {
	got := withPragmas("file:x.db?mode=rwc")
	if !strings.HasPrefix(got, "file:x.db?mode=rwc&_pragma=journal_mode(WAL)") {
		t.Fatalf("unexpected dsn %q", got)
	}
	if strings.Count(got, "?") != 1 {
		t.Fatalf("dsn must keep a single '?': %q", got)
	}
	if n := strings.Count(got, "_pragma="); n != len(connPragmas) {
		t.Fatalf("want %d pragmas, got %d", len(connPragmas), n)
	}
}

func TestSeedBadges_IsIdempotentAndUpdatesMetadata(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	badges := testBadges()
	badges[0].Name = "Dare Devil"
	if err := SeedBadges(ctx, db, badges); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if err := SeedBadges(ctx, db, nil); err != nil {
		t.Fatalf("empty seed: %v", err)
	}

	got, err := ListBadges(ctx, db)
	if err != nil {
		t.Fatalf("ListBadges: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 badges, got %d", len(got))
	}
	// ordered by category: bucket_list < social
	if got[0].Key != "daredevil" || got[0].Name != "Dare Devil" {
		t.Fatalf("unexpected first badge: %+v", got[0])
	}
	if got[1].Key != "crowd_puller" {
		t.Fatalf("unexpected second badge: %+v", got[1])
	}
}
