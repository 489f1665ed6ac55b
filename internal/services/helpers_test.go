package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/domain"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
)

var errSourceDown = errors.New("source down")

// newTestDB opens an isolated in-memory database with the schema migrated
// and the default catalog seeded.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:badgesvc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	prepare(t, db)
	return db
}

// newFileDB opens a temp-file database with the production pool, so
// concurrent checks race on the award insert over separate connections.
func newFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "badges.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.Greater(t, sqlDB.Stats().MaxOpenConnections, 1)
	prepare(t, db)
	return db
}

func prepare(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, repo.AutoMigrate(db))
	require.NoError(t, repo.SeedBadges(context.Background(), db, catalog.Default().List()))
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
}

// world seeds collaborator-owned rows for one user and trip.
type world struct {
	t      *testing.T
	db     *gorm.DB
	userID string
	tripID string
}

func newWorld(t *testing.T, db *gorm.DB, start *time.Time) *world {
	t.Helper()
	w := &world{t: t, db: db, userID: "u-" + uuid.NewString()[:8], tripID: "t-" + uuid.NewString()[:8]}
	require.NoError(t, db.Create(&domain.Trip{ID: w.tripID, OwnerID: w.userID, Name: "Trip", StartDate: start}).Error)
	return w
}

func (w *world) dare(done bool) string {
	w.t.Helper()
	it := &domain.BucketListItem{ID: uuid.NewString(), UserID: w.userID, TripID: w.tripID, Title: "dare"}
	if done {
		now := time.Now().UTC()
		it.CompletedAt = &now
	}
	require.NoError(w.t, w.db.Create(it).Error)
	return it.ID
}

func (w *world) completeDare(id string) {
	w.t.Helper()
	require.NoError(w.t, w.db.Model(&domain.BucketListItem{}).Where("id = ?", id).Update("completed_at", time.Now().UTC()).Error)
}

func (w *world) uncompleteDare(id string) {
	w.t.Helper()
	require.NoError(w.t, w.db.Model(&domain.BucketListItem{}).Where("id = ?", id).Update("completed_at", nil).Error)
}

func (w *world) checklistItem(done bool) string {
	w.t.Helper()
	it := &domain.ChecklistItem{ID: uuid.NewString(), UserID: w.userID, TripID: w.tripID, Description: "item", IsCompleted: done}
	require.NoError(w.t, w.db.Create(it).Error)
	return it.ID
}

func (w *world) tickChecklist(id string) {
	w.t.Helper()
	require.NoError(w.t, w.db.Model(&domain.ChecklistItem{}).Where("id = ?", id).Update("is_completed", true).Error)
}

func (w *world) invite(status string) {
	w.t.Helper()
	require.NoError(w.t, w.db.Create(&domain.TripInvitation{
		ID: uuid.NewString(), TripID: w.tripID, InviterID: w.userID,
		InviteeEmail: "friend@example.com", Status: status,
	}).Error)
}

func awardKeys(t *testing.T, db *gorm.DB, userID string) []string {
	t.Helper()
	var keys []string
	require.NoError(t, db.Model(&domain.Award{}).Where("user_id = ?", userID).Order("badge_key").Pluck("badge_key", &keys).Error)
	return keys
}

func awardCount(t *testing.T, db *gorm.DB, userID, badgeKey, tripID string) int64 {
	t.Helper()
	n, err := repo.CountAwards(context.Background(), db, userID, badgeKey, tripID)
	require.NoError(t, err)
	return n
}

// fakeSources is an in-memory Sources with failure and panic injection.
type fakeSources struct {
	mu        sync.Mutex
	dares     []domain.CompletionRecord
	checklist domain.ChecklistState
	window    domain.TripWindow
	invites   map[string][]domain.InvitationRecord // by trip; "" is the owner aggregate
	errs      map[string]error
	panics    map[string]bool
	delay     time.Duration
	calls     map[string]int
}

func newFakeSources() *fakeSources {
	return &fakeSources{
		invites: map[string][]domain.InvitationRecord{},
		errs:    map[string]error{},
		panics:  map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *fakeSources) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls[name]++
	err, boom, delay := f.errs[name], f.panics[name], f.delay
	f.mu.Unlock()
	if boom {
		panic(name + " exploded")
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeSources) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSources) completed(n, total int) {
	f.dares = nil
	now := time.Now()
	for i := 0; i < total; i++ {
		var at *time.Time
		if i < n {
			at = &now
		}
		f.dares = append(f.dares, domain.CompletionRecord{CompletedAt: at})
	}
}

func (f *fakeSources) CompletionRecords(ctx context.Context, _, _ string) ([]domain.CompletionRecord, error) {
	if err := f.enter(ctx, "CompletionRecords"); err != nil {
		return nil, err
	}
	return f.dares, nil
}

func (f *fakeSources) ChecklistState(ctx context.Context, _, _ string) (domain.ChecklistState, error) {
	if err := f.enter(ctx, "ChecklistState"); err != nil {
		return domain.ChecklistState{}, err
	}
	return f.checklist, nil
}

func (f *fakeSources) TripWindow(ctx context.Context, _ string) (domain.TripWindow, error) {
	if err := f.enter(ctx, "TripWindow"); err != nil {
		return domain.TripWindow{}, err
	}
	return f.window, nil
}

func (f *fakeSources) InvitationRecords(ctx context.Context, _, tripID string) ([]domain.InvitationRecord, error) {
	if err := f.enter(ctx, "InvitationRecords"); err != nil {
		return nil, err
	}
	return f.invites[tripID], nil
}

func invites(tripID string, sent, accepted int) []domain.InvitationRecord {
	out := make([]domain.InvitationRecord, 0, sent)
	for i := 0; i < sent; i++ {
		st := domain.InvitationPending
		if i < accepted {
			st = domain.InvitationAccepted
		}
		out = append(out, domain.InvitationRecord{TripID: tripID, Status: st})
	}
	return out
}

func badges(t *testing.T, keys ...string) []domain.Badge {
	t.Helper()
	cat := catalog.Default()
	out := make([]domain.Badge, 0, len(keys))
	for _, k := range keys {
		b, err := cat.Get(k)
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func resultFor(t *testing.T, rs []EvaluationResult, key string) EvaluationResult {
	t.Helper()
	for _, r := range rs {
		if r.BadgeKey == key {
			return r
		}
	}
	t.Fatalf("no result for %s in %+v", key, rs)
	return EvaluationResult{}
}
