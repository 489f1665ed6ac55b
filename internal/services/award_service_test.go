package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/BooManLag/trippit-app-sub000/internal/cache"
	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/domain"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
)

func TestAward_ConflictIsSuccessfulNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewAwardService(db, catalog.Default(), nil)
	ctx := context.Background()
	before := testutil.ToFloat64(awardsTotal.WithLabelValues(catalog.Daredevil))

	first := domain.NewDareSnapshot(domain.DareProgress{TripID: "t1", Completed: 1, Total: 3})
	ok, err := svc.Award(ctx, "u1", catalog.Daredevil, "t1", first)
	require.NoError(t, err)
	require.True(t, ok)

	later := domain.NewDareSnapshot(domain.DareProgress{TripID: "t1", Completed: 3, Total: 3})
	ok, err = svc.Award(ctx, "u1", catalog.Daredevil, "t1", later)
	require.NoError(t, err)
	require.False(t, ok)

	a, err := repo.GetAward(ctx, db, "u1", catalog.Daredevil, "t1")
	require.NoError(t, err)
	require.Equal(t, 1, a.Snapshot.Dare.Completed, "first snapshot is kept")
	require.Equal(t, before+1, testutil.ToFloat64(awardsTotal.WithLabelValues(catalog.Daredevil)))
}

func TestAward_UnknownBadge(t *testing.T) {
	db := newTestDB(t)
	svc := NewAwardService(db, catalog.Default(), nil)
	_, err := svc.Award(context.Background(), "u1", "no_such_badge", "t1", domain.ProgressSnapshot{})
	require.ErrorIs(t, err, ErrBadgeNotFound)
}

func TestAward_GlobalBadgeCollapsesTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewAwardService(db, catalog.Default(), nil)
	ctx := context.Background()
	snap := domain.NewInvitationSnapshot(domain.InvitationProgress{Sent: 10, Accepted: 10})

	ok, err := svc.Award(ctx, "u1", catalog.CrowdPuller, "t1", snap)
	require.NoError(t, err)
	require.True(t, ok)

	// triggered from another trip: same global award
	ok, err = svc.Award(ctx, "u1", catalog.CrowdPuller, "t2", snap)
	require.NoError(t, err)
	require.False(t, ok)
	require.EqualValues(t, 1, awardCount(t, db, "u1", catalog.CrowdPuller, domain.GlobalTripID))
}

func TestAward_StampsClockAndInvalidatesCache(t *testing.T) {
	db := newTestDB(t)
	mem := cache.NewMemory()
	svc := NewAwardService(db, catalog.Default(), mem)
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, cache.AwardsKey("u1", "", 0), []string{"stale"}, time.Minute))
	require.NoError(t, mem.Set(ctx, cache.AwardsKey("u2", "", 0), []string{"other"}, time.Minute))

	ok, err := svc.Award(ctx, "u1", catalog.ChecklistStarter, "t1",
		domain.NewChecklistSnapshot(domain.ChecklistProgress{TripID: "t1", Completed: 1, Total: 2, Percent: 50}))
	require.NoError(t, err)
	require.True(t, ok)

	var out []string
	hit, _ := mem.Get(ctx, cache.AwardsKey("u1", "", 0), &out)
	require.False(t, hit, "writer must drop the user's entries")
	hit, _ = mem.Get(ctx, cache.AwardsKey("u2", "", 0), &out)
	require.True(t, hit, "other users are untouched")

	a, err := repo.GetAward(ctx, db, "u1", catalog.ChecklistStarter, "t1")
	require.NoError(t, err)
	require.True(t, a.EarnedAt.Equal(fixed))
}

func TestRecordProgress_Overwrites(t *testing.T) {
	db := newTestDB(t)
	svc := NewAwardService(db, catalog.Default(), nil)
	ctx := context.Background()

	r := EvaluationResult{BadgeKey: catalog.OnARoll, TripID: "t1", CurrentCount: 2, TargetCount: 3,
		Snapshot: domain.NewDareSnapshot(domain.DareProgress{TripID: "t1", Completed: 2, Total: 2})}
	require.NoError(t, svc.RecordProgress(ctx, "u1", r))

	r.CurrentCount = 1
	r.Snapshot = domain.NewDareSnapshot(domain.DareProgress{TripID: "t1", Completed: 1, Total: 2})
	require.NoError(t, svc.RecordProgress(ctx, "u1", r))

	p, err := repo.GetProgress(ctx, db, "u1", catalog.OnARoll, "t1")
	require.NoError(t, err)
	require.Equal(t, 1, p.CurrentCount)
	require.Equal(t, 3, p.TargetCount)
}
