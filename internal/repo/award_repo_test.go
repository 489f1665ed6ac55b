package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

func TestInsertAward_ExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	snap := domain.NewDareSnapshot(domain.DareProgress{TripID: "t1", Completed: 1, Total: 2})
	first := &domain.Award{UserID: "u1", BadgeKey: "daredevil", TripID: "t1", Snapshot: snap}
	ok, err := InsertAward(ctx, db, first)
	if err != nil || !ok {
		t.Fatalf("first insert: ok=%v err=%v", ok, err)
	}
	if first.ID == "" || first.EarnedAt.IsZero() {
		t.Fatalf("expected ID and EarnedAt to be filled: %+v", first)
	}

	later := domain.NewDareSnapshot(domain.DareProgress{TripID: "t1", Completed: 2, Total: 2})
	ok, err = InsertAward(ctx, db, &domain.Award{UserID: "u1", BadgeKey: "daredevil", TripID: "t1", Snapshot: later})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if ok {
		t.Fatalf("second insert must report not inserted")
	}

	n, err := CountAwards(ctx, db, "u1", "daredevil", "t1")
	if err != nil || n != 1 {
		t.Fatalf("want 1 award, got %d (err=%v)", n, err)
	}

	// first snapshot is kept
	got, err := GetAward(ctx, db, "u1", "daredevil", "t1")
	if err != nil {
		t.Fatalf("GetAward: %v", err)
	}
	if got.Snapshot.Dare == nil || got.Snapshot.Dare.Completed != 1 {
		t.Fatalf("award snapshot was overwritten: %+v", got.Snapshot)
	}
}

func TestInsertAward_GlobalScopeIsUnique(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := InsertAward(ctx, db, &domain.Award{UserID: "u1", BadgeKey: "crowd_puller", TripID: domain.GlobalTripID})
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if ok != (i == 0) {
			t.Fatalf("insert %d: ok=%v", i, ok)
		}
	}
}

func TestInsertAward_DistinctTripsAndUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, a := range []domain.Award{
		{UserID: "u1", BadgeKey: "daredevil", TripID: "t1"},
		{UserID: "u1", BadgeKey: "daredevil", TripID: "t2"},
		{UserID: "u2", BadgeKey: "daredevil", TripID: "t1"},
	} {
		a := a
		ok, err := InsertAward(ctx, db, &a)
		if err != nil || !ok {
			t.Fatalf("insert %+v: ok=%v err=%v", a, ok, err)
		}
	}
}

func TestGetAward_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := GetAward(context.Background(), db, "u1", "daredevil", "t1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListAwards_ScopeAndOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	seed := []domain.Award{
		{UserID: "u1", BadgeKey: "daredevil", TripID: "t1", EarnedAt: base},
		{UserID: "u1", BadgeKey: "daredevil", TripID: "t2", EarnedAt: base.Add(time.Hour)},
		{UserID: "u1", BadgeKey: "crowd_puller", TripID: domain.GlobalTripID, EarnedAt: base.Add(2 * time.Hour)},
		{UserID: "u2", BadgeKey: "daredevil", TripID: "t1", EarnedAt: base},
	}
	for i := range seed {
		if _, err := InsertAward(ctx, db, &seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	all, err := ListAwards(ctx, db, "u1", "")
	if err != nil {
		t.Fatalf("ListAwards: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 awards for u1, got %d", len(all))
	}
	if all[0].BadgeKey != "crowd_puller" {
		t.Fatalf("want most recent first, got %s", all[0].BadgeKey)
	}
	if all[0].Badge.Name != "Crowd Puller" {
		t.Fatalf("badge metadata not preloaded: %+v", all[0].Badge)
	}

	trip, err := ListAwards(ctx, db, "u1", "t1")
	if err != nil {
		t.Fatalf("ListAwards trip: %v", err)
	}
	if len(trip) != 2 {
		t.Fatalf("want trip + global awards (2), got %d", len(trip))
	}
	for _, a := range trip {
		if a.TripID != "t1" && a.TripID != domain.GlobalTripID {
			t.Fatalf("unexpected trip in scoped list: %q", a.TripID)
		}
	}
}
