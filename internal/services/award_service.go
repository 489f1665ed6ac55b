// Package services – AwardService
//
// This file implements the AwardService, the single writer of the award
// table. Awarding is one atomic insert guarded by the
// (user_id, badge_key, trip_id) unique index: the caller whose insert lands
// gets newlyAwarded=true, every other caller (a retry, a duplicate trigger,
// a concurrent request) gets false with a nil error. Existing awards are
// never updated, so the progress snapshot captured on the first award is
// the one that stays.
package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/BooManLag/trippit-app-sub000/internal/cache"
	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/domain"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
)

// AwardService records earned badges and current progress.
type AwardService struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
	// Cache holds the read-API entries invalidated on every write. Optional.
	Cache cache.Cache
	// Now stamps EarnedAt; nil means time.Now.
	Now func() time.Time
}

// NewAwardService wires an AwardService.
func NewAwardService(db *gorm.DB, cat *catalog.Catalog, c cache.Cache) *AwardService {
	return &AwardService{DB: db, Catalog: cat, Cache: c, Now: time.Now}
}

// Award records badgeKey as earned by userID. tripID is collapsed to the
// badge scope, so callers may pass the triggering trip for global badges.
//
// Errors:
//   - ErrBadgeNotFound when badgeKey is not in the catalog.
//   - The underlying DB error for anything but a uniqueness conflict.
func (s *AwardService) Award(ctx context.Context, userID, badgeKey, tripID string, snap domain.ProgressSnapshot) (bool, error) {
	tr := otel.Tracer("services/AwardService")
	ctx, span := tr.Start(ctx, "Award",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("badge.key", badgeKey),
			attribute.String("trip.id", tripID),
		),
	)
	defer span.End()

	b, err := s.Catalog.Get(badgeKey)
	if err != nil {
		return false, err
	}
	scope := b.ScopeTripID(tripID)

	a := &domain.Award{
		UserID:   userID,
		BadgeKey: b.Key,
		TripID:   scope,
		EarnedAt: s.now().UTC(),
		Snapshot: snap,
	}
	inserted, err := repo.InsertAward(ctx, s.DB, a)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert award")
		return false, err
	}
	span.SetAttributes(attribute.Bool("badge.newly_awarded", inserted))
	if !inserted {
		return false, nil
	}

	awardsTotal.WithLabelValues(b.Key).Inc()
	s.invalidate(ctx, userID)
	logFor(ctx).Info().
		Str("user_id", userID).
		Str("badge", b.Key).
		Str("trip_id", scope).
		Msg("badge awarded")
	return true, nil
}

// RecordProgress overwrites the progress row for r with the recomputed
// counts.
func (s *AwardService) RecordProgress(ctx context.Context, userID string, r EvaluationResult) error {
	p := &domain.Progress{
		UserID:       userID,
		BadgeKey:     r.BadgeKey,
		TripID:       r.TripID,
		CurrentCount: r.CurrentCount,
		TargetCount:  r.TargetCount,
		Snapshot:     r.Snapshot,
	}
	if err := repo.UpsertProgress(ctx, s.DB, p); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *AwardService) invalidate(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	// The bump retires every key a concurrent reader may still write;
	// the delete only frees the old entries.
	if _, err := s.Cache.Incr(ctx, cache.GenerationKey(userID)); err != nil {
		logFor(ctx).Warn().Err(err).Str("user_id", userID).Msg("badge cache generation bump failed")
	}
	if err := s.Cache.DeletePrefix(ctx, cache.UserPrefix(userID)); err != nil {
		logFor(ctx).Warn().Err(err).Str("user_id", userID).Msg("badge cache invalidation failed")
	}
}

func (s *AwardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
