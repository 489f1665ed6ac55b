// Package services – BadgeService
//
// This file implements the read side of the badge engine used by the UI:
// the catalog, a user's earned badges, and a user's progress. User-scoped
// reads go through the cache under keys carrying the user's write
// generation. AwardService bumps the generation and drops the user's entries
// whenever it writes progress or awards for that user, so a list loaded
// before a write is never served after it.
package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/BooManLag/trippit-app-sub000/internal/cache"
	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/domain"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
)

// DefaultCacheTTL is used when BadgeService.TTL is unset.
const DefaultCacheTTL = 5 * time.Minute

// BadgeService serves the read APIs.
type BadgeService struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
	Cache   cache.Cache
	TTL     time.Duration
}

// NewBadgeService wires a BadgeService. A nil cache disables caching.
func NewBadgeService(db *gorm.DB, cat *catalog.Catalog, c cache.Cache, ttl time.Duration) *BadgeService {
	if c == nil {
		c = cache.Nop{}
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &BadgeService{DB: db, Catalog: cat, Cache: c, TTL: ttl}
}

// ListBadges returns the catalog ordered by category, then key.
func (s *BadgeService) ListBadges(ctx context.Context) []domain.Badge {
	return s.Catalog.List()
}

// GetBadge returns one catalog entry or ErrBadgeNotFound.
func (s *BadgeService) GetBadge(ctx context.Context, key string) (domain.Badge, error) {
	return s.Catalog.Get(key)
}

// ListUserBadges returns the user's awards joined with badge metadata, most
// recent first. A non-empty tripID limits the list to that trip plus the
// user's global badges.
func (s *BadgeService) ListUserBadges(ctx context.Context, userID, tripID string) ([]domain.Award, error) {
	ctx, span := otel.Tracer("services/BadgeService").Start(ctx, "ListUserBadges",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("trip.id", tripID)),
	)
	defer span.End()

	return cached(ctx, s, userID, func(gen int64) string { return cache.AwardsKey(userID, tripID, gen) }, func() ([]domain.Award, error) {
		return repo.ListAwards(ctx, s.DB, userID, tripID)
	})
}

// ListProgress returns the user's progress rows, optionally trip scoped
// (trip rows plus global rows).
func (s *BadgeService) ListProgress(ctx context.Context, userID, tripID string) ([]domain.Progress, error) {
	ctx, span := otel.Tracer("services/BadgeService").Start(ctx, "ListProgress",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("trip.id", tripID)),
	)
	defer span.End()

	return cached(ctx, s, userID, func(gen int64) string { return cache.ProgressKey(userID, tripID, gen) }, func() ([]domain.Progress, error) {
		return repo.ListProgress(ctx, s.DB, userID, tripID)
	})
}

// AwardsStats returns the award count and latest EarnedAt for the same scope
// as ListUserBadges. It always hits the database.
func (s *BadgeService) AwardsStats(ctx context.Context, userID, tripID string) (int64, *time.Time, error) {
	return repo.AwardsStats(ctx, s.DB, userID, tripID)
}

// cached serves the user's list from the cache or fills it from load. The
// key is built from the user's current generation; the result is stored only
// if the generation is unchanged after load, so rows read before a
// concurrent write cannot outlive its invalidation. Cache failures are
// logged and fall through to load.
func cached[T any](ctx context.Context, s *BadgeService, userID string, keyFor func(gen int64) string, load func() ([]T, error)) ([]T, error) {
	gen, genErr := generation(ctx, s.Cache, userID)
	if genErr != nil {
		logFor(ctx).Warn().Err(genErr).Str("user_id", userID).Msg("badge cache generation read failed")
	}

	var out []T
	key := keyFor(gen)
	if genErr == nil {
		hit, err := s.Cache.Get(ctx, key, &out)
		if err != nil {
			logFor(ctx).Warn().Err(err).Str("key", key).Msg("badge cache read failed")
		}
		if hit && err == nil {
			return out, nil
		}
	}

	out, err := load()
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	if genErr != nil {
		return out, nil
	}

	after, err := generation(ctx, s.Cache, userID)
	if err != nil || after != gen {
		return out, nil
	}
	if err := s.Cache.Set(ctx, key, out, s.TTL); err != nil {
		logFor(ctx).Warn().Err(err).Str("key", key).Msg("badge cache write failed")
	}
	return out, nil
}

// generation reads userID's write generation; zero until the first write.
func generation(ctx context.Context, c cache.Cache, userID string) (int64, error) {
	var gen int64
	if _, err := c.Get(ctx, cache.GenerationKey(userID), &gen); err != nil {
		return 0, err
	}
	return gen, nil
}
