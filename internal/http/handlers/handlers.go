// Package handlers exposes the badge engine over HTTP.
//
// Handlers are transport-thin: they validate input, call the read service or
// the dispatcher, and translate results into HTTP responses (including
// conditional responses).
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
	"github.com/BooManLag/trippit-app-sub000/internal/http/middleware"
	"github.com/BooManLag/trippit-app-sub000/internal/services"
)

// BadgeReader serves the catalog and a user's earned badges and progress.
//
// Implementations must be safe for concurrent use and honor ctx.
type BadgeReader interface {
	ListBadges(ctx context.Context) []domain.Badge
	GetBadge(ctx context.Context, key string) (domain.Badge, error)
	ListUserBadges(ctx context.Context, userID, tripID string) ([]domain.Award, error)
	ListProgress(ctx context.Context, userID, tripID string) ([]domain.Progress, error)
	// AwardsStats returns the count and latest EarnedAt of the awards
	// ListUserBadges would return; it feeds the weak ETag.
	AwardsStats(ctx context.Context, userID, tripID string) (int64, *time.Time, error)
}

// BadgeChecker triggers a badge re-evaluation by family name.
type BadgeChecker interface {
	Check(ctx context.Context, family, userID, tripID string) (services.Report, error)
}

// Handlers groups the badge endpoints.
type Handlers struct {
	badges  BadgeReader
	checker BadgeChecker
}

// New constructs Handlers bound to the given services.
func New(badges BadgeReader, checker BadgeChecker) *Handlers {
	return &Handlers{badges: badges, checker: checker}
}

// userID returns the acting user resolved by middleware.Identity. Without
// that middleware it falls back to the X-User-ID header and finally to the
// demo user, so handlers can be mounted on a bare engine in tests.
func userID(c *gin.Context) string {
	if uid := middleware.UserID(c); uid != "" {
		return uid
	}
	if c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(middleware.UserIDHeader)); h != "" {
			return h
		}
	}
	return middleware.DefaultUserID
}

// TripQuery is the optional trip filter of the per-user read endpoints.
type TripQuery struct {
	// TripID limits results to one trip plus the user's global badges.
	TripID string `form:"trip_id" binding:"omitempty,max=64"`
}
