// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// AwardsStats returns aggregate metadata for a user's awards: the number of
// rows and the latest EarnedAt among them. Because awards are append-only,
// the pair changes exactly when the user's earned list changes.
//
// With a non-empty tripID the scope matches ListAwards (trip + global rows).
// When the user has no awards, count is 0 and maxEarnedAt is nil.
func AwardsStats(ctx context.Context, db *gorm.DB, userID, tripID string) (count int64, maxEarnedAt *time.Time, err error) {
	scoped := func() *gorm.DB {
		q := db.WithContext(ctx).Model(&domain.Award{}).Where("user_id = ?", userID)
		if tripID != "" {
			q = q.Where("trip_id IN ?", []string{tripID, domain.GlobalTripID})
		}
		return q
	}

	if err = scoped().Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest earned_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		EarnedAt time.Time
	}
	if err = scoped().Select("earned_at").Order("earned_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.EarnedAt, nil
}
