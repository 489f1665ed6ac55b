// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Progress
// model.
//
// Progress rows are keyed by (user_id, badge_key, trip_id) and are always
// overwritten with freshly recomputed values. Concurrent upserts for the same
// key are harmless because every writer derives its value from the same
// authoritative source records.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// UpsertProgress inserts the row for (UserID, BadgeKey, TripID) or overwrites
// its counts and snapshot. CreatedAt is preserved on update.
func UpsertProgress(ctx context.Context, db *gorm.DB, p *domain.Progress) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_key"}, {Name: "trip_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_count", "target_count", "snapshot", "updated_at"}),
		}).
		Create(p).Error
}

// GetProgress fetches the progress row for one key, or ErrNotFound.
func GetProgress(ctx context.Context, db *gorm.DB, userID, badgeKey, tripID string) (*domain.Progress, error) {
	var p domain.Progress
	err := db.WithContext(ctx).
		Where("user_id = ? AND badge_key = ? AND trip_id = ?", userID, badgeKey, tripID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProgress returns a user's progress rows. With a non-empty tripID it
// returns that trip's rows plus the user's global rows; otherwise all rows.
func ListProgress(ctx context.Context, db *gorm.DB, userID, tripID string) ([]domain.Progress, error) {
	var out []domain.Progress
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if tripID != "" {
		q = q.Where("trip_id IN ?", []string{tripID, domain.GlobalTripID})
	}
	err := q.Order("trip_id, badge_key").Find(&out).Error
	return out, err
}
