// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Award
// model.
//
// Error semantics:
//   - InsertAward never reports a unique-key conflict as an error. A row that
//     already exists for (user_id, badge_key, trip_id) yields inserted=false.
//   - On other DB errors (connectivity, missing badge row, etc.), the raw gorm
//     error is propagated.
//
// Awards are append-only: nothing in this package updates or deletes them.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// InsertAward attempts to record a as earned. The insert carries
// ON CONFLICT DO NOTHING against the (user_id, badge_key, trip_id) unique
// index, so the database arbitrates concurrent attempts: exactly one caller
// observes inserted=true.
func InsertAward(ctx context.Context, db *gorm.DB, a *domain.Award) (inserted bool, err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.EarnedAt.IsZero() {
		a.EarnedAt = time.Now().UTC()
	}

	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_key"}, {Name: "trip_id"}},
			DoNothing: true,
		}).
		Create(a)
	if res.Error != nil {
		if IsDuplicate(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// GetAward fetches the award for one key, or ErrNotFound.
func GetAward(ctx context.Context, db *gorm.DB, userID, badgeKey, tripID string) (*domain.Award, error) {
	var a domain.Award
	err := db.WithContext(ctx).
		Where("user_id = ? AND badge_key = ? AND trip_id = ?", userID, badgeKey, tripID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAwards returns a user's awards with badge metadata preloaded, most
// recent first. With a non-empty tripID it returns that trip's awards plus
// the user's global awards.
func ListAwards(ctx context.Context, db *gorm.DB, userID, tripID string) ([]domain.Award, error) {
	var out []domain.Award
	q := db.WithContext(ctx).Preload("Badge").Where("user_id = ?", userID)
	if tripID != "" {
		q = q.Where("trip_id IN ?", []string{tripID, domain.GlobalTripID})
	}
	err := q.Order("earned_at desc, badge_key").Find(&out).Error
	return out, err
}

// CountAwards returns how many award rows exist for one key. It is 0 or 1
// whenever the unique index is in place.
func CountAwards(ctx context.Context, db *gorm.DB, userID, badgeKey, tripID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Award{}).
		Where("user_id = ? AND badge_key = ? AND trip_id = ?", userID, badgeKey, tripID).
		Count(&n).Error
	return n, err
}
