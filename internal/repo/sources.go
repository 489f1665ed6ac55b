// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read-only queries over the tables owned
// by the collaborating subsystems (trips, bucket-list dares, checklists,
// invitations). The badge engine treats these as its authoritative sources
// and never writes to them.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// Sources adapts the collaborator tables to the evaluator source contracts.
type Sources struct {
	DB *gorm.DB
}

// CompletionRecords returns every bucket-list item of userID on tripID,
// completed or not.
func (s Sources) CompletionRecords(ctx context.Context, userID, tripID string) ([]domain.CompletionRecord, error) {
	var out []domain.CompletionRecord
	err := s.DB.WithContext(ctx).
		Model(&domain.BucketListItem{}).
		Select("completed_at").
		Where("user_id = ? AND trip_id = ?", userID, tripID).
		Scan(&out).Error
	return out, err
}

// ChecklistState counts total and completed checklist items of userID on tripID.
func (s Sources) ChecklistState(ctx context.Context, userID, tripID string) (domain.ChecklistState, error) {
	var row struct {
		Total     int
		Completed int
	}
	err := s.DB.WithContext(ctx).
		Model(&domain.ChecklistItem{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed").
		Where("user_id = ? AND trip_id = ?", userID, tripID).
		Scan(&row).Error
	if err != nil {
		return domain.ChecklistState{}, err
	}
	return domain.ChecklistState{TotalItems: row.Total, CompletedItems: row.Completed}, nil
}

// TripWindow returns the start date of tripID. A missing trip yields a zero
// window rather than an error; the evaluator treats it as "no start date".
func (s Sources) TripWindow(ctx context.Context, tripID string) (domain.TripWindow, error) {
	var t domain.Trip
	err := s.DB.WithContext(ctx).Select("id", "start_date").Where("id = ?", tripID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TripWindow{}, nil
	}
	if err != nil {
		return domain.TripWindow{}, err
	}
	return domain.TripWindow{StartDate: t.StartDate}, nil
}

// InvitationRecords returns invitations sent by userID on tripID. With an
// empty tripID it aggregates invitations across every trip userID owns.
func (s Sources) InvitationRecords(ctx context.Context, userID, tripID string) ([]domain.InvitationRecord, error) {
	var out []domain.InvitationRecord
	q := s.DB.WithContext(ctx).Model(&domain.TripInvitation{})
	if tripID != "" {
		q = q.Select("trip_id, status").Where("trip_id = ? AND inviter_id = ?", tripID, userID)
	} else {
		q = q.Select("trip_invitations.trip_id, trip_invitations.status").
			Joins("JOIN trips ON trips.id = trip_invitations.trip_id").
			Where("trips.owner_id = ?", userID)
	}
	err := q.Scan(&out).Error
	return out, err
}
