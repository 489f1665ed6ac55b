// Package domain defines the persistence models for the badge engine: the
// badge catalog, per-user progress, earned awards, and the read-only source
// records owned by the trip, dare, checklist, and invitation subsystems.
// These types are mapped with GORM and shared across the repository and
// service layers.
package domain

import "time"

// RequirementType describes how a badge's RequirementValue is interpreted.
type RequirementType string

const (
	RequirementCount      RequirementType = "count_threshold"
	RequirementPercentage RequirementType = "percentage_threshold"
	RequirementTime       RequirementType = "time_relative"
	RequirementAllOf      RequirementType = "compound_all_of"
)

// Scope says whether a badge is tracked per trip or across all of a user's trips.
type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopePerTrip Scope = "per_trip"
)

// Family names the evaluator that owns a badge.
type Family string

const (
	FamilyDare       Family = "dare"
	FamilyChecklist  Family = "checklist"
	FamilyInvitation Family = "invitation"
	FamilyCombo      Family = "combo"
)

// Metric selects which piece of family evidence a badge is measured against.
type Metric string

const (
	MetricDaresCompleted         Metric = "dares_completed"
	MetricDaresCompletionPct     Metric = "dares_completion_pct"
	MetricChecklistCompleted     Metric = "checklist_completed"
	MetricChecklistCompletionPct Metric = "checklist_completion_pct"
	MetricInvitesSent            Metric = "invites_sent"
	MetricInvitesAccepted        Metric = "invites_accepted"
	MetricAllStreams             Metric = "all_streams"
)

// GlobalTripID is the trip key stored for globally scoped progress and
// awards. SQLite treats NULLs as distinct in unique indexes, so the empty
// string stands in for "no trip".
const GlobalTripID = ""

// Badge is a catalog entry. Rows are seeded from the static catalog at
// startup and never modified at runtime.
type Badge struct {
	Key              string          `json:"key"               gorm:"type:varchar(64);primaryKey"`
	Name             string          `json:"name"              gorm:"type:varchar(128);not null"`
	Description      string          `json:"description"       gorm:"type:text;not null;default:''"`
	Icon             string          `json:"icon"              gorm:"type:varchar(64);not null;default:''"`
	Category         string          `json:"category"          gorm:"type:varchar(64);not null;index"`
	Family           Family          `json:"family"            gorm:"type:varchar(16);not null;index"`
	Metric           Metric          `json:"metric"            gorm:"type:varchar(32);not null"`
	RequirementType  RequirementType `json:"requirement_type"  gorm:"type:varchar(32);not null"`
	RequirementValue int             `json:"requirement_value" gorm:"not null"`
	Scope            Scope           `json:"scope"             gorm:"type:varchar(16);not null"`
}

// TableName returns the database table name for Badge.
func (Badge) TableName() string { return "badges" }

// PerTrip reports whether the badge is tracked per trip.
func (b Badge) PerTrip() bool { return b.Scope == ScopePerTrip }

// ScopeTripID maps a triggering trip to the key the badge is stored under:
// the trip itself for per-trip badges, GlobalTripID otherwise.
func (b Badge) ScopeTripID(tripID string) string {
	if b.PerTrip() {
		return tripID
	}
	return GlobalTripID
}

// Progress is the most recent recomputed evidence toward a badge. Rows are
// overwritten on every evaluation and never incremented in place.
type Progress struct {
	ID           string           `json:"-"             gorm:"type:char(36);primaryKey"`
	UserID       string           `json:"user_id"       gorm:"type:varchar(64);not null;uniqueIndex:ux_progress_user_badge_trip,priority:1"`
	BadgeKey     string           `json:"badge_key"     gorm:"type:varchar(64);not null;uniqueIndex:ux_progress_user_badge_trip,priority:2"`
	TripID       string           `json:"trip_id"       gorm:"type:varchar(64);not null;default:'';uniqueIndex:ux_progress_user_badge_trip,priority:3"`
	CurrentCount int              `json:"current_count" gorm:"not null"`
	TargetCount  int              `json:"target_count"  gorm:"not null"`
	Snapshot     ProgressSnapshot `json:"snapshot"      gorm:"type:text;serializer:json"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName returns the database table name for Progress.
func (Progress) TableName() string { return "badge_progress" }

// Award records that a user earned a badge. The unique index on
// (user_id, badge_key, trip_id) is what makes awarding exactly-once; rows
// are never updated or deleted.
type Award struct {
	ID       string           `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID   string           `json:"user_id"   gorm:"type:varchar(64);not null;uniqueIndex:ux_award_user_badge_trip,priority:1;index:idx_award_user_earned,priority:1"`
	BadgeKey string           `json:"badge_key" gorm:"type:varchar(64);not null;uniqueIndex:ux_award_user_badge_trip,priority:2"`
	TripID   string           `json:"trip_id"   gorm:"type:varchar(64);not null;default:'';uniqueIndex:ux_award_user_badge_trip,priority:3"`
	EarnedAt time.Time        `json:"earned_at" gorm:"not null;index:idx_award_user_earned,priority:2"`
	Snapshot ProgressSnapshot `json:"progress_snapshot" gorm:"type:text;serializer:json"`

	// Badge is the catalog entry for BadgeKey, preloaded by read queries.
	Badge Badge `json:"badge" gorm:"foreignKey:BadgeKey;references:Key;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Award.
func (Award) TableName() string { return "badge_awards" }
