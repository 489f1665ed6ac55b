package domain

import "time"

// The records below are owned by collaborating subsystems (trip CRUD,
// bucket-list dares, checklists, invitations). The badge engine only reads
// them; they are mapped here so the GORM-backed sources and tests share one
// schema.

// Trip is a planned trip owned by a user.
type Trip struct {
	ID        string     `json:"id"         gorm:"type:varchar(64);primaryKey"`
	OwnerID   string     `json:"owner_id"   gorm:"type:varchar(64);not null;index"`
	Name      string     `json:"name"       gorm:"type:varchar(255);not null;default:''"`
	StartDate *time.Time `json:"start_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Trip.
func (Trip) TableName() string { return "trips" }

// BucketListItem is a dare on a user's bucket list for a trip. CompletedAt
// is set when the user marks the dare done and cleared if they un-mark it.
type BucketListItem struct {
	ID          string     `json:"id"           gorm:"type:varchar(64);primaryKey"`
	UserID      string     `json:"user_id"      gorm:"type:varchar(64);not null;index:idx_bucket_user_trip,priority:1"`
	TripID      string     `json:"trip_id"      gorm:"type:varchar(64);not null;index:idx_bucket_user_trip,priority:2"`
	Title       string     `json:"title"        gorm:"type:varchar(255);not null;default:''"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName returns the database table name for BucketListItem.
func (BucketListItem) TableName() string { return "bucket_list_items" }

// ChecklistItem is one entry of a user's packing/preparation checklist.
type ChecklistItem struct {
	ID          string    `json:"id"           gorm:"type:varchar(64);primaryKey"`
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);not null;index:idx_checklist_user_trip,priority:1"`
	TripID      string    `json:"trip_id"      gorm:"type:varchar(64);not null;index:idx_checklist_user_trip,priority:2"`
	Description string    `json:"description"  gorm:"type:varchar(255);not null;default:''"`
	IsCompleted bool      `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for ChecklistItem.
func (ChecklistItem) TableName() string { return "checklist_items" }

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// TripInvitation is an invitation sent by a trip member to join a trip.
type TripInvitation struct {
	ID           string    `json:"id"            gorm:"type:varchar(64);primaryKey"`
	TripID       string    `json:"trip_id"       gorm:"type:varchar(64);not null;index"`
	InviterID    string    `json:"inviter_id"    gorm:"type:varchar(64);not null;index"`
	InviteeEmail string    `json:"invitee_email" gorm:"type:varchar(255);not null;default:''"`
	Status       string    `json:"status"        gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','accepted','declined')"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for TripInvitation.
func (TripInvitation) TableName() string { return "trip_invitations" }

// CompletionRecord is one bucket-list item as seen by the dare evaluator.
type CompletionRecord struct {
	CompletedAt *time.Time
}

// ChecklistState summarizes a user's checklist for one trip.
type ChecklistState struct {
	TotalItems     int
	CompletedItems int
}

// TripWindow carries the trip dates the checklist evaluator needs.
type TripWindow struct {
	StartDate *time.Time
}

// InvitationRecord is one invitation as seen by the invitation evaluator.
type InvitationRecord struct {
	TripID string
	Status string
}
