package domain

// SnapshotKind tags which payload of a ProgressSnapshot is populated.
type SnapshotKind string

const (
	SnapshotDare       SnapshotKind = "dare"
	SnapshotChecklist  SnapshotKind = "checklist"
	SnapshotInvitation SnapshotKind = "invitation"
	SnapshotCombo      SnapshotKind = "combo"
)

// ProgressSnapshot is the evidence captured alongside a Progress row or an
// Award. Exactly one payload matches Kind. Award snapshots are written once
// and never refreshed.
type ProgressSnapshot struct {
	Kind       SnapshotKind        `json:"kind,omitempty"`
	Dare       *DareProgress       `json:"dare,omitempty"`
	Checklist  *ChecklistProgress  `json:"checklist,omitempty"`
	Invitation *InvitationProgress `json:"invitation,omitempty"`
	Combo      *ComboProgress      `json:"combo,omitempty"`
}

// DareProgress is bucket-list evidence for one trip.
type DareProgress struct {
	TripID    string `json:"trip_id"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// ChecklistProgress is checklist evidence for one trip. DaysUntilStart is
// nil when the trip has no start date.
type ChecklistProgress struct {
	TripID         string   `json:"trip_id"`
	Completed      int      `json:"completed"`
	Total          int      `json:"total"`
	Percent        int      `json:"percent"`
	DaysUntilStart *float64 `json:"days_until_start,omitempty"`
}

// InvitationProgress is invitation evidence. TripID is empty for the
// cross-trip aggregate.
type InvitationProgress struct {
	TripID   string `json:"trip_id,omitempty"`
	Sent     int    `json:"sent"`
	Accepted int    `json:"accepted"`
}

// ComboProgress records which independent streams had evidence in the
// evaluation pass that produced it.
type ComboProgress struct {
	TripID        string `json:"trip_id"`
	HasDare       bool   `json:"has_dare"`
	HasChecklist  bool   `json:"has_checklist"`
	HasInvitation bool   `json:"has_invitation"`
}

// NewDareSnapshot wraps p as a tagged snapshot.
func NewDareSnapshot(p DareProgress) ProgressSnapshot {
	return ProgressSnapshot{Kind: SnapshotDare, Dare: &p}
}

// NewChecklistSnapshot wraps p as a tagged snapshot.
func NewChecklistSnapshot(p ChecklistProgress) ProgressSnapshot {
	return ProgressSnapshot{Kind: SnapshotChecklist, Checklist: &p}
}

// NewInvitationSnapshot wraps p as a tagged snapshot.
func NewInvitationSnapshot(p InvitationProgress) ProgressSnapshot {
	return ProgressSnapshot{Kind: SnapshotInvitation, Invitation: &p}
}

// NewComboSnapshot wraps p as a tagged snapshot.
func NewComboSnapshot(p ComboProgress) ProgressSnapshot {
	return ProgressSnapshot{Kind: SnapshotCombo, Combo: &p}
}

// Valid reports whether exactly the payload named by Kind is set.
func (s ProgressSnapshot) Valid() bool {
	set := 0
	for _, ok := range []bool{s.Dare != nil, s.Checklist != nil, s.Invitation != nil, s.Combo != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return false
	}
	switch s.Kind {
	case SnapshotDare:
		return s.Dare != nil
	case SnapshotChecklist:
		return s.Checklist != nil
	case SnapshotInvitation:
		return s.Invitation != nil
	case SnapshotCombo:
		return s.Combo != nil
	}
	return false
}
