package services

import (
	"context"
	"fmt"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// EvaluationResult is the freshly recomputed state of one badge for one
// user and scope. TripID is already collapsed to the badge scope.
type EvaluationResult struct {
	BadgeKey     string
	TripID       string
	CurrentCount int
	TargetCount  int
	Met          bool
	Snapshot     domain.ProgressSnapshot
}

// Evaluator recomputes every badge of one family from its source
// collaborator. An implementation issues its source queries once per call
// and checks all tiers against the same evidence. It never reads Progress.
type Evaluator interface {
	Family() domain.Family
	Evaluate(ctx context.Context, userID, tripID string, badges []domain.Badge) ([]EvaluationResult, error)
}

func checkFamily(f domain.Family, badges []domain.Badge) error {
	for _, b := range badges {
		if b.Family != f {
			return fmt.Errorf("%w: %s is %s, evaluator is %s", ErrFamilyMismatch, b.Key, b.Family, f)
		}
	}
	return nil
}

// threshold compares value against the badge requirement. It serves both
// count and percentage requirements since percentages are already floored
// to whole numbers.
func threshold(b domain.Badge, tripID string, value int, snap domain.ProgressSnapshot) EvaluationResult {
	return EvaluationResult{
		BadgeKey:     b.Key,
		TripID:       b.ScopeTripID(tripID),
		CurrentCount: value,
		TargetCount:  b.RequirementValue,
		Met:          value >= b.RequirementValue,
		Snapshot:     snap,
	}
}

// ratio clamps malformed counts and returns the floored completion
// percentage. Zero items is 0%, not an error.
func ratio(completed, total int) (c, t, pct int) {
	if total < 0 {
		total = 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	if total == 0 {
		return completed, total, 0
	}
	return completed, total, completed * 100 / total
}
