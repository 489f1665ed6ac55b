package services

import (
	"context"
	"fmt"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// comboStreams is the number of independent streams a compound badge joins.
const comboStreams = 3

// ComboEvaluator awards cross-stream badges. It reads the current evidence
// of the other families in the same pass and never looks at their awards.
type ComboEvaluator struct {
	Dares       *DareEvaluator
	Checklists  *ChecklistEvaluator
	Invitations *InvitationEvaluator
}

func (e *ComboEvaluator) Family() domain.Family { return domain.FamilyCombo }

// Measure gathers the evidence of every stream for tripID. need is the
// per-stream count a stream needs to be satisfied.
func (e *ComboEvaluator) Measure(ctx context.Context, userID, tripID string, need int) (domain.ComboProgress, error) {
	dare, err := e.Dares.Measure(ctx, userID, tripID)
	if err != nil {
		return domain.ComboProgress{}, fmt.Errorf("dare stream: %w", err)
	}
	list, err := e.Checklists.Measure(ctx, userID, tripID)
	if err != nil {
		return domain.ComboProgress{}, fmt.Errorf("checklist stream: %w", err)
	}
	inv, err := e.Invitations.Measure(ctx, userID, tripID)
	if err != nil {
		return domain.ComboProgress{}, fmt.Errorf("invitation stream: %w", err)
	}
	return domain.ComboProgress{
		TripID:        tripID,
		HasDare:       dare.Completed >= need,
		HasChecklist:  list.Completed >= need,
		HasInvitation: inv.Sent >= need,
	}, nil
}

func (e *ComboEvaluator) Evaluate(ctx context.Context, userID, tripID string, badges []domain.Badge) ([]EvaluationResult, error) {
	if err := checkFamily(e.Family(), badges); err != nil {
		return nil, err
	}

	// Badges sharing a per-stream minimum share one measurement.
	byMin := map[int]domain.ComboProgress{}
	out := make([]EvaluationResult, 0, len(badges))
	for _, b := range badges {
		if b.RequirementType != domain.RequirementAllOf {
			return nil, fmt.Errorf("%w: requirement %s", ErrFamilyMismatch, b.RequirementType)
		}
		p, ok := byMin[b.RequirementValue]
		if !ok {
			var err error
			if p, err = e.Measure(ctx, userID, tripID, b.RequirementValue); err != nil {
				return nil, err
			}
			byMin[b.RequirementValue] = p
		}
		satisfied := 0
		for _, has := range []bool{p.HasDare, p.HasChecklist, p.HasInvitation} {
			if has {
				satisfied++
			}
		}
		out = append(out, EvaluationResult{
			BadgeKey:     b.Key,
			TripID:       b.ScopeTripID(tripID),
			CurrentCount: satisfied,
			TargetCount:  comboStreams,
			Met:          satisfied == comboStreams,
			Snapshot:     domain.NewComboSnapshot(p),
		})
	}
	return out, nil
}
