package services

import (
	"context"
	"fmt"
	"time"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// ChecklistEvaluator awards the preparation badges, including the
// time-relative one that also needs the trip start date.
type ChecklistEvaluator struct {
	Checklist ChecklistSource
	Trips     TripSource

	// Now is the evaluation clock; nil means time.Now.
	Now func() time.Time
}

func (e *ChecklistEvaluator) Family() domain.Family { return domain.FamilyChecklist }

func (e *ChecklistEvaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Measure reads checklist completion for tripID. DaysUntilStart is left
// unset; only Evaluate looks up the trip window, and only when a
// time-relative badge needs it.
func (e *ChecklistEvaluator) Measure(ctx context.Context, userID, tripID string) (domain.ChecklistProgress, error) {
	st, err := e.Checklist.ChecklistState(ctx, userID, tripID)
	if err != nil {
		return domain.ChecklistProgress{}, err
	}
	completed, total, pct := ratio(st.CompletedItems, st.TotalItems)
	return domain.ChecklistProgress{TripID: tripID, Completed: completed, Total: total, Percent: pct}, nil
}

func (e *ChecklistEvaluator) Evaluate(ctx context.Context, userID, tripID string, badges []domain.Badge) ([]EvaluationResult, error) {
	if err := checkFamily(e.Family(), badges); err != nil {
		return nil, err
	}
	if len(badges) == 0 {
		return nil, nil
	}

	p, err := e.Measure(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	var (
		lead    time.Duration
		hasLead bool
	)
	for _, b := range badges {
		if b.RequirementType == domain.RequirementTime {
			w, err := e.Trips.TripWindow(ctx, tripID)
			if err != nil {
				return nil, err
			}
			if w.StartDate != nil {
				lead = w.StartDate.Sub(e.now())
				hasLead = true
				days := lead.Hours() / 24
				p.DaysUntilStart = &days
			}
			break
		}
	}
	snap := domain.NewChecklistSnapshot(p)

	out := make([]EvaluationResult, 0, len(badges))
	for _, b := range badges {
		if b.RequirementType == domain.RequirementTime {
			// Complete checklist with at least RequirementValue days to spare.
			// Once the window has passed the badge is out of reach for this trip.
			complete := p.Total > 0 && p.Completed == p.Total
			inWindow := hasLead && lead >= time.Duration(b.RequirementValue)*24*time.Hour
			out = append(out, EvaluationResult{
				BadgeKey:     b.Key,
				TripID:       b.ScopeTripID(tripID),
				CurrentCount: p.Percent,
				TargetCount:  100,
				Met:          complete && inWindow,
				Snapshot:     snap,
			})
			continue
		}
		switch b.Metric {
		case domain.MetricChecklistCompleted:
			out = append(out, threshold(b, tripID, p.Completed, snap))
		case domain.MetricChecklistCompletionPct:
			out = append(out, threshold(b, tripID, p.Percent, snap))
		default:
			return nil, fmt.Errorf("%w: metric %s", ErrFamilyMismatch, b.Metric)
		}
	}
	return out, nil
}
