package services

import (
	"context"
	"fmt"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// DareEvaluator awards the bucket-list tiers.
type DareEvaluator struct {
	Source DareSource
}

func (e *DareEvaluator) Family() domain.Family { return domain.FamilyDare }

// Measure counts the user's completed bucket-list items on tripID.
func (e *DareEvaluator) Measure(ctx context.Context, userID, tripID string) (domain.DareProgress, error) {
	recs, err := e.Source.CompletionRecords(ctx, userID, tripID)
	if err != nil {
		return domain.DareProgress{}, err
	}
	p := domain.DareProgress{TripID: tripID, Total: len(recs)}
	for _, r := range recs {
		if r.CompletedAt != nil {
			p.Completed++
		}
	}
	return p, nil
}

func (e *DareEvaluator) Evaluate(ctx context.Context, userID, tripID string, badges []domain.Badge) ([]EvaluationResult, error) {
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
	_, _, pct := ratio(p.Completed, p.Total)
	snap := domain.NewDareSnapshot(p)

	out := make([]EvaluationResult, 0, len(badges))
	for _, b := range badges {
		switch b.Metric {
		case domain.MetricDaresCompleted:
			out = append(out, threshold(b, tripID, p.Completed, snap))
		case domain.MetricDaresCompletionPct:
			out = append(out, threshold(b, tripID, pct, snap))
		default:
			return nil, fmt.Errorf("%w: metric %s", ErrFamilyMismatch, b.Metric)
		}
	}
	return out, nil
}
