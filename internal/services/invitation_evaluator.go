package services

import (
	"context"
	"fmt"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// InvitationEvaluator awards the social badges. Per-trip badges count the
// triggering trip; global badges aggregate over every trip the user owns.
type InvitationEvaluator struct {
	Source InvitationSource
}

func (e *InvitationEvaluator) Family() domain.Family { return domain.FamilyInvitation }

// Measure counts invitations sent and accepted on tripID, or across all of
// the user's trips when tripID is empty.
func (e *InvitationEvaluator) Measure(ctx context.Context, userID, tripID string) (domain.InvitationProgress, error) {
	recs, err := e.Source.InvitationRecords(ctx, userID, tripID)
	if err != nil {
		return domain.InvitationProgress{}, err
	}
	p := domain.InvitationProgress{TripID: tripID, Sent: len(recs)}
	for _, r := range recs {
		if r.Status == domain.InvitationAccepted {
			p.Accepted++
		}
	}
	return p, nil
}

func (e *InvitationEvaluator) Evaluate(ctx context.Context, userID, tripID string, badges []domain.Badge) ([]EvaluationResult, error) {
	if err := checkFamily(e.Family(), badges); err != nil {
		return nil, err
	}

	var perTrip, global *domain.InvitationProgress
	evidence := func(b domain.Badge) (*domain.InvitationProgress, error) {
		slot, scope := &global, domain.GlobalTripID
		if b.PerTrip() {
			slot, scope = &perTrip, tripID
		}
		if *slot == nil {
			p, err := e.Measure(ctx, userID, scope)
			if err != nil {
				return nil, err
			}
			*slot = &p
		}
		return *slot, nil
	}

	out := make([]EvaluationResult, 0, len(badges))
	for _, b := range badges {
		p, err := evidence(b)
		if err != nil {
			return nil, err
		}
		snap := domain.NewInvitationSnapshot(*p)
		switch b.Metric {
		case domain.MetricInvitesSent:
			out = append(out, threshold(b, tripID, p.Sent, snap))
		case domain.MetricInvitesAccepted:
			out = append(out, threshold(b, tripID, p.Accepted, snap))
		default:
			return nil, fmt.Errorf("%w: metric %s", ErrFamilyMismatch, b.Metric)
		}
	}
	return out, nil
}
