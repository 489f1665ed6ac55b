// Package services – Dispatcher
//
// The Dispatcher is the trigger boundary of the badge engine. Collaborating
// subsystems call one Check* entry point after their own write commits. Each
// entry point resolves the badges wired to its family, runs the family
// evaluator under a timeout, overwrites Progress for every result, and awards
// the badges whose requirement is met.
//
// Nothing crosses this boundary as an error: source failures, timeouts,
// unknown badge keys, write failures, and panics are logged, counted in
// Prometheus, and recorded on the span. A missed badge is picked up by the
// next trigger because every evaluation recomputes from source.
package services

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/BooManLag/trippit-app-sub000/internal/cache"
	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// FamilyAll selects every family in Check.
const FamilyAll = "all"

// Families lists the dispatcher families in CheckAll order.
var Families = []domain.Family{
	domain.FamilyDare,
	domain.FamilyChecklist,
	domain.FamilyInvitation,
	domain.FamilyCombo,
}

// DefaultEvalTimeout bounds one family evaluation when no timeout is set.
const DefaultEvalTimeout = 5 * time.Second

// Report lists the badge keys newly awarded by one trigger.
type Report struct {
	NewlyAwarded []string `json:"newly_awarded"`
}

// Dispatcher fans triggers out to the family evaluators.
type Dispatcher struct {
	Catalog    *catalog.Catalog
	Awards     *AwardService
	Evaluators map[domain.Family]Evaluator

	// Wiring holds the badge keys evaluated per family. Keys are resolved
	// against the catalog on every trigger.
	Wiring map[domain.Family][]string

	// Timeout bounds each family evaluation, not the writes that follow;
	// <= 0 disables it.
	Timeout time.Duration
}

// NewDispatcher builds a Dispatcher whose evaluators read from src and whose
// wiring covers every badge in cat. now is the evaluation clock (nil means
// time.Now).
func NewDispatcher(db *gorm.DB, cat *catalog.Catalog, src Sources, c cache.Cache, now func() time.Time) *Dispatcher {
	dares := &DareEvaluator{Source: src}
	checklists := &ChecklistEvaluator{Checklist: src, Trips: src, Now: now}
	invitations := &InvitationEvaluator{Source: src}

	wiring := make(map[domain.Family][]string, len(Families))
	for _, f := range Families {
		wiring[f] = cat.Keys(f)
	}

	return &Dispatcher{
		Catalog: cat,
		Awards:  NewAwardService(db, cat, c),
		Evaluators: map[domain.Family]Evaluator{
			domain.FamilyDare:       dares,
			domain.FamilyChecklist:  checklists,
			domain.FamilyInvitation: invitations,
			domain.FamilyCombo: &ComboEvaluator{
				Dares:       dares,
				Checklists:  checklists,
				Invitations: invitations,
			},
		},
		Wiring:  wiring,
		Timeout: DefaultEvalTimeout,
	}
}

// CheckDareBadges re-evaluates the bucket-list badges for (userID, tripID).
func (d *Dispatcher) CheckDareBadges(ctx context.Context, userID, tripID string) Report {
	return d.check(ctx, domain.FamilyDare, userID, tripID)
}

// CheckChecklistBadges re-evaluates the preparation badges for (userID, tripID).
func (d *Dispatcher) CheckChecklistBadges(ctx context.Context, userID, tripID string) Report {
	return d.check(ctx, domain.FamilyChecklist, userID, tripID)
}

// CheckInvitationBadges re-evaluates the social badges, per trip and global.
func (d *Dispatcher) CheckInvitationBadges(ctx context.Context, userID, tripID string) Report {
	return d.check(ctx, domain.FamilyInvitation, userID, tripID)
}

// CheckComboBadges re-evaluates the cross-stream badges for (userID, tripID).
func (d *Dispatcher) CheckComboBadges(ctx context.Context, userID, tripID string) Report {
	return d.check(ctx, domain.FamilyCombo, userID, tripID)
}

// CheckAll runs every family in order. A failing family does not stop the
// ones after it.
func (d *Dispatcher) CheckAll(ctx context.Context, userID, tripID string) Report {
	rep := Report{NewlyAwarded: []string{}}
	for _, f := range Families {
		rep.NewlyAwarded = append(rep.NewlyAwarded, d.check(ctx, f, userID, tripID).NewlyAwarded...)
	}
	return rep
}

// Check dispatches by family name ("all" runs CheckAll). The only error is
// ErrUnknownFamily for a name the dispatcher does not serve.
func (d *Dispatcher) Check(ctx context.Context, family, userID, tripID string) (Report, error) {
	if family == FamilyAll {
		return d.CheckAll(ctx, userID, tripID), nil
	}
	for _, f := range Families {
		if string(f) == family {
			return d.check(ctx, f, userID, tripID), nil
		}
	}
	return Report{NewlyAwarded: []string{}}, ErrUnknownFamily
}

func (d *Dispatcher) check(ctx context.Context, family domain.Family, userID, tripID string) (rep Report) {
	rep.NewlyAwarded = []string{}

	ctx, span := otel.Tracer("services/Dispatcher").Start(ctx, "Dispatcher.Check"+cases.Title(language.Und).String(string(family)),
		trace.WithAttributes(
			attribute.String("badge.family", string(family)),
			attribute.String("user.id", userID),
			attribute.String("trip.id", tripID),
		),
	)
	defer span.End()

	lg := logFor(ctx).With().
		Str("family", string(family)).
		Str("user_id", userID).
		Str("trip_id", tripID).
		Logger()

	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if rec := recover(); rec != nil {
			outcome = OutcomePanic
			lg.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("badge evaluation panicked")
			span.SetStatus(codes.Error, "panic")
		}
		evaluationsTotal.WithLabelValues(string(family), outcome).Inc()
		evaluationDuration.WithLabelValues(string(family)).Observe(time.Since(start).Seconds())
		span.SetAttributes(attribute.Int("badge.newly_awarded", len(rep.NewlyAwarded)))
	}()

	badges := d.resolve(&lg, family, tripID)
	if len(badges) == 0 {
		return rep
	}
	ev, ok := d.Evaluators[family]
	if !ok {
		configErrorsTotal.Inc()
		lg.Error().Msg("no evaluator registered for badge family")
		outcome = OutcomeError
		return rep
	}

	ectx := ctx
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ectx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	results, err := ev.Evaluate(ectx, userID, tripID, badges)
	if err != nil {
		outcome = OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ectx.Err(), context.DeadlineExceeded) {
			outcome = OutcomeTimeout
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation abandoned")
		lg.Warn().Err(err).Str("outcome", outcome).Msg("badge evaluation abandoned")
		return rep
	}

	// Writes run on ctx: the timeout bounds only the evaluation.
	for _, r := range results {
		blg := lg.With().Str("badge", r.BadgeKey).Logger()
		if err := d.Awards.RecordProgress(ctx, userID, r); err != nil {
			outcome = OutcomeError
			span.RecordError(err)
			blg.Error().Err(err).Msg("badge progress write failed")
		}
		if !r.Met {
			continue
		}
		newly, err := d.Awards.Award(ctx, userID, r.BadgeKey, r.TripID, r.Snapshot)
		if err != nil {
			outcome = OutcomeError
			span.RecordError(err)
			blg.Error().Err(err).Msg("badge award write failed")
			continue
		}
		if newly {
			rep.NewlyAwarded = append(rep.NewlyAwarded, r.BadgeKey)
		}
	}
	return rep
}

// resolve maps the family wiring to catalog badges. Unknown keys and keys
// wired to the wrong family are configuration errors: logged, counted, and
// skipped. Per-trip badges are skipped when no trip was given.
func (d *Dispatcher) resolve(lg *zerolog.Logger, family domain.Family, tripID string) []domain.Badge {
	keys := d.Wiring[family]
	out := make([]domain.Badge, 0, len(keys))
	for _, key := range keys {
		b, err := d.Catalog.Get(key)
		if err != nil {
			configErrorsTotal.Inc()
			lg.Error().Err(err).Str("badge", key).Msg("unknown badge key wired to dispatcher, skipping")
			continue
		}
		if b.Family != family {
			configErrorsTotal.Inc()
			lg.Error().Str("badge", key).Str("badge_family", string(b.Family)).Msg("badge wired to wrong family, skipping")
			continue
		}
		if b.PerTrip() && tripID == "" {
			lg.Debug().Str("badge", key).Msg("per-trip badge needs a trip, skipping")
			continue
		}
		out = append(out, b)
	}
	return out
}
