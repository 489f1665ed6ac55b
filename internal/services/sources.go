package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// DareSource reads bucket-list items from the dare subsystem.
type DareSource interface {
	CompletionRecords(ctx context.Context, userID, tripID string) ([]domain.CompletionRecord, error)
}

// ChecklistSource reads checklist completion from the checklist subsystem.
type ChecklistSource interface {
	ChecklistState(ctx context.Context, userID, tripID string) (domain.ChecklistState, error)
}

// TripSource reads trip dates from the trip subsystem.
type TripSource interface {
	TripWindow(ctx context.Context, tripID string) (domain.TripWindow, error)
}

// InvitationSource reads invitations from the invitation subsystem. An
// empty tripID aggregates over every trip the user owns.
type InvitationSource interface {
	InvitationRecords(ctx context.Context, userID, tripID string) ([]domain.InvitationRecord, error)
}

// Sources bundles every collaborator the evaluators read from.
type Sources interface {
	DareSource
	ChecklistSource
	TripSource
	InvitationSource
}

// RetryPolicy bounds how often a failing source call is retried.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy retries twice within half a second.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      2,
	InitialInterval: 50 * time.Millisecond,
	MaxElapsedTime:  500 * time.Millisecond,
}

// RetryingSources decorates a Sources with exponential backoff. Context
// cancellation stops retrying immediately.
type RetryingSources struct {
	Next   Sources
	Policy RetryPolicy
}

// WithRetry wraps next with policy.
func WithRetry(next Sources, policy RetryPolicy) *RetryingSources {
	return &RetryingSources{Next: next, Policy: policy}
}

func (r *RetryingSources) CompletionRecords(ctx context.Context, userID, tripID string) ([]domain.CompletionRecord, error) {
	var out []domain.CompletionRecord
	err := r.do(ctx, "completion_records", func() (err error) {
		out, err = r.Next.CompletionRecords(ctx, userID, tripID)
		return err
	})
	return out, err
}

func (r *RetryingSources) ChecklistState(ctx context.Context, userID, tripID string) (domain.ChecklistState, error) {
	var out domain.ChecklistState
	err := r.do(ctx, "checklist_state", func() (err error) {
		out, err = r.Next.ChecklistState(ctx, userID, tripID)
		return err
	})
	return out, err
}

func (r *RetryingSources) TripWindow(ctx context.Context, tripID string) (domain.TripWindow, error) {
	var out domain.TripWindow
	err := r.do(ctx, "trip_window", func() (err error) {
		out, err = r.Next.TripWindow(ctx, tripID)
		return err
	})
	return out, err
}

func (r *RetryingSources) InvitationRecords(ctx context.Context, userID, tripID string) ([]domain.InvitationRecord, error) {
	var out []domain.InvitationRecord
	err := r.do(ctx, "invitation_records", func() (err error) {
		out, err = r.Next.InvitationRecords(ctx, userID, tripID)
		return err
	})
	return out, err
}

func (r *RetryingSources) do(ctx context.Context, source string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	if r.Policy.InitialInterval > 0 {
		b.InitialInterval = r.Policy.InitialInterval
	}
	if r.Policy.MaxElapsedTime > 0 {
		b.MaxElapsedTime = r.Policy.MaxElapsedTime
	}
	retries := r.Policy.MaxRetries
	if retries < 0 {
		retries = 0
	}

	err := backoff.RetryNotify(
		func() error {
			if err := op(); err != nil {
				if ctx.Err() != nil {
					return backoff.Permanent(err)
				}
				return err
			}
			return nil
		},
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx),
		func(err error, d time.Duration) {
			sourceRetriesTotal.WithLabelValues(source).Inc()
			logFor(ctx).Warn().Err(err).Str("source", source).Dur("backoff", d).Msg("badge source call failed, retrying")
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, err)
	}
	return nil
}
