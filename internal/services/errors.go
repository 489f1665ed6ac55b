// Package services implements the badge engine: per-family evaluators, the
// combo evaluator, the awarding service, the trigger dispatcher, and the
// cached read APIs.
//
// This file centralizes service-level error values so that callers (the
// HTTP handlers and the CLI) can check them with errors.Is.
package services

import (
	"errors"

	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
)

var (
	// ErrBadgeNotFound indicates a badge key missing from the catalog. It
	// wraps catalog.ErrNotFound so either sentinel matches.
	ErrBadgeNotFound = catalog.ErrNotFound

	// ErrUnknownFamily is returned when a trigger names a family the
	// dispatcher does not serve.
	ErrUnknownFamily = errors.New("unknown badge family")

	// ErrSourceUnavailable wraps failures of a source collaborator after
	// retries are exhausted.
	ErrSourceUnavailable = errors.New("badge source unavailable")

	// ErrFamilyMismatch is returned when an evaluator is handed a badge
	// that belongs to another family.
	ErrFamilyMismatch = errors.New("badge does not belong to evaluator family")
)
