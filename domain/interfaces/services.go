package interfaces

import (
	"context"

	"pickem/domain/entities"
)

// SlipService drives the draft slip lifecycle. All aggregate fields are
// recomputed server side; nothing client-cached survives a mutation.
type SlipService interface {
	// CreateSlip validates and prices picks and persists a new draft slip
	CreateSlip(ctx context.Context, userID int64, name string, picks []entities.PickInput, stake int64) (*entities.Slip, error)

	// GetSlipByID returns a slip owned by the user
	GetSlipByID(ctx context.Context, slipID, userID int64) (*entities.Slip, error)

	// GetUserSlips returns a page of the user's slips
	GetUserSlips(ctx context.Context, userID int64, q entities.SlipListQuery) ([]*entities.Slip, int64, error)

	// UpdateSlip applies a partial edit to a draft slip and recomputes
	// aggregates from the post-mutation pick set
	UpdateSlip(ctx context.Context, slipID, userID int64, update entities.SlipUpdate) (*entities.Slip, error)

	// LockSlip is the authoritative pass: re-gates tiers, reprices every
	// pick from current odds, validates minimum spend and moves the slip
	// to pending
	LockSlip(ctx context.Context, slipID, userID int64) (*entities.Slip, error)

	// DeleteSlip removes a draft slip and its picks
	DeleteSlip(ctx context.Context, slipID, userID int64) error

	// ValidateDraftPicks is a stateless pre-submission check; it never
	// mutates anything
	ValidateDraftPicks(ctx context.Context, picks []entities.PickInput) ([]entities.PickValidation, error)
}

// AllowanceService implements the weekly bonus-coin credit flow
type AllowanceService interface {
	// CheckEligibility reports whether the user can claim right now
	CheckEligibility(ctx context.Context, userID int64) (*entities.AllowanceEligibility, error)

	// Credit applies the allowance idempotently. With dryRun it computes
	// the would-be result without touching storage.
	Credit(ctx context.Context, userID int64, dryRun bool) (*entities.AllowanceResult, error)
}
