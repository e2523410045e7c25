package entities

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed input: odds, probabilities, pick shape.
// Pure calculators never return it as control flow (they fall back to safe
// defaults); gates and lifecycle operations reject with it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a named field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError marks a missing event, wallet, slip or user
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NewNotFoundError creates a not-found error for a resource
func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// TierLockedError is the tier gate failure. It is a security boundary and is
// never downgraded to a default.
type TierLockedError struct {
	Market       MarketType
	RequiredTier Tier
	UserTier     Tier
}

func (e *TierLockedError) Error() string {
	return fmt.Sprintf("%s picks require %s tier (you are %s)", e.Market, e.RequiredTier, e.UserTier)
}

// BadRequestError marks an operation attempted in the wrong state: locked
// slip edits, started events, minimum spend not met.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string {
	return e.Reason
}

// NewBadRequestError creates a bad-request error
func NewBadRequestError(format string, args ...any) *BadRequestError {
	return &BadRequestError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError marks optimistic-lock exhaustion. An idempotency-key replay
// is not a conflict; it returns the existing transaction as success.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NewConflictError creates a conflict error
func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTierLocked reports whether err is a TierLockedError anywhere in its chain
func IsTierLocked(err error) bool {
	var tl *TierLockedError
	return errors.As(err, &tl)
}

// IsConflict reports whether err is a ConflictError anywhere in its chain
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
