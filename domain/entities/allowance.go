package entities

import "time"

// AllowanceEligibility is the result of the pure eligibility check
type AllowanceEligibility struct {
	Eligible           bool
	DaysUntilAvailable int
	NextClaimAt        *time.Time
	Message            string
}

// AllowanceResult is the outcome of a credit attempt. AlreadyClaimed means
// the idempotency key matched an existing transaction and nothing changed.
type AllowanceResult struct {
	Credited        bool
	DryRun          bool
	AlreadyClaimed  bool
	Amount          int64
	NewBonusBalance int64
	IdempotencyKey  string
	Transaction     *Transaction
	Eligibility     *AllowanceEligibility
}
