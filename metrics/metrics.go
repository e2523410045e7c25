package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SlipsCreated counts draft slips created
	SlipsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickem_slips_created_total",
		Help: "Number of draft slips created",
	})

	// SlipsLocked counts slips that passed the authoritative lock pass
	SlipsLocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickem_slips_locked_total",
		Help: "Number of slips locked into pending state",
	})

	// AllowanceCredits counts applied weekly allowance credits
	AllowanceCredits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickem_allowance_credits_total",
		Help: "Number of weekly allowance credits applied",
	})

	// OptimisticLockConflicts counts version-check failures on wallet writes
	OptimisticLockConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickem_optimistic_lock_conflicts_total",
		Help: "Number of wallet writes that lost an optimistic lock race",
	})

	// OptimisticLockExhausted counts wallet writes that gave up after the
	// bounded retry budget
	OptimisticLockExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickem_optimistic_lock_exhausted_total",
		Help: "Number of wallet writes that exhausted their retry budget",
	})
)
