package events

import "pickem/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeSlipLocked    EventType = "slip_locked"
	EventTypeSlipCreated   EventType = "slip_created"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a wallet balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	WalletID        int64
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
	IdempotencyKey  string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// SlipCreatedEvent represents a new draft slip
type SlipCreatedEvent struct {
	SlipID    int64
	UserID    int64
	PickCount int
}

func (e SlipCreatedEvent) Type() EventType {
	return EventTypeSlipCreated
}

// SlipLockedEvent represents a slip that passed validation and was locked
type SlipLockedEvent struct {
	SlipID         int64
	UserID         int64
	PickCount      int
	TotalCoinCost  int64
	PointPotential int
	TotalOdds      float64
}

func (e SlipLockedEvent) Type() EventType {
	return EventTypeSlipLocked
}
