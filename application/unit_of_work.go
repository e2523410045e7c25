package application

import (
	"context"

	"pickem/domain/interfaces"
)

// UnitOfWork represents a database transaction scope. Repositories obtained
// from it share the transaction; domain events published through EventBus are
// buffered and only delivered after Commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// UserRepository returns the user repository for this unit of work
	UserRepository() interfaces.UserRepository

	// SportEventRepository returns the sport event repository for this unit of work
	SportEventRepository() interfaces.SportEventRepository

	// SlipRepository returns the slip repository for this unit of work
	SlipRepository() interfaces.SlipRepository

	// WalletRepository returns the wallet repository for this unit of work
	WalletRepository() interfaces.WalletRepository

	// TransactionRepository returns the transaction repository for this unit of work
	TransactionRepository() interfaces.TransactionRepository

	// EventBus returns the transactional event publisher for this unit of work
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
