package repository

import (
	"context"
	"fmt"

	"pickem/application"
	"pickem/database"
	"pickem/domain/interfaces"
	"pickem/infrastructure"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db        *database.DB
	tx        pgx.Tx
	ctx       context.Context
	publisher interfaces.TransactionalEventPublisher

	userRepo        interfaces.UserRepository
	eventRepo       interfaces.SportEventRepository
	slipRepo        interfaces.SlipRepository
	walletRepo      interfaces.WalletRepository
	transactionRepo interfaces.TransactionRepository
}

type unitOfWorkFactory struct {
	db            *database.DB
	realPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, realPublisher interfaces.EventPublisher) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:            db,
		realPublisher: realPublisher,
	}
}

func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		publisher: infrastructure.NewNATSTransactionalPublisher(f.realPublisher),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepositoryWithTx(tx)
	u.eventRepo = newSportEventRepositoryWithTx(tx)
	u.slipRepo = newSlipRepositoryWithTx(tx)
	u.walletRepo = newWalletRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.publisher != nil {
		u.publisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.publisher != nil {
		u.publisher.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// SportEventRepository returns the sport event repository for this unit of work
func (u *unitOfWork) SportEventRepository() interfaces.SportEventRepository {
	if u.eventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.eventRepo
}

// SlipRepository returns the slip repository for this unit of work
func (u *unitOfWork) SlipRepository() interfaces.SlipRepository {
	if u.slipRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.slipRepo
}

// WalletRepository returns the wallet repository for this unit of work
func (u *unitOfWork) WalletRepository() interfaces.WalletRepository {
	if u.walletRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletRepo
}

// TransactionRepository returns the transaction repository for this unit of work
func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.publisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.publisher
}
