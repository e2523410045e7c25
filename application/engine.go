package application

import (
	"context"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/services"
	"pickem/metrics"

	log "github.com/sirupsen/logrus"
)

// Engine is the application facade over the wagering domain. Every operation
// runs inside its own unit of work; domain events are delivered only after the
// transaction commits.
type Engine struct {
	uowFactory   UnitOfWorkFactory
	oddsProvider interfaces.OddsProvider
}

// NewEngine creates a new engine
func NewEngine(uowFactory UnitOfWorkFactory, oddsProvider interfaces.OddsProvider) *Engine {
	return &Engine{
		uowFactory:   uowFactory,
		oddsProvider: oddsProvider,
	}
}

// withUnitOfWork runs fn inside a transaction, committing on success and
// rolling back on error or panic
func (e *Engine) withUnitOfWork(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			uow.Rollback()
			panic(r)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Failed to rollback transaction")
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (e *Engine) slipService(uow UnitOfWork) interfaces.SlipService {
	return services.NewSlipService(
		uow.SlipRepository(),
		uow.SportEventRepository(),
		uow.UserRepository(),
		e.oddsProvider,
		uow.EventBus(),
	)
}

func (e *Engine) allowanceService(uow UnitOfWork) interfaces.AllowanceService {
	return services.NewAllowanceService(
		uow.WalletRepository(),
		uow.TransactionRepository(),
		uow.EventBus(),
	)
}

// CreateSlip creates a draft slip with priced picks
func (e *Engine) CreateSlip(ctx context.Context, userID int64, name string, picks []entities.PickInput, stake int64) (*entities.Slip, error) {
	var slip *entities.Slip
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		slip, err = e.slipService(uow).CreateSlip(ctx, userID, name, picks, stake)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.SlipsCreated.Inc()
	return slip, nil
}

// GetSlipByID retrieves a slip the user owns
func (e *Engine) GetSlipByID(ctx context.Context, slipID, userID int64) (*entities.Slip, error) {
	var slip *entities.Slip
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		slip, err = e.slipService(uow).GetSlipByID(ctx, slipID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return slip, nil
}

// GetUserSlips returns a page of the user's slips and the total count
func (e *Engine) GetUserSlips(ctx context.Context, userID int64, q entities.SlipListQuery) ([]*entities.Slip, int64, error) {
	var slips []*entities.Slip
	var total int64
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		slips, total, err = e.slipService(uow).GetUserSlips(ctx, userID, q)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return slips, total, nil
}

// UpdateSlip applies a partial edit to a draft slip
func (e *Engine) UpdateSlip(ctx context.Context, slipID, userID int64, update entities.SlipUpdate) (*entities.Slip, error) {
	var slip *entities.Slip
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		slip, err = e.slipService(uow).UpdateSlip(ctx, slipID, userID, update)
		return err
	})
	if err != nil {
		return nil, err
	}
	return slip, nil
}

// LockSlip runs the authoritative lock pass and transitions the slip to pending
func (e *Engine) LockSlip(ctx context.Context, slipID, userID int64) (*entities.Slip, error) {
	var slip *entities.Slip
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		slip, err = e.slipService(uow).LockSlip(ctx, slipID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.SlipsLocked.Inc()
	return slip, nil
}

// DeleteSlip removes a draft slip and its picks
func (e *Engine) DeleteSlip(ctx context.Context, slipID, userID int64) error {
	return e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		return e.slipService(uow).DeleteSlip(ctx, slipID, userID)
	})
}

// ValidateDraftPicks checks an offline draft against current server state
func (e *Engine) ValidateDraftPicks(ctx context.Context, picks []entities.PickInput) ([]entities.PickValidation, error) {
	var results []entities.PickValidation
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		results, err = e.slipService(uow).ValidateDraftPicks(ctx, picks)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CheckAllowanceEligibility reports whether the user can claim their weekly
// allowance right now
func (e *Engine) CheckAllowanceEligibility(ctx context.Context, userID int64) (*entities.AllowanceEligibility, error) {
	var eligibility *entities.AllowanceEligibility
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		eligibility, err = e.allowanceService(uow).CheckEligibility(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return eligibility, nil
}

// CreditAllowance applies the weekly allowance to the user's bonus balance.
// With dryRun set, it reports what would happen without writing anything.
func (e *Engine) CreditAllowance(ctx context.Context, userID int64, dryRun bool) (*entities.AllowanceResult, error) {
	var result *entities.AllowanceResult
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = e.allowanceService(uow).Credit(ctx, userID, dryRun)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetWallet returns the user's wallet with its recent ledger entries
func (e *Engine) GetWallet(ctx context.Context, userID int64, historyLimit int) (*entities.Wallet, []*entities.Transaction, error) {
	var wallet *entities.Wallet
	var history []*entities.Transaction
	err := e.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		wallet, err = uow.WalletRepository().GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get wallet: %w", err)
		}
		if wallet == nil {
			return entities.NewNotFoundError("wallet", userID)
		}
		history, err = uow.TransactionRepository().GetByWallet(ctx, wallet.ID, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to get wallet history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return wallet, history, nil
}
