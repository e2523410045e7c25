package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"pickem/config"
	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/utils"
	"pickem/metrics"

	log "github.com/sirupsen/logrus"
)

// AllowanceCooldown is the fixed window between claims
const AllowanceCooldown = 7 * 24 * time.Hour

const (
	maxCreditAttempts = 3
	creditBackoffStep = 50 * time.Millisecond
)

// AllowanceIdempotencyKey is deterministic in (user, ISO week), so the same
// logical claim always maps to the same ledger row no matter how many times
// the request is retried.
func AllowanceIdempotencyKey(userID int64, t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("allowance-%d-%d-W%02d", userID, year, week)
}

// CalculateEligibility is the pure cooldown check. A wallet that has never
// claimed is always eligible.
func CalculateEligibility(lastClaimedAt *time.Time, now time.Time) *entities.AllowanceEligibility {
	if lastClaimedAt == nil {
		return &entities.AllowanceEligibility{
			Eligible: true,
			Message:  "Your allowance is ready to claim",
		}
	}

	elapsed := now.Sub(*lastClaimedAt)
	if elapsed >= AllowanceCooldown {
		return &entities.AllowanceEligibility{
			Eligible: true,
			Message:  "Your allowance is ready to claim",
		}
	}

	remaining := AllowanceCooldown - elapsed
	days := int(math.Ceil(remaining.Hours() / 24))
	next := lastClaimedAt.Add(AllowanceCooldown)
	return &entities.AllowanceEligibility{
		Eligible:           false,
		DaysUntilAvailable: days,
		NextClaimAt:        &next,
		Message:            fmt.Sprintf("Next allowance available in %s", utils.PluralDays(days)),
	}
}

type allowanceService struct {
	walletRepo     interfaces.WalletRepository
	txRepo         interfaces.TransactionRepository
	eventPublisher interfaces.EventPublisher
}

// NewAllowanceService creates a new allowance service
func NewAllowanceService(walletRepo interfaces.WalletRepository, txRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher) interfaces.AllowanceService {
	return &allowanceService{
		walletRepo:     walletRepo,
		txRepo:         txRepo,
		eventPublisher: eventPublisher,
	}
}

// CheckEligibility reports whether the user can claim right now
func (s *allowanceService) CheckEligibility(ctx context.Context, userID int64) (*entities.AllowanceEligibility, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, entities.NewNotFoundError("wallet", userID)
	}
	return CalculateEligibility(wallet.LastAllowanceAt, time.Now().UTC()), nil
}

// Credit applies the weekly allowance to the user's bonus balance. The outer
// operation is idempotent on the (user, ISO week) key; the inner wallet write
// is an optimistic-lock loop with bounded retries. Exhausting the retries
// surfaces a conflict, never a silent drop or double credit.
func (s *allowanceService) Credit(ctx context.Context, userID int64, dryRun bool) (*entities.AllowanceResult, error) {
	now := time.Now().UTC()
	key := AllowanceIdempotencyKey(userID, now)
	amount := config.Get().WeeklyAllowance

	existing, err := s.txRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if existing != nil {
		return &entities.AllowanceResult{
			AlreadyClaimed: true,
			Amount:         existing.Amount,
			IdempotencyKey: key,
			Transaction:    existing,
		}, nil
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, entities.NewNotFoundError("wallet", userID)
	}

	eligibility := CalculateEligibility(wallet.LastAllowanceAt, now)
	if dryRun {
		return &entities.AllowanceResult{
			DryRun:          true,
			Amount:          amount,
			NewBonusBalance: wallet.BonusBalance,
			IdempotencyKey:  key,
			Eligibility:     eligibility,
		}, nil
	}
	if !eligibility.Eligible {
		return &entities.AllowanceResult{
			Amount:          0,
			NewBonusBalance: wallet.BonusBalance,
			IdempotencyKey:  key,
			Eligibility:     eligibility,
		}, nil
	}

	for attempt := 1; attempt <= maxCreditAttempts; attempt++ {
		balanceBefore := wallet.TotalBalance()

		updated := *wallet
		updated.BonusBalance += amount
		updated.LastAllowanceAt = &now

		applied, err := s.walletRepo.UpdateWithVersion(ctx, &updated, wallet.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to update wallet: %w", err)
		}

		if applied {
			year, week := now.ISOWeek()
			txn := &entities.Transaction{
				WalletID:       wallet.ID,
				Type:           entities.TransactionTypeAllowance,
				Amount:         amount,
				BalanceBefore:  balanceBefore,
				BalanceAfter:   balanceBefore + amount,
				IdempotencyKey: key,
				Description:    fmt.Sprintf("Weekly allowance for %d-W%02d", year, week),
				CompletedAt:    now,
			}
			if err := utils.RecordTransaction(ctx, s.txRepo, s.eventPublisher, userID, txn); err != nil {
				return nil, err
			}

			metrics.AllowanceCredits.Inc()
			return &entities.AllowanceResult{
				Credited:        true,
				Amount:          amount,
				NewBonusBalance: updated.BonusBalance,
				IdempotencyKey:  key,
				Transaction:     txn,
				Eligibility:     eligibility,
			}, nil
		}

		// Another writer bumped the version first. Back off, re-read and
		// re-check before trying again: the race may have been this very
		// claim landing through a concurrent request.
		metrics.OptimisticLockConflicts.Inc()
		log.WithFields(log.Fields{
			"userID":  userID,
			"attempt": attempt,
		}).Warn("Optimistic lock conflict crediting allowance")

		if attempt == maxCreditAttempts {
			break
		}
		time.Sleep(creditBackoffStep * time.Duration(attempt))

		existing, err := s.txRepo.GetByIdempotencyKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to re-check idempotency key: %w", err)
		}
		if existing != nil {
			return &entities.AllowanceResult{
				AlreadyClaimed: true,
				Amount:         existing.Amount,
				IdempotencyKey: key,
				Transaction:    existing,
			}, nil
		}

		wallet, err = s.walletRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read wallet: %w", err)
		}
		if wallet == nil {
			return nil, entities.NewNotFoundError("wallet", userID)
		}
		eligibility = CalculateEligibility(wallet.LastAllowanceAt, now)
		if !eligibility.Eligible {
			return &entities.AllowanceResult{
				Amount:          0,
				NewBonusBalance: wallet.BonusBalance,
				IdempotencyKey:  key,
				Eligibility:     eligibility,
			}, nil
		}
	}

	metrics.OptimisticLockExhausted.Inc()
	return nil, entities.NewConflictError("wallet for user %d is under contention; allowance not applied after %d attempts", userID, maxCreditAttempts)
}
