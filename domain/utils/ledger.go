package utils

import (
	"context"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/events"
	"pickem/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordTransaction writes a ledger row and emits the balance change event.
// This is the single entry point for all wallet balance changes: nothing
// else in the system appends to the ledger.
func RecordTransaction(ctx context.Context, txRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher, userID int64, txn *entities.Transaction) error {
	if err := txRepo.Create(ctx, txn); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	event := events.BalanceChangeEvent{
		UserID:          userID,
		WalletID:        txn.WalletID,
		OldBalance:      txn.BalanceBefore,
		NewBalance:      txn.BalanceAfter,
		TransactionType: txn.Type,
		ChangeAmount:    txn.Amount,
		IdempotencyKey:  txn.IdempotencyKey,
	}
	log.WithFields(log.Fields{
		"userID":          event.UserID,
		"walletID":        event.WalletID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
		"idempotencyKey":  event.IdempotencyKey,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return nil
}
