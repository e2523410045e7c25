package repository

import (
	"context"
	"fmt"

	"pickem/database"
	"pickem/domain/entities"
	"pickem/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type transactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) interfaces.TransactionRepository {
	return &transactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository bound to a transaction
func newTransactionRepositoryWithTx(tx Queryable) interfaces.TransactionRepository {
	return &transactionRepository{q: tx}
}

// Create inserts a ledger row. The idempotency key has a unique constraint, so
// a concurrent duplicate fails here rather than double-crediting.
func (r *transactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	query := `
		INSERT INTO transactions (wallet_id, type, amount, balance_before, balance_after, idempotency_key, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, completed_at`

	err := r.q.QueryRow(ctx, query,
		tx.WalletID,
		tx.Type,
		tx.Amount,
		tx.BalanceBefore,
		tx.BalanceAfter,
		tx.IdempotencyKey,
		tx.Description,
	).Scan(&tx.ID, &tx.CompletedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction %s: %w", tx.IdempotencyKey, err)
	}

	return nil
}

// GetByIdempotencyKey returns the ledger row for a key, or nil
func (r *transactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error) {
	query := `
		SELECT id, wallet_id, type, amount, balance_before, balance_after, idempotency_key, description, completed_at
		FROM transactions
		WHERE idempotency_key = $1`

	tx, err := scanTransaction(r.q.QueryRow(ctx, query, key))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by key %s: %w", key, err)
	}

	return tx, nil
}

// GetByWallet returns the most recent ledger rows for a wallet
func (r *transactionRepository) GetByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, wallet_id, type, amount, balance_before, balance_after, idempotency_key, description, completed_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY completed_at DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for wallet %d: %w", walletID, err)
	}
	defer rows.Close()

	var txs []*entities.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

func scanTransaction(row pgx.Row) (*entities.Transaction, error) {
	var tx entities.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.WalletID,
		&tx.Type,
		&tx.Amount,
		&tx.BalanceBefore,
		&tx.BalanceAfter,
		&tx.IdempotencyKey,
		&tx.Description,
		&tx.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
