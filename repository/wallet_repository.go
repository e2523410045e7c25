package repository

import (
	"context"
	"fmt"

	"pickem/database"
	"pickem/domain/entities"
	"pickem/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type walletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) interfaces.WalletRepository {
	return &walletRepository{q: db.Pool}
}

// newWalletRepositoryWithTx creates a new wallet repository bound to a transaction
func newWalletRepositoryWithTx(tx Queryable) interfaces.WalletRepository {
	return &walletRepository{q: tx}
}

// GetByUserID retrieves a user's wallet. Returns nil if the wallet does not exist.
func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	query := `
		SELECT id, user_id, paid_balance, bonus_balance, last_allowance_at, version, created_at, updated_at
		FROM wallets
		WHERE user_id = $1`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.PaidBalance,
		&wallet.BonusBalance,
		&wallet.LastAllowanceAt,
		&wallet.Version,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}

	return &wallet, nil
}

// Create inserts a wallet at version 1
func (r *walletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	query := `
		INSERT INTO wallets (user_id, paid_balance, bonus_balance, last_allowance_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		wallet.UserID,
		wallet.PaidBalance,
		wallet.BonusBalance,
		wallet.LastAllowanceAt,
	).Scan(&wallet.ID, &wallet.Version, &wallet.CreatedAt, &wallet.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create wallet for user %d: %w", wallet.UserID, err)
	}

	return nil
}

// UpdateWithVersion writes the wallet's balance fields and bumps the version,
// but only if the stored version still equals expectedVersion. A zero-row
// update means another writer won the race; the caller re-reads and retries.
func (r *walletRepository) UpdateWithVersion(ctx context.Context, wallet *entities.Wallet, expectedVersion int64) (bool, error) {
	query := `
		UPDATE wallets
		SET paid_balance = $1, bonus_balance = $2, last_allowance_at = $3,
		    version = version + 1, updated_at = now()
		WHERE id = $4 AND version = $5`

	tag, err := r.q.Exec(ctx, query,
		wallet.PaidBalance,
		wallet.BonusBalance,
		wallet.LastAllowanceAt,
		wallet.ID,
		expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update wallet %d: %w", wallet.ID, err)
	}

	if tag.RowsAffected() == 0 {
		return false, nil
	}

	wallet.Version = expectedVersion + 1
	return true, nil
}
