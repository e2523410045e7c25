package repository

import (
	"context"
	"testing"

	"pickem/domain/entities"
	"pickem/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	walletRepo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	userID := testutil.InsertTestUser(t, testDB.DB, "ledger_user", entities.TierFree)
	wallet := testutil.NewTestWallet(userID)
	require.NoError(t, walletRepo.Create(ctx, wallet))

	txn := &entities.Transaction{
		WalletID:       wallet.ID,
		Type:           entities.TransactionTypeAllowance,
		Amount:         100,
		BalanceBefore:  600,
		BalanceAfter:   700,
		IdempotencyKey: "allowance-1-2026-W36",
		Description:    "Weekly allowance for 2026-W36",
	}

	t.Run("create assigns ID and completion time", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, txn))
		assert.NotZero(t, txn.ID)
		assert.False(t, txn.CompletedAt.IsZero())
	})

	t.Run("duplicate idempotency key is rejected by the database", func(t *testing.T) {
		dup := *txn
		dup.ID = 0
		err := repo.Create(ctx, &dup)
		require.Error(t, err)
	})

	t.Run("lookup by idempotency key", func(t *testing.T) {
		found, err := repo.GetByIdempotencyKey(ctx, txn.IdempotencyKey)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, txn.ID, found.ID)
		assert.Equal(t, entities.TransactionTypeAllowance, found.Type)

		missing, err := repo.GetByIdempotencyKey(ctx, "allowance-1-2026-W37")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("wallet history honors the limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			extra := *txn
			extra.ID = 0
			extra.IdempotencyKey = txn.IdempotencyKey + string(rune('a'+i))
			require.NoError(t, repo.Create(ctx, &extra))
		}

		history, err := repo.GetByWallet(ctx, wallet.ID, 2)
		require.NoError(t, err)
		assert.Len(t, history, 2)

		all, err := repo.GetByWallet(ctx, wallet.ID, 10)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})
}
