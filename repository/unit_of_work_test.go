package repository

import (
	"context"
	"testing"

	"pickem/domain/entities"
	"pickem/infrastructure"
	"pickem/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWorkCommitAndRollback(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, infrastructure.NewNoopEventPublisher())
	ctx := context.Background()

	userID := testutil.InsertTestUser(t, testDB.DB, "uow_user", entities.TierFree)
	readRepo := NewWalletRepository(testDB.DB)

	t.Run("commit persists writes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		wallet := testutil.NewTestWallet(userID)
		require.NoError(t, uow.WalletRepository().Create(ctx, wallet))
		require.NoError(t, uow.Commit())

		persisted, err := readRepo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.Equal(t, wallet.PaidBalance, persisted.PaidBalance)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		otherUserID := testutil.InsertTestUser(t, testDB.DB, "uow_rollback_user", entities.TierFree)

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.WalletRepository().Create(ctx, testutil.NewTestWallet(otherUserID)))
		require.NoError(t, uow.Rollback())

		persisted, err := readRepo.GetByUserID(ctx, otherUserID)
		require.NoError(t, err)
		assert.Nil(t, persisted)
	})

	t.Run("second begin on the same unit fails", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		assert.Error(t, uow.Begin(ctx))
	})

	t.Run("repositories panic before begin", func(t *testing.T) {
		uow := factory.Create()
		assert.Panics(t, func() { uow.WalletRepository() })
		assert.Panics(t, func() { uow.SlipRepository() })
	})

	t.Run("rollback without begin is a no-op", func(t *testing.T) {
		uow := factory.Create()
		assert.NoError(t, uow.Rollback())
	})
}
