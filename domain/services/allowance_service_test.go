package services

import (
	"testing"
	"time"

	"pickem/domain/entities"
	"pickem/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAllowanceIdempotencyKey(t *testing.T) {
	t.Run("deterministic within an ISO week", func(t *testing.T) {
		monday := time.Date(2026, 8, 24, 3, 0, 0, 0, time.UTC)
		sunday := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, AllowanceIdempotencyKey(TestUserID, monday), AllowanceIdempotencyKey(TestUserID, sunday))
	})

	t.Run("changes across week boundaries", func(t *testing.T) {
		sunday := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
		nextMonday := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)
		assert.NotEqual(t, AllowanceIdempotencyKey(TestUserID, sunday), AllowanceIdempotencyKey(TestUserID, nextMonday))
	})

	t.Run("scoped per user", func(t *testing.T) {
		now := time.Now().UTC()
		assert.NotEqual(t, AllowanceIdempotencyKey(TestUserID, now), AllowanceIdempotencyKey(TestUser2ID, now))
	})
}

func TestCalculateEligibility(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("never claimed is always eligible", func(t *testing.T) {
		e := CalculateEligibility(nil, now)
		assert.True(t, e.Eligible)
		assert.Zero(t, e.DaysUntilAvailable)
	})

	t.Run("three days in reports four days remaining", func(t *testing.T) {
		claimed := now.Add(-3 * 24 * time.Hour)
		e := CalculateEligibility(&claimed, now)
		assert.False(t, e.Eligible)
		assert.Equal(t, 4, e.DaysUntilAvailable)
		require.NotNil(t, e.NextClaimAt)
		assert.Equal(t, claimed.Add(AllowanceCooldown), *e.NextClaimAt)
	})

	t.Run("exactly at the cooldown is eligible", func(t *testing.T) {
		claimed := now.Add(-AllowanceCooldown)
		e := CalculateEligibility(&claimed, now)
		assert.True(t, e.Eligible)
	})

	t.Run("one second short is not eligible", func(t *testing.T) {
		claimed := now.Add(-AllowanceCooldown + time.Second)
		e := CalculateEligibility(&claimed, now)
		assert.False(t, e.Eligible)
		assert.Equal(t, 1, e.DaysUntilAvailable)
	})
}

func TestAllowanceService_CheckEligibility(t *testing.T) {
	t.Run("fresh wallet", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		f.Helper.ExpectWalletLookup(TestUserID, FreshWallet(TestWalletID, TestUserID))

		e, err := f.Service.CheckEligibility(f.Ctx, TestUserID)
		require.NoError(t, err)
		assert.True(t, e.Eligible)
	})

	t.Run("missing wallet", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		f.Mocks.WalletRepo.On("GetByUserID", mock.Anything, TestUserID).Return(nil, nil)

		_, err := f.Service.CheckEligibility(f.Ctx, TestUserID)
		require.Error(t, err)
		assert.True(t, entities.IsNotFound(err))
	})
}

func TestAllowanceService_Credit(t *testing.T) {
	t.Run("credits the bonus balance and writes the ledger", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		f.Helper.ExpectNoTransactionForKey()
		f.Helper.ExpectWalletLookup(TestUserID, FreshWallet(TestWalletID, TestUserID))
		f.Mocks.WalletRepo.On("UpdateWithVersion", mock.Anything, mock.Anything, int64(1)).Return(true, nil)
		f.Mocks.TxRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx *entities.Transaction) bool {
			return tx.Type == entities.TransactionTypeAllowance &&
				tx.Amount == 100 &&
				tx.BalanceBefore == 0 &&
				tx.BalanceAfter == 100
		})).Return(nil)
		f.Helper.ExpectEventPublish(events.EventTypeBalanceChange)

		result, err := f.Service.Credit(f.Ctx, TestUserID, false)
		require.NoError(t, err)

		assert.True(t, result.Credited)
		assert.False(t, result.AlreadyClaimed)
		assert.Equal(t, int64(100), result.Amount)
		assert.Equal(t, int64(100), result.NewBonusBalance)
		f.Mocks.AssertAllExpectations(t)
	})

	t.Run("replay within the same week returns the original transaction", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		prior := &entities.Transaction{
			ID:             42,
			WalletID:       TestWalletID,
			Type:           entities.TransactionTypeAllowance,
			Amount:         100,
			IdempotencyKey: AllowanceIdempotencyKey(TestUserID, time.Now().UTC()),
		}
		f.Mocks.TxRepo.On("GetByIdempotencyKey", mock.Anything, prior.IdempotencyKey).Return(prior, nil)

		result, err := f.Service.Credit(f.Ctx, TestUserID, false)
		require.NoError(t, err)

		assert.True(t, result.AlreadyClaimed)
		assert.False(t, result.Credited)
		assert.Equal(t, int64(42), result.Transaction.ID)
		f.Mocks.WalletRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
		f.Mocks.WalletRepo.AssertNotCalled(t, "UpdateWithVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("dry run changes nothing", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		f.Helper.ExpectNoTransactionForKey()
		f.Helper.ExpectWalletLookup(TestUserID, FreshWallet(TestWalletID, TestUserID))

		result, err := f.Service.Credit(f.Ctx, TestUserID, true)
		require.NoError(t, err)

		assert.True(t, result.DryRun)
		assert.False(t, result.Credited)
		assert.Equal(t, int64(100), result.Amount)
		f.Mocks.WalletRepo.AssertNotCalled(t, "UpdateWithVersion", mock.Anything, mock.Anything, mock.Anything)
		f.Mocks.TxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("cooldown not elapsed applies nothing", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		f.Helper.ExpectNoTransactionForKey()
		wallet := FreshWallet(TestWalletID, TestUserID)
		claimed := time.Now().UTC().Add(-2 * 24 * time.Hour)
		wallet.LastAllowanceAt = &claimed
		wallet.BonusBalance = 100
		f.Helper.ExpectWalletLookup(TestUserID, wallet)

		result, err := f.Service.Credit(f.Ctx, TestUserID, false)
		require.NoError(t, err)

		assert.False(t, result.Credited)
		assert.Zero(t, result.Amount)
		assert.Equal(t, int64(100), result.NewBonusBalance)
		require.NotNil(t, result.Eligibility)
		assert.False(t, result.Eligibility.Eligible)
		f.Mocks.WalletRepo.AssertNotCalled(t, "UpdateWithVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing wallet", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		f.Helper.ExpectNoTransactionForKey()
		f.Mocks.WalletRepo.On("GetByUserID", mock.Anything, TestUserID).Return(nil, nil)

		_, err := f.Service.Credit(f.Ctx, TestUserID, false)
		require.Error(t, err)
		assert.True(t, entities.IsNotFound(err))
	})

	t.Run("losing one version race retries and succeeds", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		f.Mocks.TxRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, nil)

		v1 := FreshWallet(TestWalletID, TestUserID)
		v2 := FreshWallet(TestWalletID, TestUserID)
		v2.Version = 2
		f.Mocks.WalletRepo.On("GetByUserID", mock.Anything, TestUserID).Return(v1, nil).Once()
		f.Mocks.WalletRepo.On("UpdateWithVersion", mock.Anything, mock.Anything, int64(1)).Return(false, nil).Once()
		f.Mocks.WalletRepo.On("GetByUserID", mock.Anything, TestUserID).Return(v2, nil).Once()
		f.Mocks.WalletRepo.On("UpdateWithVersion", mock.Anything, mock.Anything, int64(2)).Return(true, nil).Once()
		f.Mocks.TxRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.Helper.ExpectEventPublish(events.EventTypeBalanceChange)

		result, err := f.Service.Credit(f.Ctx, TestUserID, false)
		require.NoError(t, err)
		assert.True(t, result.Credited)
		f.Mocks.AssertAllExpectations(t)
	})

	t.Run("a racing writer that was this claim resolves as already claimed", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		key := AllowanceIdempotencyKey(TestUserID, time.Now().UTC())
		landed := &entities.Transaction{ID: 7, Amount: 100, IdempotencyKey: key}
		f.Mocks.TxRepo.On("GetByIdempotencyKey", mock.Anything, key).Return(nil, nil).Once()
		f.Helper.ExpectWalletLookup(TestUserID, FreshWallet(TestWalletID, TestUserID))
		f.Mocks.WalletRepo.On("UpdateWithVersion", mock.Anything, mock.Anything, int64(1)).Return(false, nil).Once()
		f.Mocks.TxRepo.On("GetByIdempotencyKey", mock.Anything, key).Return(landed, nil).Once()

		result, err := f.Service.Credit(f.Ctx, TestUserID, false)
		require.NoError(t, err)
		assert.True(t, result.AlreadyClaimed)
		assert.Equal(t, int64(7), result.Transaction.ID)
		f.Mocks.TxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("exhausting the retry budget surfaces a conflict", func(t *testing.T) {
		f := NewAllowanceTestFixture(t)
		f.Mocks.TxRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, nil)
		f.Mocks.WalletRepo.On("GetByUserID", mock.Anything, TestUserID).Return(FreshWallet(TestWalletID, TestUserID), nil)
		f.Mocks.WalletRepo.On("UpdateWithVersion", mock.Anything, mock.Anything, int64(1)).Return(false, nil).Times(3)

		_, err := f.Service.Credit(f.Ctx, TestUserID, false)
		require.Error(t, err)
		assert.True(t, entities.IsConflict(err))
		f.Mocks.TxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
