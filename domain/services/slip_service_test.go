package services

import (
	"testing"

	"pickem/domain/entities"
	"pickem/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSlipService_CreateSlip(t *testing.T) {
	t.Run("happy path prices picks server side", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)
		f.Helper.ExpectBiddableEvents(TestEventID)
		f.Mocks.SlipRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Slip).ID = TestSlipID
		}).Return(nil)
		f.Helper.ExpectEventPublish(events.EventTypeSlipCreated)

		slip, err := f.Service.CreateSlip(f.Ctx, TestUserID, "week 1", []entities.PickInput{MoneylinePick(TestEventID, -110)}, 0)
		require.NoError(t, err)

		assert.Equal(t, entities.SlipStatusDraft, slip.Status)
		require.Len(t, slip.Picks, 1)
		pick := slip.Picks[0]
		assert.Equal(t, int64(77), pick.CoinCost)
		assert.Equal(t, 10, pick.PointValue)
		assert.Equal(t, entities.TierFree, pick.RequiredTier)
		assert.InDelta(t, 1.909, pick.DecimalOdds, 0.001)
		assert.Equal(t, int64(77), slip.TotalCoinCost)
		assert.Equal(t, int64(0), slip.MinCoinSpend)
		assert.False(t, slip.CoinSpendMet)
		f.Mocks.AssertAllExpectations(t)
	})

	t.Run("elite tier pays the tier multiplier", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Helper.ExpectTierLookup(TestUserID, entities.TierElite)
		f.Helper.ExpectBiddableEvents(TestEventID)
		f.Mocks.SlipRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.Helper.ExpectEventPublish(events.EventTypeSlipCreated)

		slip, err := f.Service.CreateSlip(f.Ctx, TestUserID, "", []entities.PickInput{MoneylinePick(TestEventID, 100)}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(111), slip.Picks[0].CoinCost)
	})

	t.Run("rejects empty and oversized pick lists", func(t *testing.T) {
		f := NewSlipTestFixture(t)

		_, err := f.Service.CreateSlip(f.Ctx, TestUserID, "", nil, 0)
		require.Error(t, err)

		picks := make([]entities.PickInput, entities.MaxPicksPerSlip+1)
		for i := range picks {
			picks[i] = MoneylinePick(TestEventID, -110)
		}
		_, err = f.Service.CreateSlip(f.Ctx, TestUserID, "", picks, 0)
		require.Error(t, err)
	})

	t.Run("rejects negative stake", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		_, err := f.Service.CreateSlip(f.Ctx, TestUserID, "", []entities.PickInput{MoneylinePick(TestEventID, -110)}, -1)
		require.Error(t, err)
		var ve *entities.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("free tier cannot touch prop markets", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)
		f.Helper.ExpectBiddableEvents(TestEventID)

		_, err := f.Service.CreateSlip(f.Ctx, TestUserID, "", []entities.PickInput{PropPick(TestEventID, 150)}, 0)
		require.Error(t, err)
		assert.True(t, entities.IsTierLocked(err))
		f.Mocks.SlipRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("started event rejects the whole slip", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)
		f.Mocks.EventRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(map[int64]*entities.SportEvent{
			TestEventID: StartedEvent(TestEventID),
		}, nil)

		_, err := f.Service.CreateSlip(f.Ctx, TestUserID, "", []entities.PickInput{MoneylinePick(TestEventID, -110)}, 0)
		require.Error(t, err)
		var br *entities.BadRequestError
		assert.ErrorAs(t, err, &br)
	})

	t.Run("missing event rejects the whole slip", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)
		f.Mocks.EventRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(map[int64]*entities.SportEvent{}, nil)

		_, err := f.Service.CreateSlip(f.Ctx, TestUserID, "", []entities.PickInput{MoneylinePick(TestEventID, -110)}, 0)
		require.Error(t, err)
		assert.True(t, entities.IsNotFound(err))
	})
}

func TestSlipService_GetSlipByID(t *testing.T) {
	t.Run("owner sees the slip", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID))

		slip, err := f.Service.GetSlipByID(f.Ctx, TestSlipID, TestUserID)
		require.NoError(t, err)
		assert.Equal(t, TestSlipID, slip.ID)
	})

	t.Run("another user's slip reads as not found", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID))

		_, err := f.Service.GetSlipByID(f.Ctx, TestSlipID, TestUser2ID)
		require.Error(t, err)
		assert.True(t, entities.IsNotFound(err))
	})
}

func TestSlipService_UpdateSlip(t *testing.T) {
	t.Run("mixed add and remove recomputes from the final set", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		kept := StoredPick(1, TestSlipID, TestEventID, entities.MarketMoneyline, -110)
		removed := StoredPick(2, TestSlipID, TestEvent2ID, entities.MarketMoneyline, 150)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID, kept, removed))
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)
		f.Helper.ExpectBiddableEvents(TestEvent2ID)
		f.Mocks.SlipRepo.On("DeletePicks", mock.Anything, TestSlipID, []int64{2}).Return(nil)
		f.Mocks.SlipRepo.On("InsertPicks", mock.Anything, TestSlipID, mock.Anything).Return(nil)
		f.Mocks.SlipRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		slip, err := f.Service.UpdateSlip(f.Ctx, TestSlipID, TestUserID, entities.SlipUpdate{
			AddPicks:      []entities.PickInput{MoneylinePick(TestEvent2ID, 300)},
			RemovePickIDs: []int64{2},
		})
		require.NoError(t, err)

		require.Len(t, slip.Picks, 2)
		// kept pick contributes its stored pricing, added pick is freshly priced
		assert.Equal(t, kept.CoinCost+slip.Picks[1].CoinCost, slip.TotalCoinCost)
		assert.Equal(t, int64(80), slip.MinCoinSpend)
		f.Mocks.AssertAllExpectations(t)
	})

	t.Run("removing a pick that belongs to another slip fails", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		pick := StoredPick(1, TestSlipID, TestEventID, entities.MarketMoneyline, -110)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID, pick))
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)

		_, err := f.Service.UpdateSlip(f.Ctx, TestSlipID, TestUserID, entities.SlipUpdate{RemovePickIDs: []int64{999}})
		require.Error(t, err)
		var br *entities.BadRequestError
		assert.ErrorAs(t, err, &br)
		f.Mocks.SlipRepo.AssertNotCalled(t, "DeletePicks", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cannot remove the last pick", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		pick := StoredPick(1, TestSlipID, TestEventID, entities.MarketMoneyline, -110)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID, pick))
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)

		_, err := f.Service.UpdateSlip(f.Ctx, TestSlipID, TestUserID, entities.SlipUpdate{RemovePickIDs: []int64{1}})
		require.Error(t, err)
	})

	t.Run("a dropped tier blocks edits that keep gated picks", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		gated := StoredPick(1, TestSlipID, TestEventID, entities.MarketProp, 150)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID, gated))
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)

		name := "renamed"
		_, err := f.Service.UpdateSlip(f.Ctx, TestSlipID, TestUserID, entities.SlipUpdate{Name: &name})
		require.Error(t, err)
		assert.True(t, entities.IsTierLocked(err))
	})

	t.Run("locked slips are immutable", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		slip := DraftSlip(TestSlipID, TestUserID, StoredPick(1, TestSlipID, TestEventID, entities.MarketMoneyline, -110))
		slip.Status = entities.SlipStatusPending
		f.Helper.ExpectSlipLookup(TestSlipID, slip)

		name := "renamed"
		_, err := f.Service.UpdateSlip(f.Ctx, TestSlipID, TestUserID, entities.SlipUpdate{Name: &name})
		require.Error(t, err)
		var br *entities.BadRequestError
		assert.ErrorAs(t, err, &br)
	})
}

func TestSlipService_LockSlip(t *testing.T) {
	t.Run("locks and reprices from stored odds when no quote exists", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		p1 := StoredPick(1, TestSlipID, TestEventID, entities.MarketMoneyline, -110)
		p2 := StoredPick(2, TestSlipID, TestEvent2ID, entities.MarketMoneyline, -110)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID, p1, p2))
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)
		f.Helper.ExpectNoQuote()
		f.Mocks.SlipRepo.On("UpdatePickPricing", mock.Anything, mock.Anything).Return(nil).Twice()
		f.Mocks.SlipRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.Helper.ExpectEventPublish(events.EventTypeSlipLocked)

		slip, err := f.Service.LockSlip(f.Ctx, TestSlipID, TestUserID)
		require.NoError(t, err)

		assert.Equal(t, entities.SlipStatusPending, slip.Status)
		require.NotNil(t, slip.LockedAt)
		assert.True(t, slip.CoinSpendMet)
		// two -110 picks at FREE reprice to 77 each, clearing the 80 minimum
		assert.Equal(t, int64(154), slip.TotalCoinCost)
		f.Mocks.AssertAllExpectations(t)
	})

	t.Run("provider quote overrides cached odds", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		pick := StoredPick(1, TestSlipID, TestEventID, entities.MarketMoneyline, -110)
		pick.CoinCost = 9999 // client-era value, must be ignored
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID, pick))
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)
		f.Mocks.OddsProvider.On("CurrentOdds", mock.Anything, TestEventID, entities.MarketMoneyline, "home").Return(300, true, nil)
		f.Mocks.SlipRepo.On("UpdatePickPricing", mock.Anything, mock.Anything).Return(nil)
		f.Mocks.SlipRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.Helper.ExpectEventPublish(events.EventTypeSlipLocked)

		slip, err := f.Service.LockSlip(f.Ctx, TestSlipID, TestUserID)
		require.NoError(t, err)

		locked := slip.Picks[0]
		assert.Equal(t, 300, locked.AmericanOdds)
		assert.Equal(t, int64(44), locked.CoinCost)
		assert.Equal(t, 26, locked.PointValue)
		assert.InDelta(t, 4.0, locked.DecimalOdds, 1e-9)
	})

	t.Run("minimum spend failure leaves the slip draft", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		// two extreme longshots reprice to 21 coins each, well short of 80
		p1 := StoredPick(1, TestSlipID, TestEventID, entities.MarketMoneyline, 5000)
		p2 := StoredPick(2, TestSlipID, TestEvent2ID, entities.MarketMoneyline, 5000)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID, p1, p2))
		f.Helper.ExpectTierLookup(TestUserID, entities.TierFree)
		f.Helper.ExpectNoQuote()
		f.Mocks.SlipRepo.On("UpdatePickPricing", mock.Anything, mock.Anything).Return(nil).Twice()

		_, err := f.Service.LockSlip(f.Ctx, TestSlipID, TestUserID)
		require.Error(t, err)
		var br *entities.BadRequestError
		require.ErrorAs(t, err, &br)
		assert.Contains(t, br.Reason, "minimum spend")
		f.Mocks.SlipRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("tier gate is re-checked at lock time", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		gated := StoredPick(1, TestSlipID, TestEventID, entities.MarketProp, 150)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID, gated))
		f.Helper.ExpectTierLookup(TestUserID, entities.TierStandard)

		_, err := f.Service.LockSlip(f.Ctx, TestSlipID, TestUserID)
		require.Error(t, err)
		assert.True(t, entities.IsTierLocked(err))
	})

	t.Run("cannot lock an already locked slip", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		slip := DraftSlip(TestSlipID, TestUserID, StoredPick(1, TestSlipID, TestEventID, entities.MarketMoneyline, -110))
		slip.Status = entities.SlipStatusPending
		f.Helper.ExpectSlipLookup(TestSlipID, slip)

		_, err := f.Service.LockSlip(f.Ctx, TestSlipID, TestUserID)
		require.Error(t, err)
	})
}

func TestSlipService_DeleteSlip(t *testing.T) {
	t.Run("owner deletes a draft", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Helper.ExpectSlipLookup(TestSlipID, DraftSlip(TestSlipID, TestUserID))
		f.Mocks.SlipRepo.On("Delete", mock.Anything, TestSlipID).Return(nil)

		require.NoError(t, f.Service.DeleteSlip(f.Ctx, TestSlipID, TestUserID))
		f.Mocks.AssertAllExpectations(t)
	})

	t.Run("locked slips cannot be deleted", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		slip := DraftSlip(TestSlipID, TestUserID)
		slip.Status = entities.SlipStatusActive
		f.Helper.ExpectSlipLookup(TestSlipID, slip)

		err := f.Service.DeleteSlip(f.Ctx, TestSlipID, TestUserID)
		require.Error(t, err)
		f.Mocks.SlipRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestSlipService_ValidateDraftPicks(t *testing.T) {
	t.Run("reports per-pick problems without failing the batch", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Mocks.EventRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(map[int64]*entities.SportEvent{
			TestEventID: BiddableEvent(TestEventID),
		}, nil)
		f.Helper.ExpectNoQuote()

		// pick 0 is clean, pick 1 references a vanished event, pick 2 is malformed
		picks := []entities.PickInput{
			MoneylinePick(TestEventID, -110),
			MoneylinePick(TestEvent2ID, -110),
			{EventID: TestEventID, MarketType: "exotic"},
		}
		results, err := f.Service.ValidateDraftPicks(f.Ctx, picks)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.True(t, results[0].Valid)
		assert.False(t, results[1].Valid)
		assert.False(t, results[1].EventExists)
		assert.False(t, results[2].Valid)
		assert.NotEmpty(t, results[2].Problem)
	})

	t.Run("flags odds drift from the provider quote", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		f.Mocks.EventRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(map[int64]*entities.SportEvent{
			TestEventID: BiddableEvent(TestEventID),
		}, nil)
		f.Mocks.OddsProvider.On("CurrentOdds", mock.Anything, TestEventID, entities.MarketMoneyline, "home").Return(-130, true, nil)

		results, err := f.Service.ValidateDraftPicks(f.Ctx, []entities.PickInput{MoneylinePick(TestEventID, -110)})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Valid)
		assert.True(t, results[0].OddsChanged)
		require.NotNil(t, results[0].CurrentOdds)
		assert.Equal(t, -130, *results[0].CurrentOdds)
	})

	t.Run("rejects oversized batches", func(t *testing.T) {
		f := NewSlipTestFixture(t)
		picks := make([]entities.PickInput, entities.MaxPicksPerSlip+1)
		_, err := f.Service.ValidateDraftPicks(f.Ctx, picks)
		require.Error(t, err)
	})
}
