package services

import (
	"context"
	"testing"
	"time"

	"pickem/config"
	"pickem/domain/entities"
	"pickem/domain/events"
	"pickem/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	TestUserID   = int64(100)
	TestUser2ID  = int64(200)
	TestSlipID   = int64(1)
	TestWalletID = int64(10)
	TestEventID  = int64(5000)
	TestEvent2ID = int64(5001)
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	SlipRepo       *testhelpers.MockSlipRepository
	EventRepo      *testhelpers.MockSportEventRepository
	UserRepo       *testhelpers.MockUserRepository
	WalletRepo     *testhelpers.MockWalletRepository
	TxRepo         *testhelpers.MockTransactionRepository
	OddsProvider   *testhelpers.MockOddsProvider
	EventPublisher *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		SlipRepo:       &testhelpers.MockSlipRepository{},
		EventRepo:      &testhelpers.MockSportEventRepository{},
		UserRepo:       &testhelpers.MockUserRepository{},
		WalletRepo:     &testhelpers.MockWalletRepository{},
		TxRepo:         &testhelpers.MockTransactionRepository{},
		OddsProvider:   &testhelpers.MockOddsProvider{},
		EventPublisher: &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.SlipRepo.AssertExpectations(t)
	m.EventRepo.AssertExpectations(t)
	m.UserRepo.AssertExpectations(t)
	m.WalletRepo.AssertExpectations(t)
	m.TxRepo.AssertExpectations(t)
	m.OddsProvider.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// SetupTestConfig installs a test config and restores the real one on cleanup
func SetupTestConfig(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)
}

// MockHelper provides common mock setup patterns
type MockHelper struct {
	mocks *TestMocks
	ctx   context.Context
}

// NewMockHelper creates a new mock helper
func NewMockHelper(mocks *TestMocks) *MockHelper {
	return &MockHelper{
		mocks: mocks,
		ctx:   context.Background(),
	}
}

// ExpectTierLookup sets up the user repository to return a tier
func (h *MockHelper) ExpectTierLookup(userID int64, tier entities.Tier) {
	h.mocks.UserRepo.On("GetTier", mock.Anything, userID).Return(tier, nil)
}

// ExpectSlipLookup sets up the slip repository to return a slip
func (h *MockHelper) ExpectSlipLookup(slipID int64, slip *entities.Slip) {
	h.mocks.SlipRepo.On("GetByID", mock.Anything, slipID).Return(slip, nil)
}

// ExpectSlipNotFound sets up the slip repository to return no slip
func (h *MockHelper) ExpectSlipNotFound(slipID int64) {
	h.mocks.SlipRepo.On("GetByID", mock.Anything, slipID).Return(nil, nil)
}

// ExpectBiddableEvents sets up the event repository to return scheduled
// future events for the given IDs
func (h *MockHelper) ExpectBiddableEvents(eventIDs ...int64) {
	eventsByID := make(map[int64]*entities.SportEvent, len(eventIDs))
	for _, id := range eventIDs {
		eventsByID[id] = BiddableEvent(id)
	}
	h.mocks.EventRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(eventsByID, nil)
}

// ExpectWalletLookup sets up the wallet repository to return a wallet
func (h *MockHelper) ExpectWalletLookup(userID int64, wallet *entities.Wallet) {
	h.mocks.WalletRepo.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)
}

// ExpectNoTransactionForKey sets up the ledger to report the key unused
func (h *MockHelper) ExpectNoTransactionForKey() {
	h.mocks.TxRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, nil)
}

// ExpectEventPublish sets up event publisher mock expectations
func (h *MockHelper) ExpectEventPublish(eventType events.EventType) {
	h.mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil)
}

// ExpectNoQuote sets up the odds provider to report no known quote
func (h *MockHelper) ExpectNoQuote() {
	h.mocks.OddsProvider.On("CurrentOdds", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, false, nil)
}

// BiddableEvent builds a scheduled event starting in the future
func BiddableEvent(id int64) *entities.SportEvent {
	return &entities.SportEvent{
		ID:          id,
		Name:        "Test Event",
		League:      "TEST",
		Status:      entities.EventStatusScheduled,
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
	}
}

// StartedEvent builds an event that already went live
func StartedEvent(id int64) *entities.SportEvent {
	return &entities.SportEvent{
		ID:          id,
		Name:        "Test Event",
		League:      "TEST",
		Status:      entities.EventStatusLive,
		ScheduledAt: time.Now().UTC().Add(-time.Hour),
	}
}
