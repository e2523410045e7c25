package testhelpers

import (
	"context"

	"pickem/domain/entities"
	"pickem/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetTier(ctx context.Context, userID int64) (entities.Tier, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entities.Tier), args.Error(1)
}

// MockSportEventRepository is a mock implementation of SportEventRepository
type MockSportEventRepository struct {
	mock.Mock
}

func (m *MockSportEventRepository) GetByID(ctx context.Context, eventID int64) (*entities.SportEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SportEvent), args.Error(1)
}

func (m *MockSportEventRepository) GetByIDs(ctx context.Context, eventIDs []int64) (map[int64]*entities.SportEvent, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*entities.SportEvent), args.Error(1)
}

// MockSlipRepository is a mock implementation of SlipRepository
type MockSlipRepository struct {
	mock.Mock
}

func (m *MockSlipRepository) Create(ctx context.Context, slip *entities.Slip) error {
	args := m.Called(ctx, slip)
	return args.Error(0)
}

func (m *MockSlipRepository) GetByID(ctx context.Context, slipID int64) (*entities.Slip, error) {
	args := m.Called(ctx, slipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Slip), args.Error(1)
}

func (m *MockSlipRepository) ListByUser(ctx context.Context, userID int64, q entities.SlipListQuery) ([]*entities.Slip, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Slip), args.Error(1)
}

func (m *MockSlipRepository) CountByUser(ctx context.Context, userID int64, status *entities.SlipStatus) (int64, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSlipRepository) Update(ctx context.Context, slip *entities.Slip) error {
	args := m.Called(ctx, slip)
	return args.Error(0)
}

func (m *MockSlipRepository) InsertPicks(ctx context.Context, slipID int64, picks []*entities.SlipPick) error {
	args := m.Called(ctx, slipID, picks)
	return args.Error(0)
}

func (m *MockSlipRepository) DeletePicks(ctx context.Context, slipID int64, pickIDs []int64) error {
	args := m.Called(ctx, slipID, pickIDs)
	return args.Error(0)
}

func (m *MockSlipRepository) UpdatePickPricing(ctx context.Context, pick *entities.SlipPick) error {
	args := m.Called(ctx, pick)
	return args.Error(0)
}

func (m *MockSlipRepository) Delete(ctx context.Context, slipID int64) error {
	args := m.Called(ctx, slipID)
	return args.Error(0)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) UpdateWithVersion(ctx context.Context, wallet *entities.Wallet, expectedVersion int64) (bool, error) {
	args := m.Called(ctx, wallet, expectedVersion)
	return args.Bool(0), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, walletID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

// MockOddsProvider is a mock implementation of OddsProvider
type MockOddsProvider struct {
	mock.Mock
}

func (m *MockOddsProvider) CurrentOdds(ctx context.Context, eventID int64, market entities.MarketType, selection string) (int, bool, error) {
	args := m.Called(ctx, eventID, market, selection)
	return args.Int(0), args.Bool(1), args.Error(2)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
