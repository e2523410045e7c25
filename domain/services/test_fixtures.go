package services

import (
	"context"
	"testing"
	"time"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
)

// SlipTestFixture provides a complete test environment for slip service tests
type SlipTestFixture struct {
	T       *testing.T
	Ctx     context.Context
	Service interfaces.SlipService
	Mocks   *TestMocks
	Helper  *MockHelper
}

// NewSlipTestFixture creates a new test fixture with all dependencies configured
func NewSlipTestFixture(t *testing.T) *SlipTestFixture {
	SetupTestConfig(t)

	mocks := NewTestMocks()
	service := NewSlipService(
		mocks.SlipRepo,
		mocks.EventRepo,
		mocks.UserRepo,
		mocks.OddsProvider,
		mocks.EventPublisher,
	)

	return &SlipTestFixture{
		T:       t,
		Ctx:     context.Background(),
		Service: service,
		Mocks:   mocks,
		Helper:  NewMockHelper(mocks),
	}
}

// AllowanceTestFixture provides a complete test environment for allowance
// service tests
type AllowanceTestFixture struct {
	T       *testing.T
	Ctx     context.Context
	Service interfaces.AllowanceService
	Mocks   *TestMocks
	Helper  *MockHelper
}

// NewAllowanceTestFixture creates a new test fixture with all dependencies configured
func NewAllowanceTestFixture(t *testing.T) *AllowanceTestFixture {
	SetupTestConfig(t)

	mocks := NewTestMocks()
	service := NewAllowanceService(
		mocks.WalletRepo,
		mocks.TxRepo,
		mocks.EventPublisher,
	)

	return &AllowanceTestFixture{
		T:       t,
		Ctx:     context.Background(),
		Service: service,
		Mocks:   mocks,
		Helper:  NewMockHelper(mocks),
	}
}

// MoneylinePick builds a valid moneyline pick input
func MoneylinePick(eventID int64, odds int) entities.PickInput {
	return entities.PickInput{
		EventID:      eventID,
		MarketType:   entities.MarketMoneyline,
		Selection:    "home",
		AmericanOdds: odds,
	}
}

// SpreadPick builds a valid spread pick input
func SpreadPick(eventID int64, line float64, odds int) entities.PickInput {
	return entities.PickInput{
		EventID:      eventID,
		MarketType:   entities.MarketSpread,
		Selection:    "home",
		Line:         &line,
		AmericanOdds: odds,
	}
}

// PropPick builds a valid prop pick input
func PropPick(eventID int64, odds int) entities.PickInput {
	return entities.PickInput{
		EventID:      eventID,
		MarketType:   entities.MarketProp,
		Selection:    "over",
		AmericanOdds: odds,
	}
}

// DraftSlip builds a draft slip owned by userID with the given stored picks
func DraftSlip(slipID, userID int64, picks ...*entities.SlipPick) *entities.Slip {
	return &entities.Slip{
		ID:        slipID,
		UserID:    userID,
		Status:    entities.SlipStatusDraft,
		Picks:     picks,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

// StoredPick builds a persisted pick with server-computed pricing fields
func StoredPick(pickID, slipID, eventID int64, market entities.MarketType, odds int) *entities.SlipPick {
	converter := NewOddsConverter()
	gate := NewTierGate()
	return &entities.SlipPick{
		ID:           pickID,
		SlipID:       slipID,
		EventID:      eventID,
		MarketType:   market,
		Selection:    "home",
		AmericanOdds: odds,
		DecimalOdds:  converter.ToDecimal(odds).Value,
		PointValue:   10,
		CoinCost:     50,
		RequiredTier: gate.RequiredTier(market),
		Status:       entities.PickStatusPending,
	}
}

// FreshWallet builds a wallet that has never claimed an allowance
func FreshWallet(walletID, userID int64) *entities.Wallet {
	return &entities.Wallet{
		ID:           walletID,
		UserID:       userID,
		PaidBalance:  0,
		BonusBalance: 0,
		Version:      1,
	}
}
