package testutil

import (
	"context"
	"testing"
	"time"

	"pickem/database"
	"pickem/domain/entities"

	"github.com/stretchr/testify/require"
)

// InsertTestUser inserts a user row and returns its ID
func InsertTestUser(t *testing.T, db *database.DB, username string, tier entities.Tier) int64 {
	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO users (username, tier) VALUES ($1, $2) RETURNING id`,
		username, tier.String(),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertTestEvent inserts a scheduled event starting in the future and
// returns its ID
func InsertTestEvent(t *testing.T, db *database.DB, name string) int64 {
	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO sport_events (name, league, status, scheduled_at) VALUES ($1, 'TEST', 'scheduled', $2) RETURNING id`,
		name, time.Now().UTC().Add(24*time.Hour),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertStartedEvent inserts an event that already went live and returns its ID
func InsertStartedEvent(t *testing.T, db *database.DB, name string) int64 {
	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO sport_events (name, league, status, scheduled_at) VALUES ($1, 'TEST', 'live', $2) RETURNING id`,
		name, time.Now().UTC().Add(-time.Hour),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// NewTestSlip builds an unsaved draft slip with one priced pick per event ID
func NewTestSlip(userID int64, eventIDs ...int64) *entities.Slip {
	picks := make([]*entities.SlipPick, 0, len(eventIDs))
	for _, eventID := range eventIDs {
		picks = append(picks, &entities.SlipPick{
			EventID:      eventID,
			MarketType:   entities.MarketMoneyline,
			Selection:    "home",
			AmericanOdds: -110,
			DecimalOdds:  1.9091,
			PointValue:   10,
			CoinCost:     77,
			RequiredTier: entities.TierFree,
			Status:       entities.PickStatusPending,
		})
	}
	return &entities.Slip{
		UserID: userID,
		Name:   "test slip",
		Status: entities.SlipStatusDraft,
		Picks:  picks,
	}
}

// NewTestWallet builds an unsaved wallet for a user
func NewTestWallet(userID int64) *entities.Wallet {
	return &entities.Wallet{
		UserID:       userID,
		PaidBalance:  500,
		BonusBalance: 100,
	}
}
