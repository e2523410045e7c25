package entities

import (
	"fmt"
	"time"
)

// MarketType identifies which market a pick is placed on
type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketSpread    MarketType = "spread"
	MarketTotal     MarketType = "total"
	MarketProp      MarketType = "prop"
)

// IsValid reports whether the market type is one of the supported markets
func (m MarketType) IsValid() bool {
	switch m {
	case MarketMoneyline, MarketSpread, MarketTotal, MarketProp:
		return true
	default:
		return false
	}
}

// PickStatus represents the settlement state of a single pick
type PickStatus string

const (
	PickStatusPending PickStatus = "pending"
	PickStatusHit     PickStatus = "hit"
	PickStatusMiss    PickStatus = "miss"
	PickStatusPush    PickStatus = "push"
	PickStatusVoid    PickStatus = "void"
)

// American odds bounds. Values inside (-100, 100) are not legal American odds.
const (
	MinAmericanOdds = -99999
	MaxAmericanOdds = 99999
)

// PickInput is a client-submitted pick. Point values and coin costs supplied
// by the client are never trusted; only the fields here feed pricing.
type PickInput struct {
	EventID      int64      `json:"event_id"`
	MarketType   MarketType `json:"market_type"`
	Selection    string     `json:"selection"`
	Line         *float64   `json:"line,omitempty"`
	AmericanOdds int        `json:"american_odds"`
	DecimalOdds  *float64   `json:"decimal_odds,omitempty"`
}

// Validate performs shape validation on a submitted pick
func (p *PickInput) Validate() error {
	if p.EventID <= 0 {
		return NewValidationError("event_id", "must be a positive event ID")
	}
	if !p.MarketType.IsValid() {
		return NewValidationError("market_type", fmt.Sprintf("unsupported market type %q", p.MarketType))
	}
	if p.Selection == "" {
		return NewValidationError("selection", "selection cannot be empty")
	}
	if p.AmericanOdds == 0 {
		return NewValidationError("american_odds", "odds cannot be zero")
	}
	if p.AmericanOdds > -100 && p.AmericanOdds < 100 {
		return NewValidationError("american_odds", fmt.Sprintf("%d is not a valid American odds value", p.AmericanOdds))
	}
	if p.AmericanOdds < MinAmericanOdds || p.AmericanOdds > MaxAmericanOdds {
		return NewValidationError("american_odds", fmt.Sprintf("odds %d outside supported range", p.AmericanOdds))
	}
	return nil
}

// SlipPick is a persisted pick owned by its parent slip. PointValue, CoinCost
// and RequiredTier are always server-computed.
type SlipPick struct {
	ID           int64      `db:"id"`
	SlipID       int64      `db:"slip_id"`
	EventID      int64      `db:"event_id"`
	MarketType   MarketType `db:"market_type"`
	Selection    string     `db:"selection"`
	Line         *float64   `db:"line"`
	AmericanOdds int        `db:"american_odds"`
	DecimalOdds  float64    `db:"decimal_odds"`
	PointValue   int        `db:"point_value"`
	CoinCost     int64      `db:"coin_cost"`
	RequiredTier Tier       `db:"required_tier"`
	Status       PickStatus `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
}

// Input rebuilds the pricing input for a stored pick. Used when aggregates are
// recomputed from the post-mutation pick set.
func (p *SlipPick) Input() PickInput {
	return PickInput{
		EventID:      p.EventID,
		MarketType:   p.MarketType,
		Selection:    p.Selection,
		Line:         p.Line,
		AmericanOdds: p.AmericanOdds,
	}
}
