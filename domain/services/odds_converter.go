package services

import (
	"fmt"
	"math"

	"pickem/domain/entities"
)

// Neutral fallbacks returned for invalid odds. They grant no pricing
// advantage in either direction: even money, coin-flip probability.
const (
	NeutralDecimalOdds = 2.0
	NeutralProbability = 0.5
)

// OddsValue is a conversion result. Invalid input never panics or aborts the
// flow; Value carries the neutral default and Err describes the problem so
// callers can log it.
type OddsValue struct {
	Value float64
	Valid bool
	Err   error
}

// OddsConverter converts American odds to decimal odds and implied
// probability. All methods are pure and total.
type OddsConverter struct{}

// NewOddsConverter creates a new odds converter
func NewOddsConverter() *OddsConverter {
	return &OddsConverter{}
}

// IsValidAmericanOdds reports whether odds is a legal American odds value:
// a nonzero integer with |odds| in [100, 99999]. Values like ±50 do not
// exist in the American format.
func (c *OddsConverter) IsValidAmericanOdds(odds int) bool {
	if odds == 0 {
		return false
	}
	if odds > -100 && odds < 100 {
		return false
	}
	return odds >= entities.MinAmericanOdds && odds <= entities.MaxAmericanOdds
}

// ToDecimal converts American odds to decimal (European) odds.
// +150 -> 2.5, -200 -> 1.5. Invalid odds yield the even-money default.
func (c *OddsConverter) ToDecimal(odds int) OddsValue {
	if !c.IsValidAmericanOdds(odds) {
		return OddsValue{
			Value: NeutralDecimalOdds,
			Valid: false,
			Err:   entities.NewValidationError("american_odds", fmt.Sprintf("invalid American odds %d", odds)),
		}
	}

	if odds >= 100 {
		return OddsValue{Value: float64(odds)/100.0 + 1.0, Valid: true}
	}
	return OddsValue{Value: 100.0/math.Abs(float64(odds)) + 1.0, Valid: true}
}

// ToImpliedProbability converts American odds to the bookmaker's implied win
// probability. -150 -> 0.6, +150 -> 0.4. Invalid odds yield the coin-flip
// default.
func (c *OddsConverter) ToImpliedProbability(odds int) OddsValue {
	if !c.IsValidAmericanOdds(odds) {
		return OddsValue{
			Value: NeutralProbability,
			Valid: false,
			Err:   entities.NewValidationError("american_odds", fmt.Sprintf("invalid American odds %d", odds)),
		}
	}

	if odds >= 100 {
		return OddsValue{Value: 100.0 / (float64(odds) + 100.0), Valid: true}
	}
	abs := math.Abs(float64(odds))
	return OddsValue{Value: abs / (abs + 100.0), Valid: true}
}
