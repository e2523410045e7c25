package services

import (
	"math"

	"pickem/domain/entities"
)

// Tier/market engine tuning. Coin cost grows with probability (favorites
// cost more), points shrink with it (underdogs earn more). Float math stays
// inside the curves; every emitted amount is a rounded integer.
const (
	coinCostMin   = 20.0
	coinCostMax   = 140.0
	coinCostAlpha = 1.15
	coinCostCap   = 200.0

	pointsMin  = 5.0
	pointsMax  = 40.0
	pointsBeta = 2.5

	probabilityFloor = 0.02
	probabilityCeil  = 0.98
)

// CoinCostResult is the priced cost of a pick for a given tier
type CoinCostResult struct {
	CoinCost       int64
	TierMultiplier float64
	Probability    float64
	Valid          bool
}

// PointsResult is the display point reward of a pick
type PointsResult struct {
	Points        int
	UnderdogBonus int
	Probability   float64
	Valid         bool
}

// PricingEngine is the tier/market-aware coin cost and points engine. It is
// authoritative for CoinCost and display points; PointValue stays with the
// difficulty engine. All outputs are deterministic in
// (probability, tier, market, odds).
type PricingEngine struct{}

// NewPricingEngine creates a new pricing engine
func NewPricingEngine() *PricingEngine {
	return &PricingEngine{}
}

// ClampProbability bounds a probability to [0.02, 0.98] before any curve is
// applied. Non-finite values and values outside [0, 1] are replaced with the
// mid-point default and flagged invalid; nothing a client submits can push a
// curve outside its calibrated range. Idempotent.
func (e *PricingEngine) ClampProbability(p float64) (float64, bool) {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
		return NeutralProbability, false
	}
	if p < probabilityFloor {
		return probabilityFloor, true
	}
	if p > probabilityCeil {
		return probabilityCeil, true
	}
	return p, true
}

// TierMultiplier returns the coin-cost multiplier for a tier. The switch is
// exhaustive over the closed enum; anything unmapped prices at FREE.
func (e *PricingEngine) TierMultiplier(tier entities.Tier) float64 {
	switch tier {
	case entities.TierFree:
		return 1.0
	case entities.TierStandard:
		return 1.15
	case entities.TierPremium:
		return 1.3
	case entities.TierElite:
		return 1.5
	default:
		return 1.0
	}
}

// MarketModifier returns the points modifier for a market type. Unknown
// markets price as moneyline.
func (e *PricingEngine) MarketModifier(market entities.MarketType) float64 {
	switch market {
	case entities.MarketMoneyline:
		return 1.0
	case entities.MarketSpread:
		return 0.85
	case entities.MarketTotal, entities.MarketProp:
		return 0.90
	default:
		return 1.0
	}
}

// UnderdogBonus grants extra points for long odds, thresholds checked
// highest first. Zero (absent) or malformed odds earn nothing.
func (e *PricingEngine) UnderdogBonus(americanOdds int) int {
	if americanOdds == 0 || americanOdds > entities.MaxAmericanOdds || americanOdds < entities.MinAmericanOdds {
		return 0
	}
	switch {
	case americanOdds >= 500:
		return 4
	case americanOdds >= 400:
		return 3
	case americanOdds >= 300:
		return 2
	default:
		return 0
	}
}

// CalculateCoinCost prices a pick for a tier. Monotonically increasing in
// the probability: favorites always cost at least as much as longer shots.
func (e *PricingEngine) CalculateCoinCost(probability float64, tier entities.Tier) CoinCostResult {
	p, valid := e.ClampProbability(probability)
	mult := e.TierMultiplier(tier)

	raw := (coinCostMin + (coinCostMax-coinCostMin)*math.Pow(p, coinCostAlpha)) * mult
	if raw > coinCostCap {
		raw = coinCostCap
	}

	return CoinCostResult{
		CoinCost:       int64(math.Round(raw)),
		TierMultiplier: mult,
		Probability:    p,
		Valid:          valid,
	}
}

// CalculatePoints computes the display point reward for a pick.
// Monotonically decreasing in the probability.
func (e *PricingEngine) CalculatePoints(probability float64, americanOdds int, market entities.MarketType) PointsResult {
	p, valid := e.ClampProbability(probability)
	bonus := e.UnderdogBonus(americanOdds)

	raw := (pointsMin+(pointsMax-pointsMin)*math.Pow(1-p, pointsBeta))*e.MarketModifier(market) + float64(bonus)
	if raw < pointsMin {
		raw = pointsMin
	}
	if raw > pointsMax {
		raw = pointsMax
	}

	return PointsResult{
		Points:        int(math.Round(raw)),
		UnderdogBonus: bonus,
		Probability:   p,
		Valid:         valid,
	}
}
