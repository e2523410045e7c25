package services

import (
	"math"
	"testing"

	"pickem/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestPricingEngine_ClampProbability(t *testing.T) {
	engine := NewPricingEngine()

	t.Run("in-range values pass through", func(t *testing.T) {
		p, valid := engine.ClampProbability(0.5)
		assert.True(t, valid)
		assert.Equal(t, 0.5, p)
	})

	t.Run("edges clamp to the calibrated floor and ceiling", func(t *testing.T) {
		p, valid := engine.ClampProbability(0)
		assert.True(t, valid)
		assert.Equal(t, probabilityFloor, p)

		p, valid = engine.ClampProbability(1)
		assert.True(t, valid)
		assert.Equal(t, probabilityCeil, p)
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, in := range []float64{0, 0.001, 0.02, 0.5, 0.98, 0.999, 1} {
			once, _ := engine.ClampProbability(in)
			twice, valid := engine.ClampProbability(once)
			assert.True(t, valid)
			assert.Equal(t, once, twice)
		}
	})

	t.Run("garbage values fall back to the mid-point", func(t *testing.T) {
		for _, in := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.5, 1.5} {
			p, valid := engine.ClampProbability(in)
			assert.False(t, valid)
			assert.Equal(t, NeutralProbability, p)
		}
	})
}

func TestPricingEngine_TierMultiplier(t *testing.T) {
	engine := NewPricingEngine()

	assert.Equal(t, 1.0, engine.TierMultiplier(entities.TierFree))
	assert.Equal(t, 1.15, engine.TierMultiplier(entities.TierStandard))
	assert.Equal(t, 1.3, engine.TierMultiplier(entities.TierPremium))
	assert.Equal(t, 1.5, engine.TierMultiplier(entities.TierElite))
	assert.Equal(t, 1.0, engine.TierMultiplier(entities.Tier(42)))
}

func TestPricingEngine_MarketModifier(t *testing.T) {
	engine := NewPricingEngine()

	assert.Equal(t, 1.0, engine.MarketModifier(entities.MarketMoneyline))
	assert.Equal(t, 0.85, engine.MarketModifier(entities.MarketSpread))
	assert.Equal(t, 0.90, engine.MarketModifier(entities.MarketTotal))
	assert.Equal(t, 0.90, engine.MarketModifier(entities.MarketProp))
	assert.Equal(t, 1.0, engine.MarketModifier(entities.MarketType("exotic")))
}

func TestPricingEngine_UnderdogBonus(t *testing.T) {
	engine := NewPricingEngine()

	tests := []struct {
		odds  int
		bonus int
	}{
		{-200, 0},
		{100, 0},
		{299, 0},
		{300, 2},
		{399, 2},
		{400, 3},
		{499, 3},
		{500, 4},
		{5000, 4},
		{0, 0},
		{100000, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.bonus, engine.UnderdogBonus(tt.odds), "odds %d", tt.odds)
	}
}

func TestPricingEngine_CalculateCoinCost(t *testing.T) {
	engine := NewPricingEngine()

	t.Run("coin flip for a free user", func(t *testing.T) {
		result := engine.CalculateCoinCost(0.5, entities.TierFree)
		assert.True(t, result.Valid)
		assert.Equal(t, int64(74), result.CoinCost)
	})

	t.Run("coin flip for an elite user", func(t *testing.T) {
		result := engine.CalculateCoinCost(0.5, entities.TierElite)
		assert.True(t, result.Valid)
		assert.Equal(t, int64(111), result.CoinCost)
	})

	t.Run("favorites cost more than longshots", func(t *testing.T) {
		low := engine.CalculateCoinCost(0.2, entities.TierFree)
		high := engine.CalculateCoinCost(0.8, entities.TierFree)
		assert.Greater(t, high.CoinCost, low.CoinCost)
	})

	t.Run("monotonically non-decreasing in the probability", func(t *testing.T) {
		prev := int64(0)
		for _, p := range []float64{0, 0.02, 0.1, 0.25, 0.4, 0.5, 0.6, 0.75, 0.9, 0.98, 1} {
			cost := engine.CalculateCoinCost(p, entities.TierStandard).CoinCost
			assert.GreaterOrEqual(t, cost, prev, "cost dropped at p=%.2f", p)
			prev = cost
		}
	})

	t.Run("capped at the absolute maximum", func(t *testing.T) {
		for _, tier := range []entities.Tier{entities.TierFree, entities.TierStandard, entities.TierPremium, entities.TierElite} {
			result := engine.CalculateCoinCost(0.98, tier)
			assert.LessOrEqual(t, result.CoinCost, int64(coinCostCap))
		}
	})

	t.Run("garbage probability prices at the mid-point", func(t *testing.T) {
		result := engine.CalculateCoinCost(math.NaN(), entities.TierFree)
		assert.False(t, result.Valid)
		assert.Equal(t, int64(74), result.CoinCost)
	})
}

func TestPricingEngine_CalculatePoints(t *testing.T) {
	engine := NewPricingEngine()

	t.Run("long moneyline underdog with bonus", func(t *testing.T) {
		result := engine.CalculatePoints(0.2, 400, entities.MarketMoneyline)
		assert.True(t, result.Valid)
		assert.Equal(t, 3, result.UnderdogBonus)
		assert.Equal(t, 28, result.Points)
	})

	t.Run("underdogs earn more than favorites", func(t *testing.T) {
		dog := engine.CalculatePoints(0.2, 0, entities.MarketMoneyline)
		fav := engine.CalculatePoints(0.8, 0, entities.MarketMoneyline)
		assert.Greater(t, dog.Points, fav.Points)
	})

	t.Run("monotonically non-increasing in the probability", func(t *testing.T) {
		prev := engine.CalculatePoints(0, 0, entities.MarketMoneyline).Points
		for _, p := range []float64{0.02, 0.1, 0.25, 0.4, 0.5, 0.6, 0.75, 0.9, 0.98, 1} {
			points := engine.CalculatePoints(p, 0, entities.MarketMoneyline).Points
			assert.LessOrEqual(t, points, prev, "points rose at p=%.2f", p)
			prev = points
		}
	})

	t.Run("bonus cannot push past the ceiling", func(t *testing.T) {
		result := engine.CalculatePoints(0.02, 5000, entities.MarketMoneyline)
		assert.Equal(t, 4, result.UnderdogBonus)
		assert.Equal(t, int(pointsMax), result.Points)
	})

	t.Run("market modifier cannot drop below the floor", func(t *testing.T) {
		result := engine.CalculatePoints(0.98, 0, entities.MarketSpread)
		assert.Equal(t, int(pointsMin), result.Points)
	})
}
