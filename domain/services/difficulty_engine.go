package services

import "math"

// Difficulty engine tuning. The anchor is the implied probability of -110
// odds, the standard juiced line, so a -110 pick scores the base value.
const (
	difficultyAnchor     = 0.5238
	basePointValue       = 10.0
	minDifficulty        = 0.25
	maxDifficulty        = 8.0
	maxPointValue        = 100
	minPointValue        = 1
	maxSlipPointPot      = 500
	maxParlayBonus       = 1.5
	parlayBonusPerDouble = 0.1
)

// DifficultyEngine is the legacy odds-only point engine. It still owns every
// pick's PointValue; the tier engine owns coin cost and display points.
type DifficultyEngine struct {
	odds *OddsConverter
}

// NewDifficultyEngine creates a new difficulty point engine
func NewDifficultyEngine() *DifficultyEngine {
	return &DifficultyEngine{odds: NewOddsConverter()}
}

// DifficultyMultiplier maps an implied probability to a reward multiplier.
// Longshots are compressed with a square-root curve, heavy favorites are
// floored, and the result is hard-clamped to [0.25, 8].
func (e *DifficultyEngine) DifficultyMultiplier(probability float64) float64 {
	p := probability
	if p < 0.01 {
		p = 0.01
	}
	if p > 0.99 {
		p = 0.99
	}

	base := difficultyAnchor / p
	var mult float64
	switch {
	case base > 2:
		mult = 1 + math.Sqrt(base-1)*1.5
	case base < 0.5:
		mult = 0.25 + base*0.5
	default:
		mult = base
	}

	if mult < minDifficulty {
		mult = minDifficulty
	}
	if mult > maxDifficulty {
		mult = maxDifficulty
	}
	return mult
}

// PointValue computes the skill-reward value of a pick from its American
// odds. Invalid odds earn the flat base value.
func (e *DifficultyEngine) PointValue(americanOdds int) int {
	prob := e.odds.ToImpliedProbability(americanOdds)
	if !prob.Valid {
		return int(basePointValue)
	}

	value := math.Round(basePointValue * e.DifficultyMultiplier(prob.Value))
	if value < minPointValue {
		value = minPointValue
	}
	if value > maxPointValue {
		value = maxPointValue
	}
	return int(value)
}

// ParlayBonus rewards multi-pick slips logarithmically, capped at 1.5x
func (e *DifficultyEngine) ParlayBonus(pickCount int) float64 {
	if pickCount <= 1 {
		return 1.0
	}
	bonus := 1 + parlayBonusPerDouble*math.Log2(float64(pickCount))
	if bonus > maxParlayBonus {
		bonus = maxParlayBonus
	}
	return bonus
}

// SlipPointPotential totals the pick point values with the parlay bonus
// applied, capped at 500
func (e *DifficultyEngine) SlipPointPotential(pointValues []int) int {
	var sum float64
	for _, pv := range pointValues {
		sum += float64(pv)
	}

	total := sum * e.ParlayBonus(len(pointValues))
	if total > maxSlipPointPot {
		total = maxSlipPointPot
	}
	return int(math.Round(total))
}
