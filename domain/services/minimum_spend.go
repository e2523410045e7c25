package services

// minCoinSpendByPicks holds the required coin spend by pick count. Counts at
// or above the last bucket use the last bucket.
var minCoinSpendByPicks = [...]int64{
	0,   // unused (0 picks)
	0,   // 1 pick
	80,  // 2 picks
	110, // 3 picks
	140, // 4 picks
	170, // 5 picks
	200, // 6 picks
	230, // 7 picks
	260, // 8+ picks
}

// SpendCheck is the result of a minimum-spend validation
type SpendCheck struct {
	Required      int64
	TotalCoinCost int64
	OK            bool
	Shortfall     int64
}

// MinimumCoinSpend returns the required spend for a pick count
func MinimumCoinSpend(pickCount int) int64 {
	if pickCount <= 0 {
		return 0
	}
	if pickCount >= len(minCoinSpendByPicks) {
		pickCount = len(minCoinSpendByPicks) - 1
	}
	return minCoinSpendByPicks[pickCount]
}

// ValidateMinimumSpend checks a slip's total coin cost against the table
func ValidateMinimumSpend(pickCount int, totalCoinCost int64) SpendCheck {
	required := MinimumCoinSpend(pickCount)
	shortfall := required - totalCoinCost
	if shortfall < 0 {
		shortfall = 0
	}
	return SpendCheck{
		Required:      required,
		TotalCoinCost: totalCoinCost,
		OK:            totalCoinCost >= required,
		Shortfall:     shortfall,
	}
}
