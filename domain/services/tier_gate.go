package services

import "pickem/domain/entities"

// TierGate maps market types to the tier required to pick them and enforces
// access. Unlike pricing there is no safe default here: the stake is real
// currency, so a gate failure is a loud typed error.
type TierGate struct{}

// NewTierGate creates a new tier access gate
func NewTierGate() *TierGate {
	return &TierGate{}
}

// RequiredTier returns the tier needed to place a pick on a market. The
// switch is exhaustive over the closed enum; an unmapped market gates at the
// most restrictive table entry rather than falling open.
func (g *TierGate) RequiredTier(market entities.MarketType) entities.Tier {
	switch market {
	case entities.MarketMoneyline:
		return entities.TierFree
	case entities.MarketSpread, entities.MarketTotal:
		return entities.TierStandard
	case entities.MarketProp:
		return entities.TierPremium
	default:
		return entities.TierPremium
	}
}

// IsLocked reports whether a user's tier fails the requirement
func (g *TierGate) IsLocked(required, userTier entities.Tier) bool {
	return userTier < required
}

// CheckAccess validates a user's tier against a market, returning a
// TierLockedError when the market is out of reach
func (g *TierGate) CheckAccess(market entities.MarketType, userTier entities.Tier) error {
	required := g.RequiredTier(market)
	if g.IsLocked(required, userTier) {
		return &entities.TierLockedError{
			Market:       market,
			RequiredTier: required,
			UserTier:     userTier,
		}
	}
	return nil
}
