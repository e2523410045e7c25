package entities

// Tier represents a user's access level. Tiers are ordered: a higher tier
// grants every market a lower tier does.
type Tier int

const (
	TierFree Tier = iota
	TierStandard
	TierPremium
	TierElite
)

// String returns the storage representation of the tier
func (t Tier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierStandard:
		return "standard"
	case TierPremium:
		return "premium"
	case TierElite:
		return "elite"
	default:
		return "free"
	}
}

// ParseTier converts a storage representation back to a Tier.
// Unknown values map to TierFree so a bad row can never grant access.
func ParseTier(s string) Tier {
	switch s {
	case "standard":
		return TierStandard
	case "premium":
		return TierPremium
	case "elite":
		return TierElite
	default:
		return TierFree
	}
}

// AtLeast reports whether the tier meets the given requirement
func (t Tier) AtLeast(required Tier) bool {
	return t >= required
}
