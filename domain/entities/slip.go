package entities

import "time"

// SlipStatus represents the lifecycle state of a slip
type SlipStatus string

const (
	SlipStatusDraft   SlipStatus = "draft"
	SlipStatusPending SlipStatus = "pending"
	SlipStatusActive  SlipStatus = "active"
	SlipStatusWon     SlipStatus = "won"
	SlipStatusLost    SlipStatus = "lost"
	SlipStatusVoid    SlipStatus = "void"
)

// IsValid reports whether the status is a known slip status
func (s SlipStatus) IsValid() bool {
	switch s {
	case SlipStatusDraft, SlipStatusPending, SlipStatusActive, SlipStatusWon, SlipStatusLost, SlipStatusVoid:
		return true
	default:
		return false
	}
}

const (
	// MaxPicksPerSlip is the validation limit for submissions
	MaxPicksPerSlip = 8
	// MaxStoredPicks is the hard storage cap per slip
	MaxStoredPicks = 10
)

// Slip is a user's multi-pick wager. Aggregate fields are recomputed server
// side from the pick set on every mutation; clients never write them.
type Slip struct {
	ID              int64      `db:"id"`
	UserID          int64      `db:"user_id"`
	Name            string     `db:"name"`
	Status          SlipStatus `db:"status"`
	Picks           []*SlipPick
	TotalCoinCost   int64      `db:"total_coin_cost"`
	MinCoinSpend    int64      `db:"min_coin_spend"`
	CoinSpendMet    bool       `db:"coin_spend_met"`
	PointPotential  int        `db:"point_potential"`
	TotalOdds       float64    `db:"total_odds"`
	Stake           int64      `db:"stake"`
	PotentialPayout int64      `db:"potential_payout"`
	LockedAt        *time.Time `db:"locked_at"`
	SettledAt       *time.Time `db:"settled_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// IsMutable reports whether the slip can still be edited. Only drafts are
// mutable; everything after lock belongs to settlement.
func (s *Slip) IsMutable() bool {
	return s.Status == SlipStatusDraft
}

// FindPick returns the stored pick with the given ID, or nil
func (s *Slip) FindPick(pickID int64) *SlipPick {
	for _, p := range s.Picks {
		if p.ID == pickID {
			return p
		}
	}
	return nil
}
