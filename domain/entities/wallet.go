package entities

import "time"

// Wallet holds a user's coin balances. Version is the optimistic-lock token;
// every successful mutation increments it by exactly one.
type Wallet struct {
	ID              int64      `db:"id"`
	UserID          int64      `db:"user_id"`
	PaidBalance     int64      `db:"paid_balance"`
	BonusBalance    int64      `db:"bonus_balance"`
	LastAllowanceAt *time.Time `db:"last_allowance_at"`
	Version         int64      `db:"version"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// TotalBalance returns the spendable balance across both buckets
func (w *Wallet) TotalBalance() int64 {
	return w.PaidBalance + w.BonusBalance
}
