package entities

import "time"

// User carries the identity and progression fields the engine reads. The
// effective tier is derived from lifetime coins earned and win streak by an
// external progression service; the engine only consumes the result and
// re-reads it on every slip mutation.
type User struct {
	ID                  int64     `db:"id"`
	Username            string    `db:"username"`
	Tier                Tier      `db:"tier"`
	LifetimeCoinsEarned int64     `db:"lifetime_coins_earned"`
	WinStreak           int       `db:"win_streak"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}
