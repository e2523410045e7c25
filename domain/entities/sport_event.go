package entities

import "time"

// EventStatus represents the lifecycle state of a sports event
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusLive      EventStatus = "live"
	EventStatusFinal     EventStatus = "final"
	EventStatusCancelled EventStatus = "cancelled"
)

// SportEvent is the slice of an event the engine needs: enough to decide
// whether a pick on it is still acceptable. Scores and settlement live
// elsewhere.
type SportEvent struct {
	ID          int64       `db:"id"`
	Name        string      `db:"name"`
	League      string      `db:"league"`
	Status      EventStatus `db:"status"`
	ScheduledAt time.Time   `db:"scheduled_at"`
}

// IsBiddable reports whether picks may still be placed on this event
func (e *SportEvent) IsBiddable(now time.Time) bool {
	return e.Status == EventStatusScheduled && e.ScheduledAt.After(now)
}
