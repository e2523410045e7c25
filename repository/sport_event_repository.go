package repository

import (
	"context"
	"fmt"

	"pickem/database"
	"pickem/domain/entities"
	"pickem/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type sportEventRepository struct {
	q Queryable
}

// NewSportEventRepository creates a new sport event repository
func NewSportEventRepository(db *database.DB) interfaces.SportEventRepository {
	return &sportEventRepository{q: db.Pool}
}

// newSportEventRepositoryWithTx creates a new sport event repository bound to a transaction
func newSportEventRepositoryWithTx(tx Queryable) interfaces.SportEventRepository {
	return &sportEventRepository{q: tx}
}

// GetByID retrieves a single event. Returns nil if the event does not exist.
func (r *sportEventRepository) GetByID(ctx context.Context, eventID int64) (*entities.SportEvent, error) {
	query := `
		SELECT id, name, league, status, scheduled_at
		FROM sport_events
		WHERE id = $1`

	var event entities.SportEvent
	err := r.q.QueryRow(ctx, query, eventID).Scan(
		&event.ID,
		&event.Name,
		&event.League,
		&event.Status,
		&event.ScheduledAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sport event %d: %w", eventID, err)
	}

	return &event, nil
}

// GetByIDs retrieves a set of events keyed by ID. Missing IDs are simply
// absent from the returned map.
func (r *sportEventRepository) GetByIDs(ctx context.Context, eventIDs []int64) (map[int64]*entities.SportEvent, error) {
	events := make(map[int64]*entities.SportEvent, len(eventIDs))
	if len(eventIDs) == 0 {
		return events, nil
	}

	query := `
		SELECT id, name, league, status, scheduled_at
		FROM sport_events
		WHERE id = ANY($1)`

	rows, err := r.q.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get sport events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event entities.SportEvent
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.League,
			&event.Status,
			&event.ScheduledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sport event: %w", err)
		}
		events[event.ID] = &event
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sport events: %w", err)
	}

	return events, nil
}
