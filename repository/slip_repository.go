package repository

import (
	"context"
	"fmt"

	"pickem/database"
	"pickem/domain/entities"
	"pickem/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type slipRepository struct {
	q Queryable
}

// NewSlipRepository creates a new slip repository
func NewSlipRepository(db *database.DB) interfaces.SlipRepository {
	return &slipRepository{q: db.Pool}
}

// newSlipRepositoryWithTx creates a new slip repository bound to a transaction
func newSlipRepositoryWithTx(tx Queryable) interfaces.SlipRepository {
	return &slipRepository{q: tx}
}

const slipColumns = `id, user_id, name, status, total_coin_cost, min_coin_spend, coin_spend_met,
		point_potential, total_odds, stake, potential_payout, locked_at, settled_at, created_at, updated_at`

const pickColumns = `id, slip_id, event_id, market_type, selection, line, american_odds,
		decimal_odds, point_value, coin_cost, required_tier, status, created_at`

// Create inserts a slip and its picks, assigning IDs
func (r *slipRepository) Create(ctx context.Context, slip *entities.Slip) error {
	query := `
		INSERT INTO slips (user_id, name, status, total_coin_cost, min_coin_spend, coin_spend_met,
			point_potential, total_odds, stake, potential_payout)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		slip.UserID,
		slip.Name,
		slip.Status,
		slip.TotalCoinCost,
		slip.MinCoinSpend,
		slip.CoinSpendMet,
		slip.PointPotential,
		slip.TotalOdds,
		slip.Stake,
		slip.PotentialPayout,
	).Scan(&slip.ID, &slip.CreatedAt, &slip.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create slip for user %d: %w", slip.UserID, err)
	}

	return r.InsertPicks(ctx, slip.ID, slip.Picks)
}

// GetByID retrieves a slip with its picks. Returns nil if missing.
func (r *slipRepository) GetByID(ctx context.Context, slipID int64) (*entities.Slip, error) {
	query := `SELECT ` + slipColumns + ` FROM slips WHERE id = $1`

	slip, err := scanSlip(r.q.QueryRow(ctx, query, slipID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slip %d: %w", slipID, err)
	}

	if err := r.loadPicks(ctx, []*entities.Slip{slip}); err != nil {
		return nil, err
	}

	return slip, nil
}

// ListByUser returns a page of a user's slips with their picks
func (r *slipRepository) ListByUser(ctx context.Context, userID int64, q entities.SlipListQuery) ([]*entities.Slip, error) {
	q.Normalize()

	orderBy := "created_at DESC"
	if q.SortBy == entities.SlipSortLockedAt {
		orderBy = "locked_at DESC NULLS LAST"
	}

	args := []any{userID}
	where := "user_id = $1"
	if q.Status != nil {
		args = append(args, *q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, q.PageSize, q.Offset())

	query := fmt.Sprintf(`SELECT %s FROM slips WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		slipColumns, where, orderBy, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list slips for user %d: %w", userID, err)
	}
	defer rows.Close()

	var slips []*entities.Slip
	for rows.Next() {
		slip, err := scanSlip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slip: %w", err)
		}
		slips = append(slips, slip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slips: %w", err)
	}

	if err := r.loadPicks(ctx, slips); err != nil {
		return nil, err
	}

	return slips, nil
}

// CountByUser returns the total number of slips matching the status filter
func (r *slipRepository) CountByUser(ctx context.Context, userID int64, status *entities.SlipStatus) (int64, error) {
	var count int64
	var err error
	if status != nil {
		err = r.q.QueryRow(ctx, `SELECT COUNT(*) FROM slips WHERE user_id = $1 AND status = $2`, userID, *status).Scan(&count)
	} else {
		err = r.q.QueryRow(ctx, `SELECT COUNT(*) FROM slips WHERE user_id = $1`, userID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count slips for user %d: %w", userID, err)
	}
	return count, nil
}

// Update writes the slip row: name, stake, status, aggregates and lock fields
func (r *slipRepository) Update(ctx context.Context, slip *entities.Slip) error {
	query := `
		UPDATE slips
		SET name = $1, status = $2, total_coin_cost = $3, min_coin_spend = $4, coin_spend_met = $5,
			point_potential = $6, total_odds = $7, stake = $8, potential_payout = $9,
			locked_at = $10, settled_at = $11, updated_at = now()
		WHERE id = $12`

	tag, err := r.q.Exec(ctx, query,
		slip.Name,
		slip.Status,
		slip.TotalCoinCost,
		slip.MinCoinSpend,
		slip.CoinSpendMet,
		slip.PointPotential,
		slip.TotalOdds,
		slip.Stake,
		slip.PotentialPayout,
		slip.LockedAt,
		slip.SettledAt,
		slip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update slip %d: %w", slip.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update slip %d: %w", slip.ID, entities.NewNotFoundError("slip", slip.ID))
	}

	return nil
}

// InsertPicks appends picks to an existing slip, assigning IDs
func (r *slipRepository) InsertPicks(ctx context.Context, slipID int64, picks []*entities.SlipPick) error {
	query := `
		INSERT INTO slip_picks (slip_id, event_id, market_type, selection, line, american_odds,
			decimal_odds, point_value, coin_cost, required_tier, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	for _, pick := range picks {
		err := r.q.QueryRow(ctx, query,
			slipID,
			pick.EventID,
			pick.MarketType,
			pick.Selection,
			pick.Line,
			pick.AmericanOdds,
			pick.DecimalOdds,
			pick.PointValue,
			pick.CoinCost,
			pick.RequiredTier.String(),
			pick.Status,
		).Scan(&pick.ID, &pick.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert pick for slip %d: %w", slipID, err)
		}
		pick.SlipID = slipID
	}

	return nil
}

// DeletePicks removes the given picks from a slip. The slip ID guard keeps a
// caller from deleting another slip's picks by ID.
func (r *slipRepository) DeletePicks(ctx context.Context, slipID int64, pickIDs []int64) error {
	if len(pickIDs) == 0 {
		return nil
	}

	_, err := r.q.Exec(ctx, `DELETE FROM slip_picks WHERE slip_id = $1 AND id = ANY($2)`, slipID, pickIDs)
	if err != nil {
		return fmt.Errorf("failed to delete picks from slip %d: %w", slipID, err)
	}

	return nil
}

// UpdatePickPricing rewrites a pick's server-computed pricing fields
func (r *slipRepository) UpdatePickPricing(ctx context.Context, pick *entities.SlipPick) error {
	query := `
		UPDATE slip_picks
		SET american_odds = $1, decimal_odds = $2, point_value = $3, coin_cost = $4, required_tier = $5
		WHERE id = $6`

	_, err := r.q.Exec(ctx, query,
		pick.AmericanOdds,
		pick.DecimalOdds,
		pick.PointValue,
		pick.CoinCost,
		pick.RequiredTier.String(),
		pick.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pricing for pick %d: %w", pick.ID, err)
	}

	return nil
}

// Delete removes a slip; its picks cascade
func (r *slipRepository) Delete(ctx context.Context, slipID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM slips WHERE id = $1`, slipID)
	if err != nil {
		return fmt.Errorf("failed to delete slip %d: %w", slipID, err)
	}
	return nil
}

// loadPicks attaches picks to the given slips in one query
func (r *slipRepository) loadPicks(ctx context.Context, slips []*entities.Slip) error {
	if len(slips) == 0 {
		return nil
	}

	byID := make(map[int64]*entities.Slip, len(slips))
	slipIDs := make([]int64, 0, len(slips))
	for _, slip := range slips {
		byID[slip.ID] = slip
		slipIDs = append(slipIDs, slip.ID)
	}

	query := `SELECT ` + pickColumns + ` FROM slip_picks WHERE slip_id = ANY($1) ORDER BY id`

	rows, err := r.q.Query(ctx, query, slipIDs)
	if err != nil {
		return fmt.Errorf("failed to load picks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pick entities.SlipPick
		var tier string
		err := rows.Scan(
			&pick.ID,
			&pick.SlipID,
			&pick.EventID,
			&pick.MarketType,
			&pick.Selection,
			&pick.Line,
			&pick.AmericanOdds,
			&pick.DecimalOdds,
			&pick.PointValue,
			&pick.CoinCost,
			&tier,
			&pick.Status,
			&pick.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan pick: %w", err)
		}
		pick.RequiredTier = entities.ParseTier(tier)
		byID[pick.SlipID].Picks = append(byID[pick.SlipID].Picks, &pick)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate picks: %w", err)
	}

	return nil
}

func scanSlip(row pgx.Row) (*entities.Slip, error) {
	var slip entities.Slip
	err := row.Scan(
		&slip.ID,
		&slip.UserID,
		&slip.Name,
		&slip.Status,
		&slip.TotalCoinCost,
		&slip.MinCoinSpend,
		&slip.CoinSpendMet,
		&slip.PointPotential,
		&slip.TotalOdds,
		&slip.Stake,
		&slip.PotentialPayout,
		&slip.LockedAt,
		&slip.SettledAt,
		&slip.CreatedAt,
		&slip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slip, nil
}
