package repository

import (
	"context"
	"fmt"

	"pickem/database"
	"pickem/domain/entities"
	"pickem/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) interfaces.UserRepository {
	return &userRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx Queryable) interfaces.UserRepository {
	return &userRepository{q: tx}
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, username, tier, lifetime_coins_earned, win_streak, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user entities.User
	var tier string
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&tier,
		&user.LifetimeCoinsEarned,
		&user.WinStreak,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	user.Tier = entities.ParseTier(tier)
	return &user, nil
}

// GetTier returns the user's current effective tier. The tier column is
// maintained by the progression service; this read is intentionally not
// cached so a tier drop takes effect on the next request.
func (r *userRepository) GetTier(ctx context.Context, userID int64) (entities.Tier, error) {
	query := `SELECT tier FROM users WHERE id = $1`

	var tier string
	err := r.q.QueryRow(ctx, query, userID).Scan(&tier)
	if err == pgx.ErrNoRows {
		return entities.TierFree, entities.NewNotFoundError("user", userID)
	}
	if err != nil {
		return entities.TierFree, fmt.Errorf("failed to get tier for user %d: %w", userID, err)
	}

	return entities.ParseTier(tier), nil
}
