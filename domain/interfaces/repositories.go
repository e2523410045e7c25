package interfaces

import (
	"context"

	"pickem/domain/entities"
	"pickem/domain/events"
)

// UserRepository defines the read surface for user progression data
type UserRepository interface {
	// GetByID retrieves a user by ID. Returns nil if the user does not exist.
	GetByID(ctx context.Context, userID int64) (*entities.User, error)

	// GetTier returns the user's current effective tier. Tier is
	// security-relevant and is re-read on every mutating slip call.
	GetTier(ctx context.Context, userID int64) (entities.Tier, error)
}

// SportEventRepository defines the event lookup consumed by slip validation
type SportEventRepository interface {
	// GetByID retrieves a single event. Returns nil if missing.
	GetByID(ctx context.Context, eventID int64) (*entities.SportEvent, error)

	// GetByIDs retrieves a set of events keyed by ID. Missing IDs are
	// simply absent from the map.
	GetByIDs(ctx context.Context, eventIDs []int64) (map[int64]*entities.SportEvent, error)
}

// SlipRepository defines slip and pick persistence
type SlipRepository interface {
	// Create inserts a slip and its picks, assigning IDs
	Create(ctx context.Context, slip *entities.Slip) error

	// GetByID retrieves a slip with its picks. Returns nil if missing.
	GetByID(ctx context.Context, slipID int64) (*entities.Slip, error)

	// ListByUser returns a page of a user's slips with picks
	ListByUser(ctx context.Context, userID int64, q entities.SlipListQuery) ([]*entities.Slip, error)

	// CountByUser returns the total matching the query's status filter
	CountByUser(ctx context.Context, userID int64, status *entities.SlipStatus) (int64, error)

	// Update writes the slip row: name, stake, status, aggregates, lock fields
	Update(ctx context.Context, slip *entities.Slip) error

	// InsertPicks appends picks to an existing slip
	InsertPicks(ctx context.Context, slipID int64, picks []*entities.SlipPick) error

	// DeletePicks removes the given picks from a slip
	DeletePicks(ctx context.Context, slipID int64, pickIDs []int64) error

	// UpdatePickPricing rewrites a pick's server-computed pricing fields
	UpdatePickPricing(ctx context.Context, pick *entities.SlipPick) error

	// Delete removes a slip and cascades its picks
	Delete(ctx context.Context, slipID int64) error
}

// WalletRepository defines wallet access. All mutation goes through the
// version-conditional update.
type WalletRepository interface {
	// GetByUserID retrieves a user's wallet. Returns nil if missing.
	GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error)

	// Create inserts a wallet at version 1
	Create(ctx context.Context, wallet *entities.Wallet) error

	// UpdateWithVersion writes the wallet's balance fields and bumps the
	// version by one, but only if the stored version still equals
	// expectedVersion. Returns false when another writer won the race.
	UpdateWithVersion(ctx context.Context, wallet *entities.Wallet, expectedVersion int64) (bool, error)
}

// TransactionRepository defines the immutable ledger
type TransactionRepository interface {
	// Create inserts a ledger row
	Create(ctx context.Context, tx *entities.Transaction) error

	// GetByIdempotencyKey returns the row for a key, or nil
	GetByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error)

	// GetByWallet returns recent ledger rows for a wallet
	GetByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.Transaction, error)
}

// OddsProvider supplies the freshest known odds for an event market. The
// second return is false when no quote is known, in which case callers fall
// back to the odds stored on the pick.
type OddsProvider interface {
	CurrentOdds(ctx context.Context, eventID int64, market entities.MarketType, selection string) (int, bool, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a transaction and flushes
// them after commit, or discards them on rollback
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush delivers all buffered events
	Flush(ctx context.Context)

	// Discard drops all buffered events
	Discard()
}
