package stock

import (
	"context"
	"time"

	"epistock/internal/core/id"
)

// Repository defines persistence for stock items and movements.
// Implementations run against the transaction stored in ctx; every
// multi-item operation must be wrapped in one tx.Manager call.
type Repository interface {
	// LockItem resolves the stock item for key with a row lock, creating
	// the row with zero balance on first use. Concurrent operations on
	// the same key serialize here.
	LockItem(ctx context.Context, key Key) (*Item, error)

	// GetItem returns a stock item by id.
	GetItem(ctx context.Context, itemID id.ID) (*Item, error)

	// GetItemByKey returns the item for key without locking, or a zero
	// balance placeholder when no movement touched the key yet.
	GetItemByKey(ctx context.Context, key Key) (*Item, error)

	// UpdateBalance persists a new balance for the item.
	UpdateBalance(ctx context.Context, itemID id.ID, balance int64, movedAt time.Time) error

	// CreateMovement appends one movement. Movements are never updated
	// or deleted.
	CreateMovement(ctx context.Context, m *Movement) error

	// GetMovement returns a movement by id.
	GetMovement(ctx context.Context, movementID id.ID) (*Movement, error)

	// ListMovementsByNote returns the movements a note produced at
	// conclusion time (reversals excluded), oldest first.
	ListMovementsByNote(ctx context.Context, noteID id.ID) ([]Movement, error)

	// ListMovementsByItem returns movement history for a stock item,
	// newest first.
	ListMovementsByItem(ctx context.Context, itemID id.ID, limit, offset int) ([]Movement, error)

	// ListReversals returns the movements that reference origin as their
	// origin movement.
	ListReversals(ctx context.Context, originMovementID id.ID) ([]Movement, error)

	// ListBalancesByWarehouse returns all non-zero balances for a warehouse.
	ListBalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]Item, error)
}
