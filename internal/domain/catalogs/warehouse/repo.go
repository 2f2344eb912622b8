package warehouse

import (
	"context"

	"epistock/internal/core/id"
)

// Repository defines persistence for the Warehouse catalog.
type Repository interface {
	Create(ctx context.Context, w *Warehouse) error
	GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error)
	GetByCode(ctx context.Context, code string) (*Warehouse, error)
	Update(ctx context.Context, w *Warehouse) error
	List(ctx context.Context, includeInactive bool) ([]Warehouse, error)
}
