package deliveries

import (
	"context"
	"time"

	"epistock/internal/core/id"
)

// Repository defines persistence for deliveries and their items.
type Repository interface {
	Create(ctx context.Context, d *Delivery) error

	// GetByID returns the delivery without items.
	GetByID(ctx context.Context, deliveryID id.ID) (*Delivery, error)

	// GetForUpdate returns the delivery with a row lock.
	GetForUpdate(ctx context.Context, deliveryID id.ID) (*Delivery, error)

	Update(ctx context.Context, d *Delivery) error

	// Items
	GetItems(ctx context.Context, deliveryID id.ID) ([]DeliveryItem, error)
	CreateItem(ctx context.Context, item *DeliveryItem) error
	UpdateItem(ctx context.Context, item *DeliveryItem) error

	ListByFicha(ctx context.Context, fichaID id.ID) ([]Delivery, error)

	// HasOverdueItems reports whether the ficha holds at least one unit
	// still COM_COLABORADOR past its due date as of asOf.
	HasOverdueItems(ctx context.Context, fichaID id.ID, asOf time.Time) (bool, error)
}
