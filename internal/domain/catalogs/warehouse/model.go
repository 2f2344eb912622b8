// Package warehouse provides the Warehouse catalog (almoxarifado).
// Warehouses are the physical locations PPE stock is kept in.
package warehouse

import (
	"context"

	"epistock/internal/core/entity"
)

// Warehouse represents a storage location for PPE stock.
type Warehouse struct {
	entity.Catalog

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new Warehouse.
func New(code, name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}
