// Package equipment provides the EquipmentType catalog (tipo de EPI).
// An equipment type carries the CA certificate number and the useful life
// used to compute return due dates on deliveries.
package equipment

import (
	"context"

	"github.com/shopspring/decimal"

	"epistock/internal/core/apperror"
	"epistock/internal/core/entity"
)

// EquipmentType represents one kind of protective equipment.
type EquipmentType struct {
	entity.Catalog

	// CANumber is the certificate of approval (CA) registration
	CANumber string `db:"ca_number" json:"caNumber,omitempty"`

	// UsefulLifeDays is how long a delivered unit may stay with an
	// employee before return is due
	UsefulLifeDays int `db:"useful_life_days" json:"usefulLifeDays"`

	// UnitCost is the reference acquisition cost
	UnitCost decimal.Decimal `db:"unit_cost" json:"unitCost"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new EquipmentType.
func New(code, name string, usefulLifeDays int) *EquipmentType {
	return &EquipmentType{
		Catalog:        entity.NewCatalog(code, name),
		UsefulLifeDays: usefulLifeDays,
	}
}

// Validate implements entity.Validatable.
func (e *EquipmentType) Validate(ctx context.Context) error {
	if err := e.Catalog.Validate(ctx); err != nil {
		return err
	}
	if e.UsefulLifeDays <= 0 {
		return apperror.NewValidation("useful life must be positive").
			WithDetail("field", "usefulLifeDays")
	}
	if e.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost must not be negative").
			WithDetail("field", "unitCost")
	}
	return nil
}
