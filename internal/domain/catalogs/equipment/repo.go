package equipment

import (
	"context"

	"epistock/internal/core/id"
)

// Repository defines persistence for the EquipmentType catalog.
type Repository interface {
	Create(ctx context.Context, e *EquipmentType) error
	GetByID(ctx context.Context, equipmentTypeID id.ID) (*EquipmentType, error)
	GetByCode(ctx context.Context, code string) (*EquipmentType, error)
	Update(ctx context.Context, e *EquipmentType) error
	List(ctx context.Context, includeInactive bool) ([]EquipmentType, error)
}
