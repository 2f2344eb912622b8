package dto

import (
	"github.com/shopspring/decimal"

	"epistock/internal/domain/catalogs/equipment"
)

// CreateEquipmentTypeRequest registers an equipment type.
type CreateEquipmentTypeRequest struct {
	Code           string          `json:"code" binding:"required,max=50"`
	Name           string          `json:"name" binding:"required,max=255"`
	CANumber       string          `json:"caNumber,omitempty"`
	UsefulLifeDays int             `json:"usefulLifeDays" binding:"required,gt=0"`
	UnitCost       decimal.Decimal `json:"unitCost,omitempty"`
	Description    *string         `json:"description,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateEquipmentTypeRequest) ToEntity() *equipment.EquipmentType {
	e := equipment.New(r.Code, r.Name, r.UsefulLifeDays)
	e.CANumber = r.CANumber
	e.UnitCost = r.UnitCost
	e.Description = r.Description
	return e
}

// UpdateEquipmentTypeRequest changes mutable equipment type fields.
type UpdateEquipmentTypeRequest struct {
	Name           *string          `json:"name,omitempty" binding:"omitempty,max=255"`
	CANumber       *string          `json:"caNumber,omitempty"`
	UsefulLifeDays *int             `json:"usefulLifeDays,omitempty" binding:"omitempty,gt=0"`
	UnitCost       *decimal.Decimal `json:"unitCost,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Active         *bool            `json:"active,omitempty"`
}

// Apply copies the provided fields onto the entity.
func (r *UpdateEquipmentTypeRequest) Apply(e *equipment.EquipmentType) {
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.CANumber != nil {
		e.CANumber = *r.CANumber
	}
	if r.UsefulLifeDays != nil {
		e.UsefulLifeDays = *r.UsefulLifeDays
	}
	if r.UnitCost != nil {
		e.UnitCost = *r.UnitCost
	}
	if r.Description != nil {
		e.Description = r.Description
	}
	if r.Active != nil {
		e.Active = *r.Active
	}
}
