package dto

import "epistock/internal/domain/catalogs/warehouse"

// CreateWarehouseRequest registers a storage location.
type CreateWarehouseRequest struct {
	Code        string  `json:"code" binding:"required,max=50"`
	Name        string  `json:"name" binding:"required,max=255"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	w := warehouse.New(r.Code, r.Name)
	w.Address = r.Address
	w.Description = r.Description
	return w
}

// UpdateWarehouseRequest changes mutable warehouse fields.
type UpdateWarehouseRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// Apply copies the provided fields onto the entity.
func (r *UpdateWarehouseRequest) Apply(w *warehouse.Warehouse) {
	if r.Name != nil {
		w.Name = *r.Name
	}
	if r.Address != nil {
		w.Address = r.Address
	}
	if r.Description != nil {
		w.Description = r.Description
	}
	if r.Active != nil {
		w.Active = *r.Active
	}
}

// ListCatalogRequest is the common catalog listing query.
type ListCatalogRequest struct {
	IncludeInactive bool `form:"includeInactive"`
}
