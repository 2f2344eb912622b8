package dto

import (
	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/stock"
)

// AdjustmentRequest records a forced balance adjustment.
type AdjustmentRequest struct {
	WarehouseID     string `json:"warehouseId" binding:"required"`
	EquipmentTypeID string `json:"equipmentTypeId" binding:"required"`
	Status          string `json:"status" binding:"required"`
	Quantity        int64  `json:"quantity" binding:"required"`
	ResponsibleID   string `json:"responsibleId" binding:"required"`
}

// ToInput converts the request to a service input.
func (r *AdjustmentRequest) ToInput() (stock.AdjustmentInput, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return stock.AdjustmentInput{}, apperror.NewValidation("invalid warehouse id")
	}
	equipmentTypeID, err := id.Parse(r.EquipmentTypeID)
	if err != nil {
		return stock.AdjustmentInput{}, apperror.NewValidation("invalid equipment type id")
	}
	responsibleID, err := id.Parse(r.ResponsibleID)
	if err != nil {
		return stock.AdjustmentInput{}, apperror.NewValidation("invalid responsible id")
	}
	status := stock.Status(r.Status)
	if !status.Valid() {
		return stock.AdjustmentInput{}, apperror.NewValidation("invalid stock status").
			WithDetail("status", r.Status)
	}
	return stock.AdjustmentInput{
		WarehouseID:     warehouseID,
		EquipmentTypeID: equipmentTypeID,
		Status:          status,
		Quantity:        r.Quantity,
		ResponsibleID:   responsibleID,
	}, nil
}

// ReverseMovementRequest reverses a single posted movement.
type ReverseMovementRequest struct {
	ResponsibleID string `json:"responsibleId" binding:"required"`
}

// BalanceRequest identifies one balance cell.
type BalanceRequest struct {
	WarehouseID     string `form:"warehouseId" binding:"required"`
	EquipmentTypeID string `form:"equipmentTypeId" binding:"required"`
	Status          string `form:"status" binding:"required"`
}

// ToKey converts the request to a stock key.
func (r *BalanceRequest) ToKey() (stock.Key, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return stock.Key{}, apperror.NewValidation("invalid warehouse id")
	}
	equipmentTypeID, err := id.Parse(r.EquipmentTypeID)
	if err != nil {
		return stock.Key{}, apperror.NewValidation("invalid equipment type id")
	}
	status := stock.Status(r.Status)
	if !status.Valid() {
		return stock.Key{}, apperror.NewValidation("invalid stock status").
			WithDetail("status", r.Status)
	}
	return stock.Key{
		WarehouseID:     warehouseID,
		EquipmentTypeID: equipmentTypeID,
		Status:          status,
	}, nil
}
