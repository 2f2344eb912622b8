package dto

import (
	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/deliveries"
)

// IssueDeliveryRequest issues equipment units to an employee.
type IssueDeliveryRequest struct {
	FichaID       string                     `json:"fichaId" binding:"required"`
	WarehouseID   string                     `json:"warehouseId" binding:"required"`
	ResponsibleID string                     `json:"responsibleId" binding:"required"`
	Items         []IssueDeliveryItemRequest `json:"items" binding:"required,min=1,dive"`
}

// IssueDeliveryItemRequest is one requested equipment type.
type IssueDeliveryItemRequest struct {
	EquipmentTypeID string `json:"equipmentTypeId" binding:"required"`
	Quantity        int64  `json:"quantity" binding:"required,gt=0"`
}

// ToInput converts the request to a service input.
func (r *IssueDeliveryRequest) ToInput() (deliveries.IssueInput, error) {
	fichaID, err := id.Parse(r.FichaID)
	if err != nil {
		return deliveries.IssueInput{}, apperror.NewValidation("invalid ficha id")
	}
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return deliveries.IssueInput{}, apperror.NewValidation("invalid warehouse id")
	}
	responsibleID, err := id.Parse(r.ResponsibleID)
	if err != nil {
		return deliveries.IssueInput{}, apperror.NewValidation("invalid responsible id")
	}

	in := deliveries.IssueInput{
		FichaID:       fichaID,
		WarehouseID:   warehouseID,
		ResponsibleID: responsibleID,
	}
	for _, item := range r.Items {
		equipmentTypeID, err := id.Parse(item.EquipmentTypeID)
		if err != nil {
			return deliveries.IssueInput{}, apperror.NewValidation("invalid equipment type id")
		}
		in.Items = append(in.Items, deliveries.IssueItem{
			EquipmentTypeID: equipmentTypeID,
			Quantity:        item.Quantity,
		})
	}
	return in, nil
}

// SignDeliveryRequest records the optional employee signature reference.
type SignDeliveryRequest struct {
	SignatureRef string `json:"signatureRef,omitempty"`
}

// CancelDeliveryRequest carries the cancellation reason.
type CancelDeliveryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReturnDeliveryRequest returns a batch of units.
type ReturnDeliveryRequest struct {
	ItemIDs       []string `json:"itemIds" binding:"required,min=1"`
	Reason        string   `json:"reason,omitempty"`
	ResponsibleID string   `json:"responsibleId" binding:"required"`
}

// ToInput converts the request to a service input.
func (r *ReturnDeliveryRequest) ToInput(deliveryID id.ID) (deliveries.ReturnInput, error) {
	responsibleID, err := id.Parse(r.ResponsibleID)
	if err != nil {
		return deliveries.ReturnInput{}, apperror.NewValidation("invalid responsible id")
	}

	in := deliveries.ReturnInput{
		DeliveryID:    deliveryID,
		Reason:        r.Reason,
		ResponsibleID: responsibleID,
	}
	for _, raw := range r.ItemIDs {
		itemID, err := id.Parse(raw)
		if err != nil {
			return deliveries.ReturnInput{}, apperror.NewValidation("invalid item id").
				WithDetail("item_id", raw)
		}
		in.ItemIDs = append(in.ItemIDs, itemID)
	}
	return in, nil
}
