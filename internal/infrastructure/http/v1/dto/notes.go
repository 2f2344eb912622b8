package dto

import (
	"github.com/shopspring/decimal"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/notes"
)

// --- Request DTOs ---

// CreateNoteRequest creates a draft movement note.
type CreateNoteRequest struct {
	NoteType               string            `json:"noteType" binding:"required"`
	OriginWarehouseID      string            `json:"originWarehouseId,omitempty"`
	DestinationWarehouseID string            `json:"destinationWarehouseId,omitempty"`
	ResponsibleID          string            `json:"responsibleId" binding:"required"`
	DocumentRef            string            `json:"documentRef,omitempty"`
	Observations           string            `json:"observations,omitempty"`
	Items                  []NoteItemRequest `json:"items,omitempty"`
}

// NoteItemRequest is one note line in a request.
type NoteItemRequest struct {
	EquipmentTypeID string          `json:"equipmentTypeId" binding:"required"`
	Quantity        int64           `json:"quantity" binding:"required"`
	UnitCost        decimal.Decimal `json:"unitCost,omitempty"`
}

// ToEntity converts the request to a domain note.
func (r *CreateNoteRequest) ToEntity() (*notes.Note, error) {
	responsibleID, err := id.Parse(r.ResponsibleID)
	if err != nil {
		return nil, apperror.NewValidation("invalid responsible id")
	}

	n := notes.NewNote(notes.NoteType(r.NoteType), responsibleID)
	n.DocumentRef = r.DocumentRef
	n.Observations = r.Observations

	if r.OriginWarehouseID != "" {
		originID, err := id.Parse(r.OriginWarehouseID)
		if err != nil {
			return nil, apperror.NewValidation("invalid origin warehouse id")
		}
		n.OriginWarehouseID = &originID
	}
	if r.DestinationWarehouseID != "" {
		destID, err := id.Parse(r.DestinationWarehouseID)
		if err != nil {
			return nil, apperror.NewValidation("invalid destination warehouse id")
		}
		n.DestinationWarehouseID = &destID
	}

	for _, item := range r.Items {
		equipmentTypeID, err := id.Parse(item.EquipmentTypeID)
		if err != nil {
			return nil, apperror.NewValidation("invalid equipment type id")
		}
		n.Items = append(n.Items, notes.NoteItem{
			EquipmentTypeID: equipmentTypeID,
			Quantity:        item.Quantity,
			UnitCost:        item.UnitCost,
		})
	}
	return n, nil
}

// AddNoteItemRequest appends an item to a draft note.
type AddNoteItemRequest struct {
	EquipmentTypeID string          `json:"equipmentTypeId" binding:"required"`
	Quantity        int64           `json:"quantity" binding:"required"`
	UnitCost        decimal.Decimal `json:"unitCost,omitempty"`
}

// ToEntity converts the request to a note item.
func (r *AddNoteItemRequest) ToEntity() (notes.NoteItem, error) {
	equipmentTypeID, err := id.Parse(r.EquipmentTypeID)
	if err != nil {
		return notes.NoteItem{}, apperror.NewValidation("invalid equipment type id")
	}
	return notes.NoteItem{
		EquipmentTypeID: equipmentTypeID,
		Quantity:        r.Quantity,
		UnitCost:        r.UnitCost,
	}, nil
}

// CancelNoteRequest carries the optional cancellation reason.
type CancelNoteRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ListNotesRequest filters the note listing.
type ListNotesRequest struct {
	PaginationRequest
	NoteType    string `form:"noteType"`
	Status      string `form:"status"`
	WarehouseID string `form:"warehouseId"`
}

// ToFilter converts the request to a repository filter.
func (r *ListNotesRequest) ToFilter() (notes.ListFilter, error) {
	r.Defaults()
	filter := notes.ListFilter{
		Limit:  r.PageSize,
		Offset: r.Offset(),
	}
	if r.NoteType != "" {
		noteType := notes.NoteType(r.NoteType)
		filter.Type = &noteType
	}
	if r.Status != "" {
		status := notes.NoteStatus(r.Status)
		filter.Status = &status
	}
	if r.WarehouseID != "" {
		warehouseID, err := id.Parse(r.WarehouseID)
		if err != nil {
			return filter, apperror.NewValidation("invalid warehouse id")
		}
		filter.WarehouseID = &warehouseID
	}
	return filter, nil
}
