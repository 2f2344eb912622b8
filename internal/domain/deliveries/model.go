// Package deliveries provides the equipment issuance lifecycle: a
// delivery (entrega) hands individual PPE units to an employee and each
// unit is tracked until it is returned or cancelled.
package deliveries

import (
	"time"

	"epistock/internal/core/apperror"
	"epistock/internal/core/entity"
	"epistock/internal/core/id"
)

// DeliveryStatus is the document lifecycle state.
// PENDENTE_ASSINATURA -> ASSINADA -> CANCELADA (cancel is reachable from
// either prior state). "Fully returned" is computed from the items, never
// stored.
type DeliveryStatus string

const (
	StatusPendenteAssinatura DeliveryStatus = "PENDENTE_ASSINATURA"
	StatusAssinada           DeliveryStatus = "ASSINADA"
	StatusCancelada          DeliveryStatus = "CANCELADA"
)

// ItemStatus is the per-unit possession state. COM_COLABORADOR is entered
// exactly once, at issue time.
type ItemStatus string

const (
	ItemComColaborador ItemStatus = "COM_COLABORADOR"
	ItemDevolvido      ItemStatus = "DEVOLVIDO"
	ItemCancelado      ItemStatus = "CANCELADO"
)

// Delivery is the issuance document.
type Delivery struct {
	entity.Base

	// Number is auto-generated ("ENT-2026-00042")
	Number string `db:"number" json:"number"`

	FichaID       id.ID `db:"ficha_id" json:"fichaId"`
	WarehouseID   id.ID `db:"warehouse_id" json:"warehouseId"`
	ResponsibleID id.ID `db:"responsible_id" json:"responsibleId"`

	Status DeliveryStatus `db:"status" json:"status"`

	SignatureRef *string    `db:"signature_ref" json:"signatureRef,omitempty"`
	SignedAt     *time.Time `db:"signed_at" json:"signedAt,omitempty"`

	CancelReason *string    `db:"cancel_reason" json:"cancelReason,omitempty"`
	CancelledAt  *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`

	// Items is one row per physical unit, never merged
	Items []DeliveryItem `db:"-" json:"items"`
}

// DeliveryItem tracks one physical unit issued to the employee.
type DeliveryItem struct {
	ID         id.ID `db:"id" json:"id"`
	DeliveryID id.ID `db:"delivery_id" json:"deliveryId"`

	// SourceStockItemID is the DISPONIVEL stock item the unit left
	SourceStockItemID id.ID `db:"source_stock_item_id" json:"sourceStockItemId"`

	EquipmentTypeID id.ID `db:"equipment_type_id" json:"equipmentTypeId"`

	// IssueMovementID is the SAIDA_ENTREGA ledger entry that issued the
	// unit; cancellation reverses it
	IssueMovementID id.ID `db:"issue_movement_id" json:"issueMovementId"`

	// Quantity is always 1; units are tracked individually
	Quantity int64 `db:"quantity" json:"quantity"`

	Status ItemStatus `db:"status" json:"status"`

	// ReturnDueDate = issue date + equipmentType.UsefulLifeDays
	ReturnDueDate time.Time `db:"return_due_date" json:"returnDueDate"`

	ReturnedAt   *time.Time `db:"returned_at" json:"returnedAt,omitempty"`
	ReturnReason *string    `db:"return_reason" json:"returnReason,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewDelivery creates a delivery pending signature.
func NewDelivery(fichaID, warehouseID, responsibleID id.ID) *Delivery {
	return &Delivery{
		Base:          entity.NewBase(),
		FichaID:       fichaID,
		WarehouseID:   warehouseID,
		ResponsibleID: responsibleID,
		Status:        StatusPendenteAssinatura,
		Items:         make([]DeliveryItem, 0),
	}
}

// CanSign returns an error unless the delivery is awaiting signature.
func (d *Delivery) CanSign() error {
	switch d.Status {
	case StatusPendenteAssinatura:
		return nil
	case StatusAssinada:
		return apperror.NewBusinessRule("delivery is already signed").
			WithDetail("delivery_id", d.ID.String())
	default:
		return apperror.NewBusinessRule("delivery is cancelled").
			WithDetail("delivery_id", d.ID.String())
	}
}

// MarkSigned records the signature.
func (d *Delivery) MarkSigned(at time.Time, signatureRef string) {
	d.Status = StatusAssinada
	d.SignedAt = &at
	if signatureRef != "" {
		d.SignatureRef = &signatureRef
	}
	d.Touch()
}

// MarkCancelled flips the delivery into its terminal state.
func (d *Delivery) MarkCancelled(at time.Time, reason string) {
	d.Status = StatusCancelada
	d.CancelledAt = &at
	if reason != "" {
		d.CancelReason = &reason
	}
	d.Touch()
}

// FullyReturned reports whether no unit is with the employee anymore.
// Derived on read; there is no stored terminal "returned" state.
func (d *Delivery) FullyReturned() bool {
	if len(d.Items) == 0 {
		return false
	}
	for _, item := range d.Items {
		if item.Status == ItemComColaborador {
			return false
		}
	}
	return true
}

// DevolucaoPendente reports whether the delivery holds at least one
// overdue unit.
func (d *Delivery) DevolucaoPendente(now time.Time) bool {
	for _, item := range d.Items {
		if item.Overdue(now) {
			return true
		}
	}
	return false
}

// Overdue reports whether the unit is still with the employee past its
// return due date.
func (i *DeliveryItem) Overdue(now time.Time) bool {
	return i.Status == ItemComColaborador && i.ReturnDueDate.Before(now)
}
