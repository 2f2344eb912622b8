// Package notes provides the movement note (nota de movimentação): the
// batch document that groups stock-quantity changes of one type and
// drives the ledger when concluded.
package notes

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"epistock/internal/core/apperror"
	"epistock/internal/core/entity"
	"epistock/internal/core/id"
)

// NoteType classifies the note and implies which warehouse references it
// must carry.
type NoteType string

const (
	TypeEntrada       NoteType = "ENTRADA"
	TypeTransferencia NoteType = "TRANSFERENCIA"
	TypeDescarte      NoteType = "DESCARTE"
	TypeEntradaAjuste NoteType = "ENTRADA_AJUSTE"
)

// Valid reports whether t is a known note type.
func (t NoteType) Valid() bool {
	switch t {
	case TypeEntrada, TypeTransferencia, TypeDescarte, TypeEntradaAjuste:
		return true
	}
	return false
}

// NoteStatus is the note lifecycle state.
// RASCUNHO -> CONCLUIDA | CANCELADA; CONCLUIDA -> CANCELADA only through
// compensating reversals. CANCELADA is terminal.
type NoteStatus string

const (
	StatusRascunho  NoteStatus = "RASCUNHO"
	StatusConcluida NoteStatus = "CONCLUIDA"
	StatusCancelada NoteStatus = "CANCELADA"
)

// Note is a movement note document.
type Note struct {
	entity.Base

	Type   NoteType   `db:"note_type" json:"noteType"`
	Status NoteStatus `db:"status" json:"status"`

	// Number is auto-generated ("NM-2026-00042")
	Number string `db:"number" json:"number"`

	// Warehouse references; which ones are set depends on Type
	OriginWarehouseID      *id.ID `db:"origin_warehouse_id" json:"originWarehouseId,omitempty"`
	DestinationWarehouseID *id.ID `db:"destination_warehouse_id" json:"destinationWarehouseId,omitempty"`

	ResponsibleID id.ID `db:"responsible_id" json:"responsibleId"`

	// DocumentRef is the external document (invoice, requisition)
	DocumentRef string `db:"document_ref" json:"documentRef,omitempty"`

	Observations string  `db:"observations" json:"observations,omitempty"`
	CancelReason *string `db:"cancel_reason" json:"cancelReason,omitempty"`

	ConcludedAt *time.Time `db:"concluded_at" json:"concludedAt,omitempty"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`

	// Items is the table part; mutable only while in RASCUNHO
	Items []NoteItem `db:"-" json:"items"`
}

// NoteItem is one line of a note.
type NoteItem struct {
	ID     id.ID `db:"id" json:"id"`
	NoteID id.ID `db:"note_id" json:"noteId"`

	EquipmentTypeID id.ID `db:"equipment_type_id" json:"equipmentTypeId"`

	// Quantity is positive for ENTRADA/TRANSFERENCIA/DESCARTE; for
	// ENTRADA_AJUSTE it is the signed net delta.
	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitCost is the acquisition cost on entry notes, zero elsewhere
	UnitCost decimal.Decimal `db:"unit_cost" json:"unitCost"`
}

// NewNote creates a draft note.
func NewNote(noteType NoteType, responsibleID id.ID) *Note {
	return &Note{
		Base:          entity.NewBase(),
		Type:          noteType,
		Status:        StatusRascunho,
		ResponsibleID: responsibleID,
		Items:         make([]NoteItem, 0),
	}
}

// Validate implements entity.Validatable.
func (n *Note) Validate(ctx context.Context) error {
	if !n.Type.Valid() {
		return apperror.NewValidation("unknown note type").
			WithDetail("note_type", string(n.Type))
	}
	if id.IsNil(n.ResponsibleID) {
		return apperror.NewValidation("responsible is required").
			WithDetail("field", "responsibleId")
	}
	return n.validateWarehouses()
}

// validateWarehouses enforces the warehouse fields each note type needs:
// ENTRADA and ENTRADA_AJUSTE carry a destination only, DESCARTE an origin
// only, TRANSFERENCIA both and they must differ.
func (n *Note) validateWarehouses() error {
	hasOrigin := n.OriginWarehouseID != nil && !id.IsNil(*n.OriginWarehouseID)
	hasDestination := n.DestinationWarehouseID != nil && !id.IsNil(*n.DestinationWarehouseID)

	switch n.Type {
	case TypeEntrada, TypeEntradaAjuste:
		if !hasDestination {
			return apperror.NewValidation("destination warehouse is required").
				WithDetail("note_type", string(n.Type))
		}
		if hasOrigin {
			return apperror.NewValidation("origin warehouse must not be set").
				WithDetail("note_type", string(n.Type))
		}
	case TypeDescarte:
		if !hasOrigin {
			return apperror.NewValidation("origin warehouse is required").
				WithDetail("note_type", string(n.Type))
		}
		if hasDestination {
			return apperror.NewValidation("destination warehouse must not be set").
				WithDetail("note_type", string(n.Type))
		}
	case TypeTransferencia:
		if !hasOrigin || !hasDestination {
			return apperror.NewValidation("transfer requires origin and destination warehouses")
		}
		if *n.OriginWarehouseID == *n.DestinationWarehouseID {
			return apperror.NewValidation("origin and destination warehouses must differ")
		}
	}
	return nil
}

// CanModify returns an error unless the note is still a draft.
func (n *Note) CanModify() error {
	if n.Status != StatusRascunho {
		return apperror.NewBusinessRule("note is not in draft").
			WithDetail("note_id", n.ID.String()).
			WithDetail("status", string(n.Status))
	}
	return nil
}

// MarkConcluded flips the note into its concluded state.
func (n *Note) MarkConcluded(at time.Time) {
	n.Status = StatusConcluida
	n.ConcludedAt = &at
	n.Touch()
}

// MarkCancelled flips the note into its terminal cancelled state.
func (n *Note) MarkCancelled(at time.Time, reason string) {
	n.Status = StatusCancelada
	n.CancelledAt = &at
	if reason != "" {
		n.CancelReason = &reason
	}
	n.Touch()
}
