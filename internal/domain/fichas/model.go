// Package fichas provides the employee PPE record (ficha de EPI).
// There is exactly one active ficha per employee; equipment typing lives
// at the delivery-item level, not on the ficha.
package fichas

import (
	"context"

	"epistock/internal/core/apperror"
	"epistock/internal/core/entity"
	"epistock/internal/core/id"
)

// Ficha is an employee's PPE issuance record.
type Ficha struct {
	entity.Base

	// ColaboradorID is the employee this ficha belongs to. Employee data
	// itself lives in an external service; only the id is stored here.
	ColaboradorID id.ID `db:"colaborador_id" json:"colaboradorId"`

	// Active indicates the ficha can receive deliveries
	Active bool `db:"active" json:"active"`

	// Observations is free text
	Observations string `db:"observations" json:"observations,omitempty"`
}

// New creates a new active ficha for an employee.
func New(colaboradorID id.ID) *Ficha {
	return &Ficha{
		Base:          entity.NewBase(),
		ColaboradorID: colaboradorID,
		Active:        true,
	}
}

// Validate implements entity.Validatable.
func (f *Ficha) Validate(ctx context.Context) error {
	if id.IsNil(f.ColaboradorID) {
		return apperror.NewValidation("colaborador is required").
			WithDetail("field", "colaboradorId")
	}
	return nil
}
