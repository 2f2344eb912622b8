package dto

import (
	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/fichas"
)

// CreateFichaRequest opens an EPI ficha for an employee.
type CreateFichaRequest struct {
	ColaboradorID string `json:"colaboradorId" binding:"required"`
	Observations  string `json:"observations,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateFichaRequest) ToEntity() (*fichas.Ficha, error) {
	colaboradorID, err := id.Parse(r.ColaboradorID)
	if err != nil {
		return nil, apperror.NewValidation("invalid colaborador id")
	}
	f := fichas.New(colaboradorID)
	f.Observations = r.Observations
	return f, nil
}

// PendingReturnResponse reports whether a ficha has overdue units.
type PendingReturnResponse struct {
	FichaID       string `json:"fichaId"`
	PendingReturn bool   `json:"pendingReturn"`
}
