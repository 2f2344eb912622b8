package fichas

import (
	"context"

	"epistock/internal/core/id"
)

// Repository defines persistence for fichas.
type Repository interface {
	Create(ctx context.Context, f *Ficha) error
	GetByID(ctx context.Context, fichaID id.ID) (*Ficha, error)

	// GetActiveByColaborador returns the employee's active ficha, or a
	// NotFound error when none exists.
	GetActiveByColaborador(ctx context.Context, colaboradorID id.ID) (*Ficha, error)

	Update(ctx context.Context, f *Ficha) error
	List(ctx context.Context, includeInactive bool) ([]Ficha, error)
}
