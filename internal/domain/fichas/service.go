package fichas

import (
	"context"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/pkg/logger"
)

// Service provides business logic for fichas.
type Service struct {
	repo Repository
}

// NewService creates a ficha service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a ficha for an employee. An employee can hold at most one
// active ficha; a second attempt conflicts.
func (s *Service) Create(ctx context.Context, f *Ficha) error {
	if err := f.Validate(ctx); err != nil {
		return err
	}

	if existing, err := s.repo.GetActiveByColaborador(ctx, f.ColaboradorID); err == nil && existing != nil {
		return apperror.NewConflict("employee already has an active ficha").
			WithDetail("colaborador_id", f.ColaboradorID.String()).
			WithDetail("ficha_id", existing.ID.String())
	} else if err != nil && !apperror.IsNotFound(err) {
		return err
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return err
	}
	logger.Info(ctx, "ficha created", "id", f.ID, "colaborador_id", f.ColaboradorID)
	return nil
}

// GetByID returns a ficha by id.
func (s *Service) GetByID(ctx context.Context, fichaID id.ID) (*Ficha, error) {
	return s.repo.GetByID(ctx, fichaID)
}

// Deactivate closes a ficha. Deliveries referencing it stay untouched.
func (s *Service) Deactivate(ctx context.Context, fichaID id.ID) error {
	f, err := s.repo.GetByID(ctx, fichaID)
	if err != nil {
		return err
	}
	if !f.Active {
		return apperror.NewBusinessRule("ficha is already inactive").
			WithDetail("ficha_id", fichaID.String())
	}
	f.Active = false
	f.Touch()
	return s.repo.Update(ctx, f)
}

// List returns fichas, optionally including inactive ones.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]Ficha, error) {
	return s.repo.List(ctx, includeInactive)
}

// RequireActive ensures the ficha exists and is active.
func (s *Service) RequireActive(ctx context.Context, fichaID id.ID) (*Ficha, error) {
	f, err := s.repo.GetByID(ctx, fichaID)
	if err != nil {
		return nil, err
	}
	if !f.Active {
		return nil, apperror.NewBusinessRule("ficha is inactive").
			WithDetail("ficha_id", fichaID.String())
	}
	return f, nil
}
