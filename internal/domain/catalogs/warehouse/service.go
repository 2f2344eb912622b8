package warehouse

import (
	"context"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/pkg/logger"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	repo Repository
}

// NewService creates a Warehouse service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new warehouse.
func (s *Service) Create(ctx context.Context, w *Warehouse) error {
	if err := w.Validate(ctx); err != nil {
		return err
	}
	if w.Code != "" {
		if existing, err := s.repo.GetByCode(ctx, w.Code); err == nil && existing != nil {
			return apperror.NewDuplicate("warehouse", "code", w.Code)
		}
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return err
	}
	logger.Info(ctx, "warehouse created", "id", w.ID, "code", w.Code)
	return nil
}

// GetByID returns a warehouse by id.
func (s *Service) GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, warehouseID)
}

// Update persists changes to a warehouse.
func (s *Service) Update(ctx context.Context, w *Warehouse) error {
	if err := w.Validate(ctx); err != nil {
		return err
	}
	w.Touch()
	return s.repo.Update(ctx, w)
}

// List returns warehouses, optionally including inactive ones.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]Warehouse, error) {
	return s.repo.List(ctx, includeInactive)
}

// RequireActive ensures the warehouse exists and is active.
// The ledger core calls this before moving stock through a warehouse.
func (s *Service) RequireActive(ctx context.Context, warehouseID id.ID) (*Warehouse, error) {
	w, err := s.repo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if !w.Active {
		return nil, apperror.NewBusinessRule("warehouse is inactive").
			WithDetail("warehouse_id", warehouseID.String())
	}
	return w, nil
}
