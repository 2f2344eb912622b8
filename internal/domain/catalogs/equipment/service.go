package equipment

import (
	"context"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/pkg/logger"
)

// Service provides business logic for the EquipmentType catalog.
type Service struct {
	repo Repository
}

// NewService creates an EquipmentType service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new equipment type.
func (s *Service) Create(ctx context.Context, e *EquipmentType) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}
	if e.Code != "" {
		if existing, err := s.repo.GetByCode(ctx, e.Code); err == nil && existing != nil {
			return apperror.NewDuplicate("equipment type", "code", e.Code)
		}
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}
	logger.Info(ctx, "equipment type created", "id", e.ID, "code", e.Code)
	return nil
}

// GetByID returns an equipment type by id.
func (s *Service) GetByID(ctx context.Context, equipmentTypeID id.ID) (*EquipmentType, error) {
	return s.repo.GetByID(ctx, equipmentTypeID)
}

// Update persists changes to an equipment type.
func (s *Service) Update(ctx context.Context, e *EquipmentType) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}
	e.Touch()
	return s.repo.Update(ctx, e)
}

// List returns equipment types, optionally including inactive ones.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]EquipmentType, error) {
	return s.repo.List(ctx, includeInactive)
}

// RequireActive ensures the equipment type exists and is active.
func (s *Service) RequireActive(ctx context.Context, equipmentTypeID id.ID) (*EquipmentType, error) {
	e, err := s.repo.GetByID(ctx, equipmentTypeID)
	if err != nil {
		return nil, err
	}
	if !e.Active {
		return nil, apperror.NewBusinessRule("equipment type is inactive").
			WithDetail("equipment_type_id", equipmentTypeID.String())
	}
	return e, nil
}
