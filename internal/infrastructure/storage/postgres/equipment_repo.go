package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/catalogs/equipment"
)

const equipmentTypesTable = "cat_equipment_types"

var equipmentTypeCols = []string{
	"id", "version", "created_at", "updated_at",
	"code", "name", "active",
	"ca_number", "useful_life_days", "unit_cost", "description",
}

// EquipmentRepo implements equipment.Repository.
type EquipmentRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewEquipmentRepo creates an equipment type repository.
func NewEquipmentRepo(txm *TxManager) *EquipmentRepo {
	return &EquipmentRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ equipment.Repository = (*EquipmentRepo)(nil)

func (r *EquipmentRepo) Create(ctx context.Context, e *equipment.EquipmentType) error {
	sql, args, err := r.builder.Insert(equipmentTypesTable).
		Columns(equipmentTypeCols...).
		Values(
			e.ID, e.Version, e.CreatedAt, e.UpdatedAt,
			e.Code, e.Name, e.Active,
			e.CANumber, e.UsefulLifeDays, e.UnitCost, e.Description,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("equipment type", "code", e.Code)
		}
		return fmt.Errorf("insert equipment type: %w", err)
	}
	return nil
}

func (r *EquipmentRepo) GetByID(ctx context.Context, equipmentTypeID id.ID) (*equipment.EquipmentType, error) {
	sql, args, err := r.builder.Select(equipmentTypeCols...).
		From(equipmentTypesTable).
		Where(squirrel.Eq{"id": equipmentTypeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e equipment.EquipmentType
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("equipment type", equipmentTypeID)
		}
		return nil, fmt.Errorf("get equipment type: %w", err)
	}
	return &e, nil
}

func (r *EquipmentRepo) GetByCode(ctx context.Context, code string) (*equipment.EquipmentType, error) {
	sql, args, err := r.builder.Select(equipmentTypeCols...).
		From(equipmentTypesTable).
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e equipment.EquipmentType
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("equipment type", code)
		}
		return nil, fmt.Errorf("get equipment type by code: %w", err)
	}
	return &e, nil
}

func (r *EquipmentRepo) Update(ctx context.Context, e *equipment.EquipmentType) error {
	sql, args, err := r.builder.Update(equipmentTypesTable).
		Set("version", e.Version).
		Set("updated_at", e.UpdatedAt).
		Set("name", e.Name).
		Set("active", e.Active).
		Set("ca_number", e.CANumber).
		Set("useful_life_days", e.UsefulLifeDays).
		Set("unit_cost", e.UnitCost).
		Set("description", e.Description).
		Where(squirrel.Eq{"id": e.ID}).
		Where(squirrel.Lt{"version": e.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update equipment type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConflict("equipment type was modified concurrently").
			WithDetail("equipment_type_id", e.ID.String())
	}
	return nil
}

func (r *EquipmentRepo) List(ctx context.Context, includeInactive bool) ([]equipment.EquipmentType, error) {
	q := r.builder.Select(equipmentTypeCols...).
		From(equipmentTypesTable).
		OrderBy("code")
	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []equipment.EquipmentType
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select equipment types: %w", err)
	}
	return list, nil
}
