package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/catalogs/warehouse"
)

const warehousesTable = "cat_warehouses"

var warehouseCols = []string{
	"id", "version", "created_at", "updated_at",
	"code", "name", "active", "address", "description",
}

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewWarehouseRepo creates a warehouse repository.
func NewWarehouseRepo(txm *TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)

func (r *WarehouseRepo) Create(ctx context.Context, w *warehouse.Warehouse) error {
	sql, args, err := r.builder.Insert(warehousesTable).
		Columns(warehouseCols...).
		Values(
			w.ID, w.Version, w.CreatedAt, w.UpdatedAt,
			w.Code, w.Name, w.Active, w.Address, w.Description,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("warehouse", "code", w.Code)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, warehouseID id.ID) (*warehouse.Warehouse, error) {
	sql, args, err := r.builder.Select(warehouseCols...).
		From(warehousesTable).
		Where(squirrel.Eq{"id": warehouseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var w warehouse.Warehouse
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &w, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", warehouseID)
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	sql, args, err := r.builder.Select(warehouseCols...).
		From(warehousesTable).
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var w warehouse.Warehouse
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &w, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", code)
		}
		return nil, fmt.Errorf("get warehouse by code: %w", err)
	}
	return &w, nil
}

func (r *WarehouseRepo) Update(ctx context.Context, w *warehouse.Warehouse) error {
	sql, args, err := r.builder.Update(warehousesTable).
		Set("version", w.Version).
		Set("updated_at", w.UpdatedAt).
		Set("name", w.Name).
		Set("active", w.Active).
		Set("address", w.Address).
		Set("description", w.Description).
		Where(squirrel.Eq{"id": w.ID}).
		Where(squirrel.Lt{"version": w.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConflict("warehouse was modified concurrently").
			WithDetail("warehouse_id", w.ID.String())
	}
	return nil
}

func (r *WarehouseRepo) List(ctx context.Context, includeInactive bool) ([]warehouse.Warehouse, error) {
	q := r.builder.Select(warehouseCols...).
		From(warehousesTable).
		OrderBy("code")
	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []warehouse.Warehouse
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}
	return list, nil
}
