package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/stock"
)

const (
	stockItemsTable     = "saldo_estoque"
	stockMovementsTable = "mov_estoque"
)

var stockItemCols = []string{
	"id", "warehouse_id", "equipment_type_id", "status",
	"balance", "last_movement_at", "updated_at",
}

var movementCols = []string{
	"id", "stock_item_id", "movement_type", "quantity",
	"occurred_at", "responsible_id", "origin_movement_id", "note_id",
	"created_at",
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a stock repository.
func NewStockRepo(txm *TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ stock.Repository = (*StockRepo)(nil)

const lockItemSQL = `
	SELECT id, warehouse_id, equipment_type_id, status,
	       balance, last_movement_at, updated_at
	FROM saldo_estoque
	WHERE warehouse_id = $1 AND equipment_type_id = $2 AND status = $3
	FOR UPDATE
`

// LockItem returns the stock item for key with a row lock, creating the
// zero-balance row first when none exists. Concurrent ledger entries on
// the same key serialize on this lock.
func (r *StockRepo) LockItem(ctx context.Context, key stock.Key) (*stock.Item, error) {
	querier := r.txm.GetQuerier(ctx)

	insertSQL, args, err := r.builder.Insert(stockItemsTable).
		Columns("id", "warehouse_id", "equipment_type_id", "status", "balance", "last_movement_at", "updated_at").
		Values(id.New(), key.WarehouseID, key.EquipmentTypeID, key.Status, 0, time.Now().UTC(), time.Now().UTC()).
		Suffix("ON CONFLICT (warehouse_id, equipment_type_id, status) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, insertSQL, args...); err != nil {
		return nil, fmt.Errorf("ensure stock item: %w", err)
	}

	var item stock.Item
	if err := pgxscan.Get(ctx, querier, &item, lockItemSQL, key.WarehouseID, key.EquipmentTypeID, key.Status); err != nil {
		return nil, fmt.Errorf("lock stock item: %w", err)
	}
	return &item, nil
}

// GetItem returns one stock item by id.
func (r *StockRepo) GetItem(ctx context.Context, itemID id.ID) (*stock.Item, error) {
	sql, args, err := r.builder.Select(stockItemCols...).
		From(stockItemsTable).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item stock.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock item", itemID)
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &item, nil
}

// GetItemByKey returns the stock item for key without locking it.
func (r *StockRepo) GetItemByKey(ctx context.Context, key stock.Key) (*stock.Item, error) {
	sql, args, err := r.builder.Select(stockItemCols...).
		From(stockItemsTable).
		Where(squirrel.Eq{
			"warehouse_id":      key.WarehouseID,
			"equipment_type_id": key.EquipmentTypeID,
			"status":            key.Status,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item stock.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock item", key.EquipmentTypeID)
		}
		return nil, fmt.Errorf("get stock item by key: %w", err)
	}
	return &item, nil
}

// UpdateBalance persists a new balance for a locked item.
func (r *StockRepo) UpdateBalance(ctx context.Context, itemID id.ID, balance int64, movedAt time.Time) error {
	sql, args, err := r.builder.Update(stockItemsTable).
		Set("balance", balance).
		Set("last_movement_at", movedAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("stock item", itemID)
	}
	return nil
}

// CreateMovement appends one movement row. The table is append-only:
// there is no update or delete path.
func (r *StockRepo) CreateMovement(ctx context.Context, m *stock.Movement) error {
	sql, args, err := r.builder.Insert(stockMovementsTable).
		Columns(movementCols...).
		Values(
			m.ID, m.StockItemID, m.Type, m.Quantity,
			m.OccurredAt, m.ResponsibleID, m.OriginMovementID, m.NoteID,
			m.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetMovement returns one movement by id.
func (r *StockRepo) GetMovement(ctx context.Context, movementID id.ID) (*stock.Movement, error) {
	sql, args, err := r.builder.Select(movementCols...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"id": movementID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m stock.Movement
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", movementID)
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListMovementsByNote returns the original movements a note produced.
// Compensating entries carry the same note id for audit but are excluded
// here, so cancelling reverses only the conclusion's own entries.
func (r *StockRepo) ListMovementsByNote(ctx context.Context, noteID id.ID) ([]stock.Movement, error) {
	sql, args, err := r.builder.Select(movementCols...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"note_id": noteID}).
		Where("origin_movement_id IS NULL").
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements by note: %w", err)
	}
	return movements, nil
}

// ListMovementsByItem returns an item's history, newest first.
func (r *StockRepo) ListMovementsByItem(ctx context.Context, itemID id.ID, limit, offset int) ([]stock.Movement, error) {
	q := r.builder.Select(movementCols...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"stock_item_id": itemID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements by item: %w", err)
	}
	return movements, nil
}

// ListReversals returns the compensating movements recorded for an origin.
func (r *StockRepo) ListReversals(ctx context.Context, originMovementID id.ID) ([]stock.Movement, error) {
	sql, args, err := r.builder.Select(movementCols...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"origin_movement_id": originMovementID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select reversals: %w", err)
	}
	return movements, nil
}

// ListBalancesByWarehouse returns the warehouse's non-zero balances.
func (r *StockRepo) ListBalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]stock.Item, error) {
	sql, args, err := r.builder.Select(stockItemCols...).
		From(stockItemsTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.NotEq{"balance": int64(0)}).
		OrderBy("equipment_type_id", "status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []stock.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}
	return items, nil
}
