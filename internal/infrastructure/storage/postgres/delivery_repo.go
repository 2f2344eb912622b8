package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/deliveries"
)

const (
	deliveriesTable    = "entrega"
	deliveryItemsTable = "entrega_item"
)

var deliveryCols = []string{
	"id", "version", "created_at", "updated_at",
	"number", "ficha_id", "warehouse_id", "responsible_id", "status",
	"signature_ref", "signed_at", "cancel_reason", "cancelled_at",
}

var deliveryItemCols = []string{
	"id", "delivery_id", "source_stock_item_id", "equipment_type_id",
	"issue_movement_id", "quantity", "status",
	"return_due_date", "returned_at", "return_reason", "created_at",
}

// DeliveryRepo implements deliveries.Repository.
type DeliveryRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewDeliveryRepo creates a delivery repository.
func NewDeliveryRepo(txm *TxManager) *DeliveryRepo {
	return &DeliveryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ deliveries.Repository = (*DeliveryRepo)(nil)

// Create inserts a new delivery. Items are inserted separately.
func (r *DeliveryRepo) Create(ctx context.Context, d *deliveries.Delivery) error {
	sql, args, err := r.builder.Insert(deliveriesTable).
		Columns(deliveryCols...).
		Values(
			d.ID, d.Version, d.CreatedAt, d.UpdatedAt,
			d.Number, d.FichaID, d.WarehouseID, d.ResponsibleID, d.Status,
			d.SignatureRef, d.SignedAt, d.CancelReason, d.CancelledAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("delivery", "number", d.Number)
		}
		if isForeignKeyViolation(err) {
			return apperror.NewNotFound("ficha", d.FichaID)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByID returns the delivery without items.
func (r *DeliveryRepo) GetByID(ctx context.Context, deliveryID id.ID) (*deliveries.Delivery, error) {
	return r.get(ctx, deliveryID, false)
}

// GetForUpdate returns the delivery with a row lock.
func (r *DeliveryRepo) GetForUpdate(ctx context.Context, deliveryID id.ID) (*deliveries.Delivery, error) {
	return r.get(ctx, deliveryID, true)
}

func (r *DeliveryRepo) get(ctx context.Context, deliveryID id.ID, forUpdate bool) (*deliveries.Delivery, error) {
	q := r.builder.Select(deliveryCols...).
		From(deliveriesTable).
		Where(squirrel.Eq{"id": deliveryID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d deliveries.Delivery
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("delivery", deliveryID)
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return &d, nil
}

// Update persists delivery changes with optimistic locking on version.
func (r *DeliveryRepo) Update(ctx context.Context, d *deliveries.Delivery) error {
	sql, args, err := r.builder.Update(deliveriesTable).
		Set("version", d.Version).
		Set("updated_at", d.UpdatedAt).
		Set("status", d.Status).
		Set("signature_ref", d.SignatureRef).
		Set("signed_at", d.SignedAt).
		Set("cancel_reason", d.CancelReason).
		Set("cancelled_at", d.CancelledAt).
		Where(squirrel.Eq{"id": d.ID}).
		Where(squirrel.Lt{"version": d.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConflict("delivery was modified concurrently").
			WithDetail("delivery_id", d.ID.String())
	}
	return nil
}

// GetItems returns the delivery's unit rows.
func (r *DeliveryRepo) GetItems(ctx context.Context, deliveryID id.ID) ([]deliveries.DeliveryItem, error) {
	sql, args, err := r.builder.Select(deliveryItemCols...).
		From(deliveryItemsTable).
		Where(squirrel.Eq{"delivery_id": deliveryID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []deliveries.DeliveryItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select delivery items: %w", err)
	}
	return items, nil
}

// CreateItem inserts one unit row.
func (r *DeliveryRepo) CreateItem(ctx context.Context, item *deliveries.DeliveryItem) error {
	sql, args, err := r.builder.Insert(deliveryItemsTable).
		Columns(deliveryItemCols...).
		Values(
			item.ID, item.DeliveryID, item.SourceStockItemID, item.EquipmentTypeID,
			item.IssueMovementID, item.Quantity, item.Status,
			item.ReturnDueDate, item.ReturnedAt, item.ReturnReason, item.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert delivery item: %w", err)
	}
	return nil
}

// UpdateItem persists a unit's possession state.
func (r *DeliveryRepo) UpdateItem(ctx context.Context, item *deliveries.DeliveryItem) error {
	sql, args, err := r.builder.Update(deliveryItemsTable).
		Set("status", item.Status).
		Set("returned_at", item.ReturnedAt).
		Set("return_reason", item.ReturnReason).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update delivery item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("delivery item", item.ID)
	}
	return nil
}

// ListByFicha returns the deliveries issued against a ficha, newest first.
func (r *DeliveryRepo) ListByFicha(ctx context.Context, fichaID id.ID) ([]deliveries.Delivery, error) {
	sql, args, err := r.builder.Select(deliveryCols...).
		From(deliveriesTable).
		Where(squirrel.Eq{"ficha_id": fichaID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []deliveries.Delivery
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select deliveries: %w", err)
	}
	return list, nil
}

// HasOverdueItems reports whether any non-cancelled delivery of the ficha
// holds a unit past its return due date.
func (r *DeliveryRepo) HasOverdueItems(ctx context.Context, fichaID id.ID, asOf time.Time) (bool, error) {
	sql := `
		SELECT EXISTS (
			SELECT 1
			FROM entrega_item i
			JOIN entrega d ON d.id = i.delivery_id
			WHERE d.ficha_id = $1
			  AND d.status <> 'CANCELADA'
			  AND i.status = 'COM_COLABORADOR'
			  AND i.return_due_date < $2
		)
	`

	var overdue bool
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, fichaID, asOf).Scan(&overdue); err != nil {
		return false, fmt.Errorf("check overdue items: %w", err)
	}
	return overdue, nil
}
