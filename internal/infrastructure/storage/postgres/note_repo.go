package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/notes"
)

const (
	notesTable     = "nota_movimentacao"
	noteItemsTable = "nota_movimentacao_item"
)

var noteCols = []string{
	"id", "version", "created_at", "updated_at",
	"note_type", "status", "number",
	"origin_warehouse_id", "destination_warehouse_id",
	"responsible_id", "document_ref", "observations",
	"cancel_reason", "concluded_at", "cancelled_at",
}

var noteItemCols = []string{
	"id", "note_id", "equipment_type_id", "quantity", "unit_cost",
}

// NoteRepo implements notes.Repository.
type NoteRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewNoteRepo creates a note repository.
func NewNoteRepo(txm *TxManager) *NoteRepo {
	return &NoteRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ notes.Repository = (*NoteRepo)(nil)

// Create inserts a new note. Items are inserted separately.
func (r *NoteRepo) Create(ctx context.Context, n *notes.Note) error {
	sql, args, err := r.builder.Insert(notesTable).
		Columns(noteCols...).
		Values(
			n.ID, n.Version, n.CreatedAt, n.UpdatedAt,
			n.Type, n.Status, n.Number,
			n.OriginWarehouseID, n.DestinationWarehouseID,
			n.ResponsibleID, n.DocumentRef, n.Observations,
			n.CancelReason, n.ConcludedAt, n.CancelledAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("note", "number", n.Number)
		}
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// GetByID returns the note without items.
func (r *NoteRepo) GetByID(ctx context.Context, noteID id.ID) (*notes.Note, error) {
	return r.get(ctx, noteID, false)
}

// GetForUpdate returns the note with a row lock.
func (r *NoteRepo) GetForUpdate(ctx context.Context, noteID id.ID) (*notes.Note, error) {
	return r.get(ctx, noteID, true)
}

func (r *NoteRepo) get(ctx context.Context, noteID id.ID, forUpdate bool) (*notes.Note, error) {
	q := r.builder.Select(noteCols...).
		From(notesTable).
		Where(squirrel.Eq{"id": noteID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var n notes.Note
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &n, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("note", noteID)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

// Update persists note changes with optimistic locking on version.
func (r *NoteRepo) Update(ctx context.Context, n *notes.Note) error {
	sql, args, err := r.builder.Update(notesTable).
		Set("version", n.Version).
		Set("updated_at", n.UpdatedAt).
		Set("status", n.Status).
		Set("observations", n.Observations).
		Set("cancel_reason", n.CancelReason).
		Set("concluded_at", n.ConcludedAt).
		Set("cancelled_at", n.CancelledAt).
		Where(squirrel.Eq{"id": n.ID}).
		Where(squirrel.Lt{"version": n.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConflict("note was modified concurrently").
			WithDetail("note_id", n.ID.String())
	}
	return nil
}

// GetItems returns the note's items.
func (r *NoteRepo) GetItems(ctx context.Context, noteID id.ID) ([]notes.NoteItem, error) {
	sql, args, err := r.builder.Select(noteItemCols...).
		From(noteItemsTable).
		Where(squirrel.Eq{"note_id": noteID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []notes.NoteItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select note items: %w", err)
	}
	return items, nil
}

// CreateItem inserts one note item.
func (r *NoteRepo) CreateItem(ctx context.Context, item *notes.NoteItem) error {
	sql, args, err := r.builder.Insert(noteItemsTable).
		Columns(noteItemCols...).
		Values(item.ID, item.NoteID, item.EquipmentTypeID, item.Quantity, item.UnitCost).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert note item: %w", err)
	}
	return nil
}

// DeleteItem removes one item from a draft note.
func (r *NoteRepo) DeleteItem(ctx context.Context, noteID, itemID id.ID) error {
	sql, args, err := r.builder.Delete(noteItemsTable).
		Where(squirrel.Eq{"note_id": noteID, "id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete note item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("note item", itemID)
	}
	return nil
}

// List returns notes matching the filter, newest first.
func (r *NoteRepo) List(ctx context.Context, filter notes.ListFilter) ([]notes.Note, error) {
	q := r.builder.Select(noteCols...).
		From(notesTable).
		OrderBy("created_at DESC")

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"note_type": *filter.Type})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"origin_warehouse_id": *filter.WarehouseID},
			squirrel.Eq{"destination_warehouse_id": *filter.WarehouseID},
		})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"created_at": filter.DateTo.Add(24 * time.Hour)})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []notes.Note
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	return list, nil
}
