package stock

import (
	"context"
	"fmt"
	"time"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/policy"
	"epistock/pkg/logger"
)

// Ledger applies signed quantity deltas to stock items.
//
// Apply is a transactional primitive: it assumes the caller already opened
// the operation's transaction, so a mid-batch failure leaves no partial
// balance change behind.
type Ledger struct {
	repo Repository
}

// NewLedger creates a ledger over the given repository.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// ApplyInput describes one ledger entry to record.
type ApplyInput struct {
	Key  Key
	Type MovementType

	// Quantity is the magnitude and must be positive; the sign is
	// implied by Type.
	Quantity int64

	ResponsibleID id.ID

	// OccurredAt defaults to now when zero.
	OccurredAt time.Time

	// OriginMovementID is set on compensating entries.
	OriginMovementID *id.ID

	// NoteID links the entry to the producing note, if any.
	NoteID *id.ID
}

// Apply resolves (or lazily creates) the stock item for in.Key, checks
// the resulting balance against the negative-stock policy and persists
// the new balance together with the movement record.
func (l *Ledger) Apply(ctx context.Context, in ApplyInput, pol policy.Config) (*Movement, error) {
	if !in.Type.Valid() {
		return nil, apperror.NewValidation("unknown movement type").
			WithDetail("movement_type", string(in.Type))
	}
	if !in.Key.Status.Valid() {
		return nil, apperror.NewValidation("unknown stock status").
			WithDetail("status", string(in.Key.Status))
	}
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", in.Quantity)
	}
	if id.IsNil(in.ResponsibleID) {
		return nil, apperror.NewValidation("responsible is required")
	}

	item, err := l.repo.LockItem(ctx, in.Key)
	if err != nil {
		return nil, fmt.Errorf("lock stock item: %w", err)
	}

	delta := in.Type.Direction() * in.Quantity
	resulting := item.Balance + delta
	if resulting < 0 && !pol.AllowNegativeStock {
		return nil, apperror.NewInsufficientStock(
			in.Key.EquipmentTypeID.String(), in.Quantity, item.Balance,
		).WithDetail("warehouse_id", in.Key.WarehouseID.String()).
			WithDetail("status", string(in.Key.Status))
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	if err := l.repo.UpdateBalance(ctx, item.ID, resulting, occurredAt); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	movement := &Movement{
		ID:               id.New(),
		StockItemID:      item.ID,
		Type:             in.Type,
		Quantity:         in.Quantity,
		OccurredAt:       occurredAt,
		ResponsibleID:    in.ResponsibleID,
		OriginMovementID: in.OriginMovementID,
		NoteID:           in.NoteID,
		CreatedAt:        time.Now().UTC(),
	}

	if err := l.repo.CreateMovement(ctx, movement); err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}

	logger.Debug(ctx, "ledger entry applied",
		"movement_id", movement.ID,
		"movement_type", movement.Type,
		"stock_item_id", item.ID,
		"delta", delta,
		"balance", resulting,
	)

	return movement, nil
}

// MovementsByNote returns the movements a note produced at conclusion.
func (l *Ledger) MovementsByNote(ctx context.Context, noteID id.ID) ([]Movement, error) {
	return l.repo.ListMovementsByNote(ctx, noteID)
}

// GetMovement returns one movement by id.
func (l *Ledger) GetMovement(ctx context.Context, movementID id.ID) (*Movement, error) {
	return l.repo.GetMovement(ctx, movementID)
}
