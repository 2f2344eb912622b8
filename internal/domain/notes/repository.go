package notes

import (
	"context"
	"time"

	"epistock/internal/core/id"
)

// Repository defines persistence for notes and their items.
type Repository interface {
	Create(ctx context.Context, n *Note) error

	// GetByID returns the note without items.
	GetByID(ctx context.Context, noteID id.ID) (*Note, error)

	// GetForUpdate returns the note with a row lock, so concurrent
	// conclude/cancel attempts on the same note serialize.
	GetForUpdate(ctx context.Context, noteID id.ID) (*Note, error)

	Update(ctx context.Context, n *Note) error

	// Items
	GetItems(ctx context.Context, noteID id.ID) ([]NoteItem, error)
	CreateItem(ctx context.Context, item *NoteItem) error
	DeleteItem(ctx context.Context, noteID, itemID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]Note, error)
}

// ListFilter for note listings.
type ListFilter struct {
	Type        *NoteType
	Status      *NoteStatus
	WarehouseID *id.ID
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}
