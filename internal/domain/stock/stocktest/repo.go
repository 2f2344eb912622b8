// Package stocktest provides in-memory doubles for ledger-dependent tests.
package stocktest

import (
	"context"
	"sort"
	"time"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/policy"
	"epistock/internal/domain/stock"
)

// MemRepo is an in-memory stock.Repository. Not safe for concurrent use;
// tests drive it from a single goroutine.
type MemRepo struct {
	items     map[id.ID]*stock.Item
	byKey     map[stock.Key]id.ID
	movements []stock.Movement
}

// NewMemRepo creates an empty repository.
func NewMemRepo() *MemRepo {
	return &MemRepo{
		items: make(map[id.ID]*stock.Item),
		byKey: make(map[stock.Key]id.ID),
	}
}

// Seed creates a stock item with the given balance and returns it.
func (r *MemRepo) Seed(key stock.Key, balance int64) *stock.Item {
	item := &stock.Item{
		ID:              id.New(),
		WarehouseID:     key.WarehouseID,
		EquipmentTypeID: key.EquipmentTypeID,
		Status:          key.Status,
		Balance:         balance,
		UpdatedAt:       time.Now().UTC(),
	}
	r.items[item.ID] = item
	r.byKey[key] = item.ID
	return item
}

// Movements returns every recorded movement, oldest first.
func (r *MemRepo) Movements() []stock.Movement {
	out := make([]stock.Movement, len(r.movements))
	copy(out, r.movements)
	return out
}

// Balance returns the current balance for key (0 when absent).
func (r *MemRepo) Balance(key stock.Key) int64 {
	if itemID, ok := r.byKey[key]; ok {
		return r.items[itemID].Balance
	}
	return 0
}

func (r *MemRepo) LockItem(ctx context.Context, key stock.Key) (*stock.Item, error) {
	if itemID, ok := r.byKey[key]; ok {
		return r.items[itemID], nil
	}
	return r.Seed(key, 0), nil
}

func (r *MemRepo) GetItem(ctx context.Context, itemID id.ID) (*stock.Item, error) {
	if item, ok := r.items[itemID]; ok {
		return item, nil
	}
	return nil, apperror.NewNotFound("stock item", itemID)
}

func (r *MemRepo) GetItemByKey(ctx context.Context, key stock.Key) (*stock.Item, error) {
	if itemID, ok := r.byKey[key]; ok {
		return r.items[itemID], nil
	}
	return &stock.Item{
		WarehouseID:     key.WarehouseID,
		EquipmentTypeID: key.EquipmentTypeID,
		Status:          key.Status,
	}, nil
}

func (r *MemRepo) UpdateBalance(ctx context.Context, itemID id.ID, balance int64, movedAt time.Time) error {
	item, ok := r.items[itemID]
	if !ok {
		return apperror.NewNotFound("stock item", itemID)
	}
	item.Balance = balance
	item.LastMovementAt = movedAt
	item.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemRepo) CreateMovement(ctx context.Context, m *stock.Movement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *MemRepo) GetMovement(ctx context.Context, movementID id.ID) (*stock.Movement, error) {
	for i := range r.movements {
		if r.movements[i].ID == movementID {
			m := r.movements[i]
			return &m, nil
		}
	}
	return nil, apperror.NewNotFound("movement", movementID)
}

func (r *MemRepo) ListMovementsByNote(ctx context.Context, noteID id.ID) ([]stock.Movement, error) {
	var out []stock.Movement
	for _, m := range r.movements {
		if m.NoteID != nil && *m.NoteID == noteID && m.OriginMovementID == nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemRepo) ListMovementsByItem(ctx context.Context, itemID id.ID, limit, offset int) ([]stock.Movement, error) {
	var out []stock.Movement
	for _, m := range r.movements {
		if m.StockItemID == itemID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemRepo) ListReversals(ctx context.Context, originMovementID id.ID) ([]stock.Movement, error) {
	var out []stock.Movement
	for _, m := range r.movements {
		if m.OriginMovementID != nil && *m.OriginMovementID == originMovementID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemRepo) ListBalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]stock.Item, error) {
	var out []stock.Item
	for _, item := range r.items {
		if item.WarehouseID == warehouseID && item.Balance != 0 {
			out = append(out, *item)
		}
	}
	return out, nil
}

var _ stock.Repository = (*MemRepo)(nil)

// Snapshot captures repository state for rollback emulation.
func (r *MemRepo) Snapshot() func() {
	items := make(map[id.ID]*stock.Item, len(r.items))
	for k, v := range r.items {
		copied := *v
		items[k] = &copied
	}
	byKey := make(map[stock.Key]id.ID, len(r.byKey))
	for k, v := range r.byKey {
		byKey[k] = v
	}
	movements := make([]stock.Movement, len(r.movements))
	copy(movements, r.movements)

	return func() {
		r.items = items
		r.byKey = byKey
		r.movements = movements
	}
}

// Snapshotter is implemented by in-memory repositories that can restore
// their state when a fake transaction rolls back.
type Snapshotter interface {
	Snapshot() func()
}

// TxManager is a tx.Manager for tests. It snapshots the registered
// repositories before running fn and restores them when fn fails, so
// rollback semantics hold in-memory too.
type TxManager struct {
	Repos []Snapshotter
}

func (m TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(m.Repos))
	for _, repo := range m.Repos {
		restores = append(restores, repo.Snapshot())
	}
	if err := fn(ctx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}

// StaticPolicy is a policy.Repository returning a fixed config.
type StaticPolicy struct {
	Config policy.Config
}

func (s StaticPolicy) Load(ctx context.Context) (policy.Config, error) {
	return s.Config, nil
}
