// Package stock provides the movement ledger: per-item balances mutated
// exclusively through Ledger.Apply, and the append-only movement table
// behind them.
package stock

import (
	"time"

	"epistock/internal/core/id"
)

// Status is the stock bucket an item balance belongs to.
// Delivered units leave DISPONIVEL; returned units enter
// AGUARDANDO_INSPECAO until requalified by an external workflow.
type Status string

const (
	StatusDisponivel         Status = "DISPONIVEL"
	StatusReservado          Status = "RESERVADO"
	StatusAguardandoInspecao Status = "AGUARDANDO_INSPECAO"
	StatusQuarentena         Status = "QUARENTENA"
)

// Valid reports whether s is a known stock status.
func (s Status) Valid() bool {
	switch s {
	case StatusDisponivel, StatusReservado, StatusAguardandoInspecao, StatusQuarentena:
		return true
	}
	return false
}

// Key identifies one stock item: a balance bucket for an equipment type
// in a warehouse, in one status.
type Key struct {
	WarehouseID     id.ID
	EquipmentTypeID id.ID
	Status          Status
}

// Item is a stock balance row. Created lazily on first movement, never
// deleted. Balance always equals the signed sum of the item's movements.
type Item struct {
	ID              id.ID     `db:"id" json:"id"`
	WarehouseID     id.ID     `db:"warehouse_id" json:"warehouseId"`
	EquipmentTypeID id.ID     `db:"equipment_type_id" json:"equipmentTypeId"`
	Status          Status    `db:"status" json:"status"`
	Balance         int64     `db:"balance" json:"balance"`
	LastMovementAt  time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Key returns the identity of the item.
func (i *Item) Key() Key {
	return Key{
		WarehouseID:     i.WarehouseID,
		EquipmentTypeID: i.EquipmentTypeID,
		Status:          i.Status,
	}
}
