package notes

import (
	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/stock"
)

// MovementPlan is one ledger entry a note item resolves to.
type MovementPlan struct {
	Type        stock.MovementType
	WarehouseID id.ID
	Quantity    int64
}

// PlanMovements maps a note item onto the ledger entries it produces.
// Pure function: no repository access, no side effects.
//
//	ENTRADA        -> ENTRADA_NOTA at destination
//	TRANSFERENCIA  -> SAIDA_TRANSFERENCIA at origin + ENTRADA_TRANSFERENCIA at destination
//	DESCARTE       -> SAIDA_DESCARTE at origin
//	ENTRADA_AJUSTE -> AJUSTE_POSITIVO or AJUSTE_NEGATIVO at destination,
//	                  sign from the item quantity, magnitude abs(quantity)
func PlanMovements(note *Note, item NoteItem) ([]MovementPlan, error) {
	if note.Type != TypeEntradaAjuste && item.Quantity <= 0 {
		return nil, apperror.NewValidation("item quantity must be positive").
			WithDetail("note_type", string(note.Type)).
			WithDetail("quantity", item.Quantity)
	}

	switch note.Type {
	case TypeEntrada:
		return []MovementPlan{{
			Type:        stock.MovEntradaNota,
			WarehouseID: *note.DestinationWarehouseID,
			Quantity:    item.Quantity,
		}}, nil

	case TypeTransferencia:
		return []MovementPlan{
			{
				Type:        stock.MovSaidaTransferencia,
				WarehouseID: *note.OriginWarehouseID,
				Quantity:    item.Quantity,
			},
			{
				Type:        stock.MovEntradaTransferencia,
				WarehouseID: *note.DestinationWarehouseID,
				Quantity:    item.Quantity,
			},
		}, nil

	case TypeDescarte:
		return []MovementPlan{{
			Type:        stock.MovSaidaDescarte,
			WarehouseID: *note.OriginWarehouseID,
			Quantity:    item.Quantity,
		}}, nil

	case TypeEntradaAjuste:
		if item.Quantity == 0 {
			return nil, apperror.NewValidation("adjustment quantity must not be zero")
		}
		movementType := stock.MovAjustePositivo
		quantity := item.Quantity
		if quantity < 0 {
			movementType = stock.MovAjusteNegativo
			quantity = -quantity
		}
		return []MovementPlan{{
			Type:        movementType,
			WarehouseID: *note.DestinationWarehouseID,
			Quantity:    quantity,
		}}, nil
	}

	return nil, apperror.NewValidation("unknown note type").
		WithDetail("note_type", string(note.Type))
}
