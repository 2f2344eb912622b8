package stock

import (
	"time"

	"epistock/internal/core/id"
)

// MovementType classifies a ledger entry. The type implies the sign of
// the quantity; Movement.Quantity is always the magnitude.
type MovementType string

const (
	MovEntradaNota          MovementType = "ENTRADA_NOTA"
	MovSaidaEntrega         MovementType = "SAIDA_ENTREGA"
	MovSaidaTransferencia   MovementType = "SAIDA_TRANSFERENCIA"
	MovEntradaTransferencia MovementType = "ENTRADA_TRANSFERENCIA"
	MovSaidaDescarte        MovementType = "SAIDA_DESCARTE"
	MovAjustePositivo       MovementType = "AJUSTE_POSITIVO"
	MovAjusteNegativo       MovementType = "AJUSTE_NEGATIVO"
	MovEntradaDevolucao     MovementType = "ENTRADA_DEVOLUCAO"

	MovEstornoEntradaNota          MovementType = "ESTORNO_ENTRADA_NOTA"
	MovEstornoSaidaEntrega         MovementType = "ESTORNO_SAIDA_ENTREGA"
	MovEstornoSaidaTransferencia   MovementType = "ESTORNO_SAIDA_TRANSFERENCIA"
	MovEstornoEntradaTransferencia MovementType = "ESTORNO_ENTRADA_TRANSFERENCIA"
	MovEstornoSaidaDescarte        MovementType = "ESTORNO_SAIDA_DESCARTE"
	MovEstornoAjustePositivo       MovementType = "ESTORNO_AJUSTE_POSITIVO"
	MovEstornoAjusteNegativo       MovementType = "ESTORNO_AJUSTE_NEGATIVO"
	MovEstornoEntradaDevolucao     MovementType = "ESTORNO_ENTRADA_DEVOLUCAO"
)

// direction maps each movement type onto the sign of its balance delta.
var direction = map[MovementType]int64{
	MovEntradaNota:          +1,
	MovEntradaTransferencia: +1,
	MovEntradaDevolucao:     +1,
	MovAjustePositivo:       +1,
	MovSaidaEntrega:         -1,
	MovSaidaTransferencia:   -1,
	MovSaidaDescarte:        -1,
	MovAjusteNegativo:       -1,

	// An estorno carries the inverse sign of the movement it compensates.
	MovEstornoEntradaNota:          -1,
	MovEstornoEntradaTransferencia: -1,
	MovEstornoEntradaDevolucao:     -1,
	MovEstornoAjustePositivo:       -1,
	MovEstornoSaidaEntrega:         +1,
	MovEstornoSaidaTransferencia:   +1,
	MovEstornoSaidaDescarte:        +1,
	MovEstornoAjusteNegativo:       +1,
}

// estornoOf maps a movement type to the type of its compensating entry.
// Estorno types have no entry here: a reversal is never reversed itself,
// the origin movement is reversed again instead.
var estornoOf = map[MovementType]MovementType{
	MovEntradaNota:          MovEstornoEntradaNota,
	MovSaidaEntrega:         MovEstornoSaidaEntrega,
	MovSaidaTransferencia:   MovEstornoSaidaTransferencia,
	MovEntradaTransferencia: MovEstornoEntradaTransferencia,
	MovSaidaDescarte:        MovEstornoSaidaDescarte,
	MovAjustePositivo:       MovEstornoAjustePositivo,
	MovAjusteNegativo:       MovEstornoAjusteNegativo,
	MovEntradaDevolucao:     MovEstornoEntradaDevolucao,
}

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	_, ok := direction[t]
	return ok
}

// Direction returns +1 for types that increase a balance, -1 otherwise.
func (t MovementType) Direction() int64 {
	return direction[t]
}

// IsEstorno reports whether t is a compensating type.
func (t MovementType) IsEstorno() bool {
	_, ok := estornoOf[t]
	return t.Valid() && !ok
}

// EstornoType returns the compensating type for t, or false when t is
// itself an estorno.
func (t MovementType) EstornoType() (MovementType, bool) {
	est, ok := estornoOf[t]
	return est, ok
}

// Movement is one immutable ledger entry. Movements are never updated or
// deleted; a reversal is a new movement pointing back through
// OriginMovementID.
type Movement struct {
	ID          id.ID        `db:"id" json:"id"`
	StockItemID id.ID        `db:"stock_item_id" json:"stockItemId"`
	Type        MovementType `db:"movement_type" json:"movementType"`

	// Quantity is the magnitude; the sign comes from Type.
	Quantity int64 `db:"quantity" json:"quantity"`

	OccurredAt    time.Time `db:"occurred_at" json:"occurredAt"`
	ResponsibleID id.ID     `db:"responsible_id" json:"responsibleId"`

	// OriginMovementID references the movement this one compensates.
	// Non-owning self reference; traversal is a repository query.
	OriginMovementID *id.ID `db:"origin_movement_id" json:"originMovementId,omitempty"`

	// NoteID links the movement to the note that produced it, if any.
	NoteID *id.ID `db:"note_id" json:"noteId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SignedQuantity returns the balance delta this movement applied.
func (m *Movement) SignedQuantity() int64 {
	return m.Type.Direction() * m.Quantity
}
