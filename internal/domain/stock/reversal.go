package stock

import (
	"context"
	"fmt"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/policy"
	"epistock/pkg/logger"
)

// Reverser generates compensating movements. The origin movement is never
// mutated or removed; full history stays reconstructable by following
// OriginMovementID references.
type Reverser struct {
	repo   Repository
	ledger *Ledger
}

// NewReverser creates a reverser sharing the ledger's repository.
func NewReverser(repo Repository, ledger *Ledger) *Reverser {
	return &Reverser{repo: repo, ledger: ledger}
}

// Reverse records the compensating movement for originID and applies the
// inverse delta. Like Ledger.Apply it must run inside the caller's
// transaction.
//
// Reversing the same origin twice produces a second, independent
// compensating entry; rejecting a duplicate cancel is the note state
// machine's job, not the ledger's.
func (r *Reverser) Reverse(ctx context.Context, originID, responsibleID id.ID, pol policy.Config) (*Movement, error) {
	origin, err := r.repo.GetMovement(ctx, originID)
	if err != nil {
		return nil, err
	}

	estornoType, ok := origin.Type.EstornoType()
	if !ok {
		return nil, apperror.NewBusinessRule("cannot reverse a reversal movement").
			WithDetail("movement_id", originID.String()).
			WithDetail("movement_type", string(origin.Type))
	}

	item, err := r.repo.GetItem(ctx, origin.StockItemID)
	if err != nil {
		return nil, fmt.Errorf("resolve stock item of origin movement: %w", err)
	}

	originRef := origin.ID
	reversal, err := r.ledger.Apply(ctx, ApplyInput{
		Key:              item.Key(),
		Type:             estornoType,
		Quantity:         origin.Quantity,
		ResponsibleID:    responsibleID,
		OriginMovementID: &originRef,
		NoteID:           origin.NoteID,
	}, pol)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "movement reversed",
		"origin_movement_id", origin.ID,
		"reversal_movement_id", reversal.ID,
		"movement_type", reversal.Type,
	)

	return reversal, nil
}
