package stock

import (
	"context"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/core/tx"
	"epistock/internal/domain/policy"
	"epistock/pkg/logger"
)

// Service exposes the standalone ledger operations: direct adjustments,
// movement reversal outside of a note, and balance/history reads.
// Note conclusion and delivery issuance drive the ledger through their
// own services; this one covers what happens without a document.
type Service struct {
	repo     Repository
	ledger   *Ledger
	reverser *Reverser
	policies *policy.Service
	txm      tx.Manager
}

// NewService creates the stock service.
func NewService(repo Repository, ledger *Ledger, reverser *Reverser, policies *policy.Service, txm tx.Manager) *Service {
	return &Service{
		repo:     repo,
		ledger:   ledger,
		reverser: reverser,
		policies: policies,
		txm:      txm,
	}
}

// AdjustmentInput describes a direct ledger adjustment.
type AdjustmentInput struct {
	WarehouseID     id.ID
	EquipmentTypeID id.ID
	Status          Status

	// Quantity is the signed net delta; the movement type and magnitude
	// are derived from its sign.
	Quantity int64

	ResponsibleID id.ID
}

// Adjust records a forced adjustment without a movement note. Gated by
// the AllowForcedAdjustments policy flag, resolved inside the transaction.
func (s *Service) Adjust(ctx context.Context, in AdjustmentInput) (*Movement, error) {
	if in.Quantity == 0 {
		return nil, apperror.NewValidation("adjustment quantity must not be zero")
	}

	var movement *Movement
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		pol, err := s.policies.Resolve(ctx)
		if err != nil {
			return err
		}
		if !pol.AllowForcedAdjustments {
			return apperror.NewBusinessRule("forced adjustments are disabled by policy")
		}

		movementType := MovAjustePositivo
		quantity := in.Quantity
		if quantity < 0 {
			movementType = MovAjusteNegativo
			quantity = -quantity
		}

		movement, err = s.ledger.Apply(ctx, ApplyInput{
			Key: Key{
				WarehouseID:     in.WarehouseID,
				EquipmentTypeID: in.EquipmentTypeID,
				Status:          in.Status,
			},
			Type:          movementType,
			Quantity:      quantity,
			ResponsibleID: in.ResponsibleID,
		}, pol)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "forced adjustment recorded",
		"movement_id", movement.ID,
		"movement_type", movement.Type,
		"quantity", movement.Quantity,
	)

	return movement, nil
}

// ReverseMovement reverses a single movement outside of a note cancel.
func (s *Service) ReverseMovement(ctx context.Context, movementID, responsibleID id.ID) (*Movement, error) {
	var reversal *Movement
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		pol, err := s.policies.Resolve(ctx)
		if err != nil {
			return err
		}
		reversal, err = s.reverser.Reverse(ctx, movementID, responsibleID, pol)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reversal, nil
}

// Balance returns the current balance for one stock key.
func (s *Service) Balance(ctx context.Context, key Key) (*Item, error) {
	if !key.Status.Valid() {
		return nil, apperror.NewValidation("unknown stock status").
			WithDetail("status", string(key.Status))
	}
	return s.repo.GetItemByKey(ctx, key)
}

// WarehouseBalances returns all non-zero balances for a warehouse.
func (s *Service) WarehouseBalances(ctx context.Context, warehouseID id.ID) ([]Item, error) {
	return s.repo.ListBalancesByWarehouse(ctx, warehouseID)
}

// ItemHistory returns movement history for a stock item, newest first.
func (s *Service) ItemHistory(ctx context.Context, itemID id.ID, limit, offset int) ([]Movement, error) {
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListMovementsByItem(ctx, itemID, limit, offset)
}
