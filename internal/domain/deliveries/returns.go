package deliveries

import (
	"context"
	"fmt"
	"time"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/stock"
	"epistock/pkg/logger"
)

// ReturnInput describes a batch of units coming back from an employee.
type ReturnInput struct {
	DeliveryID    id.ID
	ItemIDs       []id.ID
	Reason        string
	ResponsibleID id.ID
}

// ReturnResult reports what a return batch did.
type ReturnResult struct {
	ItemsProcessed   []DeliveryItem   `json:"itemsProcessed"`
	MovementsCreated []stock.Movement `json:"movementsCreated"`
	FullyReturned    bool             `json:"fullyReturned"`
}

// ProcessReturn takes units back from the employee. Every returned unit
// lands in AGUARDANDO_INSPECAO at the delivery's warehouse; it only
// becomes available again after a separate inspection adjustment. The
// whole batch is one transaction.
func (s *Service) ProcessReturn(ctx context.Context, in ReturnInput) (*ReturnResult, error) {
	if len(in.ItemIDs) == 0 {
		return nil, apperror.NewValidation("return requires at least one item")
	}

	var result *ReturnResult
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		pol, err := s.policies.Resolve(ctx)
		if err != nil {
			return err
		}

		d, err := s.repo.GetForUpdate(ctx, in.DeliveryID)
		if err != nil {
			return err
		}
		if d.Status != StatusAssinada {
			return apperror.NewBusinessRule("delivery not signed").
				WithDetail("delivery_id", in.DeliveryID.String()).
				WithDetail("status", string(d.Status))
		}

		items, err := s.repo.GetItems(ctx, in.DeliveryID)
		if err != nil {
			return fmt.Errorf("get delivery items: %w", err)
		}
		byID := make(map[id.ID]*DeliveryItem, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		now := time.Now().UTC()
		processed := make([]DeliveryItem, 0, len(in.ItemIDs))
		movements := make([]stock.Movement, 0, len(in.ItemIDs))
		for _, itemID := range in.ItemIDs {
			item, ok := byID[itemID]
			if !ok {
				return apperror.NewBusinessRule("item does not belong to delivery").
					WithDetail("item_id", itemID.String())
			}
			if item.Status != ItemComColaborador {
				return apperror.NewBusinessRule("item already returned").
					WithDetail("item_id", itemID.String()).
					WithDetail("status", string(item.Status))
			}

			movement, err := s.ledger.Apply(ctx, stock.ApplyInput{
				Key: stock.Key{
					WarehouseID:     d.WarehouseID,
					EquipmentTypeID: item.EquipmentTypeID,
					Status:          stock.StatusAguardandoInspecao,
				},
				Type:          stock.MovEntradaDevolucao,
				Quantity:      1,
				ResponsibleID: in.ResponsibleID,
				OccurredAt:    now,
			}, pol)
			if err != nil {
				return err
			}

			item.Status = ItemDevolvido
			item.ReturnedAt = &now
			if in.Reason != "" {
				item.ReturnReason = &in.Reason
			}
			if err := s.repo.UpdateItem(ctx, item); err != nil {
				return fmt.Errorf("update delivery item: %w", err)
			}
			processed = append(processed, *item)
			movements = append(movements, *movement)
		}

		d.Items = items
		result = &ReturnResult{
			ItemsProcessed:   processed,
			MovementsCreated: movements,
			FullyReturned:    d.FullyReturned(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery return processed",
		"delivery_id", in.DeliveryID,
		"items_returned", len(result.ItemsProcessed),
		"fully_returned", result.FullyReturned,
	)
	return result, nil
}
