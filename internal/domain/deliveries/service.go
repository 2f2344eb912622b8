package deliveries

import (
	"context"
	"fmt"
	"time"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/core/tx"
	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/domain/fichas"
	"epistock/internal/domain/policy"
	"epistock/internal/domain/stock"
	"epistock/pkg/logger"
	"epistock/pkg/numerator"
)

// numberPrefix for delivery document numbers.
const numberPrefix = "ENT"

// Service drives the delivery lifecycle. Issuance, cancellation and
// return batches are single transactions each.
type Service struct {
	repo      Repository
	ledger    *stock.Ledger
	reverser  *stock.Reverser
	policies  *policy.Service
	fichas    *fichas.Service
	equipment *equipment.Service
	numbers   numerator.Generator
	txm       tx.Manager
}

// NewService creates a delivery service.
func NewService(
	repo Repository,
	ledger *stock.Ledger,
	reverser *stock.Reverser,
	policies *policy.Service,
	fichaSvc *fichas.Service,
	equipmentTypes *equipment.Service,
	numbers numerator.Generator,
	txm tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledger,
		reverser:  reverser,
		policies:  policies,
		fichas:    fichaSvc,
		equipment: equipmentTypes,
		numbers:   numbers,
		txm:       txm,
	}
}

// IssueItem is one requested equipment type and unit count.
type IssueItem struct {
	EquipmentTypeID id.ID
	Quantity        int64
}

// IssueInput describes a delivery issuance request.
type IssueInput struct {
	FichaID       id.ID
	WarehouseID   id.ID
	ResponsibleID id.ID
	Items         []IssueItem
}

// Issue hands the requested units to the employee. Each unit gets its own
// DeliveryItem with a computed return due date, and one SAIDA_ENTREGA
// ledger entry of quantity 1. If any unit cannot be sourced the whole
// issuance fails; there is no partial delivery.
func (s *Service) Issue(ctx context.Context, in IssueInput) (*Delivery, error) {
	if len(in.Items) == 0 {
		return nil, apperror.NewValidation("delivery requires at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidation("item quantity must be positive").
				WithDetail("equipment_type_id", item.EquipmentTypeID.String())
		}
	}

	number, err := s.numbers.GetNextNumber(ctx, numberPrefix, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate delivery number: %w", err)
	}

	var delivery *Delivery
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		pol, err := s.policies.Resolve(ctx)
		if err != nil {
			return err
		}

		if _, err := s.fichas.RequireActive(ctx, in.FichaID); err != nil {
			return err
		}

		delivery = NewDelivery(in.FichaID, in.WarehouseID, in.ResponsibleID)
		delivery.Number = number

		issuedAt := time.Now().UTC()

		for _, requested := range in.Items {
			equipmentType, err := s.equipment.RequireActive(ctx, requested.EquipmentTypeID)
			if err != nil {
				return err
			}
			dueDate := issuedAt.AddDate(0, 0, equipmentType.UsefulLifeDays)

			// One ledger entry and one item row per physical unit.
			for unit := int64(0); unit < requested.Quantity; unit++ {
				movement, err := s.ledger.Apply(ctx, stock.ApplyInput{
					Key: stock.Key{
						WarehouseID:     in.WarehouseID,
						EquipmentTypeID: requested.EquipmentTypeID,
						Status:          stock.StatusDisponivel,
					},
					Type:          stock.MovSaidaEntrega,
					Quantity:      1,
					ResponsibleID: in.ResponsibleID,
					OccurredAt:    issuedAt,
				}, pol)
				if err != nil {
					return err
				}

				delivery.Items = append(delivery.Items, DeliveryItem{
					ID:                id.New(),
					DeliveryID:        delivery.ID,
					SourceStockItemID: movement.StockItemID,
					EquipmentTypeID:   requested.EquipmentTypeID,
					IssueMovementID:   movement.ID,
					Quantity:          1,
					Status:            ItemComColaborador,
					ReturnDueDate:     dueDate,
					CreatedAt:         issuedAt,
				})
			}
		}

		if err := s.repo.Create(ctx, delivery); err != nil {
			return fmt.Errorf("create delivery: %w", err)
		}
		for i := range delivery.Items {
			if err := s.repo.CreateItem(ctx, &delivery.Items[i]); err != nil {
				return fmt.Errorf("create delivery item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery issued",
		"id", delivery.ID,
		"number", delivery.Number,
		"ficha_id", delivery.FichaID,
		"units", len(delivery.Items),
	)
	return delivery, nil
}

// Sign records the employee signature on a pending delivery.
func (s *Service) Sign(ctx context.Context, deliveryID id.ID, signatureRef string) (*Delivery, error) {
	var delivery *Delivery
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, deliveryID)
		if err != nil {
			return err
		}
		if err := d.CanSign(); err != nil {
			return err
		}

		d.MarkSigned(time.Now().UTC(), signatureRef)
		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update delivery: %w", err)
		}
		delivery = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery signed", "id", delivery.ID)
	return delivery, nil
}

// Cancel voids a delivery. Units still with the employee are marked
// CANCELADO and their issue movements are compensated, putting the stock
// back where it came from. Units already returned stay DEVOLVIDO.
func (s *Service) Cancel(ctx context.Context, deliveryID id.ID, reason string) (*Delivery, error) {
	var delivery *Delivery
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		pol, err := s.policies.Resolve(ctx)
		if err != nil {
			return err
		}

		d, err := s.repo.GetForUpdate(ctx, deliveryID)
		if err != nil {
			return err
		}
		if d.Status == StatusCancelada {
			return apperror.NewBusinessRule("delivery is already cancelled").
				WithDetail("delivery_id", deliveryID.String())
		}

		items, err := s.repo.GetItems(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery items: %w", err)
		}

		now := time.Now().UTC()
		for i := range items {
			if items[i].Status != ItemComColaborador {
				continue
			}
			if _, err := s.reverser.Reverse(ctx, items[i].IssueMovementID, d.ResponsibleID, pol); err != nil {
				return err
			}
			items[i].Status = ItemCancelado
			if err := s.repo.UpdateItem(ctx, &items[i]); err != nil {
				return fmt.Errorf("update delivery item: %w", err)
			}
		}

		d.MarkCancelled(now, reason)
		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update delivery: %w", err)
		}
		d.Items = items
		delivery = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery cancelled", "id", delivery.ID)
	return delivery, nil
}

// GetByID returns the delivery with its items.
func (s *Service) GetByID(ctx context.Context, deliveryID id.ID) (*Delivery, error) {
	d, err := s.repo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery items: %w", err)
	}
	d.Items = items
	return d, nil
}

// ListByFicha returns the employee's deliveries, items included.
func (s *Service) ListByFicha(ctx context.Context, fichaID id.ID) ([]Delivery, error) {
	list, err := s.repo.ListByFicha(ctx, fichaID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		items, err := s.repo.GetItems(ctx, list[i].ID)
		if err != nil {
			return nil, fmt.Errorf("get delivery items: %w", err)
		}
		list[i].Items = items
	}
	return list, nil
}

// PendingReturn reports whether the ficha has at least one overdue unit.
// Computed on read, used by reporting; nothing is stored.
func (s *Service) PendingReturn(ctx context.Context, fichaID id.ID) (bool, error) {
	return s.repo.HasOverdueItems(ctx, fichaID, time.Now().UTC())
}
