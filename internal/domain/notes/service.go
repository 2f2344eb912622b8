package notes

import (
	"context"
	"fmt"
	"time"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/core/tx"
	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/domain/catalogs/warehouse"
	"epistock/internal/domain/policy"
	"epistock/internal/domain/stock"
	"epistock/pkg/logger"
	"epistock/pkg/numerator"
)

// numberPrefix for note document numbers.
const numberPrefix = "NM"

// Service drives the note state machine. Conclusion and cancellation run
// inside a single transaction each: every ledger entry of the note
// commits, or the whole operation is rolled back.
type Service struct {
	repo       Repository
	ledger     *stock.Ledger
	reverser   *stock.Reverser
	policies   *policy.Service
	warehouses *warehouse.Service
	equipment  *equipment.Service
	numbers    numerator.Generator
	txm        tx.Manager
}

// NewService creates a note service.
func NewService(
	repo Repository,
	ledger *stock.Ledger,
	reverser *stock.Reverser,
	policies *policy.Service,
	warehouses *warehouse.Service,
	equipmentTypes *equipment.Service,
	numbers numerator.Generator,
	txm tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		ledger:     ledger,
		reverser:   reverser,
		policies:   policies,
		warehouses: warehouses,
		equipment:  equipmentTypes,
		numbers:    numbers,
		txm:        txm,
	}
}

// Create persists a new draft note with its initial items.
func (s *Service) Create(ctx context.Context, n *Note) error {
	if err := n.Validate(ctx); err != nil {
		return err
	}
	n.Status = StatusRascunho

	for i := range n.Items {
		if err := s.validateItemQuantity(n, n.Items[i].Quantity); err != nil {
			return err
		}
	}

	if n.Number == "" {
		number, err := s.numbers.GetNextNumber(ctx, numberPrefix, time.Now())
		if err != nil {
			return fmt.Errorf("generate note number: %w", err)
		}
		n.Number = number
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, n); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		for i := range n.Items {
			n.Items[i].ID = id.New()
			n.Items[i].NoteID = n.ID
			if err := s.repo.CreateItem(ctx, &n.Items[i]); err != nil {
				return fmt.Errorf("create note item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "note created", "id", n.ID, "number", n.Number, "note_type", n.Type)
	return nil
}

// GetByID returns the note with its items.
func (s *Service) GetByID(ctx context.Context, noteID id.ID) (*Note, error) {
	n, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("get note items: %w", err)
	}
	n.Items = items
	return n, nil
}

// AddItem appends an item to a draft note.
func (s *Service) AddItem(ctx context.Context, noteID id.ID, item NoteItem) (*NoteItem, error) {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.GetForUpdate(ctx, noteID)
		if err != nil {
			return err
		}
		if err := n.CanModify(); err != nil {
			return err
		}
		if id.IsNil(item.EquipmentTypeID) {
			return apperror.NewValidation("equipment type is required")
		}
		if err := s.validateItemQuantity(n, item.Quantity); err != nil {
			return err
		}

		item.ID = id.New()
		item.NoteID = noteID
		if err := s.repo.CreateItem(ctx, &item); err != nil {
			return fmt.Errorf("create note item: %w", err)
		}

		n.Touch()
		return s.repo.Update(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem removes an item from a draft note.
func (s *Service) RemoveItem(ctx context.Context, noteID, itemID id.ID) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.GetForUpdate(ctx, noteID)
		if err != nil {
			return err
		}
		if err := n.CanModify(); err != nil {
			return err
		}
		if err := s.repo.DeleteItem(ctx, noteID, itemID); err != nil {
			return err
		}
		n.Touch()
		return s.repo.Update(ctx, n)
	})
}

// ConcludeResult is the outcome of a successful conclusion.
type ConcludeResult struct {
	Note             *Note            `json:"note"`
	MovementsCreated []stock.Movement `json:"movementsCreated"`
	ItemsProcessed   []NoteItem       `json:"itemsProcessed"`
}

// Conclude applies every item of a draft note to the ledger and flips the
// note to CONCLUIDA. The first failing item (unknown equipment type,
// insufficient stock) aborts the whole operation; prior items of the same
// note are rolled back with it.
func (s *Service) Conclude(ctx context.Context, noteID id.ID) (*ConcludeResult, error) {
	var result *ConcludeResult

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		pol, err := s.policies.Resolve(ctx)
		if err != nil {
			return err
		}

		n, err := s.repo.GetForUpdate(ctx, noteID)
		if err != nil {
			return err
		}
		if err := n.CanModify(); err != nil {
			return err
		}

		items, err := s.repo.GetItems(ctx, noteID)
		if err != nil {
			return fmt.Errorf("get note items: %w", err)
		}
		if len(items) == 0 {
			return apperror.NewBusinessRule("note has no items").
				WithDetail("note_id", noteID.String())
		}
		n.Items = items

		if err := n.Validate(ctx); err != nil {
			return err
		}
		if err := s.checkWarehouses(ctx, n); err != nil {
			return err
		}

		now := time.Now().UTC()
		movements := make([]stock.Movement, 0, len(items))
		noteRef := n.ID

		for _, item := range items {
			if _, err := s.equipment.RequireActive(ctx, item.EquipmentTypeID); err != nil {
				return err
			}

			plans, err := PlanMovements(n, item)
			if err != nil {
				return err
			}

			for _, plan := range plans {
				movement, err := s.ledger.Apply(ctx, stock.ApplyInput{
					Key: stock.Key{
						WarehouseID:     plan.WarehouseID,
						EquipmentTypeID: item.EquipmentTypeID,
						Status:          stock.StatusDisponivel,
					},
					Type:          plan.Type,
					Quantity:      plan.Quantity,
					ResponsibleID: n.ResponsibleID,
					OccurredAt:    now,
					NoteID:        &noteRef,
				}, pol)
				if err != nil {
					return err
				}
				movements = append(movements, *movement)
			}
		}

		n.MarkConcluded(now)
		if err := s.repo.Update(ctx, n); err != nil {
			return fmt.Errorf("update note: %w", err)
		}

		result = &ConcludeResult{
			Note:             n,
			MovementsCreated: movements,
			ItemsProcessed:   items,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "note concluded",
		"id", result.Note.ID,
		"number", result.Note.Number,
		"movements", len(result.MovementsCreated),
	)
	return result, nil
}

// CancelResult is the outcome of a successful cancellation.
type CancelResult struct {
	Note            *Note            `json:"cancelledNote"`
	EstoqueAjustado bool             `json:"estoqueAjustado"`
	EstornosGerados []stock.Movement `json:"estornosGerados"`
}

// Cancel cancels a note. A draft flips with no stock effect; a concluded
// note has every movement it produced compensated through the reversal
// engine first. A second cancel is rejected. A reversal failure aborts
// the transaction, so the note is never left partially cancelled.
func (s *Service) Cancel(ctx context.Context, noteID id.ID, reason string) (*CancelResult, error) {
	var result *CancelResult

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		pol, err := s.policies.Resolve(ctx)
		if err != nil {
			return err
		}

		n, err := s.repo.GetForUpdate(ctx, noteID)
		if err != nil {
			return err
		}

		switch n.Status {
		case StatusCancelada:
			return apperror.NewBusinessRule("note is already cancelled").
				WithDetail("note_id", noteID.String())

		case StatusRascunho:
			n.MarkCancelled(time.Now().UTC(), reason)
			if err := s.repo.Update(ctx, n); err != nil {
				return fmt.Errorf("update note: %w", err)
			}
			result = &CancelResult{Note: n, EstoqueAjustado: false}
			return nil

		case StatusConcluida:
			movements, err := s.ledger.MovementsByNote(ctx, noteID)
			if err != nil {
				return fmt.Errorf("list note movements: %w", err)
			}

			estornos := make([]stock.Movement, 0, len(movements))
			for _, m := range movements {
				reversal, err := s.reverser.Reverse(ctx, m.ID, n.ResponsibleID, pol)
				if err != nil {
					return err
				}
				estornos = append(estornos, *reversal)
			}

			n.MarkCancelled(time.Now().UTC(), reason)
			if err := s.repo.Update(ctx, n); err != nil {
				return fmt.Errorf("update note: %w", err)
			}

			result = &CancelResult{
				Note:            n,
				EstoqueAjustado: len(estornos) > 0,
				EstornosGerados: estornos,
			}
			return nil
		}

		return apperror.NewBusinessRule("note is in an unknown status").
			WithDetail("status", string(n.Status))
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "note cancelled",
		"id", result.Note.ID,
		"estoque_ajustado", result.EstoqueAjustado,
		"estornos", len(result.EstornosGerados),
	)
	return result, nil
}

// List returns notes matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Note, error) {
	return s.repo.List(ctx, filter)
}

// validateItemQuantity applies the per-type quantity rule before any
// balance check: positive for regular notes, non-zero for adjustments.
func (s *Service) validateItemQuantity(n *Note, quantity int64) error {
	if n.Type == TypeEntradaAjuste {
		if quantity == 0 {
			return apperror.NewValidation("adjustment quantity must not be zero")
		}
		return nil
	}
	if quantity <= 0 {
		return apperror.NewValidation("item quantity must be positive").
			WithDetail("note_type", string(n.Type)).
			WithDetail("quantity", quantity)
	}
	return nil
}

// checkWarehouses verifies that every warehouse the note references
// exists and is active.
func (s *Service) checkWarehouses(ctx context.Context, n *Note) error {
	if n.OriginWarehouseID != nil {
		if _, err := s.warehouses.RequireActive(ctx, *n.OriginWarehouseID); err != nil {
			return err
		}
	}
	if n.DestinationWarehouseID != nil {
		if _, err := s.warehouses.RequireActive(ctx, *n.DestinationWarehouseID); err != nil {
			return err
		}
	}
	return nil
}
