package deliveries_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/domain/deliveries"
	"epistock/internal/domain/fichas"
	"epistock/internal/domain/policy"
	"epistock/internal/domain/stock"
	"epistock/internal/domain/stock/stocktest"
)

type deliveryFixture struct {
	svc          *deliveries.Service
	deliveryRepo *memDeliveryRepo
	stockRepo    *stocktest.MemRepo
	fichaRepo    *memFichaRepo
	equipment    *memEquipmentRepo
	warehouseID  id.ID
}

func newDeliveryFixture(pol policy.Config) *deliveryFixture {
	deliveryRepo := newMemDeliveryRepo()
	stockRepo := stocktest.NewMemRepo()
	fichaRepo := newMemFichaRepo()
	equipmentRepo := newMemEquipmentRepo()

	ledger := stock.NewLedger(stockRepo)
	reverser := stock.NewReverser(stockRepo, ledger)
	txm := stocktest.TxManager{Repos: []stocktest.Snapshotter{stockRepo, deliveryRepo}}

	svc := deliveries.NewService(
		deliveryRepo,
		ledger,
		reverser,
		policy.NewService(stocktest.StaticPolicy{Config: pol}),
		fichas.NewService(fichaRepo),
		equipment.NewService(equipmentRepo),
		&seqNumbers{},
		txm,
	)
	return &deliveryFixture{
		svc:          svc,
		deliveryRepo: deliveryRepo,
		stockRepo:    stockRepo,
		fichaRepo:    fichaRepo,
		equipment:    equipmentRepo,
		warehouseID:  id.New(),
	}
}

func (f *deliveryFixture) availableKey(equipmentTypeID id.ID) stock.Key {
	return stock.Key{
		WarehouseID:     f.warehouseID,
		EquipmentTypeID: equipmentTypeID,
		Status:          stock.StatusDisponivel,
	}
}

func (f *deliveryFixture) inspectionKey(equipmentTypeID id.ID) stock.Key {
	return stock.Key{
		WarehouseID:     f.warehouseID,
		EquipmentTypeID: equipmentTypeID,
		Status:          stock.StatusAguardandoInspecao,
	}
}

func TestIssue_OneItemRowPerUnit(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 10)

	d, err := f.svc.Issue(context.Background(), deliveries.IssueInput{
		FichaID:       ficha,
		WarehouseID:   f.warehouseID,
		ResponsibleID: id.New(),
		Items: []deliveries.IssueItem{
			{EquipmentTypeID: epi, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, deliveries.StatusPendenteAssinatura, d.Status)
	assert.True(t, strings.HasPrefix(d.Number, "ENT-"), "number: %s", d.Number)
	require.Len(t, d.Items, 3, "quantity expands into unit rows")
	for _, item := range d.Items {
		assert.Equal(t, int64(1), item.Quantity)
		assert.Equal(t, deliveries.ItemComColaborador, item.Status)
		assert.False(t, id.IsNil(item.IssueMovementID))
	}
	assert.Equal(t, int64(7), f.stockRepo.Balance(f.availableKey(epi)))
	assert.Len(t, f.stockRepo.Movements(), 3, "one SAIDA_ENTREGA per unit")
}

func TestIssue_ReturnDueDateFromUsefulLife(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)

	before := time.Now().UTC()
	d, err := f.svc.Issue(context.Background(), deliveries.IssueInput{
		FichaID:       ficha,
		WarehouseID:   f.warehouseID,
		ResponsibleID: id.New(),
		Items:         []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 1}},
	})
	require.NoError(t, err)

	require.Len(t, d.Items, 1)
	due := d.Items[0].ReturnDueDate
	assert.False(t, due.Before(before.AddDate(0, 0, 180)))
	assert.False(t, due.After(time.Now().UTC().AddDate(0, 0, 180)))
}

func TestIssue_InsufficientStockIsAtomic(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 2)

	_, err := f.svc.Issue(context.Background(), deliveries.IssueInput{
		FichaID:       ficha,
		WarehouseID:   f.warehouseID,
		ResponsibleID: id.New(),
		Items:         []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 3}},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, int64(2), f.stockRepo.Balance(f.availableKey(epi)), "first two units rolled back")
	assert.Empty(t, f.stockRepo.Movements())
	assert.Empty(t, f.deliveryRepo.deliveries)
}

func TestIssue_InactiveFicha(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(false)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)

	_, err := f.svc.Issue(context.Background(), deliveries.IssueInput{
		FichaID:       ficha,
		WarehouseID:   f.warehouseID,
		ResponsibleID: id.New(),
		Items:         []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 1}},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsBusinessRule(err))
	assert.Empty(t, f.stockRepo.Movements())
}

func TestIssue_RejectsEmptyAndNonPositive(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)

	_, err := f.svc.Issue(context.Background(), deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: id.New(),
	})
	require.Error(t, err)

	_, err = f.svc.Issue(context.Background(), deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: id.New(),
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 0}},
	})
	require.Error(t, err)
}

func TestSign_FlipsStatusOnce(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: id.New(),
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 1}},
	})
	require.NoError(t, err)

	signed, err := f.svc.Sign(ctx, d.ID, "sig:abc123")
	require.NoError(t, err)
	assert.Equal(t, deliveries.StatusAssinada, signed.Status)
	require.NotNil(t, signed.SignedAt)
	require.NotNil(t, signed.SignatureRef)
	assert.Equal(t, "sig:abc123", *signed.SignatureRef)

	_, err = f.svc.Sign(ctx, d.ID, "sig:again")
	require.Error(t, err)
	assert.True(t, apperror.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "already signed")
}

func TestProcessReturn_UnitGoesToInspection(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: id.New(),
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = f.svc.Sign(ctx, d.ID, "sig")
	require.NoError(t, err)

	result, err := f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
		DeliveryID:    d.ID,
		ItemIDs:       []id.ID{d.Items[0].ID},
		Reason:        "worn out",
		ResponsibleID: id.New(),
	})
	require.NoError(t, err)

	require.Len(t, result.ItemsProcessed, 1)
	assert.False(t, result.FullyReturned, "one unit still out")
	assert.Equal(t, int64(3), f.stockRepo.Balance(f.availableKey(epi)),
		"returned unit does not go back to DISPONIVEL")
	assert.Equal(t, int64(1), f.stockRepo.Balance(f.inspectionKey(epi)))

	require.Len(t, result.MovementsCreated, 1)
	assert.Equal(t, stock.MovEntradaDevolucao, result.MovementsCreated[0].Type)
	assert.Equal(t, int64(1), result.MovementsCreated[0].Quantity)

	returned := result.ItemsProcessed[0]
	assert.Equal(t, deliveries.ItemDevolvido, returned.Status)
	require.NotNil(t, returned.ReturnedAt)
	require.NotNil(t, returned.ReturnReason)
	assert.Equal(t, "worn out", *returned.ReturnReason)
}

func TestProcessReturn_LastUnitCompletesDelivery(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: id.New(),
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = f.svc.Sign(ctx, d.ID, "sig")
	require.NoError(t, err)

	result, err := f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
		DeliveryID:    d.ID,
		ItemIDs:       []id.ID{d.Items[0].ID, d.Items[1].ID},
		ResponsibleID: id.New(),
	})
	require.NoError(t, err)

	require.Len(t, result.ItemsProcessed, 2)
	assert.Len(t, result.MovementsCreated, 2)
	assert.True(t, result.FullyReturned)

	reloaded, err := f.svc.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, deliveries.StatusAssinada, reloaded.Status,
		"fully returned is derived, not a stored status")
}

func TestProcessReturn_ResultSerializesCamelCase(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: id.New(),
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.svc.Sign(ctx, d.ID, "sig")
	require.NoError(t, err)

	result, err := f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
		DeliveryID:    d.ID,
		ItemIDs:       []id.ID{d.Items[0].ID},
		ResponsibleID: id.New(),
	})
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Contains(t, payload, "itemsProcessed")
	assert.Contains(t, payload, "movementsCreated")
	assert.Contains(t, payload, "fullyReturned")
}

func TestProcessReturn_Guards(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()
	responsible := id.New()

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: responsible,
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 1}},
	})
	require.NoError(t, err)

	t.Run("unsigned delivery", func(t *testing.T) {
		_, err := f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
			DeliveryID: d.ID, ItemIDs: []id.ID{d.Items[0].ID}, ResponsibleID: responsible,
		})
		require.Error(t, err)
		assert.True(t, apperror.IsBusinessRule(err))
		assert.Contains(t, err.Error(), "not signed")
	})

	_, err = f.svc.Sign(ctx, d.ID, "sig")
	require.NoError(t, err)

	t.Run("foreign item", func(t *testing.T) {
		_, err := f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
			DeliveryID: d.ID, ItemIDs: []id.ID{id.New()}, ResponsibleID: responsible,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})

	t.Run("double return", func(t *testing.T) {
		_, err := f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
			DeliveryID: d.ID, ItemIDs: []id.ID{d.Items[0].ID}, ResponsibleID: responsible,
		})
		require.NoError(t, err)

		_, err = f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
			DeliveryID: d.ID, ItemIDs: []id.ID{d.Items[0].ID}, ResponsibleID: responsible,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already returned")
	})
}

func TestProcessReturn_BatchIsAtomic(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()
	responsible := id.New()

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: responsible,
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = f.svc.Sign(ctx, d.ID, "sig")
	require.NoError(t, err)

	// Second id is foreign, so the batch must fail after the first unit
	// already moved; nothing may stick.
	_, err = f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
		DeliveryID:    d.ID,
		ItemIDs:       []id.ID{d.Items[0].ID, id.New()},
		ResponsibleID: responsible,
	})
	require.Error(t, err)

	assert.Equal(t, int64(0), f.stockRepo.Balance(f.inspectionKey(epi)))
	items, err := f.deliveryRepo.GetItems(ctx, d.ID)
	require.NoError(t, err)
	for _, item := range items {
		assert.Equal(t, deliveries.ItemComColaborador, item.Status)
	}
}

func TestCancel_ReversesHeldUnitsOnly(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()
	responsible := id.New()

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: responsible,
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = f.svc.Sign(ctx, d.ID, "sig")
	require.NoError(t, err)

	_, err = f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
		DeliveryID: d.ID, ItemIDs: []id.ID{d.Items[0].ID}, ResponsibleID: responsible,
	})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, d.ID, "issued to wrong employee")
	require.NoError(t, err)

	assert.Equal(t, deliveries.StatusCancelada, cancelled.Status)
	// Two held units came back to DISPONIVEL through estornos; the
	// returned one stays in inspection.
	assert.Equal(t, int64(4), f.stockRepo.Balance(f.availableKey(epi)))
	assert.Equal(t, int64(1), f.stockRepo.Balance(f.inspectionKey(epi)))

	statuses := map[deliveries.ItemStatus]int{}
	for _, item := range cancelled.Items {
		statuses[item.Status]++
	}
	assert.Equal(t, 2, statuses[deliveries.ItemCancelado])
	assert.Equal(t, 1, statuses[deliveries.ItemDevolvido])
}

func TestCancel_Twice(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	epi := f.equipment.add(180, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: id.New(),
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, d.ID, "first")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, d.ID, "second")
	require.Error(t, err)
	assert.True(t, apperror.IsBusinessRule(err))
}

func TestPendingReturn_OverduePredicate(t *testing.T) {
	f := newDeliveryFixture(policy.Config{})
	ficha := f.fichaRepo.add(true)
	// Useful life of zero days makes the unit overdue immediately.
	epi := f.equipment.add(0, true)
	f.stockRepo.Seed(f.availableKey(epi), 5)
	ctx := context.Background()

	pending, err := f.svc.PendingReturn(ctx, ficha)
	require.NoError(t, err)
	assert.False(t, pending)

	d, err := f.svc.Issue(ctx, deliveries.IssueInput{
		FichaID: ficha, WarehouseID: f.warehouseID, ResponsibleID: id.New(),
		Items: []deliveries.IssueItem{{EquipmentTypeID: epi, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.svc.Sign(ctx, d.ID, "sig")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	pending, err = f.svc.PendingReturn(ctx, ficha)
	require.NoError(t, err)
	assert.True(t, pending)

	_, err = f.svc.ProcessReturn(ctx, deliveries.ReturnInput{
		DeliveryID: d.ID, ItemIDs: []id.ID{d.Items[0].ID}, ResponsibleID: id.New(),
	})
	require.NoError(t, err)

	pending, err = f.svc.PendingReturn(ctx, ficha)
	require.NoError(t, err)
	assert.False(t, pending, "returned units are never overdue")
}
