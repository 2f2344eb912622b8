package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/policy"
	"epistock/internal/domain/stock"
	"epistock/internal/domain/stock/stocktest"
)

func testKey() stock.Key {
	return stock.Key{
		WarehouseID:     id.New(),
		EquipmentTypeID: id.New(),
		Status:          stock.StatusDisponivel,
	}
}

func TestLedgerApply_CreatesItemOnFirstEntry(t *testing.T) {
	repo := stocktest.NewMemRepo()
	ledger := stock.NewLedger(repo)
	key := testKey()

	m, err := ledger.Apply(context.Background(), stock.ApplyInput{
		Key:           key,
		Type:          stock.MovEntradaNota,
		Quantity:      50,
		ResponsibleID: id.New(),
	}, policy.Config{})
	require.NoError(t, err)

	assert.Equal(t, stock.MovEntradaNota, m.Type)
	assert.Equal(t, int64(50), m.Quantity)
	assert.Equal(t, int64(50), repo.Balance(key))
	require.Len(t, repo.Movements(), 1)
}

func TestLedgerApply_AccumulatesOnSameKey(t *testing.T) {
	repo := stocktest.NewMemRepo()
	ledger := stock.NewLedger(repo)
	key := testKey()
	responsible := id.New()
	ctx := context.Background()

	_, err := ledger.Apply(ctx, stock.ApplyInput{
		Key: key, Type: stock.MovEntradaNota, Quantity: 30, ResponsibleID: responsible,
	}, policy.Config{})
	require.NoError(t, err)

	_, err = ledger.Apply(ctx, stock.ApplyInput{
		Key: key, Type: stock.MovSaidaEntrega, Quantity: 10, ResponsibleID: responsible,
	}, policy.Config{})
	require.NoError(t, err)

	assert.Equal(t, int64(20), repo.Balance(key))
	assert.Len(t, repo.Movements(), 2)
}

func TestLedgerApply_DistinctStatusesAreDistinctItems(t *testing.T) {
	repo := stocktest.NewMemRepo()
	ledger := stock.NewLedger(repo)
	base := testKey()
	inspecao := base
	inspecao.Status = stock.StatusAguardandoInspecao
	ctx := context.Background()

	_, err := ledger.Apply(ctx, stock.ApplyInput{
		Key: base, Type: stock.MovEntradaNota, Quantity: 5, ResponsibleID: id.New(),
	}, policy.Config{})
	require.NoError(t, err)

	_, err = ledger.Apply(ctx, stock.ApplyInput{
		Key: inspecao, Type: stock.MovEntradaDevolucao, Quantity: 2, ResponsibleID: id.New(),
	}, policy.Config{})
	require.NoError(t, err)

	assert.Equal(t, int64(5), repo.Balance(base))
	assert.Equal(t, int64(2), repo.Balance(inspecao))
}

func TestLedgerApply_InsufficientStock(t *testing.T) {
	repo := stocktest.NewMemRepo()
	ledger := stock.NewLedger(repo)
	key := testKey()
	repo.Seed(key, 3)

	_, err := ledger.Apply(context.Background(), stock.ApplyInput{
		Key: key, Type: stock.MovSaidaEntrega, Quantity: 5, ResponsibleID: id.New(),
	}, policy.Config{})

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, int64(3), repo.Balance(key), "balance untouched on rejection")
	assert.Empty(t, repo.Movements())
}

func TestLedgerApply_NegativeStockAllowedByPolicy(t *testing.T) {
	repo := stocktest.NewMemRepo()
	ledger := stock.NewLedger(repo)
	key := testKey()
	repo.Seed(key, 3)

	_, err := ledger.Apply(context.Background(), stock.ApplyInput{
		Key: key, Type: stock.MovSaidaEntrega, Quantity: 5, ResponsibleID: id.New(),
	}, policy.Config{AllowNegativeStock: true})

	require.NoError(t, err)
	assert.Equal(t, int64(-2), repo.Balance(key))
}

func TestLedgerApply_RejectsInvalidInput(t *testing.T) {
	repo := stocktest.NewMemRepo()
	ledger := stock.NewLedger(repo)
	key := testKey()
	ctx := context.Background()

	cases := []struct {
		name string
		in   stock.ApplyInput
	}{
		{
			name: "zero quantity",
			in:   stock.ApplyInput{Key: key, Type: stock.MovEntradaNota, Quantity: 0, ResponsibleID: id.New()},
		},
		{
			name: "negative quantity",
			in:   stock.ApplyInput{Key: key, Type: stock.MovEntradaNota, Quantity: -4, ResponsibleID: id.New()},
		},
		{
			name: "unknown movement type",
			in:   stock.ApplyInput{Key: key, Type: "PERDA", Quantity: 1, ResponsibleID: id.New()},
		},
		{
			name: "missing responsible",
			in:   stock.ApplyInput{Key: key, Type: stock.MovEntradaNota, Quantity: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Apply(ctx, tc.in, policy.Config{})
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
	assert.Empty(t, repo.Movements())
}

func TestLedgerApply_DefaultsOccurredAt(t *testing.T) {
	repo := stocktest.NewMemRepo()
	ledger := stock.NewLedger(repo)

	before := time.Now().UTC()
	m, err := ledger.Apply(context.Background(), stock.ApplyInput{
		Key: testKey(), Type: stock.MovEntradaNota, Quantity: 1, ResponsibleID: id.New(),
	}, policy.Config{})
	require.NoError(t, err)

	assert.False(t, m.OccurredAt.Before(before))
	assert.False(t, m.OccurredAt.After(time.Now().UTC()))
}

func TestMovementType_Direction(t *testing.T) {
	assert.Equal(t, int64(1), stock.MovEntradaNota.Direction())
	assert.Equal(t, int64(-1), stock.MovSaidaEntrega.Direction())
	assert.Equal(t, int64(-1), stock.MovEstornoEntradaNota.Direction(),
		"reversal of an inbound entry is outbound")
	assert.Equal(t, int64(1), stock.MovEstornoSaidaEntrega.Direction(),
		"reversal of an outbound entry is inbound")
}

func TestMovement_SignedQuantity(t *testing.T) {
	out := stock.Movement{Type: stock.MovSaidaDescarte, Quantity: 7}
	in := stock.Movement{Type: stock.MovEntradaDevolucao, Quantity: 7}

	assert.Equal(t, int64(-7), out.SignedQuantity())
	assert.Equal(t, int64(7), in.SignedQuantity())
}
