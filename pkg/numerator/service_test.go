package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences upsert: each call bumps the
// counter for the given key.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	key, _ := args[0].(string)
	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

func TestGetNextNumber_Sequential(t *testing.T) {
	svc := New(&mockQuerier{})
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, "NM", at)
	require.NoError(t, err)
	assert.Equal(t, "NM-2026-00001", num)

	num, err = svc.GetNextNumber(ctx, "NM", at)
	require.NoError(t, err)
	assert.Equal(t, "NM-2026-00002", num)
}

func TestGetNextNumber_PerPrefixAndYear(t *testing.T) {
	svc := New(&mockQuerier{})
	ctx := context.Background()

	num, err := svc.GetNextNumber(ctx, "NM", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "NM-2026-00001", num)

	// Different prefix keeps its own sequence.
	num, err = svc.GetNextNumber(ctx, "ENT", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "ENT-2026-00001", num)

	// New year restarts numbering.
	num, err = svc.GetNextNumber(ctx, "NM", time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "NM-2027-00001", num)
}
