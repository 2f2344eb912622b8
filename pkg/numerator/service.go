// Package numerator provides document auto-numbering.
// Notes and deliveries get sequential, per-year numbers such as
// "NM-2026-00042", allocated from the sys_sequences table.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Generator produces the next document number for a prefix.
type Generator interface {
	GetNextNumber(ctx context.Context, prefix string, at time.Time) (string, error)
}

// Querier is the minimal database surface the service needs.
// Both pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service implements Generator against a sys_sequences table.
// Every number is taken with a single UPSERT ... RETURNING, so numbers
// are sequential without gaps as long as the caller commits.
type Service struct {
	querier Querier
}

// New creates a numerator service.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

const nextNumberSQL = `
	INSERT INTO sys_sequences (key, current_val)
	VALUES ($1, 1)
	ON CONFLICT (key) DO UPDATE
	SET current_val = sys_sequences.current_val + 1
	RETURNING current_val
`

// GetNextNumber returns the next number formatted as PREFIX-YYYY-NNNNN.
// The sequence key includes the year, so numbering restarts each year.
func (s *Service) GetNextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	year := at.Year()
	key := fmt.Sprintf("%s_%d", prefix, year)

	var current int64
	if err := s.querier.QueryRow(ctx, nextNumberSQL, key).Scan(&current); err != nil {
		return "", fmt.Errorf("next number for %s: %w", key, err)
	}

	return fmt.Sprintf("%s-%d-%05d", prefix, year, current), nil
}

var _ Generator = (*Service)(nil)
