// Package policy resolves the stock-control policy flags.
//
// Flags are read from the settings repository at the start of each
// operation and passed down as a value, so a single operation never sees
// two different policies and nothing reads mutable global state mid-flight.
package policy

import (
	"context"
	"fmt"
)

// Config is the resolved policy snapshot for one operation.
type Config struct {
	// AllowNegativeStock permits exits that drive a balance below zero.
	AllowNegativeStock bool

	// AllowForcedAdjustments permits direct ledger adjustments created
	// outside of a movement note.
	AllowForcedAdjustments bool
}

// Repository loads the persisted policy flags.
// The postgres implementation reads inside the caller's transaction.
type Repository interface {
	Load(ctx context.Context) (Config, error)
}

// Service resolves the policy for an operation.
type Service struct {
	repo Repository
}

// NewService creates a policy service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve loads a fresh policy snapshot. Call it inside the operation's
// transaction, before any ledger mutation.
func (s *Service) Resolve(ctx context.Context) (Config, error) {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return Config{}, fmt.Errorf("load policy flags: %w", err)
	}
	return cfg, nil
}
