// Package service defines the contracts shared by the check-in pipeline.
package service

import (
	"context"

	"github.com/marlowe-fi/centsible/internal/model"
)

// Storage defines the contract for the persistence layer. FinancialState
// and SummaryMemory are lazily created on first access; CheckIn and
// FinancialPlan rows are append-only.
type Storage interface {
	// Financial state
	GetOrCreateFinancialState(ctx context.Context, userID string) (*model.FinancialState, error)
	SaveFinancialState(ctx context.Context, state *model.FinancialState) error

	// Check-ins
	SaveCheckIn(ctx context.Context, checkIn *model.CheckIn) error
	GetCheckIn(ctx context.Context, id string) (*model.CheckIn, error)
	ListCheckIns(ctx context.Context, userID string, limit int) ([]model.CheckIn, error)

	// Plans
	SavePlan(ctx context.Context, plan *model.FinancialPlan) error
	GetLatestPlan(ctx context.Context, userID string) (*model.FinancialPlan, error)

	// Summary memory
	GetOrCreateSummary(ctx context.Context, userID string) (*model.SummaryMemory, error)
	SaveSummary(ctx context.Context, summary *model.SummaryMemory) error

	// Bulk data erasure: purges state, summary, check-ins and plans for a
	// user in one transaction.
	EraseUserData(ctx context.Context, userID string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
