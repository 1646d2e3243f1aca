package engine

import (
	"context"

	"github.com/marlowe-fi/centsible/internal/model"
	"github.com/marlowe-fi/centsible/internal/synthesis"
)

// Synthesizer produces the structured synthesis result for one check-in.
// Implementations contain upstream failures and return a degraded result
// instead of an error.
type Synthesizer interface {
	Synthesize(ctx context.Context, in synthesis.Input) *synthesis.Result
}

// SummaryUpdater folds a check-in into the rolling summary. The returned
// digest never exceeds model.MaxSummaryLength.
type SummaryUpdater interface {
	Update(ctx context.Context, current string, checkIn *model.CheckIn, state *model.FinancialState) string
}
