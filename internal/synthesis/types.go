// Package synthesis turns a free-text check-in into structured financial
// deltas, a conversational answer and, when warranted, a regenerated plan,
// by delegating to a generative text service over an ordered model
// fallback chain.
package synthesis

import (
	"github.com/marlowe-fi/centsible/internal/model"
)

// Input carries everything the synthesizer sends to the generative
// service for one check-in.
type Input struct {
	ManualExpenses   map[string]float64
	ManualIncome     *float64
	State            *model.FinancialState
	PreviousPlan     *model.FinancialPlan
	Message          string
	Summary          string
	IsMonthlyCheckIn bool
}

// PlanDraft holds the plan fields produced by the service before they
// are persisted as a FinancialPlan row.
type PlanDraft struct {
	BudgetAllocation map[string]float64
	GoalTimelines    map[string]string
	SavingsStrategy  string
	DebtStrategy     string
	ActionItems      []string
	Insights         []string
}

// Result is the outcome of one synthesis. When Degraded is true every
// model in the chain failed (or the chain aborted early); ResponseText
// then carries a human-readable explanation, ShouldUpdatePlan is false
// and Extracted is nil so financial state is left untouched.
type Result struct {
	Extracted        *model.FinancialDelta
	Plan             *PlanDraft
	ResponseText     string
	FailureClass     string
	ShouldUpdatePlan bool
	Degraded         bool
}

// Failure classes reported on a degraded result.
const (
	FailureAuth        = "auth"
	FailureQuota       = "quota"
	FailureParse       = "parse"
	FailureUnavailable = "unavailable"
	FailureTimeout     = "timeout"
	FailureUnknown     = "unknown"
)
