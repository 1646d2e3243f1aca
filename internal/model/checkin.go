package model

import (
	"math"
	"strings"
	"time"

	"github.com/marlowe-fi/centsible/internal/common"
)

// CheckInRequest is the inbound payload for a single check-in.
type CheckInRequest struct {
	MonthlyExpenses  map[string]float64 `json:"monthlyExpenses,omitempty"`
	MonthlyIncome    *float64           `json:"monthlyIncome,omitempty"`
	Message          string             `json:"message"`
	IsMonthlyCheckIn bool               `json:"isMonthlyCheckIn,omitempty"`
}

// Validate rejects malformed requests before any side effect.
func (r *CheckInRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return common.NewValidationError("message", "must be non-empty")
	}
	if r.MonthlyIncome != nil {
		if !isFiniteAmount(*r.MonthlyIncome) {
			return common.NewValidationError("monthlyIncome", "must be a finite number")
		}
		if *r.MonthlyIncome < 0 {
			return common.NewValidationError("monthlyIncome", "must not be negative")
		}
	}
	for category, amount := range r.MonthlyExpenses {
		if strings.TrimSpace(category) == "" {
			return common.NewValidationError("monthlyExpenses", "category name must be non-empty")
		}
		if !isFiniteAmount(amount) || amount < 0 {
			return common.NewValidationError("monthlyExpenses", "amount for "+category+" must be a non-negative finite number")
		}
	}
	return nil
}

func isFiniteAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckIn is the immutable audit record of one user-submitted update.
// It is persisted before synthesis so raw input is never lost.
type CheckIn struct {
	CreatedAt        time.Time          `json:"createdAt"`
	MonthlyExpenses  map[string]float64 `json:"monthlyExpenses,omitempty"`
	MonthlyIncome    *float64           `json:"monthlyIncome,omitempty"`
	ID               string             `json:"id"`
	UserID           string             `json:"userId"`
	Message          string             `json:"message"`
	IsMonthlyCheckIn bool               `json:"isMonthlyCheckIn"`
}

// CheckInResult is returned to the caller once the pipeline completes.
// Plan is nil unless this check-in triggered a plan regeneration.
type CheckInResult struct {
	CreatedAt    time.Time      `json:"createdAt"`
	Plan         *FinancialPlan `json:"plan,omitempty"`
	CheckInID    string         `json:"checkInId"`
	ResponseText string         `json:"responseText"`
}
