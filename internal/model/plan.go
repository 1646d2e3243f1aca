package model

import "time"

// FinancialPlan is one generated plan row. Plans are append-only; the
// current plan is the most recently created row for a user.
type FinancialPlan struct {
	CreatedAt        time.Time          `json:"createdAt"`
	BudgetAllocation map[string]float64 `json:"budgetAllocation"`
	GoalTimelines    map[string]string  `json:"goalTimelines"`
	ID               string             `json:"id"`
	UserID           string             `json:"userId"`
	CheckInID        string             `json:"checkInId"`
	SavingsStrategy  string             `json:"savingsStrategy"`
	DebtStrategy     string             `json:"debtStrategy"`
	ActionItems      []string           `json:"actionItems"`
	Insights         []string           `json:"insights"`
}
