// Package model defines the core domain types for financial check-ins.
package model

import "time"

// Account is a single financial account tracked for a user.
type Account struct {
	Name    string  `json:"name"`
	Type    string  `json:"type,omitempty"`
	Balance float64 `json:"balance"`
}

// Debt is an outstanding liability tracked for a user.
type Debt struct {
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	InterestRate   float64 `json:"interestRate,omitempty"`
	MinimumPayment float64 `json:"minimumPayment,omitempty"`
}

// Goal is a savings target tracked for a user.
type Goal struct {
	Name          string  `json:"name"`
	TargetDate    string  `json:"targetDate,omitempty"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount,omitempty"`
}

// FinancialState is the durable per-user financial snapshot. Accounts,
// debts and goals are keyed by name; names are assumed unique per user.
type FinancialState struct {
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	ExpenseCategories map[string]float64 `json:"expenseCategories"`
	UserID            string             `json:"userId"`
	Accounts          []Account          `json:"accounts"`
	Debts             []Debt             `json:"debts"`
	Goals             []Goal             `json:"goals"`
	MonthlyIncome     float64            `json:"monthlyIncome"`
	MonthlyExpenses   float64            `json:"monthlyExpenses"`
	SavingsRate       float64            `json:"savingsRate"`
}

// NewFinancialState returns an empty state for a user.
func NewFinancialState(userID string, now time.Time) *FinancialState {
	return &FinancialState{
		UserID:            userID,
		ExpenseCategories: make(map[string]float64),
		Accounts:          []Account{},
		Debts:             []Debt{},
		Goals:             []Goal{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// RecalculateSavingsRate recomputes the savings rate from the stored
// income and aggregate expenses. When income is zero or negative the
// prior value is kept.
func (s *FinancialState) RecalculateSavingsRate() {
	if s.MonthlyIncome <= 0 {
		return
	}
	s.SavingsRate = SavingsRate(s.MonthlyIncome, s.MonthlyExpenses)
}

// Clone returns a deep copy of the state so callers can merge without
// mutating the original.
func (s *FinancialState) Clone() *FinancialState {
	out := *s
	out.ExpenseCategories = make(map[string]float64, len(s.ExpenseCategories))
	for k, v := range s.ExpenseCategories {
		out.ExpenseCategories[k] = v
	}
	out.Accounts = append([]Account(nil), s.Accounts...)
	out.Debts = append([]Debt(nil), s.Debts...)
	out.Goals = append([]Goal(nil), s.Goals...)
	return &out
}
