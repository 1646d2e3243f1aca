package model

import (
	"strings"

	"github.com/marlowe-fi/centsible/internal/common"
)

// AccountDelta is a partial account update. Nil fields keep the stored
// value when the name matches an existing account.
type AccountDelta struct {
	Balance *float64 `json:"balance,omitempty"`
	Type    *string  `json:"type,omitempty"`
	Name    string   `json:"name"`
}

// DebtDelta is a partial debt update keyed by name.
type DebtDelta struct {
	Amount         *float64 `json:"amount,omitempty"`
	InterestRate   *float64 `json:"interestRate,omitempty"`
	MinimumPayment *float64 `json:"minimumPayment,omitempty"`
	Name           string   `json:"name"`
}

// GoalDelta is a partial goal update keyed by name.
type GoalDelta struct {
	TargetAmount  *float64 `json:"targetAmount,omitempty"`
	CurrentAmount *float64 `json:"currentAmount,omitempty"`
	TargetDate    *string  `json:"targetDate,omitempty"`
	Name          string   `json:"name"`
}

// FinancialDelta is a partial set of financial facts extracted from or
// supplied alongside a check-in, to be merged into FinancialState.
type FinancialDelta struct {
	MonthlyIncome *float64           `json:"monthlyIncome,omitempty"`
	Expenses      map[string]float64 `json:"expenses,omitempty"`
	Accounts      []AccountDelta     `json:"accounts,omitempty"`
	Debts         []DebtDelta        `json:"debts,omitempty"`
	Goals         []GoalDelta        `json:"goals,omitempty"`
}

// IsEmpty reports whether the delta carries no facts at all.
func (d *FinancialDelta) IsEmpty() bool {
	return d == nil ||
		(d.MonthlyIncome == nil && len(d.Expenses) == 0 &&
			len(d.Accounts) == 0 && len(d.Debts) == 0 && len(d.Goals) == 0)
}

// Validate rejects a malformed delta as a whole. Amounts must be finite;
// income, expense amounts, debt amounts and goal targets must not be
// negative. Account balances may be negative (overdrafts).
func (d *FinancialDelta) Validate() error {
	if d == nil {
		return nil
	}
	if d.MonthlyIncome != nil {
		if !isFiniteAmount(*d.MonthlyIncome) || *d.MonthlyIncome < 0 {
			return common.NewValidationError("monthlyIncome", "must be a non-negative finite number")
		}
	}
	for category, amount := range d.Expenses {
		if strings.TrimSpace(category) == "" {
			return common.NewValidationError("expenses", "category name must be non-empty")
		}
		if !isFiniteAmount(amount) || amount < 0 {
			return common.NewValidationError("expenses", "amount for "+category+" must be a non-negative finite number")
		}
	}
	for _, a := range d.Accounts {
		if strings.TrimSpace(a.Name) == "" {
			return common.NewValidationError("accounts", "account name must be non-empty")
		}
		if a.Balance != nil && !isFiniteAmount(*a.Balance) {
			return common.NewValidationError("accounts", "balance for "+a.Name+" must be finite")
		}
	}
	for _, debt := range d.Debts {
		if strings.TrimSpace(debt.Name) == "" {
			return common.NewValidationError("debts", "debt name must be non-empty")
		}
		for field, v := range map[string]*float64{
			"amount":         debt.Amount,
			"interestRate":   debt.InterestRate,
			"minimumPayment": debt.MinimumPayment,
		} {
			if v != nil && (!isFiniteAmount(*v) || *v < 0) {
				return common.NewValidationError("debts", field+" for "+debt.Name+" must be a non-negative finite number")
			}
		}
	}
	for _, g := range d.Goals {
		if strings.TrimSpace(g.Name) == "" {
			return common.NewValidationError("goals", "goal name must be non-empty")
		}
		if g.TargetAmount != nil && (!isFiniteAmount(*g.TargetAmount) || *g.TargetAmount < 0) {
			return common.NewValidationError("goals", "targetAmount for "+g.Name+" must be a non-negative finite number")
		}
		if g.CurrentAmount != nil && (!isFiniteAmount(*g.CurrentAmount) || *g.CurrentAmount < 0) {
			return common.NewValidationError("goals", "currentAmount for "+g.Name+" must be a non-negative finite number")
		}
	}
	return nil
}
