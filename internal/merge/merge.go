// Package merge applies extracted financial deltas to a user's state.
//
// Apply is pure: identical inputs always produce identical output and the
// input state is never mutated. A malformed delta is rejected whole with a
// ValidationError; amounts are never silently coerced.
package merge

import (
	"github.com/marlowe-fi/centsible/internal/model"
)

// Apply merges a delta into a financial state and returns the new state.
//
// Merge rules:
//   - Income in the delta replaces the stored value outright. Callers are
//     responsible for giving manual overrides priority when building the
//     delta.
//   - Expense categories present in the delta overwrite the stored
//     category amounts. When the delta carries at least one category and
//     the resulting category sum is non-zero, that sum becomes the new
//     aggregate; otherwise the old aggregate persists.
//   - Accounts, debts and goals are keyed by name: a matching name
//     updates only the fields the delta carries, a new name appends. No
//     two entries share a name after a merge.
//   - The savings rate is recomputed from the merged income and expenses
//     when income > 0, else it keeps its prior value.
func Apply(state *model.FinancialState, delta *model.FinancialDelta) (*model.FinancialState, error) {
	if err := delta.Validate(); err != nil {
		return nil, err
	}

	out := state.Clone()
	if delta.IsEmpty() {
		return out, nil
	}

	if delta.MonthlyIncome != nil {
		out.MonthlyIncome = model.Round2(*delta.MonthlyIncome)
	}

	if len(delta.Expenses) > 0 {
		if out.ExpenseCategories == nil {
			out.ExpenseCategories = make(map[string]float64, len(delta.Expenses))
		}
		for category, amount := range delta.Expenses {
			out.ExpenseCategories[category] = model.Round2(amount)
		}
		if total := model.SumAmounts(out.ExpenseCategories); total != 0 {
			out.MonthlyExpenses = total
		}
	}

	out.Accounts = mergeAccounts(out.Accounts, delta.Accounts)
	out.Debts = mergeDebts(out.Debts, delta.Debts)
	out.Goals = mergeGoals(out.Goals, delta.Goals)

	out.RecalculateSavingsRate()
	return out, nil
}

func mergeAccounts(existing []model.Account, deltas []model.AccountDelta) []model.Account {
	for _, d := range deltas {
		idx := -1
		for i := range existing {
			if existing[i].Name == d.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			account := model.Account{Name: d.Name}
			if d.Balance != nil {
				account.Balance = model.Round2(*d.Balance)
			}
			if d.Type != nil {
				account.Type = *d.Type
			}
			existing = append(existing, account)
			continue
		}
		if d.Balance != nil {
			existing[idx].Balance = model.Round2(*d.Balance)
		}
		if d.Type != nil {
			existing[idx].Type = *d.Type
		}
	}
	return existing
}

func mergeDebts(existing []model.Debt, deltas []model.DebtDelta) []model.Debt {
	for _, d := range deltas {
		idx := -1
		for i := range existing {
			if existing[i].Name == d.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			debt := model.Debt{Name: d.Name}
			applyDebtFields(&debt, d)
			existing = append(existing, debt)
			continue
		}
		applyDebtFields(&existing[idx], d)
	}
	return existing
}

func applyDebtFields(debt *model.Debt, d model.DebtDelta) {
	if d.Amount != nil {
		debt.Amount = model.Round2(*d.Amount)
	}
	if d.InterestRate != nil {
		debt.InterestRate = *d.InterestRate
	}
	if d.MinimumPayment != nil {
		debt.MinimumPayment = model.Round2(*d.MinimumPayment)
	}
}

func mergeGoals(existing []model.Goal, deltas []model.GoalDelta) []model.Goal {
	for _, d := range deltas {
		idx := -1
		for i := range existing {
			if existing[i].Name == d.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			goal := model.Goal{Name: d.Name}
			applyGoalFields(&goal, d)
			existing = append(existing, goal)
			continue
		}
		applyGoalFields(&existing[idx], d)
	}
	return existing
}

func applyGoalFields(goal *model.Goal, d model.GoalDelta) {
	if d.TargetAmount != nil {
		goal.TargetAmount = model.Round2(*d.TargetAmount)
	}
	if d.CurrentAmount != nil {
		goal.CurrentAmount = model.Round2(*d.CurrentAmount)
	}
	if d.TargetDate != nil {
		goal.TargetDate = *d.TargetDate
	}
}
