package merge

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/model"
)

func newState(t *testing.T) *model.FinancialState {
	t.Helper()
	return model.NewFinancialState("user-1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func floatPtr(v float64) *float64 { return &v }

func TestApplyIncomeReplacesOutright(t *testing.T) {
	state := newState(t)
	state.MonthlyIncome = 5000

	merged, err := Apply(state, &model.FinancialDelta{MonthlyIncome: floatPtr(6000)})
	require.NoError(t, err)
	assert.InDelta(t, 6000, merged.MonthlyIncome, 0.001)

	// Absent income keeps the stored value.
	merged2, err := Apply(merged, &model.FinancialDelta{Expenses: map[string]float64{"rent": 1800}})
	require.NoError(t, err)
	assert.InDelta(t, 6000, merged2.MonthlyIncome, 0.001)
}

func TestApplyExpenseCategories(t *testing.T) {
	state := newState(t)
	state.MonthlyIncome = 5000
	state.ExpenseCategories = map[string]float64{"rent": 1800, "groceries": 500}
	state.MonthlyExpenses = 2300

	merged, err := Apply(state, &model.FinancialDelta{
		Expenses: map[string]float64{"groceries": 400},
	})
	require.NoError(t, err)

	// Only the categories present in the delta are overwritten.
	assert.InDelta(t, 1800, merged.ExpenseCategories["rent"], 0.001)
	assert.InDelta(t, 400, merged.ExpenseCategories["groceries"], 0.001)
	// The aggregate becomes the new category sum.
	assert.InDelta(t, 2200, merged.MonthlyExpenses, 0.001)
	// Savings rate recomputed from merged figures.
	assert.InDelta(t, model.SavingsRate(5000, 2200), merged.SavingsRate, 0.001)
}

func TestApplyEmptyDeltaKeepsAggregate(t *testing.T) {
	state := newState(t)
	state.MonthlyExpenses = 2300

	merged, err := Apply(state, &model.FinancialDelta{})
	require.NoError(t, err)
	assert.InDelta(t, 2300, merged.MonthlyExpenses, 0.001)
}

func TestApplyDebtUpdateByName(t *testing.T) {
	// Scenario: an existing debt entry is updated, not duplicated.
	state := newState(t)
	state.Debts = []model.Debt{{Name: "CreditCard", Amount: 1000}}

	merged, err := Apply(state, &model.FinancialDelta{
		Debts: []model.DebtDelta{{Name: "CreditCard", Amount: floatPtr(800)}},
	})
	require.NoError(t, err)

	require.Len(t, merged.Debts, 1)
	assert.Equal(t, "CreditCard", merged.Debts[0].Name)
	assert.InDelta(t, 800, merged.Debts[0].Amount, 0.001)
}

func TestApplyPartialUpdateKeepsOldFields(t *testing.T) {
	state := newState(t)
	state.Debts = []model.Debt{{Name: "CarLoan", Amount: 12000, InterestRate: 4.5, MinimumPayment: 300}}

	merged, err := Apply(state, &model.FinancialDelta{
		Debts: []model.DebtDelta{{Name: "CarLoan", Amount: floatPtr(11000)}},
	})
	require.NoError(t, err)

	require.Len(t, merged.Debts, 1)
	assert.InDelta(t, 11000, merged.Debts[0].Amount, 0.001)
	assert.InDelta(t, 4.5, merged.Debts[0].InterestRate, 0.001)
	assert.InDelta(t, 300, merged.Debts[0].MinimumPayment, 0.001)
}

func TestApplyAppendsNewEntries(t *testing.T) {
	state := newState(t)

	merged, err := Apply(state, &model.FinancialDelta{
		Accounts: []model.AccountDelta{{Name: "Emergency Fund", Balance: floatPtr(2500)}},
		Goals: []model.GoalDelta{{
			Name:         "House Down Payment",
			TargetAmount: floatPtr(40000),
			TargetDate:   strPtr("2028-06"),
		}},
	})
	require.NoError(t, err)

	require.Len(t, merged.Accounts, 1)
	assert.InDelta(t, 2500, merged.Accounts[0].Balance, 0.001)
	require.Len(t, merged.Goals, 1)
	assert.Equal(t, "2028-06", merged.Goals[0].TargetDate)
}

func TestApplyIdempotence(t *testing.T) {
	state := newState(t)
	state.MonthlyIncome = 5000
	state.Debts = []model.Debt{{Name: "CreditCard", Amount: 1000}}

	delta := &model.FinancialDelta{
		MonthlyIncome: floatPtr(6000),
		Expenses:      map[string]float64{"groceries": 400},
		Debts:         []model.DebtDelta{{Name: "CreditCard", Amount: floatPtr(800)}},
		Accounts:      []model.AccountDelta{{Name: "Checking", Balance: floatPtr(3200)}},
		Goals:         []model.GoalDelta{{Name: "Vacation", TargetAmount: floatPtr(3000)}},
	}

	once, err := Apply(state, delta)
	require.NoError(t, err)
	twice, err := Apply(once, delta)
	require.NoError(t, err)

	assert.Equal(t, once.MonthlyIncome, twice.MonthlyIncome)
	assert.Equal(t, once.ExpenseCategories, twice.ExpenseCategories)
	assert.Equal(t, once.Accounts, twice.Accounts)
	assert.Equal(t, once.Debts, twice.Debts)
	assert.Equal(t, once.Goals, twice.Goals)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	state := newState(t)
	state.MonthlyIncome = 5000
	state.ExpenseCategories["rent"] = 1800
	state.Debts = []model.Debt{{Name: "CreditCard", Amount: 1000}}

	_, err := Apply(state, &model.FinancialDelta{
		MonthlyIncome: floatPtr(6000),
		Expenses:      map[string]float64{"rent": 1900},
		Debts:         []model.DebtDelta{{Name: "CreditCard", Amount: floatPtr(800)}},
	})
	require.NoError(t, err)

	assert.InDelta(t, 5000, state.MonthlyIncome, 0.001)
	assert.InDelta(t, 1800, state.ExpenseCategories["rent"], 0.001)
	assert.InDelta(t, 1000, state.Debts[0].Amount, 0.001)
}

func TestApplyRejectsMalformedDeltaWhole(t *testing.T) {
	tests := []struct {
		name  string
		delta *model.FinancialDelta
	}{
		{
			name:  "negative income",
			delta: &model.FinancialDelta{MonthlyIncome: floatPtr(-100)},
		},
		{
			name:  "NaN expense",
			delta: &model.FinancialDelta{Expenses: map[string]float64{"rent": math.NaN()}},
		},
		{
			name:  "negative debt amount",
			delta: &model.FinancialDelta{Debts: []model.DebtDelta{{Name: "Card", Amount: floatPtr(-50)}}},
		},
		{
			name:  "unnamed account",
			delta: &model.FinancialDelta{Accounts: []model.AccountDelta{{Name: " ", Balance: floatPtr(10)}}},
		},
		{
			name: "one bad entry poisons valid ones",
			delta: &model.FinancialDelta{
				MonthlyIncome: floatPtr(6000),
				Goals:         []model.GoalDelta{{Name: "Vacation", TargetAmount: floatPtr(math.Inf(1))}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newState(t)
			state.MonthlyIncome = 5000

			_, err := Apply(state, tt.delta)
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err))
			// Nothing coerced, nothing applied.
			assert.InDelta(t, 5000, state.MonthlyIncome, 0.001)
		})
	}
}

func strPtr(s string) *string { return &s }
