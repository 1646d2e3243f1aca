package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		expenses float64
		want     float64
	}{
		{
			name:     "typical month",
			income:   5000,
			expenses: 3500,
			want:     30,
		},
		{
			name:     "spending everything",
			income:   4200,
			expenses: 4200,
			want:     0,
		},
		{
			name:     "spending more than income",
			income:   3000,
			expenses: 4500,
			want:     -50,
		},
		{
			name:     "rounds to two decimals",
			income:   3000,
			expenses: 1000,
			want:     66.67,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SavingsRate(tt.income, tt.expenses), 0.001)
		})
	}
}

func TestSumAmounts(t *testing.T) {
	categories := map[string]float64{
		"rent":      1800.50,
		"groceries": 420.10,
		"transport": 130.40,
	}
	assert.InDelta(t, 2351.00, SumAmounts(categories), 0.001)
	assert.Zero(t, SumAmounts(nil))
}

func TestMonthlyFromAnnual(t *testing.T) {
	assert.InDelta(t, 6000, MonthlyFromAnnual(72000), 0.001)
	assert.InDelta(t, 5416.67, MonthlyFromAnnual(65000), 0.001)
}

func TestRecalculateSavingsRate(t *testing.T) {
	state := &FinancialState{MonthlyIncome: 5000, MonthlyExpenses: 3500, SavingsRate: 10}
	state.RecalculateSavingsRate()
	assert.InDelta(t, 30, state.SavingsRate, 0.001)

	// Zero income keeps the prior value.
	state = &FinancialState{MonthlyIncome: 0, MonthlyExpenses: 3500, SavingsRate: 12.5}
	state.RecalculateSavingsRate()
	assert.InDelta(t, 12.5, state.SavingsRate, 0.001)
}
