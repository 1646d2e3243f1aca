package model

import "github.com/shopspring/decimal"

// Round2 rounds a currency amount to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// SumAmounts totals a category->amount map using decimal arithmetic so
// repeated merges don't accumulate float drift.
func SumAmounts(m map[string]float64) float64 {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// SavingsRate computes (income - expenses) / income * 100 rounded to two
// decimal places. Callers must ensure income > 0.
func SavingsRate(income, expenses float64) float64 {
	inc := decimal.NewFromFloat(income)
	exp := decimal.NewFromFloat(expenses)
	rate := inc.Sub(exp).Div(inc).Mul(decimal.NewFromInt(100))
	return rate.Round(2).InexactFloat64()
}

// MonthlyFromAnnual normalizes an annual amount to its monthly equivalent.
func MonthlyFromAnnual(annual float64) float64 {
	return decimal.NewFromFloat(annual).Div(decimal.NewFromInt(12)).Round(2).InexactFloat64()
}
