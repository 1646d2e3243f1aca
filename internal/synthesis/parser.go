package synthesis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/model"
)

// planResponse is the tagged wire shape the service is instructed to
// return. Pointer fields distinguish "absent" from zero values so schema
// violations are caught instead of propagating empty data.
type planResponse struct {
	ExtractedFinancialData *extractedData     `json:"extractedFinancialData"`
	Response               *string            `json:"response"`
	ShouldUpdatePlan       *bool              `json:"shouldUpdatePlan"`
	BudgetAllocation       map[string]float64 `json:"budgetAllocation"`
	GoalTimelines          map[string]string  `json:"goalTimelines"`
	SavingsStrategy        string             `json:"savingsStrategy"`
	DebtStrategy           string             `json:"debtStrategy"`
	ActionItems            []string           `json:"actionItems"`
	Insights               []string           `json:"insights"`
}

// extractedData mirrors model.FinancialDelta plus an annualIncome escape
// hatch for models that report yearly figures.
type extractedData struct {
	MonthlyIncome *float64             `json:"monthlyIncome"`
	AnnualIncome  *float64             `json:"annualIncome"`
	Expenses      map[string]float64   `json:"expenses"`
	Accounts      []model.AccountDelta `json:"accounts"`
	Debts         []model.DebtDelta    `json:"debts"`
	Goals         []model.GoalDelta    `json:"goals"`
}

// parseResponse strictly deserializes the service's answer. Any shape
// violation is reported as a parse failure for the attempt, never as a
// successful answer with garbage content.
func parseResponse(content string) (*planResponse, error) {
	content = cleanMarkdownWrapper(content)

	var resp planResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}

	if resp.Response == nil || strings.TrimSpace(*resp.Response) == "" {
		return nil, fmt.Errorf("%w: missing response text", common.ErrParse)
	}

	if resp.ShouldUpdatePlan != nil && *resp.ShouldUpdatePlan && len(resp.BudgetAllocation) == 0 {
		return nil, fmt.Errorf("%w: shouldUpdatePlan is true but no budget allocation given", common.ErrParse)
	}

	for category, amount := range resp.BudgetAllocation {
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
			return nil, fmt.Errorf("%w: budget allocation for %s is not a non-negative finite number", common.ErrParse, category)
		}
	}

	if resp.ExtractedFinancialData != nil {
		delta := resp.ExtractedFinancialData.toDelta()
		if err := delta.Validate(); err != nil {
			return nil, fmt.Errorf("%w: extracted data: %v", common.ErrParse, err)
		}
	}

	return &resp, nil
}

// toDelta converts extracted data into a merge-ready delta, normalizing
// annual income to monthly.
func (e *extractedData) toDelta() *model.FinancialDelta {
	delta := &model.FinancialDelta{
		Expenses: e.Expenses,
		Accounts: e.Accounts,
		Debts:    e.Debts,
		Goals:    e.Goals,
	}
	switch {
	case e.MonthlyIncome != nil:
		delta.MonthlyIncome = e.MonthlyIncome
	case e.AnnualIncome != nil:
		monthly := model.MonthlyFromAnnual(*e.AnnualIncome)
		delta.MonthlyIncome = &monthly
	}
	return delta
}

// cleanMarkdownWrapper strips markdown code fences some models insist on
// wrapping JSON responses in.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}
