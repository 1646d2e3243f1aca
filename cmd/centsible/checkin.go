package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marlowe-fi/centsible/internal/model"
)

func checkinCmd() *cobra.Command {
	var (
		income   float64
		expenses []string
		monthly  bool
	)

	cmd := &cobra.Command{
		Use:   "checkin [message]",
		Short: "Submit a financial update or question",
		Long: `Submit a free-text financial update ("I got a raise to $6k",
"spent $400 on groceries") or a question. Extracted facts are merged
into your financial state and the plan is regenerated when warranted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.CheckInRequest{
				Message:          args[0],
				IsMonthlyCheckIn: monthly,
			}
			if cmd.Flags().Changed("income") {
				req.MonthlyIncome = &income
			}
			if len(expenses) > 0 {
				parsed, err := parseExpenseFlags(expenses)
				if err != nil {
					return err
				}
				req.MonthlyExpenses = parsed
			}

			eng, _, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := eng.ProcessCheckIn(cmd.Context(), viper.GetString("user"), req)
			if err != nil {
				return err
			}

			fmt.Println(result.ResponseText)
			if result.Plan != nil {
				fmt.Println()
				printPlan(result.Plan)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&income, "income", 0, "manual monthly income override (wins over anything extracted)")
	cmd.Flags().StringArrayVar(&expenses, "expense", nil, "manual monthly expense as category=amount, repeatable")
	cmd.Flags().BoolVar(&monthly, "monthly", false, "flag this check-in as the monthly review")

	return cmd
}

func parseExpenseFlags(raw []string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for _, entry := range raw {
		category, amountStr, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid expense %q, want category=amount", entry)
		}
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid expense amount in %q: %w", entry, err)
		}
		out[strings.TrimSpace(category)] = amount
	}
	return out, nil
}

func printPlan(plan *model.FinancialPlan) {
	fmt.Println("Updated plan:")
	if len(plan.BudgetAllocation) > 0 {
		fmt.Println("  Budget allocation:")
		for category, amount := range plan.BudgetAllocation {
			fmt.Printf("    %-20s %10.2f\n", category, amount)
		}
	}
	if plan.SavingsStrategy != "" {
		fmt.Printf("  Savings strategy: %s\n", plan.SavingsStrategy)
	}
	if plan.DebtStrategy != "" {
		fmt.Printf("  Debt strategy: %s\n", plan.DebtStrategy)
	}
	for goal, timeline := range plan.GoalTimelines {
		fmt.Printf("  Goal %s: %s\n", goal, timeline)
	}
	for _, item := range plan.ActionItems {
		fmt.Printf("  - %s\n", item)
	}
	for _, insight := range plan.Insights {
		fmt.Printf("  * %s\n", insight)
	}
}
