package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marlowe-fi/centsible/internal/common"
)

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current financial state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage(true)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			state, err := store.GetOrCreateFinancialState(cmd.Context(), viper.GetString("user"))
			if err != nil {
				return err
			}

			fmt.Printf("Monthly income:   %10.2f\n", state.MonthlyIncome)
			fmt.Printf("Monthly expenses: %10.2f\n", state.MonthlyExpenses)
			fmt.Printf("Savings rate:     %9.2f%%\n", state.SavingsRate)

			if len(state.ExpenseCategories) > 0 {
				fmt.Println("Expenses by category:")
				for category, amount := range state.ExpenseCategories {
					fmt.Printf("  %-20s %10.2f\n", category, amount)
				}
			}
			if len(state.Accounts) > 0 {
				fmt.Println("Accounts:")
				for _, a := range state.Accounts {
					fmt.Printf("  %-20s %10.2f  %s\n", a.Name, a.Balance, a.Type)
				}
			}
			if len(state.Debts) > 0 {
				fmt.Println("Debts:")
				for _, d := range state.Debts {
					fmt.Printf("  %-20s %10.2f  rate %.2f%%  min %.2f\n", d.Name, d.Amount, d.InterestRate, d.MinimumPayment)
				}
			}
			if len(state.Goals) > 0 {
				fmt.Println("Goals:")
				for _, g := range state.Goals {
					fmt.Printf("  %-20s %10.2f of %.2f  %s\n", g.Name, g.CurrentAmount, g.TargetAmount, g.TargetDate)
				}
			}
			return nil
		},
	}
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the most recent financial plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage(true)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			plan, err := store.GetLatestPlan(cmd.Context(), viper.GetString("user"))
			if errors.Is(err, common.ErrNotFound) {
				fmt.Println("No plan generated yet. Submit a check-in first.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("Plan from %s (check-in %s)\n\n", plan.CreatedAt.Format("2006-01-02"), plan.CheckInID)
			printPlan(plan)
			return nil
		},
	}
}
