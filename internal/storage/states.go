package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/model"
)

// GetOrCreateFinancialState loads a user's state, lazily creating an
// empty one on first access.
func (s *SQLiteStorage) GetOrCreateFinancialState(ctx context.Context, userID string) (*model.FinancialState, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	state, err := s.getFinancialState(ctx, userID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	state = model.NewFinancialState(userID, time.Now().UTC())
	if err := s.SaveFinancialState(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *SQLiteStorage) getFinancialState(ctx context.Context, userID string) (*model.FinancialState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, monthly_income, monthly_expenses, expense_categories,
		       savings_rate, accounts, debts, goals, created_at, updated_at
		FROM financial_states WHERE user_id = ?
	`, userID)

	var state model.FinancialState
	var categoriesJSON, accountsJSON, debtsJSON, goalsJSON string
	err := row.Scan(&state.UserID, &state.MonthlyIncome, &state.MonthlyExpenses,
		&categoriesJSON, &state.SavingsRate, &accountsJSON, &debtsJSON, &goalsJSON,
		&state.CreatedAt, &state.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("financial state for %s: %w", userID, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewPersistenceError("load financial state", err)
	}

	if err := json.Unmarshal([]byte(categoriesJSON), &state.ExpenseCategories); err != nil {
		return nil, common.NewPersistenceError("decode expense categories", err)
	}
	if err := json.Unmarshal([]byte(accountsJSON), &state.Accounts); err != nil {
		return nil, common.NewPersistenceError("decode accounts", err)
	}
	if err := json.Unmarshal([]byte(debtsJSON), &state.Debts); err != nil {
		return nil, common.NewPersistenceError("decode debts", err)
	}
	if err := json.Unmarshal([]byte(goalsJSON), &state.Goals); err != nil {
		return nil, common.NewPersistenceError("decode goals", err)
	}

	return &state, nil
}

// SaveFinancialState upserts the full snapshot for a user.
func (s *SQLiteStorage) SaveFinancialState(ctx context.Context, state *model.FinancialState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("state must not be nil")
	}
	if err := validateString(state.UserID, "state.UserID"); err != nil {
		return err
	}

	categoriesJSON, err := json.Marshal(orEmptyMap(state.ExpenseCategories))
	if err != nil {
		return common.NewPersistenceError("encode financial state", err)
	}
	accountsJSON, err := json.Marshal(orEmptyAccounts(state.Accounts))
	if err != nil {
		return common.NewPersistenceError("encode financial state", err)
	}
	debtsJSON, err := json.Marshal(orEmptyDebts(state.Debts))
	if err != nil {
		return common.NewPersistenceError("encode financial state", err)
	}
	goalsJSON, err := json.Marshal(orEmptyGoals(state.Goals))
	if err != nil {
		return common.NewPersistenceError("encode financial state", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO financial_states (
			user_id, monthly_income, monthly_expenses, expense_categories,
			savings_rate, accounts, debts, goals, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			monthly_income = excluded.monthly_income,
			monthly_expenses = excluded.monthly_expenses,
			expense_categories = excluded.expense_categories,
			savings_rate = excluded.savings_rate,
			accounts = excluded.accounts,
			debts = excluded.debts,
			goals = excluded.goals,
			updated_at = excluded.updated_at
	`, state.UserID, state.MonthlyIncome, state.MonthlyExpenses, string(categoriesJSON),
		state.SavingsRate, string(accountsJSON), string(debtsJSON), string(goalsJSON),
		state.CreatedAt.UTC(), state.UpdatedAt.UTC())
	if err != nil {
		return common.NewPersistenceError("save financial state", err)
	}
	return nil
}

func orEmptyMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func orEmptyAccounts(a []model.Account) []model.Account {
	if a == nil {
		return []model.Account{}
	}
	return a
}

func orEmptyDebts(d []model.Debt) []model.Debt {
	if d == nil {
		return []model.Debt{}
	}
	return d
}

func orEmptyGoals(g []model.Goal) []model.Goal {
	if g == nil {
		return []model.Goal{}
	}
	return g
}
