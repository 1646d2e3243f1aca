package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/model"
)

// SavePlan appends a plan row. Plans are append-only; at most one plan
// exists per triggering check-in.
func (s *SQLiteStorage) SavePlan(ctx context.Context, plan *model.FinancialPlan) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan must not be nil")
	}
	if err := validateString(plan.ID, "plan.ID"); err != nil {
		return err
	}
	if err := validateString(plan.UserID, "plan.UserID"); err != nil {
		return err
	}
	if err := validateString(plan.CheckInID, "plan.CheckInID"); err != nil {
		return err
	}

	budgetJSON, err := json.Marshal(orEmptyMap(plan.BudgetAllocation))
	if err != nil {
		return common.NewPersistenceError("encode plan", err)
	}
	timelinesJSON, err := json.Marshal(orEmptyStringMap(plan.GoalTimelines))
	if err != nil {
		return common.NewPersistenceError("encode plan", err)
	}
	actionsJSON, err := json.Marshal(orEmptyStrings(plan.ActionItems))
	if err != nil {
		return common.NewPersistenceError("encode plan", err)
	}
	insightsJSON, err := json.Marshal(orEmptyStrings(plan.Insights))
	if err != nil {
		return common.NewPersistenceError("encode plan", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO financial_plans (
			id, user_id, check_in_id, budget_allocation, savings_strategy,
			debt_strategy, goal_timelines, action_items, insights, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, plan.ID, plan.UserID, plan.CheckInID, string(budgetJSON), plan.SavingsStrategy,
		plan.DebtStrategy, string(timelinesJSON), string(actionsJSON), string(insightsJSON),
		plan.CreatedAt.UTC())
	if err != nil {
		return common.NewPersistenceError("save plan", err)
	}
	return nil
}

// GetLatestPlan returns the most recently created plan for a user, or
// ErrNotFound when no plan exists yet.
func (s *SQLiteStorage) GetLatestPlan(ctx context.Context, userID string) (*model.FinancialPlan, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, check_in_id, budget_allocation, savings_strategy,
		       debt_strategy, goal_timelines, action_items, insights, created_at
		FROM financial_plans WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID)

	var plan model.FinancialPlan
	var budgetJSON, timelinesJSON, actionsJSON, insightsJSON string
	err := row.Scan(&plan.ID, &plan.UserID, &plan.CheckInID, &budgetJSON,
		&plan.SavingsStrategy, &plan.DebtStrategy, &timelinesJSON,
		&actionsJSON, &insightsJSON, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan for %s: %w", userID, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewPersistenceError("load plan", err)
	}

	if err := json.Unmarshal([]byte(budgetJSON), &plan.BudgetAllocation); err != nil {
		return nil, common.NewPersistenceError("decode budget allocation", err)
	}
	if err := json.Unmarshal([]byte(timelinesJSON), &plan.GoalTimelines); err != nil {
		return nil, common.NewPersistenceError("decode goal timelines", err)
	}
	if err := json.Unmarshal([]byte(actionsJSON), &plan.ActionItems); err != nil {
		return nil, common.NewPersistenceError("decode action items", err)
	}
	if err := json.Unmarshal([]byte(insightsJSON), &plan.Insights); err != nil {
		return nil, common.NewPersistenceError("decode insights", err)
	}
	return &plan, nil
}

func orEmptyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
