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

// SaveCheckIn appends a check-in to the audit trail. Check-ins are
// immutable after creation; there is no update path.
func (s *SQLiteStorage) SaveCheckIn(ctx context.Context, checkIn *model.CheckIn) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if checkIn == nil {
		return fmt.Errorf("checkIn must not be nil")
	}
	if err := validateString(checkIn.ID, "checkIn.ID"); err != nil {
		return err
	}
	if err := validateString(checkIn.UserID, "checkIn.UserID"); err != nil {
		return err
	}

	var expensesJSON sql.NullString
	if len(checkIn.MonthlyExpenses) > 0 {
		data, err := json.Marshal(checkIn.MonthlyExpenses)
		if err != nil {
			return common.NewPersistenceError("encode check-in", err)
		}
		expensesJSON = sql.NullString{String: string(data), Valid: true}
	}

	var income sql.NullFloat64
	if checkIn.MonthlyIncome != nil {
		income = sql.NullFloat64{Float64: *checkIn.MonthlyIncome, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO check_ins (id, user_id, message, monthly_income, monthly_expenses, is_monthly_check_in, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, checkIn.ID, checkIn.UserID, checkIn.Message, income, expensesJSON,
		checkIn.IsMonthlyCheckIn, checkIn.CreatedAt.UTC())
	if err != nil {
		return common.NewPersistenceError("save check-in", err)
	}
	return nil
}

// GetCheckIn loads a single check-in by ID.
func (s *SQLiteStorage) GetCheckIn(ctx context.Context, id string) (*model.CheckIn, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, message, monthly_income, monthly_expenses, is_monthly_check_in, created_at
		FROM check_ins WHERE id = ?
	`, id)

	checkIn, err := scanCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check-in %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewPersistenceError("load check-in", err)
	}
	return checkIn, nil
}

// ListCheckIns returns a user's most recent check-ins, newest first.
func (s *SQLiteStorage) ListCheckIns(ctx context.Context, userID string, limit int) ([]model.CheckIn, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message, monthly_income, monthly_expenses, is_monthly_check_in, created_at
		FROM check_ins WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, common.NewPersistenceError("list check-ins", err)
	}
	defer func() { _ = rows.Close() }()

	var checkIns []model.CheckIn
	for rows.Next() {
		checkIn, err := scanCheckIn(rows)
		if err != nil {
			return nil, common.NewPersistenceError("scan check-in", err)
		}
		checkIns = append(checkIns, *checkIn)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list check-ins", err)
	}
	return checkIns, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckIn(row rowScanner) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	var income sql.NullFloat64
	var expensesJSON sql.NullString

	err := row.Scan(&checkIn.ID, &checkIn.UserID, &checkIn.Message,
		&income, &expensesJSON, &checkIn.IsMonthlyCheckIn, &checkIn.CreatedAt)
	if err != nil {
		return nil, err
	}

	if income.Valid {
		checkIn.MonthlyIncome = &income.Float64
	}
	if expensesJSON.Valid && expensesJSON.String != "" {
		if err := json.Unmarshal([]byte(expensesJSON.String), &checkIn.MonthlyExpenses); err != nil {
			return nil, fmt.Errorf("decode check-in expenses: %w", err)
		}
	}
	return &checkIn, nil
}
