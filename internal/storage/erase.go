package storage

import (
	"context"

	"github.com/marlowe-fi/centsible/internal/common"
)

// EraseUserData purges everything stored for a user in a single
// transaction: plans, check-ins, summary memory and financial state.
// This is the only operation that deletes check-in or plan rows.
func (s *SQLiteStorage) EraseUserData(ctx context.Context, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewPersistenceError("begin erase", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Plans reference check-ins, so they go first.
	queries := []string{
		`DELETE FROM financial_plans WHERE user_id = ?`,
		`DELETE FROM check_ins WHERE user_id = ?`,
		`DELETE FROM summaries WHERE user_id = ?`,
		`DELETE FROM financial_states WHERE user_id = ?`,
	}
	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query, userID); err != nil {
			return common.NewPersistenceError("erase user data", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return common.NewPersistenceError("commit erase", err)
	}
	return nil
}
