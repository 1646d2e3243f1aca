package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/model"
)

// GetOrCreateSummary loads a user's summary memory, lazily creating an
// empty one on first access.
func (s *SQLiteStorage) GetOrCreateSummary(ctx context.Context, userID string) (*model.SummaryMemory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, content, created_at, updated_at
		FROM summaries WHERE user_id = ?
	`, userID)

	var summary model.SummaryMemory
	err := row.Scan(&summary.UserID, &summary.Content, &summary.CreatedAt, &summary.UpdatedAt)
	if err == nil {
		return &summary, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewPersistenceError("load summary", err)
	}

	now := time.Now().UTC()
	summary = model.SummaryMemory{UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := s.SaveSummary(ctx, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SaveSummary upserts the rolling summary for a user. Content longer
// than the bound is rejected rather than silently truncated here; the
// updater owns the clamp.
func (s *SQLiteStorage) SaveSummary(ctx context.Context, summary *model.SummaryMemory) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("summary must not be nil")
	}
	if err := validateString(summary.UserID, "summary.UserID"); err != nil {
		return err
	}
	if len(summary.Content) > model.MaxSummaryLength {
		return fmt.Errorf("summary exceeds maximum length of %d", model.MaxSummaryLength)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (user_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`, summary.UserID, summary.Content, summary.CreatedAt.UTC(), summary.UpdatedAt.UTC())
	if err != nil {
		return common.NewPersistenceError("save summary", err)
	}
	return nil
}
