package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS financial_states (
					user_id TEXT PRIMARY KEY,
					monthly_income REAL NOT NULL DEFAULT 0,
					monthly_expenses REAL NOT NULL DEFAULT 0,
					expense_categories TEXT NOT NULL DEFAULT '{}',
					savings_rate REAL NOT NULL DEFAULT 0,
					accounts TEXT NOT NULL DEFAULT '[]',
					debts TEXT NOT NULL DEFAULT '[]',
					goals TEXT NOT NULL DEFAULT '[]',
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS check_ins (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					message TEXT NOT NULL,
					monthly_income REAL,
					monthly_expenses TEXT,
					is_monthly_check_in INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_check_ins_user ON check_ins(user_id, created_at)`,

				`CREATE TABLE IF NOT EXISTS financial_plans (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					check_in_id TEXT NOT NULL REFERENCES check_ins(id),
					budget_allocation TEXT NOT NULL DEFAULT '{}',
					savings_strategy TEXT NOT NULL DEFAULT '',
					debt_strategy TEXT NOT NULL DEFAULT '',
					goal_timelines TEXT NOT NULL DEFAULT '{}',
					action_items TEXT NOT NULL DEFAULT '[]',
					insights TEXT NOT NULL DEFAULT '[]',
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_financial_plans_user ON financial_plans(user_id, created_at)`,

				`CREATE TABLE IF NOT EXISTS summaries (
					user_id TEXT PRIMARY KEY,
					content TEXT NOT NULL DEFAULT '',
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "One plan row per triggering check-in",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_financial_plans_check_in ON financial_plans(check_in_id)`)
			if err != nil {
				return fmt.Errorf("failed to create unique index: %w", err)
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if currentVersion >= ExpectedSchemaVersion {
		return nil
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
