package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			xp INTEGER NOT NULL DEFAULT 0 CHECK (xp >= 0),
			level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
			avatar_mood TEXT NOT NULL DEFAULT 'neutral',
			created_at INTEGER NOT NULL
		);`,
		// user_id is deliberately not a foreign key: a dangling owner is reported
		// as an integrity fault at completion time instead of blocking writes.
		`CREATE TABLE IF NOT EXISTS tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			completed INTEGER NOT NULL DEFAULT 0,
			xp_reward INTEGER NOT NULL CHECK (xp_reward > 0),
			created_at INTEGER NOT NULL,
			completed_at INTEGER
		);`,
		// Append-only: rows are never updated or deleted.
		`CREATE TABLE IF NOT EXISTS avatar_states (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			mood TEXT NOT NULL,
			animation TEXT NOT NULL,
			message TEXT NOT NULL,
			ts INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_avatar_states_user_ts ON avatar_states(user_id, ts);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
