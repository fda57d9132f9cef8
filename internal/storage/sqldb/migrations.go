package sqldb

import "database/sql"

// schema sets up the database. It sticks to types both SQLite and
// PostgreSQL understand: amounts are integer cents, timestamps are unix
// milliseconds and the game session is a JSON document.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    emoji TEXT NOT NULL,
    theme TEXT NOT NULL,
    pin_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS goals (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    target_amount BIGINT NOT NULL,
    current_amount BIGINT NOT NULL DEFAULT 0,
    deadline TEXT NOT NULL DEFAULT '',
    emoji TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL,
    amount BIGINT NOT NULL,
    date TEXT NOT NULL,
    period TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    goal_id TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS savings_targets (
    id TEXT PRIMARY KEY,
    target_amount BIGINT NOT NULL,
    is_active BOOLEAN NOT NULL,
    cutoff_first INTEGER NOT NULL,
    cutoff_second INTEGER NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS cutoff_periods (
    id TEXT PRIMARY KEY,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    target_amount BIGINT NOT NULL,
    contribution_pea BIGINT NOT NULL,
    contribution_cam BIGINT NOT NULL,
    owed_pea BIGINT NOT NULL,
    owed_cam BIGINT NOT NULL,
    is_complete BOOLEAN NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS game_sessions (
    id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_goal_id ON transactions(goal_id);
CREATE INDEX IF NOT EXISTS idx_cutoff_periods_end_date ON cutoff_periods(end_date);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
