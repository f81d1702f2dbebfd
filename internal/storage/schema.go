package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables and indexes.
// This is idempotent - safe to call multiple times.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	ddlStatements := []string{
		// users table: accounts with bcrypt password hashes
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			dashboard TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,

		// stations table: opening_date is NULL until an admin sets it
		`CREATE TABLE IF NOT EXISTS stations (
			key TEXT PRIMARY KEY,
			opening_date TEXT
		)`,

		// kpi_daily table: one aggregated row per source key per day
		`CREATE TABLE IF NOT EXISTS kpi_daily (
			source_key TEXT NOT NULL,
			date TEXT NOT NULL,
			day_power REAL NOT NULL DEFAULT 0,
			month_power REAL NOT NULL DEFAULT 0,
			total_power REAL NOT NULL DEFAULT 0,
			day_income REAL NOT NULL DEFAULT 0,
			total_income REAL NOT NULL DEFAULT 0,
			equivalent_trees REAL NOT NULL DEFAULT 0,
			co2_avoided REAL NOT NULL DEFAULT 0,
			day_use_energy REAL NOT NULL DEFAULT 0,
			day_on_grid_energy REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (source_key, date)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_kpi_daily_source ON kpi_daily(source_key, date DESC)`,
	}

	for _, stmt := range ddlStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}
