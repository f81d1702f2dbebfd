package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// CreateUser inserts a new account.
// Returns ErrDuplicate if the username is already taken.
func (s *SQLiteStorage) CreateUser(ctx context.Context, username, passwordHash, role, dashboard string) (*User, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role, dashboard) VALUES (?, ?, ?, ?)",
		username, passwordHash, role, dashboard)

	if err != nil {
		// UNIQUE constraint: extended error code 2067, base code 19
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			if sqliteErr.Code() == 2067 || (sqliteErr.Code()&0xFF) == sqlite3.SQLITE_CONSTRAINT {
				return nil, ErrDuplicate
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Dashboard:    dashboard,
	}, nil
}

// GetUser retrieves an account by username.
// Returns ErrNotFound if the username doesn't exist.
func (s *SQLiteStorage) GetUser(ctx context.Context, username string) (*User, error) {
	var u User

	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, dashboard, created_at FROM users WHERE username = ?",
		username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Dashboard, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// ListUsers returns every account ordered by username.
func (s *SQLiteStorage) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password_hash, role, dashboard, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Dashboard, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// DeleteUser removes an account by username.
// Returns ErrNotFound if the username doesn't exist.
func (s *SQLiteStorage) DeleteUser(ctx context.Context, username string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
