package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertStation inserts a station or replaces its opening date.
// Passing nil clears the opening date.
func (s *SQLiteStorage) UpsertStation(ctx context.Context, key string, openingDate *string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stations (key, opening_date) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET opening_date = excluded.opening_date`,
		key, openingDate)
	if err != nil {
		return fmt.Errorf("failed to upsert station: %w", err)
	}
	return nil
}

// GetStation retrieves a station by key.
// Returns ErrNotFound if the key doesn't exist.
func (s *SQLiteStorage) GetStation(ctx context.Context, key string) (*Station, error) {
	var st Station

	err := s.db.QueryRowContext(ctx,
		"SELECT key, opening_date FROM stations WHERE key = ?", key).
		Scan(&st.Key, &st.OpeningDate)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	return &st, nil
}

// ListStations returns every station ordered by key.
func (s *SQLiteStorage) ListStations(ctx context.Context) ([]*Station, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, opening_date FROM stations ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var stations []*Station
	for rows.Next() {
		var st Station
		if err := rows.Scan(&st.Key, &st.OpeningDate); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stations: %w", err)
	}

	return stations, nil
}
