package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const kpiColumns = `source_key, date, day_power, month_power, total_power,
	day_income, total_income, equivalent_trees, co2_avoided,
	day_use_energy, day_on_grid_energy`

// UpsertKPI inserts or replaces the KPI row for one source key and day.
func (s *SQLiteStorage) UpsertKPI(ctx context.Context, row *KPIRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kpi_daily (`+kpiColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.SourceKey, row.Date, row.DayPower, row.MonthPower, row.TotalPower,
		row.DayIncome, row.TotalIncome, row.EquivalentTrees, row.CO2Avoided,
		row.DayUseEnergy, row.DayOnGridEnergy)
	if err != nil {
		return fmt.Errorf("failed to upsert kpi: %w", err)
	}
	return nil
}

// GetKPI retrieves the KPI row for one source key and day.
// Returns ErrNotFound when no row exists.
func (s *SQLiteStorage) GetKPI(ctx context.Context, sourceKey, date string) (*KPIRow, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+kpiColumns+" FROM kpi_daily WHERE source_key = ? AND date = ?",
		sourceKey, date)
	return scanKPI(row)
}

// LatestKPI retrieves the most recent KPI row for a source key.
// Returns ErrNotFound when the source has no rows at all.
func (s *SQLiteStorage) LatestKPI(ctx context.Context, sourceKey string) (*KPIRow, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+kpiColumns+" FROM kpi_daily WHERE source_key = ? ORDER BY date DESC LIMIT 1",
		sourceKey)
	return scanKPI(row)
}

func scanKPI(row *sql.Row) (*KPIRow, error) {
	var k KPIRow
	err := row.Scan(&k.SourceKey, &k.Date, &k.DayPower, &k.MonthPower, &k.TotalPower,
		&k.DayIncome, &k.TotalIncome, &k.EquivalentTrees, &k.CO2Avoided,
		&k.DayUseEnergy, &k.DayOnGridEnergy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan kpi: %w", err)
	}
	return &k, nil
}
