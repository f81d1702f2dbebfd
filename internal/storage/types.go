package storage

import "time"

// User is one provisioned account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	Dashboard    string
	CreatedAt    time.Time
}

// Station is one solar installation with its optional opening date.
type Station struct {
	Key         string
	OpeningDate *string
}

// KPIRow is one aggregated day of production metrics for a source key.
type KPIRow struct {
	SourceKey       string
	Date            string
	DayPower        float64
	MonthPower      float64
	TotalPower      float64
	DayIncome       float64
	TotalIncome     float64
	EquivalentTrees float64
	CO2Avoided      float64
	DayUseEnergy    float64
	DayOnGridEnergy float64
}
