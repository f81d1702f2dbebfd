// Package storage provides SQLite persistence for the development backend:
// user accounts, station metadata, and daily KPI rows.
package storage

import (
	"context"
)

// Storage defines the persistence operations the backend needs.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, username, passwordHash, role, dashboard string) (*User, error)
	GetUser(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, username string) error

	// Station operations
	UpsertStation(ctx context.Context, key string, openingDate *string) error
	GetStation(ctx context.Context, key string) (*Station, error)
	ListStations(ctx context.Context) ([]*Station, error)

	// KPI operations
	UpsertKPI(ctx context.Context, row *KPIRow) error
	GetKPI(ctx context.Context, sourceKey, date string) (*KPIRow, error)
	LatestKPI(ctx context.Context, sourceKey string) (*KPIRow, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
