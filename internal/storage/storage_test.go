package storage

import (
	"context"
	"errors"
	"testing"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestCompleteWorkflow exercises the storage end-to-end: provision accounts
// and stations, write KPI rows, read everything back, then delete.
func TestCompleteWorkflow(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	// Step 1: provision accounts
	admin, err := s.CreateUser(ctx, "boss", "$2a$10$hashA", "admin", "")
	if err != nil {
		t.Fatalf("CreateUser admin failed: %v", err)
	}
	if admin.ID == 0 {
		t.Error("admin ID not assigned")
	}
	if _, err := s.CreateUser(ctx, "somchai", "$2a$10$hashB", "user", "B1"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Step 2: duplicate usernames are rejected
	if _, err := s.CreateUser(ctx, "somchai", "$2a$10$hashC", "user", "C1"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate CreateUser error = %v, want ErrDuplicate", err)
	}

	// Step 3: lookup and listing
	u, err := s.GetUser(ctx, "somchai")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.Role != "user" || u.Dashboard != "B1" {
		t.Errorf("GetUser = role %q dashboard %q", u.Role, u.Dashboard)
	}
	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 || users[0].Username != "boss" {
		t.Errorf("ListUsers = %d entries, first %q", len(users), users[0].Username)
	}

	// Step 4: stations with and without opening dates
	opening := "2024-03-01"
	if err := s.UpsertStation(ctx, "B1", &opening); err != nil {
		t.Fatalf("UpsertStation failed: %v", err)
	}
	if err := s.UpsertStation(ctx, "C1", nil); err != nil {
		t.Fatalf("UpsertStation nil date failed: %v", err)
	}
	st, err := s.GetStation(ctx, "B1")
	if err != nil {
		t.Fatalf("GetStation failed: %v", err)
	}
	if st.OpeningDate == nil || *st.OpeningDate != opening {
		t.Errorf("OpeningDate = %v, want %q", st.OpeningDate, opening)
	}

	// Step 5: clearing an opening date
	if err := s.UpsertStation(ctx, "B1", nil); err != nil {
		t.Fatalf("UpsertStation clear failed: %v", err)
	}
	st, _ = s.GetStation(ctx, "B1")
	if st.OpeningDate != nil {
		t.Errorf("OpeningDate after clear = %v, want nil", st.OpeningDate)
	}

	// Step 6: KPI rows and latest-row selection
	for _, date := range []string{"2026-08-29", "2026-08-31", "2026-08-30"} {
		if err := s.UpsertKPI(ctx, &KPIRow{SourceKey: "B1", Date: date, DayPower: 10}); err != nil {
			t.Fatalf("UpsertKPI failed: %v", err)
		}
	}
	latest, err := s.LatestKPI(ctx, "B1")
	if err != nil {
		t.Fatalf("LatestKPI failed: %v", err)
	}
	if latest.Date != "2026-08-31" {
		t.Errorf("LatestKPI date = %q, want 2026-08-31", latest.Date)
	}

	// Step 7: deletion
	if err := s.DeleteUser(ctx, "somchai"); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := s.GetUser(ctx, "somchai"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser after delete error = %v, want ErrNotFound", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.GetUser(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	s := newTestStorage(t)
	if err := s.DeleteUser(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetStationNotFound(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.GetStation(context.Background(), "Z9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestKPINotFound(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	if _, err := s.GetKPI(ctx, "B1", "2026-01-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetKPI error = %v, want ErrNotFound", err)
	}
	if _, err := s.LatestKPI(ctx, "B1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestKPI error = %v, want ErrNotFound", err)
	}
}

func TestUpsertKPIReplacesExistingDay(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	row := &KPIRow{SourceKey: "seafdec", Date: "2026-08-31", DayPower: 5}
	if err := s.UpsertKPI(ctx, row); err != nil {
		t.Fatal(err)
	}
	row.DayPower = 9.5
	if err := s.UpsertKPI(ctx, row); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetKPI(ctx, "seafdec", "2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if got.DayPower != 9.5 {
		t.Errorf("DayPower = %v, want 9.5 after replace", got.DayPower)
	}
}

func TestSchemaInitIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	if err := InitSchema(s.db); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
