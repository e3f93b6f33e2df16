package chat

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/parleyhq/parley/internal/infra/sqlite"
)

// mustOpenDB returns an in-memory database with migrations applied.
func mustOpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// useStepClock replaces the package clock with one that advances 10ms per
// call, so consecutive writes receive strictly increasing timestamps.
// Tests that install it must not run in parallel.
func useStepClock(t *testing.T) {
	t.Helper()
	var (
		mu   sync.Mutex
		base = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	)
	orig := nowFunc
	nowFunc = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		base = base.Add(10 * time.Millisecond)
		return base
	}
	t.Cleanup(func() { nowFunc = orig })
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
