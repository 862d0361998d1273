package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/report"
	"mercator-hq/preload/pkg/rules"
)

// createTempDB creates a SQLite backend in a temporary directory.
func createTempDB(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(&SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "reports.db"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func backends(t *testing.T) map[string]Storage {
	return map[string]Storage{
		"sqlite": createTempDB(t),
		"memory": NewMemoryStorage(),
	}
}

// testReport builds a report created at base+offset with n violations.
func testReport(id string, base time.Time, offset time.Duration, source string, n int) *report.Report {
	results := make([]report.RowResult, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, report.RowResult{
			Row:   i,
			Line:  i + 2,
			Login: "user",
			Violations: []report.Violation{
				{Code: rules.CodeLoginDuplicated, Field: rules.FieldLogin, Value: "user"},
			},
		})
	}
	r := report.New(n+1, results)
	r.ID = id
	r.CreatedAt = base.Add(offset)
	r.Source = source
	return r
}

func TestStoreAndGet(t *testing.T) {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := testReport("r1", base, 0, "batch.csv", 2)

			if err := s.Store(ctx, want); err != nil {
				t.Fatalf("Store() error = %v", err)
			}
			got, err := s.Get(ctx, "r1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.ID != want.ID || got.Source != want.Source || got.ViolationCount != 2 {
				t.Errorf("Get() = %+v", got)
			}
			if !got.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
			}
			if len(got.Results) != 2 || !got.Results[0].HasCode(rules.CodeLoginDuplicated) {
				t.Errorf("Results = %+v", got.Results)
			}
			if got.CountsByCode[rules.CodeLoginDuplicated] != 2 {
				t.Errorf("CountsByCode = %v", got.CountsByCode)
			}

			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreReplaces(t *testing.T) {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = s.Store(ctx, testReport("r1", base, 0, "a.csv", 1))
			if err := s.Store(ctx, testReport("r1", base, 0, "b.csv", 3)); err != nil {
				t.Fatal(err)
			}
			n, _ := s.Count(ctx)
			if n != 1 {
				t.Errorf("Count() = %d, want 1", n)
			}
			got, _ := s.Get(ctx, "r1")
			if got.Source != "b.csv" || got.ViolationCount != 3 {
				t.Errorf("replaced report = %+v", got)
			}
		})
	}
}

func TestList(t *testing.T) {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, r := range []*report.Report{
				testReport("r1", base, 0, "a.csv", 0),
				testReport("r2", base, time.Hour, "b.csv", 1),
				testReport("r3", base, 2*time.Hour, "a.csv", 2),
			} {
				if err := s.Store(ctx, r); err != nil {
					t.Fatal(err)
				}
			}

			tests := []struct {
				name   string
				filter Filter
				want   []string
			}{
				{"all newest first", Filter{}, []string{"r3", "r2", "r1"}},
				{"limit", Filter{Limit: 2}, []string{"r3", "r2"}},
				{"offset", Filter{Offset: 1}, []string{"r2", "r1"}},
				{"limit and offset", Filter{Limit: 1, Offset: 1}, []string{"r2"}},
				{"offset past end", Filter{Offset: 5}, []string{}},
				{"since", Filter{Since: base.Add(time.Hour)}, []string{"r3", "r2"}},
				{"until", Filter{Until: base.Add(time.Hour)}, []string{"r2", "r1"}},
				{"source", Filter{Source: "a.csv"}, []string{"r3", "r1"}},
				{"only violations", Filter{OnlyViolations: true}, []string{"r3", "r2"}},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := s.List(ctx, tt.filter)
					if err != nil {
						t.Fatalf("List() error = %v", err)
					}
					if len(got) != len(tt.want) {
						t.Fatalf("List() returned %d, want %d", len(got), len(tt.want))
					}
					for i, id := range tt.want {
						if got[i].ID != id {
							t.Errorf("List()[%d] = %s, want %s", i, got[i].ID, id)
						}
					}
				})
			}
		})
	}
}

func TestDelete(t *testing.T) {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, id := range []string{"r1", "r2", "r3", "r4"} {
				_ = s.Store(ctx, testReport(id, base, time.Duration(i)*time.Hour, "", i))
			}

			n, err := s.DeleteOlderThan(ctx, base.Add(time.Hour))
			if err != nil || n != 1 {
				t.Fatalf("DeleteOlderThan() = %d, %v; want 1", n, err)
			}

			n, err = s.DeleteOldest(ctx, 2)
			if err != nil || n != 1 {
				t.Fatalf("DeleteOldest() = %d, %v; want 1", n, err)
			}
			if _, err := s.Get(ctx, "r2"); !errors.Is(err, ErrNotFound) {
				t.Errorf("r2 should be pruned, got %v", err)
			}

			n, _ = s.DeleteOldest(ctx, 5)
			if n != 0 {
				t.Errorf("DeleteOldest(5) removed %d", n)
			}
			count, _ := s.Count(ctx)
			if count != 2 {
				t.Errorf("Count() = %d, want 2", count)
			}
		})
	}
}

func TestMemoryStorageIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	r := testReport("r1", time.Now(), 0, "", 1)
	_ = s.Store(ctx, r)

	r.Results[0].Login = "mutated"
	got, _ := s.Get(ctx, "r1")
	if got.Results[0].Login != "user" {
		t.Error("stored report observed caller mutation")
	}

	_ = s.Close()
	if err := s.Ping(ctx); err == nil {
		t.Error("Ping() after Close should fail")
	}
	if err := s.Store(ctx, r); err == nil {
		t.Error("Store() after Close should fail")
	}
}

func TestSQLiteStorageReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(&SQLiteConfig{Path: path, WALMode: true})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Store(ctx, testReport("r1", time.Now().UTC(), 0, "", 1))
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	s.Close()

	s, err = NewSQLiteStorage(&SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("Count() after reopen = %d, want 1", n)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ReportsConfig
		wantErr bool
	}{
		{"memory", config.ReportsConfig{Backend: "memory"}, false},
		{"sqlite", config.ReportsConfig{Backend: "sqlite", SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "r.db")}}, false},
		{"sqlite without path", config.ReportsConfig{Backend: "sqlite"}, true},
		{"unknown", config.ReportsConfig{Backend: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("sqlite", "store", cause)
	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	if got := err.Error(); got != "storage error [backend=sqlite, operation=store]: disk full" {
		t.Errorf("Error() = %q", got)
	}
}
