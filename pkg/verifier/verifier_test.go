package verifier

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/evaluator"
	"mercator-hq/preload/pkg/report"
	"mercator-hq/preload/pkg/report/storage"
	"mercator-hq/preload/pkg/rules"
	"mercator-hq/preload/pkg/source"
	"mercator-hq/preload/pkg/users"
)

type fakeRecorder struct {
	mu       sync.Mutex
	runs     []evaluator.RunStats
	failures []string
	stored   int
}

func (r *fakeRecorder) ObserveRun(s evaluator.RunStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, s)
}

func (r *fakeRecorder) RecordFailure(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, stage)
}

func (r *fakeRecorder) RecordReportStored() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored++
}

type failingStore struct {
	storage.Storage
}

func (failingStore) Store(context.Context, *report.Report) error {
	return errors.New("disk full")
}

func newVerifier(t *testing.T, cfg *Config) *Verifier {
	t.Helper()
	policy, err := NewPolicy(config.DefaultConfig())
	if err != nil {
		t.Fatalf("NewPolicy() error = %v", err)
	}
	cfg.Policy = policy
	v, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return v
}

func TestNewRequiresPolicy(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should fail")
	}
	if _, err := New(&Config{}); err == nil {
		t.Error("New() without policy should fail")
	}
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	off := false
	cfg.Password.RequireDigit = &off
	cfg.Password.RequireUppercase = nil

	pc := PolicyFromConfig(cfg)
	if pc.Password == nil {
		t.Fatal("password policy is nil")
	}
	if pc.Password.RequireDigit {
		t.Error("explicit false for require_digit was lost")
	}
	if !pc.Password.RequireUppercase {
		t.Error("unset require_uppercase should default to true")
	}
	if pc.LoginPattern != config.DefaultLoginPattern {
		t.Errorf("LoginPattern = %q", pc.LoginPattern)
	}

	cfg.Policy.LoginPattern = "("
	if _, err := NewPolicy(cfg); err == nil {
		t.Error("NewPolicy() with bad pattern should fail")
	}
}

func TestVerify(t *testing.T) {
	rec := &fakeRecorder{}
	store := storage.NewMemoryStorage()
	v := newVerifier(t, &Config{Store: store, MaskPasswords: true, Recorder: rec, Workers: 2})

	in := Input{
		Source: "batch.csv",
		Batch: users.NewBatch([]users.RawRow{
			{Line: 2, Login: "msmith", Password: "short", Role: "supervisor", Workspaces: "north"},
			{Line: 3, Login: "jdoe", Password: "Valid#Pass2026", Role: "interviewer", Supervisor: "msmith", Workspaces: "north"},
		}),
		Directory: &source.Directory{Workspaces: []string{"north"}},
	}

	res, err := v.Verify(context.Background(), in)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	rep := res.Report
	if rep.Source != "batch.csv" || rep.Rows != 2 {
		t.Errorf("report = %+v", rep)
	}
	row, ok := rep.ForRow(0)
	if !ok || !row.HasCode(rules.CodePasswordTooShort) {
		t.Fatalf("row 0 should break %s: %+v", rules.CodePasswordTooShort, row)
	}
	if _, ok := rep.ForRow(1); ok {
		t.Errorf("row 1 should be clean")
	}

	if !res.Stored || rec.stored != 1 {
		t.Errorf("Stored = %v, recorder stored = %d", res.Stored, rec.stored)
	}
	if len(rec.runs) != 1 || rec.runs[0].Rows != 2 {
		t.Errorf("recorded runs = %+v", rec.runs)
	}

	stored, err := store.Get(context.Background(), rep.ID)
	if err != nil {
		t.Fatalf("stored report missing: %v", err)
	}
	for _, viol := range stored.Results[0].Violations {
		if viol.Field == rules.FieldPassword && viol.Value != report.PasswordMask {
			t.Errorf("stored password value = %q, want mask", viol.Value)
		}
	}
	for _, viol := range row.Violations {
		if viol.Field == rules.FieldPassword && viol.Value != "short" {
			t.Errorf("returned report password value = %q, want raw", viol.Value)
		}
	}
}

func TestVerifyStoreFailure(t *testing.T) {
	rec := &fakeRecorder{}
	v := newVerifier(t, &Config{Store: failingStore{}, Recorder: rec})

	res, err := v.Verify(context.Background(), Input{
		Batch: users.NewBatch([]users.RawRow{{Login: "x"}}),
	})
	if err == nil {
		t.Fatal("Verify() should report the store failure")
	}
	if res == nil || res.Report == nil || res.Stored {
		t.Fatalf("result should be complete and unstored: %+v", res)
	}
	if len(rec.failures) != 1 || rec.failures[0] != StageStorage {
		t.Errorf("failures = %v", rec.failures)
	}
}

func TestVerifyFiles(t *testing.T) {
	dir := t.TempDir()
	batchPath := filepath.Join(dir, "batch.csv")
	dirPath := filepath.Join(dir, "directory.yaml")

	batch := "login,password,role,supervisor,workspace\n" +
		"jdoe,Valid#Pass2026,interviewer,msmith,\"north,east\"\n"
	snapshot := `
workspaces: [north]
users:
  - user_id: u-1
    user_name: MSmith
    supervisor: true
    workspaces:
      - workspace: north
`
	if err := os.WriteFile(batchPath, []byte(batch), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dirPath, []byte(snapshot), 0o600); err != nil {
		t.Fatal(err)
	}

	v := newVerifier(t, &Config{})
	ctx := context.Background()

	res, err := v.VerifyFiles(ctx, Files{Batch: batchPath, Directory: dirPath})
	if err != nil {
		t.Fatalf("VerifyFiles() error = %v", err)
	}
	row, ok := res.Report.ForRow(0)
	if !ok || !row.HasCode(rules.CodeWorkspaceUnknown) {
		t.Fatalf("row 0 should break %s: %+v", rules.CodeWorkspaceUnknown, row)
	}
	if res.Report.Source != batchPath || res.Directory.Users != 1 {
		t.Errorf("result = %+v", res)
	}

	res, err = v.VerifyFiles(ctx, Files{Batch: batchPath, Directory: dirPath, Workspaces: []string{"east"}})
	if err != nil {
		t.Fatal(err)
	}
	if row, ok := res.Report.ForRow(0); ok && row.HasCode(rules.CodeWorkspaceUnknown) {
		t.Error("extra workspace should satisfy the workspace rule")
	}
}

func TestVerifyFilesLoadErrors(t *testing.T) {
	rec := &fakeRecorder{}
	v := newVerifier(t, &Config{Recorder: rec})
	dir := t.TempDir()

	if _, err := v.VerifyFiles(context.Background(), Files{Batch: filepath.Join(dir, "missing.csv")}); err == nil {
		t.Error("missing batch should fail")
	}

	batchPath := filepath.Join(dir, "batch.csv")
	if err := os.WriteFile(batchPath, []byte("login\nx\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := v.VerifyFiles(context.Background(), Files{Batch: batchPath, Directory: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("missing directory should fail")
	}

	if len(rec.failures) != 2 || rec.failures[0] != StageLoad {
		t.Errorf("failures = %v", rec.failures)
	}
}
