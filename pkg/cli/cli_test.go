package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFatal},
		{"violations", NewExitError(ExitViolations, errors.New("2 violations")), ExitViolations},
		{"wrapped", fmt.Errorf("verify: %w", NewExitError(ExitViolations, nil)), ExitViolations},
		{"command", NewCommandError("verify", errors.New("bad")), ExitFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("file missing")
	tests := []struct {
		err  error
		want string
	}{
		{NewConfigError("policy.login_pattern", "invalid regex"), "config error in policy.login_pattern: invalid regex"},
		{NewCommandError("history", cause), "command history failed: file missing"},
		{NewExitError(2, nil), "exit status 2"},
		{NewExitError(2, cause), "file missing"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if !errors.Is(NewCommandError("x", cause), cause) || !errors.Is(NewExitError(1, cause), cause) {
		t.Error("errors should unwrap to their cause")
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWrite(t *testing.T) {
	table := Table{Headers: []string{"CODE", "FIELD"}}
	table.Append("PLU0001", "login")
	table.Append("PLU0022", "workspace")

	var text bytes.Buffer
	if err := Write(&text, FormatText, table, nil); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(text.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), text.String())
	}
	if !strings.HasPrefix(lines[1], "PLU0001  login") {
		t.Errorf("row not aligned: %q", lines[1])
	}

	var js bytes.Buffer
	if err := Write(&js, FormatJSON, table, map[string]int{"rows": 2}); err != nil {
		t.Fatal(err)
	}
	if js.String() != "{\n  \"rows\": 2\n}\n" {
		t.Errorf("json output = %q", js.String())
	}

	n, err := table.WriteTo(&bytes.Buffer{})
	if err != nil || n != int64(text.Len()) {
		t.Errorf("WriteTo() = %d, %v; want %d", n, err, text.Len())
	}
}

func TestSetupSignalHandler(t *testing.T) {
	ctx, stop := SetupSignalHandler()
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}
