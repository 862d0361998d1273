package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorList(t *testing.T) {
	el := NewErrorList()
	if el.ToError() != nil {
		t.Fatal("empty list should convert to nil")
	}

	cause := stderrors.New("missing closing )")
	el.AddError(ErrorTypePattern, "policy.login_pattern", "invalid login pattern", cause)
	el.AddErrorWithSuggestion(ErrorTypePassword, "password", "password policy is required", "add a password section")

	if !el.HasErrors() || el.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", el.Count())
	}
	if !el.HasErrorType(ErrorTypePassword) || el.HasErrorType(ErrorTypeLimit) {
		t.Error("HasErrorType mismatch")
	}
	if got := el.ByType(ErrorTypePattern); len(got) != 1 {
		t.Errorf("ByType(pattern) = %d errors, want 1", len(got))
	}

	err := el.ToError()
	msg := err.Error()
	for _, want := range []string{"found 2 error(s)", "policy.login_pattern", "missing closing )", "suggestion: add a password section"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}

	if !stderrors.Is(el.Errors[0], cause) {
		t.Error("Error should unwrap to its cause")
	}
}

func TestErrorListSingle(t *testing.T) {
	el := NewErrorList()
	el.AddError(ErrorTypeLimit, "policy.phone_max_length", "must not be negative", nil)

	want := "invalid rule policy: [limit] must not be negative (policy.phone_max_length)"
	if got := el.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
