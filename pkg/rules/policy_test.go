package rules

import (
	stderrors "errors"
	"testing"

	rerrors "mercator-hq/preload/pkg/rules/errors"
)

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*PolicyConfig)
		wantErr  bool
		wantType rerrors.ErrorType
		wantN    int
	}{
		{
			name:   "valid",
			mutate: func(*PolicyConfig) {},
		},
		{
			name:     "malformed login pattern",
			mutate:   func(c *PolicyConfig) { c.LoginPattern = `^[a-z` },
			wantErr:  true,
			wantType: rerrors.ErrorTypePattern,
			wantN:    1,
		},
		{
			name:     "lookahead is not supported",
			mutate:   func(c *PolicyConfig) { c.PhonePattern = `^(?=\d)\d+$` },
			wantErr:  true,
			wantType: rerrors.ErrorTypePattern,
			wantN:    1,
		},
		{
			name:     "empty pattern",
			mutate:   func(c *PolicyConfig) { c.EmailPattern = "" },
			wantErr:  true,
			wantType: rerrors.ErrorTypePattern,
			wantN:    1,
		},
		{
			name:     "missing password policy",
			mutate:   func(c *PolicyConfig) { c.Password = nil },
			wantErr:  true,
			wantType: rerrors.ErrorTypePassword,
			wantN:    1,
		},
		{
			name:     "negative limit",
			mutate:   func(c *PolicyConfig) { c.PhoneMaxLength = -1 },
			wantErr:  true,
			wantType: rerrors.ErrorTypeLimit,
			wantN:    1,
		},
		{
			name: "all defects reported together",
			mutate: func(c *PolicyConfig) {
				c.LoginPattern = `(`
				c.PersonNamePattern = `[`
				c.Password = nil
			},
			wantErr:  true,
			wantType: rerrors.ErrorTypePattern,
			wantN:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testPolicyConfig()
			tt.mutate(&cfg)

			p, err := NewPolicy(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if p == nil {
					t.Fatal("NewPolicy() returned nil policy")
				}
				return
			}

			var list *rerrors.ErrorList
			if !stderrors.As(err, &list) {
				t.Fatalf("error type = %T, want *errors.ErrorList", err)
			}
			if list.Count() != tt.wantN {
				t.Errorf("Count() = %d, want %d: %v", list.Count(), tt.wantN, err)
			}
			if !list.HasErrorType(tt.wantType) {
				t.Errorf("missing error type %s: %v", tt.wantType, err)
			}
		})
	}
}

func TestPolicyCaseSensitivity(t *testing.T) {
	p := testPolicy(t)

	if p.login.MatchString("ab") {
		t.Error("login pattern should reject two characters")
	}
	if !p.email.MatchString("JDOE@EXAMPLE.ORG") {
		t.Error("email pattern should ignore case")
	}

	cfg := testPolicyConfig()
	cfg.LoginPattern = `^[a-z]+$`
	p, err := NewPolicy(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.login.MatchString("JDOE") {
		t.Error("login pattern should be case-sensitive")
	}
}
