package rules

import (
	"testing"

	"mercator-hq/preload/pkg/users"
)

func testPolicyConfig() PolicyConfig {
	return PolicyConfig{
		LoginPattern:      `^[a-zA-Z0-9_]{3,15}$`,
		EmailPattern:      `^[^@\s]+@[^@\s]+\.[a-z]{2,}$`,
		PhonePattern:      `^\+?[0-9 ()\-]+$`,
		PersonNamePattern: `^[\p{L} '.\-]+$`,
		FullNameMaxLength: 20,
		PhoneMaxLength:    15,
		Password: &PasswordPolicy{
			RequiredLength:         6,
			RequireNonAlphanumeric: true,
			RequireDigit:           true,
			RequireLowercase:       true,
			RequireUppercase:       true,
			RequiredUniqueChars:    3,
		},
	}
}

func testPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy(testPolicyConfig())
	if err != nil {
		t.Fatalf("NewPolicy() error = %v", err)
	}
	return p
}

// validRow passes every row rule under testPolicy with an empty directory
// and workspace catalog [W1 W2].
func validRow() users.RawRow {
	return users.RawRow{
		Login:       "jdoe",
		Email:       "jdoe@example.org",
		PhoneNumber: "+1 555 0100",
		FullName:    "John Doe",
		Password:    "Secr3t!",
		Role:        "supervisor",
		Workspaces:  "W1",
	}
}

// violated returns the set of codes the row breaks.
func violated(ruleset []Rule, row users.ImportRow) map[string]bool {
	got := make(map[string]bool)
	for _, r := range ruleset {
		if r.Violates(row) {
			got[r.Code] = true
		}
	}
	return got
}
