package users

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles an import row can declare.
type Role int

const (
	// RoleUnset means the row did not name a recognized role.
	RoleUnset Role = iota
	// RoleInterviewer collects data and reports to a supervisor.
	RoleInterviewer
	// RoleSupervisor manages interviewers within workspaces.
	RoleSupervisor
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleInterviewer:
		return "interviewer"
	case RoleSupervisor:
		return "supervisor"
	default:
		return "unset"
	}
}

// ParseRole maps role text to a Role. Matching ignores case and
// surrounding whitespace. Anything unrecognized yields RoleUnset.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interviewer":
		return RoleInterviewer
	case "supervisor":
		return RoleSupervisor
	default:
		return RoleUnset
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the names
// produced by String are accepted.
func (r *Role) UnmarshalText(text []byte) error {
	s := string(text)
	if strings.EqualFold(strings.TrimSpace(s), "unset") || strings.TrimSpace(s) == "" {
		*r = RoleUnset
		return nil
	}
	role := ParseRole(s)
	if role == RoleUnset {
		return fmt.Errorf("unknown role %q", s)
	}
	*r = role
	return nil
}
