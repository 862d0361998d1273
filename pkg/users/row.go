package users

import (
	"strings"
)

// WorkspaceDelimiter separates workspace names inside one import field.
const WorkspaceDelimiter = ","

// RawRow holds the unprocessed text of one import record.
type RawRow struct {
	Line        int
	Login       string
	Email       string
	PhoneNumber string
	FullName    string
	Password    string
	Role        string
	Supervisor  string
	Workspaces  string
}

// ImportRow is one candidate account. Build it with NewImportRow; the
// zero value is a row with every field empty.
//
// Empty means absent. Identity and contact fields are trimmed so a value
// made only of whitespace is treated the same as a missing one. Passwords
// are kept verbatim.
type ImportRow struct {
	// Line is the 1-based line in the source file, or 0 when unknown.
	Line int

	Login       string
	Email       string
	PhoneNumber string
	FullName    string
	Password    string

	Role Role

	// RawRole is the trimmed role text as it appeared in the source.
	RawRole string

	// Supervisor is the declared supervisor login. Only interviewers use it.
	Supervisor string

	// WorkspaceField is the trimmed workspace text as it appeared in the source.
	WorkspaceField string

	// Workspaces is WorkspaceField split into names.
	Workspaces []string
}

// NewImportRow normalizes raw import text into an ImportRow.
func NewImportRow(raw RawRow) ImportRow {
	workspaceField := strings.TrimSpace(raw.Workspaces)
	roleText := strings.TrimSpace(raw.Role)
	return ImportRow{
		Line:           raw.Line,
		Login:          strings.TrimSpace(raw.Login),
		Email:          strings.TrimSpace(raw.Email),
		PhoneNumber:    strings.TrimSpace(raw.PhoneNumber),
		FullName:       strings.TrimSpace(raw.FullName),
		Password:       raw.Password,
		Role:           ParseRole(roleText),
		RawRole:        roleText,
		Supervisor:     strings.TrimSpace(raw.Supervisor),
		WorkspaceField: workspaceField,
		Workspaces:     ParseWorkspaces(workspaceField),
	}
}

// ParseWorkspaces splits a workspace field on WorkspaceDelimiter. Names
// are trimmed, empty names are dropped, and order is preserved.
func ParseWorkspaces(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, WorkspaceDelimiter)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// LoginKey returns the case-insensitive key for the row's login.
func (r ImportRow) LoginKey() string {
	return Key(r.Login)
}

// SupervisorKey returns the case-insensitive key for the declared supervisor.
func (r ImportRow) SupervisorKey() string {
	return Key(r.Supervisor)
}

// Batch is an ordered import batch. Validation never modifies it.
type Batch []ImportRow

// NewBatch normalizes every raw row in order.
func NewBatch(raws []RawRow) Batch {
	batch := make(Batch, 0, len(raws))
	for _, raw := range raws {
		batch = append(batch, NewImportRow(raw))
	}
	return batch
}
