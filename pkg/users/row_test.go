package users

import (
	"reflect"
	"testing"
)

func TestParseWorkspaces(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{name: "empty", field: "", want: nil},
		{name: "whitespace only", field: "   ", want: nil},
		{name: "single", field: "W1", want: []string{"W1"}},
		{name: "trimmed", field: " W1 ,W2 ", want: []string{"W1", "W2"}},
		{name: "drops empty items", field: "W1,,W2,", want: []string{"W1", "W2"}},
		{name: "keeps order and duplicates", field: "W2,W1,W2", want: []string{"W2", "W1", "W2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWorkspaces(tt.field)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWorkspaces(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestNewImportRow(t *testing.T) {
	row := NewImportRow(RawRow{
		Line:        7,
		Login:       "  jdoe ",
		Email:       " ",
		PhoneNumber: " +1 555 ",
		FullName:    " John Doe ",
		Password:    " secret ",
		Role:        " Interviewer ",
		Supervisor:  " Boss ",
		Workspaces:  " W1, W2 ",
	})

	if row.Line != 7 {
		t.Errorf("Line = %d, want 7", row.Line)
	}
	if row.Login != "jdoe" {
		t.Errorf("Login = %q, want %q", row.Login, "jdoe")
	}
	if row.Email != "" {
		t.Errorf("Email = %q, want empty", row.Email)
	}
	if row.PhoneNumber != "+1 555" {
		t.Errorf("PhoneNumber = %q, want %q", row.PhoneNumber, "+1 555")
	}
	if row.FullName != "John Doe" {
		t.Errorf("FullName = %q, want %q", row.FullName, "John Doe")
	}
	if row.Password != " secret " {
		t.Errorf("Password = %q, want it untouched", row.Password)
	}
	if row.Role != RoleInterviewer || row.RawRole != "Interviewer" {
		t.Errorf("Role = %v (%q), want interviewer", row.Role, row.RawRole)
	}
	if row.Supervisor != "Boss" {
		t.Errorf("Supervisor = %q, want %q", row.Supervisor, "Boss")
	}
	if row.WorkspaceField != "W1, W2" {
		t.Errorf("WorkspaceField = %q, want %q", row.WorkspaceField, "W1, W2")
	}
	if !reflect.DeepEqual(row.Workspaces, []string{"W1", "W2"}) {
		t.Errorf("Workspaces = %v, want [W1 W2]", row.Workspaces)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"interviewer", RoleInterviewer},
		{"SUPERVISOR", RoleSupervisor},
		{" Supervisor ", RoleSupervisor},
		{"", RoleUnset},
		{"headquarters", RoleUnset},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseRole(tt.in); got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoleUnmarshalText(t *testing.T) {
	var r Role
	if err := r.UnmarshalText([]byte("Supervisor")); err != nil || r != RoleSupervisor {
		t.Fatalf("UnmarshalText(Supervisor) = %v, %v", r, err)
	}
	if err := r.UnmarshalText([]byte("admin")); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"JDoe", "jdoe", true},
		{"ÉLODIE", "élodie", true},
		{"jdoe", "jdoe2", false},
		{"straße", "strasse", false},
		{"Straße", "STRASSE", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			if got := Key(tt.a) == Key(tt.b); got != tt.same {
				t.Errorf("Key(%q) == Key(%q) is %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}
}

func TestExistingUserAssignment(t *testing.T) {
	u := ExistingUser{
		UserID: "1",
		Workspaces: []WorkspaceAssignment{
			{Workspace: "W1", SupervisorID: "9"},
			{Workspace: "W2"},
		},
	}

	a, ok := u.Assignment("W1")
	if !ok || a.SupervisorID != "9" {
		t.Errorf("Assignment(W1) = %+v, %v", a, ok)
	}
	if _, ok := u.Assignment("W3"); ok {
		t.Error("Assignment(W3) should not be found")
	}
	if got := u.WorkspaceNames(); !reflect.DeepEqual(got, []string{"W1", "W2"}) {
		t.Errorf("WorkspaceNames() = %v", got)
	}
}
