package directory

import (
	"testing"

	"mercator-hq/preload/pkg/users"
)

func snapshot() []users.ExistingUser {
	return []users.ExistingUser{
		{UserID: "1", UserName: "Active", IsInterviewer: true},
		{UserID: "2", UserName: "Boss", IsSupervisor: true, Workspaces: []users.WorkspaceAssignment{{Workspace: "W1"}}},
		{UserID: "3", UserName: "OldBoss", IsArchived: true, IsSupervisor: true},
		{UserID: "4", UserName: "OldHand", IsArchived: true, IsInterviewer: true,
			Workspaces: []users.WorkspaceAssignment{{Workspace: "W1", SupervisorID: "2"}}},
		{UserID: "5", UserName: "oldhand", IsArchived: true, IsInterviewer: true,
			Workspaces: []users.WorkspaceAssignment{{Workspace: "W2"}}},
	}
}

func TestBuild(t *testing.T) {
	idx := Build(snapshot())

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"active user", idx.IsActive("ACTIVE"), true},
		{"active supervisor is active", idx.IsActive("boss"), true},
		{"archived user is not active", idx.IsActive("oldboss"), false},
		{"archived supervisor", idx.IsArchivedSupervisor("OLDBOSS"), true},
		{"active supervisor is not archived", idx.IsArchivedSupervisor("boss"), false},
		{"unknown name", idx.IsActive("nobody"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	sup, ok := idx.ActiveSupervisor("BOSS")
	if !ok || sup.UserID != "2" {
		t.Errorf("ActiveSupervisor(BOSS) = %+v, %v", sup, ok)
	}
	if _, ok := idx.ActiveSupervisor("oldboss"); ok {
		t.Error("archived supervisor must not be an active supervisor")
	}

	u, ok := idx.UserByID("3")
	if !ok || u.UserName != "OldBoss" {
		t.Errorf("UserByID(3) = %+v, %v", u, ok)
	}
}

func TestBuildArchivedInterviewerLastWriteWins(t *testing.T) {
	idx := Build(snapshot())

	u, ok := idx.ArchivedInterviewer("OldHand")
	if !ok {
		t.Fatal("expected archived interviewer")
	}
	if u.UserID != "5" {
		t.Errorf("UserID = %q, want the later record 5", u.UserID)
	}

	stats := idx.Stats()
	if stats.ShadowedInterviewers != 1 {
		t.Errorf("ShadowedInterviewers = %d, want 1", stats.ShadowedInterviewers)
	}
	if stats.Users != 5 || stats.Active != 2 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestBuildEmpty(t *testing.T) {
	idx := Build(nil)
	if idx.IsActive("x") || idx.IsArchivedSupervisor("x") {
		t.Error("empty index should contain nothing")
	}
	if _, ok := idx.ArchivedInterviewer("x"); ok {
		t.Error("empty index should contain no archived interviewers")
	}
	if s := idx.Stats(); s != (Stats{}) {
		t.Errorf("Stats() = %+v, want zero", s)
	}
}
