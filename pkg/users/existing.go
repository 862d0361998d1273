package users

// ExistingUser is a snapshot of an account already present in the
// directory. Records are owned by the caller and never modified.
type ExistingUser struct {
	// UserID uniquely identifies the account across the snapshot.
	UserID string `yaml:"user_id" json:"user_id"`

	// UserName is the login. Comparisons against it ignore case.
	UserName string `yaml:"user_name" json:"user_name"`

	IsArchived    bool `yaml:"archived" json:"archived"`
	IsSupervisor  bool `yaml:"supervisor" json:"supervisor"`
	IsInterviewer bool `yaml:"interviewer" json:"interviewer"`

	// Workspaces lists the account's workspace assignments in order.
	Workspaces []WorkspaceAssignment `yaml:"workspaces" json:"workspaces"`
}

// WorkspaceAssignment places a user in a workspace, optionally under a
// supervisor identified by user ID.
type WorkspaceAssignment struct {
	Workspace string `yaml:"workspace" json:"workspace"`

	// SupervisorID is empty when the assignment has no supervisor.
	SupervisorID string `yaml:"supervisor_id,omitempty" json:"supervisor_id,omitempty"`
}

// Assignment returns the user's assignment to the named workspace.
// The second result is false when the user is not assigned there.
func (u ExistingUser) Assignment(workspace string) (WorkspaceAssignment, bool) {
	for _, a := range u.Workspaces {
		if a.Workspace == workspace {
			return a, true
		}
	}
	return WorkspaceAssignment{}, false
}

// WorkspaceNames returns the names of all assigned workspaces.
func (u ExistingUser) WorkspaceNames() []string {
	names := make([]string, 0, len(u.Workspaces))
	for _, a := range u.Workspaces {
		names = append(names, a.Workspace)
	}
	return names
}
