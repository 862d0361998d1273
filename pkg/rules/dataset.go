package rules

import (
	"mercator-hq/preload/pkg/users"
	"mercator-hq/preload/pkg/users/directory"
)

// datasetEnv is what dataset rules are bound to. loginCounts and
// supervisorRows are derived from the batch once at bind time.
type datasetEnv struct {
	index          *directory.Index
	loginCounts    map[string]int
	supervisorRows map[string][]users.ImportRow
}

var datasetTable = []definition[*datasetEnv]{
	{CodeLoginDuplicated, FieldLogin, "login appears more than once in the batch", (*datasetEnv).loginDuplicated},
	{CodeSupervisorInconsistent, FieldSupervisor, "interviewer's supervisor is missing or does not cover its workspaces", (*datasetEnv).supervisorInconsistent},
}

// DatasetRules binds the dataset rule table to the directory index and
// the full import batch. The batch must not change afterwards.
func DatasetRules(index *directory.Index, batch users.Batch) []Rule {
	env := &datasetEnv{
		index:          index,
		loginCounts:    make(map[string]int, len(batch)),
		supervisorRows: make(map[string][]users.ImportRow),
	}
	for _, row := range batch {
		key := row.LoginKey()
		env.loginCounts[key]++
		env.supervisorRows[key] = append(env.supervisorRows[key], row)
	}
	return bind(ScopeDataset, env, datasetTable)
}

func (e *datasetEnv) loginDuplicated(row users.ImportRow) bool {
	return e.loginCounts[row.LoginKey()] > 1
}

// supervisorInconsistent checks an interviewer's declared supervisor. An
// active supervisor must already cover every requested workspace.
// Otherwise some batch row with that login must be a supervisor covering
// them.
func (e *datasetEnv) supervisorInconsistent(row users.ImportRow) bool {
	if row.Role != users.RoleInterviewer {
		return false
	}
	if row.Supervisor == "" {
		return true
	}

	if supervisor, ok := e.index.ActiveSupervisor(row.Supervisor); ok {
		return !containsAll(supervisor.WorkspaceNames(), row.Workspaces)
	}

	for _, candidate := range e.supervisorRows[row.SupervisorKey()] {
		if candidate.Role == users.RoleSupervisor && containsAll(candidate.Workspaces, row.Workspaces) {
			return false
		}
	}
	return true
}
