// Package directory builds read-only lookup structures over an existing
// user snapshot.
//
// An Index is built once per verification run, before any rule reads it,
// and is never modified afterwards. It is safe for concurrent reads.
package directory

import (
	"mercator-hq/preload/pkg/users"
)

// Index holds the lookups the rule catalogs consult. Name keys are
// produced by users.Key.
type Index struct {
	activeUserNames          map[string]struct{}
	archivedSupervisorNames  map[string]struct{}
	archivedInterviewers     map[string]users.ExistingUser
	activeSupervisors        map[string]users.ExistingUser
	usersByID                map[string]users.ExistingUser
	archivedInterviewerCount int
}

// Build indexes the snapshot. An empty snapshot yields an empty index.
//
// When several archived interviewers share a name, the one appearing last
// in the snapshot is kept. The same applies to active supervisors.
func Build(snapshot []users.ExistingUser) *Index {
	idx := &Index{
		activeUserNames:         make(map[string]struct{}),
		archivedSupervisorNames: make(map[string]struct{}),
		archivedInterviewers:    make(map[string]users.ExistingUser),
		activeSupervisors:       make(map[string]users.ExistingUser),
		usersByID:               make(map[string]users.ExistingUser, len(snapshot)),
	}

	for _, u := range snapshot {
		key := users.Key(u.UserName)
		idx.usersByID[u.UserID] = u

		if !u.IsArchived {
			idx.activeUserNames[key] = struct{}{}
			if u.IsSupervisor {
				idx.activeSupervisors[key] = u
			}
			continue
		}

		if u.IsSupervisor {
			idx.archivedSupervisorNames[key] = struct{}{}
		}
		if u.IsInterviewer {
			idx.archivedInterviewers[key] = u
			idx.archivedInterviewerCount++
		}
	}

	return idx
}

// IsActive reports whether a non-archived user has the given name.
func (i *Index) IsActive(name string) bool {
	_, ok := i.activeUserNames[users.Key(name)]
	return ok
}

// IsArchivedSupervisor reports whether an archived supervisor has the given name.
func (i *Index) IsArchivedSupervisor(name string) bool {
	_, ok := i.archivedSupervisorNames[users.Key(name)]
	return ok
}

// ArchivedInterviewer returns the archived interviewer with the given name.
func (i *Index) ArchivedInterviewer(name string) (users.ExistingUser, bool) {
	u, ok := i.archivedInterviewers[users.Key(name)]
	return u, ok
}

// ActiveSupervisor returns the active supervisor with the given name.
func (i *Index) ActiveSupervisor(name string) (users.ExistingUser, bool) {
	u, ok := i.activeSupervisors[users.Key(name)]
	return u, ok
}

// UserByID resolves a user by ID.
func (i *Index) UserByID(id string) (users.ExistingUser, bool) {
	u, ok := i.usersByID[id]
	return u, ok
}

// Stats summarizes the index for logging.
type Stats struct {
	Users                int
	Active               int
	ArchivedSupervisors  int
	ArchivedInterviewers int

	// ShadowedInterviewers counts archived interviewer records hidden by a
	// later record with the same name.
	ShadowedInterviewers int
}

// Stats returns the index sizes.
func (i *Index) Stats() Stats {
	return Stats{
		Users:                len(i.usersByID),
		Active:               len(i.activeUserNames),
		ArchivedSupervisors:  len(i.archivedSupervisorNames),
		ArchivedInterviewers: len(i.archivedInterviewers),
		ShadowedInterviewers: i.archivedInterviewerCount - len(i.archivedInterviewers),
	}
}
