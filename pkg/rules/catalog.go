package rules

import (
	"sort"

	"mercator-hq/preload/pkg/users"
	"mercator-hq/preload/pkg/users/directory"
)

// Description is the static part of a rule, used for listings.
type Description struct {
	Code        string `json:"code"`
	Field       Field  `json:"field"`
	Scope       Scope  `json:"scope"`
	Description string `json:"description"`
}

// Describe lists every rule in code order.
func Describe() []Description {
	out := make([]Description, 0, len(rowTable)+len(datasetTable))
	for _, d := range rowTable {
		out = append(out, Description{Code: d.code, Field: d.field, Scope: ScopeRow, Description: d.description})
	}
	for _, d := range datasetTable {
		out = append(out, Description{Code: d.code, Field: d.field, Scope: ScopeDataset, Description: d.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Lookup returns the description of a rule code.
func Lookup(code string) (Description, bool) {
	for _, d := range Describe() {
		if d.Code == code {
			return d, true
		}
	}
	return Description{}, false
}

// Catalog binds the static rule tables for a policy. It is the entry
// point for callers that hold raw snapshots rather than a built index.
type Catalog struct {
	policy *Policy
}

// NewCatalog creates a Catalog for the given policy.
func NewCatalog(policy *Policy) *Catalog {
	return &Catalog{policy: policy}
}

// EachUserRules returns the row rules for an existing user snapshot and
// the known workspaces.
func (c *Catalog) EachUserRules(existing []users.ExistingUser, workspaces []string) []Rule {
	return RowRules(directory.Build(existing), workspaces, c.policy)
}

// AllUsersRules returns the dataset rules for an existing user snapshot
// and the import batch.
func (c *Catalog) AllUsersRules(existing []users.ExistingUser, batch users.Batch) []Rule {
	return DatasetRules(directory.Build(existing), batch)
}
