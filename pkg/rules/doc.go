// Package rules defines the validation rules applied to imported user rows.
//
// Rules come from two fixed tables. Row rules judge a single row against
// the directory index, the workspace catalog and the policy. Dataset rules
// also need the whole import batch. Both tables are bound to their inputs
// by RowRules and DatasetRules; the resulting rules are immutable and safe
// for concurrent use.
//
// A rule reports true from Violates when the row breaks it. Every rule is
// meant to be evaluated against every row; no rule depends on the outcome
// of another.
//
// Rule codes are a stable external contract and are never renumbered.
package rules
