// Package report holds the outcome of one verification run.
//
// A Report lists, for every row with at least one violation, the rule
// codes it broke and the offending field values. Its JSON form is the
// contract consumed by renderers and stored history:
//
//	{
//	  "id": "6f1c...",
//	  "created_at": "2026-10-14T09:00:00Z",
//	  "source": "batch.csv",
//	  "rows": 120,
//	  "rows_with_violations": 2,
//	  "violation_count": 3,
//	  "counts_by_code": {"PLU0005": 1, "PLU0021": 2},
//	  "results": [
//	    {"row": 4, "line": 6, "login": "j d",
//	     "violations": [{"code": "PLU0005", "field": "login", "value": "j d"}]}
//	  ]
//	}
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"mercator-hq/preload/pkg/rules"
)

// PasswordMask replaces password values in masked reports.
const PasswordMask = "********"

// Violation is one broken rule on one row.
type Violation struct {
	Code  string      `json:"code"`
	Field rules.Field `json:"field"`
	Value string      `json:"value"`
}

// RowResult collects the violations of one row.
type RowResult struct {
	// Row is the 0-based index of the row in the batch.
	Row int `json:"row"`

	// Line is the 1-based source line, or 0 when unknown.
	Line int `json:"line,omitempty"`

	Login      string      `json:"login"`
	Violations []Violation `json:"violations"`
}

// HasCode reports whether the row broke the given rule.
func (r RowResult) HasCode(code string) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Report is the outcome of a verification run.
type Report struct {
	ID                 string         `json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	Source             string         `json:"source,omitempty"`
	Rows               int            `json:"rows"`
	RowsWithViolations int            `json:"rows_with_violations"`
	ViolationCount     int            `json:"violation_count"`
	CountsByCode       map[string]int `json:"counts_by_code"`
	Results            []RowResult    `json:"results"`
}

// New builds a report from per-row results. Rows without violations are
// dropped and the rest are ordered by row index.
func New(rows int, results []RowResult) *Report {
	r := &Report{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		Rows:         rows,
		CountsByCode: make(map[string]int),
		Results:      make([]RowResult, 0),
	}

	for _, res := range results {
		if len(res.Violations) == 0 {
			continue
		}
		r.Results = append(r.Results, res)
		r.RowsWithViolations++
		r.ViolationCount += len(res.Violations)
		for _, v := range res.Violations {
			r.CountsByCode[v.Code]++
		}
	}
	sort.Slice(r.Results, func(i, j int) bool { return r.Results[i].Row < r.Results[j].Row })

	return r
}

// Clean reports whether no row broke any rule.
func (r *Report) Clean() bool {
	return r.ViolationCount == 0
}

// ForRow returns the result for the row at index i.
func (r *Report) ForRow(i int) (RowResult, bool) {
	n := sort.Search(len(r.Results), func(k int) bool { return r.Results[k].Row >= i })
	if n < len(r.Results) && r.Results[n].Row == i {
		return r.Results[n], true
	}
	return RowResult{}, false
}

// Codes returns the distinct codes present, sorted.
func (r *Report) Codes() []string {
	codes := make([]string, 0, len(r.CountsByCode))
	for code := range r.CountsByCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// MaskPasswords returns a copy of the report with password values masked.
// Empty passwords stay empty so PLU0021 still reads correctly.
func (r *Report) MaskPasswords() *Report {
	out := *r
	out.CountsByCode = make(map[string]int, len(r.CountsByCode))
	for k, v := range r.CountsByCode {
		out.CountsByCode[k] = v
	}
	out.Results = make([]RowResult, len(r.Results))
	for i, res := range r.Results {
		vs := make([]Violation, len(res.Violations))
		for k, v := range res.Violations {
			if v.Field == rules.FieldPassword && v.Value != "" {
				v.Value = PasswordMask
			}
			vs[k] = v
		}
		res.Violations = vs
		out.Results[i] = res
	}
	return &out
}
