package report

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"mercator-hq/preload/pkg/rules"
)

// Format names a report rendering.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatJUnit Format = "junit"
)

// Renderer writes a report in some format.
type Renderer interface {
	Render(w io.Writer, r *Report) error
}

// NewRenderer returns the renderer for a format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &TextRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{Indent: true}, nil
	case FormatCSV:
		return &CSVRenderer{}, nil
	case FormatJUnit:
		return &JUnitRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q: must be 'text', 'json', 'csv', or 'junit'", format)
	}
}

// TextRenderer writes a human-readable summary grouped by row.
type TextRenderer struct{}

// Render implements Renderer.
func (t *TextRenderer) Render(w io.Writer, r *Report) error {
	if r.Clean() {
		_, err := fmt.Fprintf(w, "✓ %d row(s) verified, no violations\n", r.Rows)
		return err
	}

	fmt.Fprintf(w, "✗ %d violation(s) in %d of %d row(s)\n\n", r.ViolationCount, r.RowsWithViolations, r.Rows)

	for _, res := range r.Results {
		fmt.Fprintf(w, "%s\n", rowLabel(res))
		for _, v := range res.Violations {
			desc := ""
			if d, ok := rules.Lookup(v.Code); ok {
				desc = d.Description
			}
			fmt.Fprintf(w, "  %s  %-12s %-40s %q\n", v.Code, v.Field, desc, v.Value)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary by code:")
	for _, code := range r.Codes() {
		fmt.Fprintf(w, "  %s  %d\n", code, r.CountsByCode[code])
	}

	return nil
}

func rowLabel(res RowResult) string {
	label := fmt.Sprintf("row %d", res.Row)
	if res.Line > 0 {
		label += fmt.Sprintf(" (line %d)", res.Line)
	}
	if res.Login != "" {
		label += " " + res.Login
	}
	return label
}

// JSONRenderer writes the report as JSON.
type JSONRenderer struct {
	Indent bool
}

// Render implements Renderer.
func (j *JSONRenderer) Render(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	if j.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(r)
}

// CSVRenderer writes one record per violation.
type CSVRenderer struct{}

// CSVHeader is the first record written by CSVRenderer.
var CSVHeader = []string{"row", "line", "login", "code", "field", "value"}

// Render implements Renderer.
func (c *CSVRenderer) Render(w io.Writer, r *Report) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(CSVHeader); err != nil {
		return err
	}
	for _, res := range r.Results {
		for _, v := range res.Violations {
			record := []string{
				strconv.Itoa(res.Row),
				strconv.Itoa(res.Line),
				res.Login,
				v.Code,
				string(v.Field),
				v.Value,
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// JUnitRenderer writes a JUnit XML test suite with one test case per
// violating row, so CI systems can display import defects.
type JUnitRenderer struct{}

type junitSuite struct {
	XMLName  xml.Name    `xml:"testsuite"`
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string         `xml:"name,attr"`
	ClassName string         `xml:"classname,attr"`
	Failures  []junitFailure `xml:"failure"`
}

type junitFailure struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
}

// Render implements Renderer.
func (j *JUnitRenderer) Render(w io.Writer, r *Report) error {
	suite := junitSuite{
		Name:     "preload",
		Tests:    r.Rows,
		Failures: r.RowsWithViolations,
	}
	if r.Source != "" {
		suite.Name = r.Source
	}

	for _, res := range r.Results {
		tc := junitCase{Name: rowLabel(res), ClassName: "preload.row"}
		for _, v := range res.Violations {
			tc.Failures = append(tc.Failures, junitFailure{
				Type:    v.Code,
				Message: fmt.Sprintf("%s: %q", v.Field, v.Value),
			})
		}
		suite.Cases = append(suite.Cases, tc)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suite); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
