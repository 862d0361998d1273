package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mercator-hq/preload/pkg/users"
)

// Column names recognized in a batch header, in normalized form.
const (
	ColumnLogin       = "login"
	ColumnEmail       = "email"
	ColumnPhoneNumber = "phonenumber"
	ColumnFullName    = "fullname"
	ColumnPassword    = "password"
	ColumnRole        = "role"
	ColumnSupervisor  = "supervisor"
	ColumnWorkspace   = "workspace"
)

var columnAliases = map[string]string{
	"phone":      ColumnPhoneNumber,
	"workspaces": ColumnWorkspace,
	"username":   ColumnLogin,
}

const utf8BOM = "\ufeff"

// BatchOptions controls batch parsing.
type BatchOptions struct {
	// Comma is the field delimiter. Default: ','
	Comma rune
}

// BatchOptionsFor picks options from a file name.
func BatchOptionsFor(path string) BatchOptions {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return BatchOptions{Comma: '\t'}
	default:
		return BatchOptions{Comma: ','}
	}
}

// LoadBatch reads the import batch at path.
func LoadBatch(path string) (users.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch: %w", err)
	}
	defer f.Close()

	batch, err := ReadBatch(f, BatchOptionsFor(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return batch, nil
}

// ReadBatch parses a delimited batch with a header row. Every data record
// becomes one row, in file order, with Line set to the record's first line.
func ReadBatch(r io.Reader, opts BatchOptions) (users.Batch, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return users.Batch{}, nil
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Cause: err}
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, &ParseError{Line: 1, Cause: err}
	}

	raws := make([]users.RawRow, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.StartLine, Cause: csvErr.Err}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		raws = append(raws, columns.row(record, line))
	}
	return users.NewBatch(raws), nil
}

// columnMap holds the record index of each known column, or -1.
type columnMap map[string]int

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{
		ColumnLogin:       -1,
		ColumnEmail:       -1,
		ColumnPhoneNumber: -1,
		ColumnFullName:    -1,
		ColumnPassword:    -1,
		ColumnRole:        -1,
		ColumnSupervisor:  -1,
		ColumnWorkspace:   -1,
	}

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		key := normalizeColumn(name)
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		pos, known := cols[key]
		if !known {
			continue
		}
		if pos >= 0 {
			return nil, fmt.Errorf("duplicate column %q", strings.TrimSpace(name))
		}
		cols[key] = i
	}

	if cols[ColumnLogin] < 0 {
		return nil, errors.New("header has no login column")
	}
	return cols, nil
}

func normalizeColumn(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c columnMap) row(record []string, line int) users.RawRow {
	get := func(col string) string {
		i := c[col]
		if i < 0 || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return users.RawRow{
		Line:        line,
		Login:       get(ColumnLogin),
		Email:       get(ColumnEmail),
		PhoneNumber: get(ColumnPhoneNumber),
		FullName:    get(ColumnFullName),
		Password:    get(ColumnPassword),
		Role:        get(ColumnRole),
		Supervisor:  get(ColumnSupervisor),
		Workspaces:  get(ColumnWorkspace),
	}
}
