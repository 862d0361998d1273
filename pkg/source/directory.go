package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mercator-hq/preload/pkg/users"
)

// Directory is a snapshot of existing accounts and known workspaces.
type Directory struct {
	Users      []users.ExistingUser `yaml:"users" json:"users"`
	Workspaces []string             `yaml:"workspaces" json:"workspaces"`
}

// WorkspaceSet returns the known workspace names as a set. Names compare
// exactly.
func (d *Directory) WorkspaceSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Workspaces))
	for _, w := range d.Workspaces {
		set[w] = struct{}{}
	}
	return set
}

// AddWorkspaces appends names not already known, e.g. from a command line
// list, and keeps Workspaces sorted.
func (d *Directory) AddWorkspaces(names ...string) {
	set := d.WorkspaceSet()
	for _, n := range names {
		if _, ok := set[n]; ok || n == "" {
			continue
		}
		set[n] = struct{}{}
		d.Workspaces = append(d.Workspaces, n)
	}
	sort.Strings(d.Workspaces)
}

// Format identifies a snapshot encoding.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// FormatFor picks a snapshot format from a file name. Unknown extensions
// are read as YAML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatYAML
	}
}

// LoadDirectory reads the snapshot at path in the format its extension
// implies.
func LoadDirectory(ctx context.Context, path string) (*Directory, error) {
	format := FormatFor(path)
	if format == FormatSQLite {
		return ReadSQLiteDirectory(ctx, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory snapshot: %w", err)
	}
	defer f.Close()

	dir, err := DecodeDirectory(f, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &ParseError{Path: path, Cause: err}
	}
	return dir, nil
}

// DecodeDirectory decodes a YAML or JSON snapshot. Unknown fields are
// rejected so typos in a hand-written snapshot surface early.
func DecodeDirectory(r io.Reader, format Format) (*Directory, error) {
	var dir Directory
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&dir); err != nil && !errors.Is(err, io.EOF) {
			return nil, decodeError(err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&dir); err != nil && !errors.Is(err, io.EOF) {
			return nil, decodeError(err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}

	if err := dir.validate(); err != nil {
		return nil, err
	}
	return &dir, nil
}

func decodeError(err error) error {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return &ParseError{Cause: fmt.Errorf("offset %d: %w", syntax.Offset, err)}
	}
	return &ParseError{Cause: err}
}

// validate rejects snapshots whose user ids are missing or repeated, since
// supervisor references resolve through them.
func (d *Directory) validate() error {
	seen := make(map[string]struct{}, len(d.Users))
	for i, u := range d.Users {
		if u.UserID == "" {
			return &ParseError{Cause: fmt.Errorf("user %d (%q) has no user_id", i, u.UserName)}
		}
		if _, dup := seen[u.UserID]; dup {
			return &ParseError{Cause: fmt.Errorf("duplicate user_id %q", u.UserID)}
		}
		seen[u.UserID] = struct{}{}
	}
	return nil
}
