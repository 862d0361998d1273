package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/preload/pkg/users"
)

// SQLiteSchema describes the tables a directory export must contain.
// user_workspaces.position orders a user's assignments.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	user_name TEXT NOT NULL,
	archived INTEGER NOT NULL DEFAULT 0,
	supervisor INTEGER NOT NULL DEFAULT 0,
	interviewer INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS user_workspaces (
	user_id TEXT NOT NULL REFERENCES users(user_id),
	workspace TEXT NOT NULL,
	supervisor_id TEXT,
	position INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS workspaces (
	name TEXT PRIMARY KEY
);
`

// ReadSQLiteDirectory reads a directory export database. The file is
// opened read-only.
func ReadSQLiteDirectory(ctx context.Context, path string) (*Directory, error) {
	dsn := "file:" + path + "?mode=ro&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory export: %w", err)
	}
	defer db.Close()

	dir := &Directory{}

	userIndex := make(map[string]int)
	rows, err := db.QueryContext(ctx, `
		SELECT user_id, user_name, archived, supervisor, interviewer
		FROM users ORDER BY rowid`)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("query users: %w", err)}
	}
	for rows.Next() {
		var u users.ExistingUser
		if err := rows.Scan(&u.UserID, &u.UserName, &u.IsArchived, &u.IsSupervisor, &u.IsInterviewer); err != nil {
			rows.Close()
			return nil, &ParseError{Path: path, Cause: fmt.Errorf("scan user: %w", err)}
		}
		userIndex[u.UserID] = len(dir.Users)
		dir.Users = append(dir.Users, u)
	}
	if err := closeRows(rows); err != nil {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("read users: %w", err)}
	}

	rows, err = db.QueryContext(ctx, `
		SELECT user_id, workspace, COALESCE(supervisor_id, '')
		FROM user_workspaces ORDER BY user_id, position, rowid`)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("query user_workspaces: %w", err)}
	}
	for rows.Next() {
		var (
			userID string
			a      users.WorkspaceAssignment
		)
		if err := rows.Scan(&userID, &a.Workspace, &a.SupervisorID); err != nil {
			rows.Close()
			return nil, &ParseError{Path: path, Cause: fmt.Errorf("scan user_workspaces: %w", err)}
		}
		i, ok := userIndex[userID]
		if !ok {
			rows.Close()
			return nil, &ParseError{Path: path, Cause: fmt.Errorf("workspace assignment for unknown user_id %q", userID)}
		}
		dir.Users[i].Workspaces = append(dir.Users[i].Workspaces, a)
	}
	if err := closeRows(rows); err != nil {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("read user_workspaces: %w", err)}
	}

	rows, err = db.QueryContext(ctx, `SELECT name FROM workspaces ORDER BY name`)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("query workspaces: %w", err)}
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, &ParseError{Path: path, Cause: fmt.Errorf("scan workspace: %w", err)}
		}
		dir.Workspaces = append(dir.Workspaces, name)
	}
	if err := closeRows(rows); err != nil {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("read workspaces: %w", err)}
	}

	return dir, nil
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}
