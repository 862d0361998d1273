// Package users defines the account records that flow through an import
// verification run.
//
// Two kinds of record exist. ExistingUser is the read-only snapshot of an
// account already present in the directory. ImportRow is one candidate
// account taken from an import batch. Rows are normalized once, at
// construction time, so every rule sees the same trimmed values and the
// same parsed workspace list.
//
// Usage:
//
//	row := users.NewImportRow(users.RawRow{
//	    Login:      "jdoe",
//	    Role:       "interviewer",
//	    Supervisor: "msmith",
//	    Workspaces: "W1, W2",
//	})
//	fmt.Println(row.Role, row.Workspaces) // interviewer [W1 W2]
package users
