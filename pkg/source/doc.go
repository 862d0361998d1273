// Package source reads verification inputs from files.
//
// An import batch is a delimited text file with a header row. Columns are
// matched by name, case-insensitively, ignoring spaces, underscores and
// hyphens, so "Phone Number", "phone_number" and "phonenumber" are the
// same column. Unknown columns are ignored. Files ending in .tsv or .tab
// are tab-separated; everything else is comma-separated.
//
//	login,email,phone_number,full_name,password,role,supervisor,workspace
//	jdoe,jdoe@example.org,,John Doe,Secret#2026,interviewer,msmith,"north,south"
//
// A directory snapshot lists existing accounts and the known workspaces.
// It can be YAML, JSON or a SQLite export:
//
//	workspaces: [north, south]
//	users:
//	  - user_id: u-1
//	    user_name: msmith
//	    supervisor: true
//	    workspaces:
//	      - workspace: north
package source
