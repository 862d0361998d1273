package users

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key returns the case-insensitive identity key for a login or user name.
// Keys are lower-cased names, so names that differ only in letter case
// share a key while distinct spellings such as "straße" and "strasse" do
// not.
func Key(name string) string {
	// A Caser holds state, so each call gets its own.
	return cases.Lower(language.Und).String(name)
}
