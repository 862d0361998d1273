package rules

import (
	"mercator-hq/preload/pkg/users"
)

// Rule codes.
const (
	CodeLoginTaken                  = "PLU0001"
	CodeLoginDuplicated             = "PLU0002"
	CodeArchivedInterviewerMismatch = "PLU0003"
	CodeArchivedRoleSwitch          = "PLU0004"
	CodeLoginFormat                 = "PLU0005"
	CodeEmailFormat                 = "PLU0007"
	CodePhoneFormat                 = "PLU0008"
	CodeRoleUnset                   = "PLU0009"
	CodeSupervisorInconsistent      = "PLU0010"
	CodeSupervisorHasSupervisor     = "PLU0011"
	CodeFullNameTooLong             = "PLU0012"
	CodePhoneTooLong                = "PLU0013"
	CodeFullNameFormat              = "PLU0014"
	CodePasswordTooShort            = "PLU0015"
	CodePasswordNoSpecial           = "PLU0016"
	CodePasswordNoDigit             = "PLU0017"
	CodePasswordNoLowercase         = "PLU0018"
	CodePasswordNoUppercase         = "PLU0019"
	CodePasswordFewUnique           = "PLU0020"
	CodePasswordRequired            = "PLU0021"
	CodeWorkspaceUnknown            = "PLU0022"
)

// Field names the row attribute a rule reports as the offending value.
type Field string

const (
	FieldLogin       Field = "login"
	FieldEmail       Field = "email"
	FieldPhoneNumber Field = "phone_number"
	FieldFullName    Field = "full_name"
	FieldPassword    Field = "password"
	FieldRole        Field = "role"
	FieldSupervisor  Field = "supervisor"
	FieldWorkspace   Field = "workspace"
)

// Value selects the field's value from a row.
func (f Field) Value(row users.ImportRow) string {
	switch f {
	case FieldLogin:
		return row.Login
	case FieldEmail:
		return row.Email
	case FieldPhoneNumber:
		return row.PhoneNumber
	case FieldFullName:
		return row.FullName
	case FieldPassword:
		return row.Password
	case FieldRole:
		return row.RawRole
	case FieldSupervisor:
		return row.Supervisor
	case FieldWorkspace:
		return row.WorkspaceField
	default:
		return ""
	}
}

// Scope tells which inputs a rule needs.
type Scope string

const (
	ScopeRow     Scope = "row"
	ScopeDataset Scope = "dataset"
)

// Rule is a named predicate bound to its inputs.
type Rule struct {
	Code        string
	Field       Field
	Scope       Scope
	Description string

	check func(users.ImportRow) bool
}

// Violates reports whether the row breaks the rule.
func (r Rule) Violates(row users.ImportRow) bool {
	return r.check(row)
}

// Value returns the offending field value for the row.
func (r Rule) Value(row users.ImportRow) string {
	return r.Field.Value(row)
}

// definition is one entry of a rule table. check is a method expression
// on the environment type E, so tables stay static and enumerable.
type definition[E any] struct {
	code        string
	field       Field
	description string
	check       func(E, users.ImportRow) bool
}

func bind[E any](scope Scope, env E, table []definition[E]) []Rule {
	rules := make([]Rule, 0, len(table))
	for _, d := range table {
		check := d.check
		rules = append(rules, Rule{
			Code:        d.code,
			Field:       d.field,
			Scope:       scope,
			Description: d.description,
			check:       func(row users.ImportRow) bool { return check(env, row) },
		})
	}
	return rules
}

// containsAll reports whether every name in want appears in have.
func containsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, name := range have {
		set[name] = struct{}{}
	}
	for _, name := range want {
		if _, ok := set[name]; !ok {
			return false
		}
	}
	return true
}
