package rules

import (
	"unicode"
	"unicode/utf8"

	"mercator-hq/preload/pkg/users"
	"mercator-hq/preload/pkg/users/directory"
)

// rowEnv is what row rules are bound to.
type rowEnv struct {
	index      *directory.Index
	workspaces map[string]struct{}
	policy     *Policy
}

var rowTable = []definition[*rowEnv]{
	{CodeLoginTaken, FieldLogin, "login belongs to an active user", (*rowEnv).loginTaken},
	{CodeArchivedInterviewerMismatch, FieldLogin, "login reuses an archived interviewer with a different supervisor", (*rowEnv).archivedInterviewerMismatch},
	{CodeArchivedRoleSwitch, FieldLogin, "login reuses an archived user of the other role", (*rowEnv).archivedRoleSwitch},
	{CodeLoginFormat, FieldLogin, "login does not match the login format", (*rowEnv).loginFormat},
	{CodeEmailFormat, FieldEmail, "email does not match the email format", (*rowEnv).emailFormat},
	{CodePhoneFormat, FieldPhoneNumber, "phone number does not match the phone format", (*rowEnv).phoneFormat},
	{CodeRoleUnset, FieldRole, "role is missing or unknown", (*rowEnv).roleUnset},
	{CodeSupervisorHasSupervisor, FieldSupervisor, "supervisor declares a supervisor", (*rowEnv).supervisorHasSupervisor},
	{CodeFullNameTooLong, FieldFullName, "full name is too long", (*rowEnv).fullNameTooLong},
	{CodePhoneTooLong, FieldPhoneNumber, "phone number is too long", (*rowEnv).phoneTooLong},
	{CodeFullNameFormat, FieldFullName, "full name contains disallowed characters", (*rowEnv).fullNameFormat},
	{CodePasswordTooShort, FieldPassword, "password is too short", (*rowEnv).passwordTooShort},
	{CodePasswordNoSpecial, FieldPassword, "password has no non-alphanumeric character", (*rowEnv).passwordNoSpecial},
	{CodePasswordNoDigit, FieldPassword, "password has no digit", (*rowEnv).passwordNoDigit},
	{CodePasswordNoLowercase, FieldPassword, "password has no lowercase letter", (*rowEnv).passwordNoLowercase},
	{CodePasswordNoUppercase, FieldPassword, "password has no uppercase letter", (*rowEnv).passwordNoUppercase},
	{CodePasswordFewUnique, FieldPassword, "password has too few distinct characters", (*rowEnv).passwordFewUnique},
	{CodePasswordRequired, FieldPassword, "password is required", (*rowEnv).passwordRequired},
	{CodeWorkspaceUnknown, FieldWorkspace, "workspace does not exist", (*rowEnv).workspaceUnknown},
}

// RowRules binds the row rule table to the directory index, the known
// workspaces and the policy.
func RowRules(index *directory.Index, workspaces []string, policy *Policy) []Rule {
	env := &rowEnv{
		index:      index,
		workspaces: make(map[string]struct{}, len(workspaces)),
		policy:     policy,
	}
	for _, w := range workspaces {
		env.workspaces[w] = struct{}{}
	}
	return bind(ScopeRow, env, rowTable)
}

func (e *rowEnv) loginTaken(row users.ImportRow) bool {
	return e.index.IsActive(row.Login)
}

// archivedInterviewerMismatch flags an interviewer reusing an archived
// interviewer login when, in any requested workspace, the archived
// account had no supervisor or had a different one. Assignments whose
// supervisor cannot be resolved are ignored.
func (e *rowEnv) archivedInterviewerMismatch(row users.ImportRow) bool {
	if row.Role != users.RoleInterviewer {
		return false
	}
	archived, ok := e.index.ArchivedInterviewer(row.Login)
	if !ok {
		return false
	}

	for _, workspace := range row.Workspaces {
		assignment, ok := archived.Assignment(workspace)
		if !ok || assignment.SupervisorID == "" {
			return true
		}
		supervisor, ok := e.index.UserByID(assignment.SupervisorID)
		if !ok {
			continue
		}
		if users.Key(supervisor.UserName) != row.SupervisorKey() {
			return true
		}
	}
	return false
}

func (e *rowEnv) archivedRoleSwitch(row users.ImportRow) bool {
	switch row.Role {
	case users.RoleInterviewer:
		return e.index.IsArchivedSupervisor(row.Login)
	case users.RoleSupervisor:
		_, ok := e.index.ArchivedInterviewer(row.Login)
		return ok
	default:
		return false
	}
}

func (e *rowEnv) loginFormat(row users.ImportRow) bool {
	return !e.policy.login.MatchString(row.Login)
}

func (e *rowEnv) emailFormat(row users.ImportRow) bool {
	return row.Email != "" && !e.policy.email.MatchString(row.Email)
}

func (e *rowEnv) phoneFormat(row users.ImportRow) bool {
	return row.PhoneNumber != "" && !e.policy.phone.MatchString(row.PhoneNumber)
}

func (e *rowEnv) roleUnset(row users.ImportRow) bool {
	return row.Role == users.RoleUnset
}

func (e *rowEnv) supervisorHasSupervisor(row users.ImportRow) bool {
	return row.Role == users.RoleSupervisor && row.Supervisor != ""
}

func (e *rowEnv) fullNameTooLong(row users.ImportRow) bool {
	return utf8.RuneCountInString(row.FullName) > e.policy.fullNameMaxLength
}

func (e *rowEnv) phoneTooLong(row users.ImportRow) bool {
	return utf8.RuneCountInString(row.PhoneNumber) > e.policy.phoneMaxLength
}

func (e *rowEnv) fullNameFormat(row users.ImportRow) bool {
	return row.FullName != "" && !e.policy.personName.MatchString(row.FullName)
}

func (e *rowEnv) passwordTooShort(row users.ImportRow) bool {
	return row.Password != "" && utf8.RuneCountInString(row.Password) < e.policy.password.RequiredLength
}

func (e *rowEnv) passwordNoSpecial(row users.ImportRow) bool {
	if !e.policy.password.RequireNonAlphanumeric || row.Password == "" {
		return false
	}
	return !containsRune(row.Password, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func (e *rowEnv) passwordNoDigit(row users.ImportRow) bool {
	return e.policy.password.RequireDigit && row.Password != "" && !containsRune(row.Password, unicode.IsDigit)
}

func (e *rowEnv) passwordNoLowercase(row users.ImportRow) bool {
	return e.policy.password.RequireLowercase && row.Password != "" && !containsRune(row.Password, unicode.IsLower)
}

func (e *rowEnv) passwordNoUppercase(row users.ImportRow) bool {
	return e.policy.password.RequireUppercase && row.Password != "" && !containsRune(row.Password, unicode.IsUpper)
}

func (e *rowEnv) passwordFewUnique(row users.ImportRow) bool {
	required := e.policy.password.RequiredUniqueChars
	if required < 1 || row.Password == "" {
		return false
	}
	distinct := make(map[rune]struct{})
	for _, r := range row.Password {
		distinct[r] = struct{}{}
	}
	return len(distinct) < required
}

func (e *rowEnv) passwordRequired(row users.ImportRow) bool {
	return row.Password == ""
}

func (e *rowEnv) workspaceUnknown(row users.ImportRow) bool {
	if row.WorkspaceField == "" {
		return false
	}
	for _, w := range row.Workspaces {
		if _, ok := e.workspaces[w]; !ok {
			return true
		}
	}
	return false
}

func containsRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}
