package rules

import (
	"regexp"

	rerrors "mercator-hq/preload/pkg/rules/errors"
)

// PasswordPolicy sets the password strength requirements.
type PasswordPolicy struct {
	RequiredLength         int
	RequireNonAlphanumeric bool
	RequireDigit           bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequiredUniqueChars    int
}

// PolicyConfig is the uncompiled rule policy.
type PolicyConfig struct {
	// LoginPattern is matched case-sensitively.
	LoginPattern string

	// EmailPattern, PhonePattern and PersonNamePattern ignore case.
	EmailPattern      string
	PhonePattern      string
	PersonNamePattern string

	FullNameMaxLength int
	PhoneMaxLength    int

	// Password is required.
	Password *PasswordPolicy
}

// Policy is a compiled PolicyConfig. It is immutable.
type Policy struct {
	login      *regexp.Regexp
	email      *regexp.Regexp
	phone      *regexp.Regexp
	personName *regexp.Regexp

	fullNameMaxLength int
	phoneMaxLength    int

	password PasswordPolicy
}

// NewPolicy compiles cfg. All defects are collected and returned together
// as a *rerrors.ErrorList.
func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	errs := rerrors.NewErrorList()
	p := &Policy{
		fullNameMaxLength: cfg.FullNameMaxLength,
		phoneMaxLength:    cfg.PhoneMaxLength,
	}

	p.login = compile(errs, "policy.login_pattern", cfg.LoginPattern, false)
	p.email = compile(errs, "policy.email_pattern", cfg.EmailPattern, true)
	p.phone = compile(errs, "policy.phone_pattern", cfg.PhonePattern, true)
	p.personName = compile(errs, "policy.person_name_pattern", cfg.PersonNamePattern, true)

	if cfg.FullNameMaxLength < 0 {
		errs.AddError(rerrors.ErrorTypeLimit, "policy.full_name_max_length", "maximum length must not be negative", nil)
	}
	if cfg.PhoneMaxLength < 0 {
		errs.AddError(rerrors.ErrorTypeLimit, "policy.phone_max_length", "maximum length must not be negative", nil)
	}

	if cfg.Password == nil {
		errs.AddErrorWithSuggestion(rerrors.ErrorTypePassword, "password", "password policy is required",
			"configure at least password.required_length")
	} else {
		p.password = *cfg.Password
		if p.password.RequiredLength < 0 {
			errs.AddError(rerrors.ErrorTypePassword, "password.required_length", "must not be negative", nil)
		}
		if p.password.RequiredUniqueChars < 0 {
			errs.AddError(rerrors.ErrorTypePassword, "password.required_unique_chars", "must not be negative", nil)
		}
	}

	if err := errs.ToError(); err != nil {
		return nil, err
	}
	return p, nil
}

func compile(errs *rerrors.ErrorList, field, pattern string, ignoreCase bool) *regexp.Regexp {
	if pattern == "" {
		errs.AddError(rerrors.ErrorTypePattern, field, "pattern is required", nil)
		return nil
	}
	expr := pattern
	if ignoreCase {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		errs.Add(&rerrors.Error{
			Type:       rerrors.ErrorTypePattern,
			Field:      field,
			Message:    "pattern does not compile",
			Cause:      err,
			Suggestion: "patterns use RE2 syntax; lookaround and backreferences are not supported",
		})
		return nil
	}
	return re
}

// Password returns the password policy.
func (p *Policy) Password() PasswordPolicy {
	return p.password
}
