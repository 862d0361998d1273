package verifier

import (
	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/rules"
)

// PolicyFromConfig converts file configuration into a rule policy
// configuration. Unset optional booleans take their defaults.
func PolicyFromConfig(cfg *config.Config) rules.PolicyConfig {
	p := cfg.Password
	return rules.PolicyConfig{
		LoginPattern:      cfg.Policy.LoginPattern,
		EmailPattern:      cfg.Policy.EmailPattern,
		PhonePattern:      cfg.Policy.PhonePattern,
		PersonNamePattern: cfg.Policy.PersonNamePattern,
		FullNameMaxLength: cfg.Policy.FullNameMaxLength,
		PhoneMaxLength:    cfg.Policy.PhoneMaxLength,
		Password: &rules.PasswordPolicy{
			RequiredLength:         p.RequiredLength,
			RequireNonAlphanumeric: config.Bool(p.RequireNonAlphanumeric, config.DefaultPasswordRequireClass),
			RequireDigit:           config.Bool(p.RequireDigit, config.DefaultPasswordRequireClass),
			RequireLowercase:       config.Bool(p.RequireLowercase, config.DefaultPasswordRequireClass),
			RequireUppercase:       config.Bool(p.RequireUppercase, config.DefaultPasswordRequireClass),
			RequiredUniqueChars:    p.RequiredUniqueChars,
		},
	}
}

// NewPolicy compiles the policy described by cfg.
func NewPolicy(cfg *config.Config) (*rules.Policy, error) {
	return rules.NewPolicy(PolicyFromConfig(cfg))
}
