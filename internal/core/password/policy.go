package password

import (
	"fmt"
	"strings"
	"unicode"

	"go-admin-boilerplate/internal/core/config"
	"go-admin-boilerplate/internal/domain"
)

// Policy 口令规则校验；文案直接回显给本人
type Policy struct {
	MinChars        int
	MaxChars        int
	RequireLower    bool
	RequireUpper    bool
	RequireNumerals bool
	RequireSpecial  bool
	AllowedSpecials string
}

func FromConfig(c config.Password) Policy {
	return Policy{
		MinChars:        c.MinChars,
		MaxChars:        c.MaxChars,
		RequireLower:    c.RequireLower,
		RequireUpper:    c.RequireUpper,
		RequireNumerals: c.RequireNumerals,
		RequireSpecial:  c.RequireSpecial,
		AllowedSpecials: c.AllowedSpecials,
	}
}

// Validate 返回 *domain.PolicyViolation，Rules 列出全部未满足项
func (p Policy) Validate(plaintext string) error {
	var broken []string

	if len(plaintext) < p.MinChars {
		broken = append(broken, fmt.Sprintf("Password is too short. Passwords should contain at least %d characters.", p.MinChars))
	}
	if p.MaxChars > 0 && len(plaintext) > p.MaxChars {
		broken = append(broken, fmt.Sprintf("Password is too long. Passwords should contain at most %d characters.", p.MaxChars))
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range plaintext {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if strings.ContainsRune(p.AllowedSpecials, r) {
			hasSpecial = true
		}
	}
	if p.RequireNumerals && !hasDigit {
		broken = append(broken, "Password must contain at least one number.")
	}
	if p.RequireUpper && !hasUpper {
		broken = append(broken, "Password must contain at least one upper case letter.")
	}
	if p.RequireLower && !hasLower {
		broken = append(broken, "Password must contain at least one lower case letter.")
	}
	if p.RequireSpecial && !hasSpecial {
		broken = append(broken, fmt.Sprintf("Password must contain at least one special symbol of the following: %s", p.AllowedSpecials))
	}

	if len(broken) > 0 {
		return &domain.PolicyViolation{Rules: broken}
	}
	return nil
}
