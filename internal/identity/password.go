package identity

import (
	"strconv"
	"unicode"
)

// PasswordPolicy — требования к паролю. DefaultPasswordPolicy совпадает с тем,
// что принимала старая версия системы.
type PasswordPolicy struct {
	MinLength           int
	RequireDigit        bool
	RequireLower        bool
	RequireUpper        bool
	RequireNonAlphanum  bool
	RequiredUniqueChars int
}

var DefaultPasswordPolicy = PasswordPolicy{
	MinLength:           6,
	RequireDigit:        true,
	RequireLower:        true,
	RequireUpper:        true,
	RequireNonAlphanum:  true,
	RequiredUniqueChars: 1,
}

// Check возвращает все нарушения сразу, в фиксированном порядке.
func (p PasswordPolicy) Check(pw string) []string {
	var problems []string
	if len([]rune(pw)) < p.MinLength {
		problems = append(problems, "Passwords must be at least "+strconv.Itoa(p.MinLength)+" characters.")
	}
	var digit, lower, upper, other bool
	unique := make(map[rune]struct{})
	for _, r := range pw {
		unique[r] = struct{}{}
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			other = true
		}
	}
	if p.RequireNonAlphanum && !other {
		problems = append(problems, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !digit {
		problems = append(problems, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLower && !lower {
		problems = append(problems, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUpper && !upper {
		problems = append(problems, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if len(unique) < p.RequiredUniqueChars {
		problems = append(problems, "Passwords must use at least "+strconv.Itoa(p.RequiredUniqueChars)+" different characters.")
	}
	return problems
}
