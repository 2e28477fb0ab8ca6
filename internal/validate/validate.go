package validate

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

	// Canonical phone rule: Kenyan mobile numbers. Accepts +254, 254 or a
	// leading 0, then a 7 or 1 prefix and eight more digits.
	phoneRe = regexp.MustCompile(`^(\+254|254|0)(7|1)\d{8}$`)

	// LoosePhone keeps the older 10-15 digit international check. It is
	// intentionally broader than Phone; see DESIGN.md for why both exist.
	loosePhoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)

	nameRe = regexp.MustCompile(`^[A-Za-z ]{2,50}$`)
)

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Email reports whether s looks like local@domain.tld. Deliberately
// conservative; the API performs the authoritative check.
func Email(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Phone validates against the canonical Kenyan mobile format.
func Phone(s string) bool {
	return phoneRe.MatchString(normalizePhone(s))
}

// LoosePhone validates a generic international number, 10-15 digits with
// an optional leading plus.
func LoosePhone(s string) bool {
	return loosePhoneRe.MatchString(normalizePhone(s))
}

func normalizePhone(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// Name accepts 2-50 characters, letters and spaces only.
func Name(s string) bool {
	return nameRe.MatchString(strings.TrimSpace(s))
}

// PasswordStrength is the outcome of the five independent password rules.
type PasswordStrength struct {
	MinLength  bool
	HasUpper   bool
	HasLower   bool
	HasDigit   bool
	HasSpecial bool
}

// Password checks the five strength rules independently.
func Password(s string) PasswordStrength {
	st := PasswordStrength{MinLength: len(s) >= 8}
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			st.HasUpper = true
		case unicode.IsLower(r):
			st.HasLower = true
		case unicode.IsDigit(r):
			st.HasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			st.HasSpecial = true
		}
	}
	return st
}

// IsValid is true only when all five rules pass.
func (p PasswordStrength) IsValid() bool {
	return p.MinLength && p.HasUpper && p.HasLower && p.HasDigit && p.HasSpecial
}

// Score counts satisfied rules, 0-5.
func (p PasswordStrength) Score() int {
	n := 0
	for _, ok := range []bool{p.MinLength, p.HasUpper, p.HasLower, p.HasDigit, p.HasSpecial} {
		if ok {
			n++
		}
	}
	return n
}
