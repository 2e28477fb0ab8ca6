package validate

import "fmt"

// Rules is the declarative check set for one form field. Checks run in a
// fixed order: required, email, phone, min length, max length, match,
// custom. The first failing check wins and the rest are skipped.
type Rules struct {
	Required  bool
	Email     bool
	Phone     bool
	MinLength int
	MaxLength int

	// Match names another field whose value must equal this one.
	Match string

	// Custom runs last; it returns an error message or "" when the value
	// is acceptable.
	Custom func(value string) string

	// Label overrides the field name in generated messages.
	Label string
}

// Form runs the rule set against the submitted values and returns the
// first violation per field. Fields without violations are absent from
// the result.
func Form(values map[string]string, rules map[string]Rules) map[string]string {
	errs := make(map[string]string)
	for field, r := range rules {
		if msg := checkField(field, values, r); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

func checkField(field string, values map[string]string, r Rules) string {
	v := values[field]
	label := r.Label
	if label == "" {
		label = field
	}

	if r.Required && v == "" {
		return fmt.Sprintf("%s is required", label)
	}
	if v == "" {
		// optional and empty: nothing further to check
		return ""
	}
	if r.Email && !Email(v) {
		return "Please enter a valid email address"
	}
	if r.Phone && !Phone(v) {
		return "Please enter a valid phone number"
	}
	if r.MinLength > 0 && len(v) < r.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", label, r.MinLength)
	}
	if r.MaxLength > 0 && len(v) > r.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters", label, r.MaxLength)
	}
	if r.Match != "" && v != values[r.Match] {
		if r.Match == "password" {
			return "Passwords do not match"
		}
		return fmt.Sprintf("%s does not match %s", label, r.Match)
	}
	if r.Custom != nil {
		if msg := r.Custom(v); msg != "" {
			return msg
		}
	}
	return ""
}
