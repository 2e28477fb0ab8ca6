package validate

import "testing"

func TestFormMatchRule(t *testing.T) {
	values := map[string]string{"password": "abc", "confirm_password": "xyz"}
	rules := map[string]Rules{
		"confirm_password": {Required: true, Match: "password"},
	}
	errs := Form(values, rules)
	if errs["confirm_password"] != "Passwords do not match" {
		t.Fatalf("expected mismatch error, got %q", errs["confirm_password"])
	}
	if _, ok := errs["password"]; ok {
		t.Fatal("password has no rules and must be absent from the result")
	}
}

func TestFormCleanFieldsAbsent(t *testing.T) {
	values := map[string]string{"email": "user@example.com", "name": "Jane"}
	rules := map[string]Rules{
		"email": {Required: true, Email: true},
		"name":  {Required: true, MinLength: 2},
	}
	if errs := Form(values, rules); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestFormRequiredWinsOverLaterChecks(t *testing.T) {
	rules := map[string]Rules{
		"email": {Required: true, Email: true, MinLength: 5, Label: "Email"},
	}
	errs := Form(map[string]string{"email": ""}, rules)
	if errs["email"] != "Email is required" {
		t.Fatalf("required must be checked first, got %q", errs["email"])
	}
}

func TestFormFirstFailureWins(t *testing.T) {
	// Value fails both the email shape and min length; the email check
	// runs first per the fixed precedence.
	rules := map[string]Rules{
		"email": {Email: true, MinLength: 50},
	}
	errs := Form(map[string]string{"email": "not-an-email"}, rules)
	if errs["email"] != "Please enter a valid email address" {
		t.Fatalf("email check must win, got %q", errs["email"])
	}
}

func TestFormOptionalEmptySkipsChecks(t *testing.T) {
	rules := map[string]Rules{
		"phone": {Phone: true},
	}
	if errs := Form(map[string]string{"phone": ""}, rules); len(errs) != 0 {
		t.Fatalf("optional empty field must be skipped, got %v", errs)
	}
}

func TestFormCustomRunsLast(t *testing.T) {
	called := false
	rules := map[string]Rules{
		"code": {MinLength: 4, Custom: func(string) string {
			called = true
			return "bad code"
		}},
	}
	errs := Form(map[string]string{"code": "ab"}, rules)
	if called {
		t.Fatal("custom must not run once min length failed")
	}
	if errs["code"] != "code must be at least 4 characters" {
		t.Fatalf("unexpected message %q", errs["code"])
	}

	errs = Form(map[string]string{"code": "abcd"}, rules)
	if errs["code"] != "bad code" {
		t.Fatalf("custom should run on an otherwise clean field, got %q", errs["code"])
	}
}

func TestFormMaxLength(t *testing.T) {
	rules := map[string]Rules{
		"bio": {MaxLength: 3, Label: "Bio"},
	}
	errs := Form(map[string]string{"bio": "abcd"}, rules)
	if errs["bio"] != "Bio must be at most 3 characters" {
		t.Fatalf("unexpected message %q", errs["bio"])
	}
}
