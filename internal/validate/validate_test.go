package validate

import "testing"

func TestEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.domain.co.ke",
		"a+tag@host.io",
	}
	for _, s := range valid {
		if !Email(s) {
			t.Errorf("Email(%q) = false, want true", s)
		}
	}
	invalid := []string{
		"",
		"plainaddress",
		"missing-domain@",
		"@missing-local.com",
		"no-dot@domain",
		"two@@example.com",
	}
	for _, s := range invalid {
		if Email(s) {
			t.Errorf("Email(%q) = true, want false", s)
		}
	}
}

func TestPhoneKenyanFormats(t *testing.T) {
	valid := []string{
		"+254712345678",
		"254712345678",
		"0712345678",
		"0112345678",
		"+254 712 345 678", // spaces stripped before matching
	}
	for _, s := range valid {
		if !Phone(s) {
			t.Errorf("Phone(%q) = false, want true", s)
		}
	}
	// 08 prefix, too short, too long, wrong country code, non-numeric.
	invalid := []string{
		"",
		"0812345678",
		"071234567",
		"07123456789",
		"+255712345678",
		"abcdefghij",
	}
	for _, s := range invalid {
		if Phone(s) {
			t.Errorf("Phone(%q) = true, want false", s)
		}
	}
}

func TestLoosePhone(t *testing.T) {
	if !LoosePhone("+14155552671") {
		t.Error("LoosePhone should accept an 11-digit international number")
	}
	if !LoosePhone("0712345678") {
		t.Error("LoosePhone should accept a 10-digit number")
	}
	if LoosePhone("12345") {
		t.Error("LoosePhone should reject a 5-digit number")
	}
	if LoosePhone("1234567890123456") {
		t.Error("LoosePhone should reject a 16-digit number")
	}
}

func TestName(t *testing.T) {
	if !Name("Jane Wanjiku") {
		t.Error("Name should accept letters and spaces")
	}
	if Name("J") {
		t.Error("Name should reject a single character")
	}
	if Name("Jane2") {
		t.Error("Name should reject digits")
	}
}

func TestPasswordAllRules(t *testing.T) {
	st := Password("Str0ng!pass")
	if !st.IsValid() {
		t.Fatalf("expected valid, got %+v", st)
	}
	if st.Score() != 5 {
		t.Fatalf("expected score 5, got %d", st.Score())
	}
}

func TestPasswordDroppingOneRuleDropsScoreByOne(t *testing.T) {
	cases := map[string]string{
		"no upper":   "str0ng!pass",
		"no lower":   "STR0NG!PASS",
		"no digit":   "Strong!pass",
		"no special": "Str0ngpass",
		"too short":  "S0r!ng",
	}
	for name, pw := range cases {
		st := Password(pw)
		if st.IsValid() {
			t.Errorf("%s: expected invalid for %q", name, pw)
		}
		if st.Score() != 4 {
			t.Errorf("%s: expected score 4 for %q, got %d", name, pw, st.Score())
		}
	}
}

func TestPasswordEmpty(t *testing.T) {
	st := Password("")
	if st.Score() != 0 || st.IsValid() {
		t.Fatalf("empty password should score 0, got %d", st.Score())
	}
}
