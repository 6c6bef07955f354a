package credential

import (
	"reflect"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@b.com",
		"user@example.com",
		"first.last@example.co",
		"user+tag@sub.example.org",
		"USER_99%x@my-host.example.io",
	}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Errorf("ValidateEmail(%q) = false, want true", e)
		}
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@example",
		"user@example.c",
		"user@example.c0m",
		"user@.example.com",
		"user@example..com",
		"user@example.com.",
		"us er@example.com",
		"user@exa mple.com",
	}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Errorf("ValidateEmail(%q) = true, want false", e)
		}
	}
}

func TestValidatePassword_Strong(t *testing.T) {
	res := ValidatePassword("Str0ng!Passw0rd")
	if !res.Valid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", res.Errors)
	}
	if res.Strength != StrengthStrong {
		t.Errorf("Strength = %q, want strong", res.Strength)
	}
}

func TestValidatePassword_ShortIsMedium(t *testing.T) {
	// One rule broken (length); the other four classes are present.
	res := ValidatePassword("short1A!")
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "At least 12 characters" {
		t.Errorf("Errors = %v, want exactly the length message", res.Errors)
	}
	if res.Strength != StrengthMedium {
		t.Errorf("Strength = %q, want medium", res.Strength)
	}
}

func TestValidatePassword_EachRuleIndependent(t *testing.T) {
	cases := []struct {
		password string
		missing  string
	}{
		{"password123!abc", "At least one uppercase letter"},
		{"PASSWORD123!ABC", "At least one lowercase letter"},
		{"Password!!!!!abc", "At least one number"},
		{"Password1234abcd", "At least one special character"},
	}
	for _, tc := range cases {
		res := ValidatePassword(tc.password)
		if res.Valid {
			t.Errorf("ValidatePassword(%q) should be invalid", tc.password)
			continue
		}
		if len(res.Errors) != 1 || res.Errors[0] != tc.missing {
			t.Errorf("ValidatePassword(%q).Errors = %v, want [%q]", tc.password, res.Errors, tc.missing)
		}
		if res.Strength != StrengthMedium {
			t.Errorf("ValidatePassword(%q).Strength = %q, want medium", tc.password, res.Strength)
		}
	}
}

func TestValidatePassword_WeakTier(t *testing.T) {
	// Breaks length, uppercase, digit, and special: four errors.
	res := ValidatePassword("onlylower")
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 4 {
		t.Errorf("Errors = %v, want 4 messages", res.Errors)
	}
	if res.Strength != StrengthWeak {
		t.Errorf("Strength = %q, want weak", res.Strength)
	}
}

func TestValidatePassword_TwoErrorsStillMedium(t *testing.T) {
	// Breaks digit and special only.
	res := ValidatePassword("PasswordPassword")
	if len(res.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2 messages", res.Errors)
	}
	if res.Strength != StrengthMedium {
		t.Errorf("Strength = %q, want medium", res.Strength)
	}
}

func TestValidatePassword_Pure(t *testing.T) {
	first := ValidatePassword("short1A!")
	for i := 0; i < 10; i++ {
		again := ValidatePassword("short1A!")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("call %d differed: %+v vs %+v", i, first, again)
		}
	}
}
