package validate

import "testing"

func TestEmail(t *testing.T) {
	valid := []string{
		"jane@example.com",
		"first.last@sub.domain.org",
		"x@y.co",
	}
	invalid := []string{
		"",
		"not-an-email",
		"missing@tld",
		"spaces in@example.com",
		"@example.com",
		"jane@",
	}

	for _, v := range valid {
		if !Email(v) {
			t.Errorf("Email(%q) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if Email(v) {
			t.Errorf("Email(%q) = true, want false", v)
		}
	}
}

func TestAUPhone(t *testing.T) {
	valid := []string{
		"0412345678",     // mobile, local prefix
		"+61412345678",   // mobile, country code
		"61412345678",    // mobile, bare country code
		"0398765432",     // Melbourne landline
		"0298765432",     // Sydney landline
		"+61 2 9876 5432", // whitespace is ignored
		"04 1234 5678",
	}
	invalid := []string{
		"",
		"12345",
		"+1 555 0100",   // not AU
		"0512345678",    // 05 is not an AU area code
		"041234567",     // too short
		"04123456789",   // too long
		"+6141234567",   // too short with country code
	}

	for _, v := range valid {
		if !AUPhone(v) {
			t.Errorf("AUPhone(%q) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if AUPhone(v) {
			t.Errorf("AUPhone(%q) = true, want false", v)
		}
	}
}

func TestPasswordStrong(t *testing.T) {
	strong := []string{
		"Passw0rd",
		"abcdefg1",
		"1234567a",
	}
	weak := []string{
		"",
		"short1",     // under 8 chars
		"allletters", // no digit
		"12345678",   // no letter
	}

	for _, v := range strong {
		if !PasswordStrong(v) {
			t.Errorf("PasswordStrong(%q) = false, want true", v)
		}
	}
	for _, v := range weak {
		if PasswordStrong(v) {
			t.Errorf("PasswordStrong(%q) = true, want false", v)
		}
	}
}
