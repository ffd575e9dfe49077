// Package validate holds the input validation rules of the auth flows:
// email shape, Australian phone numbers, and the password strength policy.
package validate

import (
	"regexp"
	"strings"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	auMobileRe   = regexp.MustCompile(`^(\+?61|0)4\d{8}$`)
	auLandlineRe = regexp.MustCompile(`^(\+?61|0)[2378]\d{8}$`)
	letterRe     = regexp.MustCompile(`[A-Za-z]`)
	digitRe      = regexp.MustCompile(`\d`)
)

// Email reports whether v has a local@domain.tld shape.
func Email(v string) bool {
	return emailRe.MatchString(v)
}

// AUPhone reports whether v is an Australian mobile or landline number,
// with whitespace ignored.
func AUPhone(v string) bool {
	s := strings.Join(strings.Fields(v), "")
	return auMobileRe.MatchString(s) || auLandlineRe.MatchString(s)
}

// PasswordStrong reports whether v meets the strength policy: at least
// 8 characters with at least one letter and one digit.
func PasswordStrong(v string) bool {
	return len(v) >= 8 && letterRe.MatchString(v) && digitRe.MatchString(v)
}
