// Package otp generates the one-time codes used for email verification and
// password reset.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the 36-symbol code alphabet. Codes are upper-case by
// construction; user input must go through Normalize before comparison.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength is the standard code length for both auth flows.
const DefaultLength = 6

// Generate returns a code of the given length with each position drawn
// independently and uniformly from Alphabet using crypto/rand. Codes are not
// unique across calls; they are scoped per account and time-bounded.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("otp generate: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Normalize prepares user-supplied code input for comparison against a
// stored code hash.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
