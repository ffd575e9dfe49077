// Package credential wraps the adaptive one-way hash used for passwords and
// one-time codes. Both share the same cost factor: high enough that online
// guessing of a 6-character code within its window is infeasible, low enough
// that login latency stays acceptable.
package credential

import "golang.org/x/crypto/bcrypt"

const cost = 10

// Hash produces a salted bcrypt hash of plaintext.
func Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored hash.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
