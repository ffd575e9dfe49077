package otp

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	code, err := Generate(DefaultLength)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(code) != DefaultLength {
		t.Fatalf("expected %d chars, got %d (%q)", DefaultLength, len(code), code)
	}
	for _, r := range code {
		if !strings.ContainsRune(Alphabet, r) {
			t.Fatalf("code %q contains %q outside the alphabet", code, r)
		}
	}
}

func TestGenerate_DefaultsOnBadLength(t *testing.T) {
	for _, n := range []int{0, -3} {
		code, err := Generate(n)
		if err != nil {
			t.Fatalf("generate(%d) failed: %v", n, err)
		}
		if len(code) != DefaultLength {
			t.Fatalf("generate(%d): expected default length %d, got %d", n, DefaultLength, len(code))
		}
	}
}

func TestGenerate_Varies(t *testing.T) {
	// 36^8 possibilities; a collision over a handful of draws means the
	// generator is broken, not unlucky.
	seen := make(map[string]bool)
	for i := 0; i < 8; i++ {
		code, err := Generate(8)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"abc123":     "ABC123",
		"  AbC123\n": "ABC123",
		"XYZ789":     "XYZ789",
		"":           "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
