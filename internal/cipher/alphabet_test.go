package cipher

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"uppercase kept", "HELLO", "HELLO"},
		{"lowercase folded", "hello", "HELLO"},
		{"mixed case", "HeLLo", "HELLO"},
		{"digits spelled out", "2 beers", "TWOBEERS"},
		{"all digits", "1984", "ONENINEEIGHTFOUR"},
		{"zero", "0", "ZERO"},
		{"punctuation dropped", "Hello, World!", "HELLOWORLD"},
		{"whitespace dropped", "a b\tc\nd", "ABCD"},
		{"non-ascii dropped", "naïve café", "NAVECAF"},
		{"empty", "", ""},
		{"only dropped runes", "!@# $%^", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeRune(t *testing.T) {
	tests := []struct {
		in   rune
		want string
	}{
		{'A', "A"},
		{'z', "Z"},
		{'7', "SEVEN"},
		{' ', ""},
		{'!', ""},
		{'é', ""},
	}

	for _, tt := range tests {
		if got := NormalizeRune(tt.in); got != tt.want {
			t.Errorf("NormalizeRune(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	norm := Normalize("The 3 ships sailed in 1492.")
	if again := Normalize(norm); again != norm {
		t.Errorf("Normalize not idempotent: %q -> %q", norm, again)
	}
}
