package cipher

import (
	"errors"
	"testing"
)

func TestNewCaesarKeys(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		shift   int
		wantErr bool
	}{
		{"empty key is shift zero", "", 0, false},
		{"zero", "0", 0, false},
		{"three", "3", 3, false},
		{"max", "25", 25, false},
		{"letter lower", "d", 3, false},
		{"letter upper", "D", 3, false},
		{"padded integer", " 7 ", 7, false},
		{"alphabet size", "26", 0, true},
		{"negative", "-1", 0, true},
		{"huge", "999", 0, true},
		{"word", "KEY", 0, true},
		{"symbol", "!", 0, true},
		{"digit letter mix", "3d", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCaesar(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewCaesar(%q) expected error, got shift %d", tt.key, c.Shift())
				}
				var keyErr *InvalidKeyError
				if !errors.As(err, &keyErr) {
					t.Fatalf("NewCaesar(%q) error = %v, want *InvalidKeyError", tt.key, err)
				}
				if keyErr.Kind != KindCaesar || keyErr.Reason == "" {
					t.Errorf("InvalidKeyError = %+v, want caesar kind with reason", keyErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCaesar(%q) error = %v", tt.key, err)
			}
			if c.Shift() != tt.shift {
				t.Errorf("NewCaesar(%q) shift = %d, want %d", tt.key, c.Shift(), tt.shift)
			}
		})
	}
}

func TestCaesarKnownVector(t *testing.T) {
	c, err := NewCaesar("3")
	if err != nil {
		t.Fatalf("NewCaesar() error = %v", err)
	}
	if got := c.Transform("HELLO", ModeEncrypt); got != "KHOOR" {
		t.Errorf("encrypt HELLO = %q, want KHOOR", got)
	}
	if got := c.Transform("KHOOR", ModeDecrypt); got != "HELLO" {
		t.Errorf("decrypt KHOOR = %q, want HELLO", got)
	}
}

func TestCaesarWrapAround(t *testing.T) {
	c, _ := NewCaesar("3")
	if got := c.Transform("XYZ", ModeEncrypt); got != "ABC" {
		t.Errorf("encrypt XYZ = %q, want ABC", got)
	}
	if got := c.Transform("ABC", ModeDecrypt); got != "XYZ" {
		t.Errorf("decrypt ABC = %q, want XYZ", got)
	}
}

func TestCaesarZeroShiftIdentity(t *testing.T) {
	for _, key := range []string{"", "0"} {
		c, err := NewCaesar(key)
		if err != nil {
			t.Fatalf("NewCaesar(%q) error = %v", key, err)
		}
		const text = "IDENTITY"
		if got := c.Transform(text, ModeEncrypt); got != text {
			t.Errorf("key %q: encrypt %q = %q, want identity", key, text, got)
		}
		if got := c.Transform(text, ModeDecrypt); got != text {
			t.Errorf("key %q: decrypt %q = %q, want identity", key, text, got)
		}
	}
}

func TestCaesarRoundTripAllShifts(t *testing.T) {
	const text = "THEQUICKBROWNFOXJUMPSOVERTHELAZYDOG"
	for shift := 0; shift < AlphabetSize; shift++ {
		c, err := NewCaesar(string(letter(shift)))
		if err != nil {
			t.Fatalf("NewCaesar(shift %d) error = %v", shift, err)
		}
		enc := c.Transform(text, ModeEncrypt)
		if dec := c.Transform(enc, ModeDecrypt); dec != text {
			t.Errorf("shift %d: round trip = %q, want %q", shift, dec, text)
		}
	}
}

func TestCaesarLetterKeyMatchesNumericKey(t *testing.T) {
	byLetter, _ := NewCaesar("H")
	byNumber, _ := NewCaesar("7")
	const text = "SAMESHIFT"
	if a, b := byLetter.Transform(text, ModeEncrypt), byNumber.Transform(text, ModeEncrypt); a != b {
		t.Errorf("letter key output %q differs from numeric key output %q", a, b)
	}
}
