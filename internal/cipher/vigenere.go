package cipher

import "strings"

// Vigenere shifts the i-th letter of the text by the alphabet position
// of the i-th key letter, cycling the key over the full text.
type Vigenere struct {
	shifts []int
}

// NewVigenere builds a Vigenere cipher from a key of letters. The key
// is case-folded; an empty key or any non-letter rune is invalid.
func NewVigenere(key string) (*Vigenere, error) {
	if key == "" {
		return nil, invalidKey(KindVigenere, "key must not be empty")
	}
	shifts := make([]int, 0, len(key))
	for _, r := range key {
		switch {
		case r >= 'A' && r <= 'Z':
			shifts = append(shifts, int(r-'A'))
		case r >= 'a' && r <= 'z':
			shifts = append(shifts, int(r-'a'))
		default:
			return nil, invalidKey(KindVigenere, "key rune %q is not a letter", r)
		}
	}
	return &Vigenere{shifts: shifts}, nil
}

// Kind implements Cipher.
func (v *Vigenere) Kind() Kind { return KindVigenere }

// KeyLen returns the number of key letters.
func (v *Vigenere) KeyLen() int { return len(v.shifts) }

// Transform applies the keyed shift sequence over the whole text:
// encrypt adds, decrypt subtracts. The shift of a letter depends on its
// absolute position in the text, which is why a Vigenere stage must
// never be split into chunks. The key index advances only over letters,
// so a stray non-letter byte passes through without consuming one.
func (v *Vigenere) Transform(text string, mode Mode) string {
	var b strings.Builder
	b.Grow(len(text))
	ki := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if isLetter(ch) {
			shift := v.shifts[ki%len(v.shifts)]
			if mode == ModeDecrypt {
				shift = AlphabetSize - shift
			}
			ch = letter((pos(ch) + shift) % AlphabetSize)
			ki++
		}
		b.WriteByte(ch)
	}
	return b.String()
}
