package cipher

import (
	"strconv"
	"strings"
)

// Caesar shifts every letter by a fixed amount within the alphabet.
type Caesar struct {
	shift int
}

// NewCaesar builds a Caesar cipher from a raw key. Accepted forms: an
// empty key (shift 0, the null-key default of the command line), a
// decimal integer already in [0,26), or a single letter standing for
// its alphabet position. Anything else is an invalid key; out-of-range
// integers are rejected rather than reduced.
func NewCaesar(key string) (*Caesar, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return &Caesar{}, nil
	}
	if n, err := strconv.Atoi(key); err == nil {
		if n < 0 || n >= AlphabetSize {
			return nil, invalidKey(KindCaesar, "shift %d out of range [0,%d)", n, AlphabetSize)
		}
		return &Caesar{shift: n}, nil
	}
	if len(key) == 1 {
		switch c := key[0]; {
		case c >= 'A' && c <= 'Z':
			return &Caesar{shift: int(c - 'A')}, nil
		case c >= 'a' && c <= 'z':
			return &Caesar{shift: int(c - 'a')}, nil
		}
	}
	return nil, invalidKey(KindCaesar, "%q is neither an integer shift nor a single letter", key)
}

// Kind implements Cipher.
func (c *Caesar) Kind() Kind { return KindCaesar }

// Shift returns the validated shift amount.
func (c *Caesar) Shift() int { return c.shift }

// Transform shifts every letter forward when encrypting and backward
// when decrypting. The shift is per-character with no positional state,
// so any split of the text transforms identically chunk by chunk.
func (c *Caesar) Transform(text string, mode Mode) string {
	shift := c.shift
	if mode == ModeDecrypt {
		shift = AlphabetSize - shift
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if isLetter(ch) {
			ch = letter((pos(ch) + shift) % AlphabetSize)
		}
		b.WriteByte(ch)
	}
	return b.String()
}
