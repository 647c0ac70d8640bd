package cipher

import "strings"

// AlphabetSize is the number of symbols the engine operates on. The
// alphabet is the 26 uppercase letters; Normalize spells digits out as
// words, so no cipher ever sees one.
const AlphabetSize = 26

var digitWords = [10]string{
	"ZERO", "ONE", "TWO", "THREE", "FOUR",
	"FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
}

// NormalizeRune maps one input rune to its normalized form: letters are
// upper-cased, digits are spelled out as words, and everything else is
// dropped (empty result). Pure function, no state.
func NormalizeRune(r rune) string {
	switch {
	case r >= 'A' && r <= 'Z':
		return string(r)
	case r >= 'a' && r <= 'z':
		return string(r - 'a' + 'A')
	case r >= '0' && r <= '9':
		return digitWords[r-'0']
	}
	return ""
}

// Normalize applies NormalizeRune to every rune of text in original
// order. Dropped runes are not reinserted; the result contains only the
// letters A-Z and must be produced before any cipher sees the text.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteByte(byte(r))
		case r >= 'a' && r <= 'z':
			b.WriteByte(byte(r - 'a' + 'A'))
		case r >= '0' && r <= '9':
			b.WriteString(digitWords[r-'0'])
		}
	}
	return b.String()
}

func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' }

// pos returns the alphabet position of an uppercase letter.
func pos(b byte) int { return int(b - 'A') }

// letter returns the uppercase letter at alphabet position p.
func letter(p int) byte { return byte('A' + p) }
