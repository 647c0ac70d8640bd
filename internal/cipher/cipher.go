// Package cipher implements the classical cipher engine: the Caesar,
// Playfair and Vigenere algorithms, the alphabet normalizer that feeds
// them, and the pipeline that composes several ciphers into one
// reversible run with chunked parallel execution for Caesar stages.
package cipher

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a cipher algorithm. The set is closed at build time;
// a cipher's kind is fixed at construction.
type Kind string

const (
	KindCaesar   Kind = "caesar"
	KindPlayfair Kind = "playfair"
	KindVigenere Kind = "vigenere"
)

// ParseKind maps a user-supplied name to a known Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCaesar:
		return KindCaesar, nil
	case KindPlayfair:
		return KindPlayfair, nil
	case KindVigenere:
		return KindVigenere, nil
	}
	return "", fmt.Errorf("unknown cipher kind %q", s)
}

// Mode selects the transform direction. It is chosen once per run and
// applied uniformly to every stage of a pipeline.
type Mode string

const (
	ModeEncrypt Mode = "encrypt"
	ModeDecrypt Mode = "decrypt"
)

// ParseMode maps a user-supplied name to a known Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeEncrypt:
		return ModeEncrypt, nil
	case ModeDecrypt:
		return ModeDecrypt, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Valid reports whether m is one of the two known modes.
func (m Mode) Valid() bool {
	return m == ModeEncrypt || m == ModeDecrypt
}

// Cipher is one concrete classical algorithm. Implementations hold only
// validated key material and are stateless across calls: the same text
// and mode always produce the same output, and a value may be shared by
// concurrent callers.
type Cipher interface {
	// Kind reports the algorithm this cipher implements.
	Kind() Kind

	// Transform maps normalized text (see Normalize) under the given
	// mode. Transforms never fail: key validation happened at
	// construction, and a byte outside the alphabet passes through
	// unchanged rather than corrupting the output.
	Transform(text string, mode Mode) string
}

// InvalidKeyError reports a key that cannot produce valid cipher state
// for its kind. It is returned only from constructors, never from
// Transform, and a failed construction aborts the whole run.
type InvalidKeyError struct {
	Kind   Kind
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid %s key: %s", e.Kind, e.Reason)
}

func invalidKey(kind Kind, format string, args ...interface{}) error {
	return &InvalidKeyError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// ErrChunkWait is returned when the chunk tasks of a parallel stage do
// not all complete within the pipeline's chunk-wait window. The run is
// aborted; partial output is never returned.
var ErrChunkWait = errors.New("cipher: chunk tasks did not complete within deadline")
