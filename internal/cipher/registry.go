package cipher

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a cipher of one kind from a raw key string, validating
// the key for that kind.
type Factory func(key string) (Cipher, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[Kind]Factory)
)

// Register adds a cipher factory to the registry. The built-in kinds
// register themselves at init time.
func Register(kind Kind, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = factory
}

func init() {
	Register(KindCaesar, func(key string) (Cipher, error) { return NewCaesar(key) })
	Register(KindPlayfair, func(key string) (Cipher, error) { return NewPlayfair(key) })
	Register(KindVigenere, func(key string) (Cipher, error) { return NewVigenere(key) })
}

// New constructs a cipher by kind. An unknown kind is an error; there
// is no fallback to a default cipher. Key validation errors propagate
// unchanged from the kind's constructor.
func New(kind Kind, key string) (Cipher, error) {
	registryMu.RLock()
	factory, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported cipher kind %q", kind)
	}
	return factory(key)
}

// ListRegistered returns the registered kinds in sorted order.
func ListRegistered() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]Kind, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// IsRegistered reports whether a factory exists for kind.
func IsRegistered(kind Kind) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[kind]
	return ok
}
