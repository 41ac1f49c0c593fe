package symbolic

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// Index maps qualified names to factory keys so callers can ask for a named
// entity without walking the graph. Names are stored as xxh3 hashes; a
// lookup re-derives the qualified name of each candidate to reject hash
// collisions.
type Index struct {
	factory Factory

	mu     sync.RWMutex
	byName map[uint64][]Key
}

// NewIndex returns an empty index resolving through factory.
func NewIndex(factory Factory) *Index {
	return &Index{
		factory: factory,
		byName:  make(map[uint64][]Key),
	}
}

// Add records that key resolves to a symbol with the given qualified name.
// Multiple keys per name are kept: the same logical entity may be decoded
// from several compilation units.
func (x *Index) Add(qualifiedName string, key Key) {
	if qualifiedName == "" || key == 0 {
		return
	}
	h := xxh3.HashString(qualifiedName)

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, existing := range x.byName[h] {
		if existing == key {
			return
		}
	}
	x.byName[h] = append(x.byName[h], key)
}

// Lookup resolves the first registered symbol whose qualified name matches
// exactly. It reports false when no candidate survives verification.
func (x *Index) Lookup(qualifiedName string) (Symbol, bool) {
	h := xxh3.HashString(qualifiedName)

	x.mu.RLock()
	keys := append([]Key(nil), x.byName[h]...)
	x.mu.RUnlock()

	for _, key := range keys {
		sym := x.factory.Produce(key)
		if IsNull(sym) {
			continue
		}
		if sym.QualifiedName() == qualifiedName {
			return sym, true
		}
	}
	return nil, false
}

// Len returns the number of distinct name hashes in the index.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byName)
}
