package symbolic

import "sync"

// CachedRef is a lazy handle for ownership edges pointing down the symbol
// tree. The first Get decodes through the factory and memoizes the result
// for the handle's lifetime; concurrent first accesses serialize on the
// handle's lock, which is safe because decoding is idempotent.
//
// A CachedRef is valid-or-empty: an empty handle (or any resolution failure)
// yields the null symbol, never nil.
type CachedRef struct {
	factory Factory
	key     Key

	mu  sync.Mutex
	sym Symbol
}

// NewCachedRef returns a handle that decodes key through factory on first
// access.
func NewCachedRef(factory Factory, key Key) *CachedRef {
	return &CachedRef{factory: factory, key: key}
}

// CachedRefTo returns a handle pre-resolved to sym, bypassing any factory.
// Used for synthetic symbol graphs.
func CachedRefTo(sym Symbol) *CachedRef {
	if sym == nil {
		sym = Null()
	}
	return &CachedRef{sym: sym}
}

// Key returns the factory key the handle resolves, or zero for direct and
// empty handles.
func (r *CachedRef) Key() Key {
	if r == nil {
		return 0
	}
	return r.key
}

// Get resolves the handle. It never returns nil.
func (r *CachedRef) Get() Symbol {
	if r == nil {
		return Null()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sym != nil {
		return r.sym
	}
	if r.factory == nil || r.key == 0 {
		r.sym = Null()
		return r.sym
	}
	sym := r.factory.Produce(r.key)
	if sym == nil {
		sym = Null()
	}
	r.sym = sym
	return sym
}

// UncachedRef is a lazy handle for edges pointing up or across the symbol
// tree: a symbol's parent, a function's inline containing block, an
// expression's owning symbol. Every Get re-resolves through the factory and
// nothing is memoized, so upward references never own their target and the
// ownership graph stays acyclic.
//
// An UncachedRef may also be constructed directly from a materialized
// symbol (synthetic data); such a handle returns that symbol on every Get.
// The zero UncachedRef is empty and resolves to the null symbol.
type UncachedRef struct {
	factory Factory
	key     Key
	direct  Symbol
}

// NewUncachedRef returns a handle that re-decodes key through factory on
// every access.
func NewUncachedRef(factory Factory, key Key) UncachedRef {
	return UncachedRef{factory: factory, key: key}
}

// UncachedRefTo returns a handle fixed to sym.
func UncachedRefTo(sym Symbol) UncachedRef {
	return UncachedRef{direct: sym}
}

// Key returns the factory key the handle resolves, or zero for direct and
// empty handles.
func (r UncachedRef) Key() Key { return r.key }

// Get resolves the handle. It never returns nil.
func (r UncachedRef) Get() Symbol {
	if r.direct != nil {
		return r.direct
	}
	if r.factory == nil || r.key == 0 {
		return Null()
	}
	sym := r.factory.Produce(r.key)
	if sym == nil {
		return Null()
	}
	return sym
}
