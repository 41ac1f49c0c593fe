package symbolic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapFactory is a synthetic factory backed by a key->symbol map. It counts
// Produce calls per key so tests can observe caching behaviour.
type mapFactory struct {
	mu      sync.Mutex
	symbols map[Key]Symbol
	calls   map[Key]int
}

func newMapFactory() *mapFactory {
	return &mapFactory{
		symbols: make(map[Key]Symbol),
		calls:   make(map[Key]int),
	}
}

func (f *mapFactory) add(key Key, sym Symbol) {
	f.symbols[key] = sym
}

func (f *mapFactory) Produce(key Key) Symbol {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	if sym, ok := f.symbols[key]; ok {
		return sym
	}
	return Null()
}

func (f *mapFactory) produced(key Key) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func TestNullSymbol(t *testing.T) {
	n := Null()
	require.NotNil(t, n)
	assert.Equal(t, TagNone, n.Tag())
	assert.Empty(t, n.Name())
	assert.Empty(t, n.QualifiedName())
	assert.Same(t, Null(), n.Parent(), "null symbol's parent is the null symbol")
	assert.True(t, IsNull(n))
	assert.True(t, IsNull(nil))
}

func TestCachedRefMemoizes(t *testing.T) {
	f := newMapFactory()
	f.add(7, &Type{Common: Common{SymKey: 7, SymName: "int"}, ByteSize: 4})

	ref := NewCachedRef(f, 7)
	first := ref.Get()
	second := ref.Get()

	require.Equal(t, "int", first.Name())
	assert.Same(t, first, second)
	assert.Equal(t, 1, f.produced(7), "cached handle decodes once")
}

func TestUncachedRefReResolves(t *testing.T) {
	f := newMapFactory()
	f.add(9, &Namespace{Common: Common{SymKey: 9, SymName: "ns"}})

	ref := NewUncachedRef(f, 9)
	ref.Get()
	ref.Get()
	ref.Get()

	assert.Equal(t, 3, f.produced(9), "uncached handle re-decodes on every access")
}

func TestRefsNeverReturnNil(t *testing.T) {
	var cached *CachedRef
	assert.True(t, IsNull(cached.Get()), "nil cached ref resolves to the null symbol")
	assert.True(t, IsNull(NewCachedRef(nil, 0).Get()))
	assert.True(t, IsNull(NewCachedRef(newMapFactory(), 404).Get()), "unknown key resolves to the null symbol")

	var uncached UncachedRef
	assert.True(t, IsNull(uncached.Get()), "zero uncached ref resolves to the null symbol")
}

func TestDirectRefs(t *testing.T) {
	sym := &Variable{Common: Common{SymName: "x"}}
	assert.Same(t, Symbol(sym), CachedRefTo(sym).Get())
	assert.Same(t, Symbol(sym), UncachedRefTo(sym).Get())
	assert.True(t, IsNull(CachedRefTo(nil).Get()))
}

func TestQualifiedName(t *testing.T) {
	ns := &Namespace{Common: Common{SymName: "net"}}
	cls := &Collection{Type: Type{Common: Common{SymName: "Socket", ParentRef: UncachedRefTo(ns)}}}
	method := &Function{CodeBlock: CodeBlock{Common: Common{SymName: "close", ParentRef: UncachedRefTo(cls)}}}

	assert.Equal(t, "net", ns.QualifiedName())
	assert.Equal(t, "net::Socket", cls.QualifiedName())
	assert.Equal(t, "net::Socket::close", method.QualifiedName())
}

func TestQualifiedNameSkipsAnonymousAndStopsAtCompileUnit(t *testing.T) {
	cu := &CompileUnit{Common: Common{SymName: "lib.c"}}
	anon := &Namespace{Common: Common{ParentRef: UncachedRefTo(cu)}}
	v := &Variable{Common: Common{SymName: "counter", ParentRef: UncachedRefTo(anon)}}

	assert.Equal(t, "counter", v.QualifiedName(), "anonymous scope and compile unit contribute nothing")
}

func TestConcreteTypeStripsModifiers(t *testing.T) {
	base := &Type{Common: Common{SymName: "int"}, ByteSize: 4}
	td := &ModifiedType{Type: Type{Common: Common{SymName: "i32"}}, Modifier: ModTypedef, BaseRef: CachedRefTo(base)}
	cv := &ModifiedType{Modifier: ModConst, BaseRef: CachedRefTo(td)}

	got := ConcreteType(cv)
	assert.Same(t, Symbol(base), got)
	assert.Same(t, Symbol(base), ConcreteType(base), "non-modified types are their own concrete type")
}

func TestConcreteTypeTerminatesOnCycle(t *testing.T) {
	a := &ModifiedType{Modifier: ModTypedef}
	b := &ModifiedType{Modifier: ModTypedef, BaseRef: CachedRefTo(a)}
	a.BaseRef = CachedRefTo(b)

	assert.True(t, IsNull(ConcreteType(a)), "corrupt modifier cycle resolves to the null symbol")
}

func TestCodeBlockContainsAddress(t *testing.T) {
	b := &CodeBlock{Ranges: []AddressRange{{Low: 0x1000, High: 0x1010}, {Low: 0x2000, High: 0x2004}}}

	assert.True(t, b.ContainsAddress(0x1000))
	assert.True(t, b.ContainsAddress(0x100f))
	assert.False(t, b.ContainsAddress(0x1010), "high bound is exclusive")
	assert.True(t, b.ContainsAddress(0x2003))
	assert.False(t, b.ContainsAddress(0x3000))
}

func TestEnumerationLookup(t *testing.T) {
	e := &Enumeration{
		Type: Type{Common: Common{SymName: "Color"}, ByteSize: 1},
		EnumeratorRefs: []*CachedRef{
			CachedRefTo(&Enumerator{Common: Common{SymName: "Red"}, Value: 0}),
			CachedRefTo(&Enumerator{Common: Common{SymName: "Green"}, Value: 1}),
		},
	}

	name, ok := e.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "Green", name)

	_, ok = e.Lookup(5)
	assert.False(t, ok)
}

func TestExprCompileUnit(t *testing.T) {
	cu := &CompileUnit{Common: Common{SymName: "main.c"}, AddrBase: 0x40}
	fn := &Function{CodeBlock: CodeBlock{Common: Common{SymName: "f", ParentRef: UncachedRefTo(cu)}}}
	v := &Variable{Common: Common{SymName: "x", ParentRef: UncachedRefTo(fn)}}
	expr := NewExpr([]byte{0x30}, UncachedRefTo(v))

	got, ok := expr.CompileUnit()
	require.True(t, ok)
	assert.Same(t, cu, got)

	free := NewExpr([]byte{0x30}, UncachedRef{})
	_, ok = free.CompileUnit()
	assert.False(t, ok)
}
