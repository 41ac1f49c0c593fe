package symbolic

import (
	"strings"
	"sync"
)

// Key is an opaque per-module identifier understood by a Factory. The zero
// key is reserved and never resolves to a real symbol.
type Key uint64

// Factory produces symbols from opaque keys. Implementations decode DWARF
// debug entries or construct synthetic test data; both must honor the same
// contract: Produce never returns nil; on failure it returns the null
// symbol (tag None, empty name, no children).
type Factory interface {
	Produce(key Key) Symbol
}

// Symbol is a typed program entity. All concrete kinds embed Common and
// implement Tag with a fixed value, keeping the polymorphic set closed.
type Symbol interface {
	// Tag identifies the concrete kind. Dispatch only.
	Tag() Tag
	// Key is the factory key this symbol was decoded from; zero for
	// synthetic or null symbols.
	Key() Key
	// Name is the assigned (unqualified) name; may be empty.
	Name() string
	// QualifiedName is the scope-qualified name, computed lazily on first
	// call and memoized. Anonymous scopes contribute nothing.
	QualifiedName() string
	// Parent resolves the lexically containing symbol (namespace, class,
	// function or compile unit) through an uncached upward reference. It
	// returns the null symbol when there is no parent.
	Parent() Symbol
}

// Common holds the identity, naming and scope behaviour shared by every
// symbol kind. Concrete kinds embed it by value and are used by pointer.
type Common struct {
	SymKey    Key
	SymName   string
	ParentRef UncachedRef

	qualOnce  sync.Once
	qualified string
}

func (c *Common) Key() Key     { return c.SymKey }
func (c *Common) Name() string { return c.SymName }

func (c *Common) Parent() Symbol { return c.ParentRef.Get() }

// QualifiedName joins the names of the enclosing scopes with "::", outermost
// first. The walk stops at the compile unit, which contributes nothing.
// Symbols are immutable, so the result is computed once and reused.
func (c *Common) QualifiedName() string {
	c.qualOnce.Do(func() {
		parts := []string{}
		if c.SymName != "" {
			parts = append(parts, c.SymName)
		}
		p := c.ParentRef.Get()
		for depth := 0; depth < maxScopeDepth; depth++ {
			if p.Tag() == TagNone || p.Tag() == TagCompileUnit {
				break
			}
			if name := p.Name(); name != "" {
				parts = append(parts, name)
			}
			p = p.Parent()
		}
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
		c.qualified = strings.Join(parts, "::")
	})
	return c.qualified
}

// maxScopeDepth bounds upward walks so corrupt parent chains cannot loop.
const maxScopeDepth = 128

type nullSymbol struct {
	Common
}

func (*nullSymbol) Tag() Tag { return TagNone }

var null = &nullSymbol{}

// Null returns the shared null symbol. Every failed resolution yields this
// value, so callers can always dereference a handle's result.
func Null() Symbol { return null }

// IsNull reports whether s is absent: nil or the null symbol.
func IsNull(s Symbol) bool { return s == nil || s.Tag() == TagNone }
