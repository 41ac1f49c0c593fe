package symbolic

// AddressRange is a half-open [Low, High) range of code addresses.
type AddressRange struct {
	Low  uint64
	High uint64
}

// Contains reports whether pc falls inside the range.
func (r AddressRange) Contains(pc uint64) bool { return pc >= r.Low && pc < r.High }

// CodeBlock is a lexical block of code: one or more address ranges plus the
// variables and nested blocks declared inside it.
type CodeBlock struct {
	Common
	Ranges    []AddressRange
	ChildRefs []*CachedRef
}

func (*CodeBlock) Tag() Tag { return TagCodeBlock }

// ContainsAddress reports whether pc falls inside any of the block's
// ranges.
func (b *CodeBlock) ContainsAddress(pc uint64) bool {
	for _, r := range b.Ranges {
		if r.Contains(pc) {
			return true
		}
	}
	return false
}

// Children resolves the block's nested blocks, variables and parameters in
// declaration order. Unresolvable references are skipped.
func (b *CodeBlock) Children() []Symbol {
	out := make([]Symbol, 0, len(b.ChildRefs))
	for _, ref := range b.ChildRefs {
		if s := ref.Get(); !IsNull(s) {
			out = append(out, s)
		}
	}
	return out
}

// Function is a code block with parameters, an optional frame-base location
// expression and an optional linkage (mangled) name.
//
// For inlined instances, identity is two-dimensional: Parent gives the
// declared lexical scope (for example the class a method belongs to) while
// ContainingBlock gives the code the instance is physically inlined into.
// Both are uncached upward references.
type Function struct {
	CodeBlock
	LinkageName        string
	FrameBase          *Expr
	ParamRefs          []*CachedRef
	ContainingBlockRef UncachedRef
}

func (*Function) Tag() Tag { return TagFunction }

// Parameters resolves the function's formal parameters in declaration
// order, skipping malformed references.
func (f *Function) Parameters() []*Parameter {
	out := make([]*Parameter, 0, len(f.ParamRefs))
	for _, ref := range f.ParamRefs {
		if p, ok := ref.Get().(*Parameter); ok {
			out = append(out, p)
		}
	}
	return out
}

// ContainingBlock resolves the code block an inlined instance was inlined
// into. For ordinary functions it is the null symbol.
func (f *Function) ContainingBlock() Symbol { return f.ContainingBlockRef.Get() }

// Variable is a named storage location: a type plus a location expression
// computing where the bytes live.
type Variable struct {
	Common
	TypeRef  *CachedRef
	Location *Expr
}

func (*Variable) Tag() Tag { return TagVariable }

// Type resolves the variable's type.
func (v *Variable) Type() Symbol { return v.TypeRef.Get() }

// Parameter is a formal function parameter. It behaves exactly like a
// variable and is distinguished by tag only.
type Parameter struct {
	Variable
}

func (*Parameter) Tag() Tag { return TagParameter }

// Namespace is a named lexical scope with no storage of its own.
type Namespace struct {
	Common
}

func (*Namespace) Tag() Tag { return TagNamespace }

// CompileUnit is the root scope of one compiled translation unit. AddrBase
// is the unit's base offset into the module's address table, consumed by
// the addrx/constx expression operators.
type CompileUnit struct {
	Common
	Producer       string
	Language       string
	LowPC          uint64
	AddrBase       uint64
	StrOffsetsBase uint64
}

func (*CompileUnit) Tag() Tag { return TagCompileUnit }

// CallSite records one call instruction inside a function: the address
// execution returns to plus the callee, when known.
type CallSite struct {
	Common
	ReturnPC  uint64
	TargetRef *CachedRef
}

func (*CallSite) Tag() Tag { return TagCallSite }

// Target resolves the called function; the null symbol when unknown.
func (c *CallSite) Target() Symbol { return c.TargetRef.Get() }
