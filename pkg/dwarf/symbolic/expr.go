package symbolic

// Expr is a DWARF location or offset expression: an immutable byte-coded
// instruction stream plus an uncached back-reference to the symbol that
// owns it.
//
// The back-reference exists only so a couple of operators (addrx, constx)
// can find the owning compile unit's address-table base. It must stay
// uncached: the owning symbol usually contains the expression transitively,
// and a memoized back-pointer would create an ownership cycle.
type Expr struct {
	Bytes     []byte
	SourceRef UncachedRef
}

// NewExpr returns an expression owned by the symbol source resolves to.
func NewExpr(bytes []byte, source UncachedRef) *Expr {
	return &Expr{Bytes: bytes, SourceRef: source}
}

// Source resolves the owning symbol; the null symbol when the expression is
// free-standing.
func (e *Expr) Source() Symbol { return e.SourceRef.Get() }

// CompileUnit walks the owning symbol's parent chain to the enclosing
// compile unit. It reports false for free-standing expressions and corrupt
// parent chains.
func (e *Expr) CompileUnit() (*CompileUnit, bool) {
	s := e.Source()
	for depth := 0; depth < maxScopeDepth; depth++ {
		if IsNull(s) {
			return nil, false
		}
		if cu, ok := s.(*CompileUnit); ok {
			return cu, true
		}
		s = s.Parent()
	}
	return nil, false
}
