package symbolic

// WalkControl is the signal a visitor returns to continue or abort a
// traversal.
type WalkControl int

const (
	WalkContinue WalkControl = iota
	WalkStop
)

// HierarchyVisitor is invoked for each collection reached by
// VisitClassHierarchy together with the cumulative byte offset of that
// collection's sub-object within the starting instance.
type HierarchyVisitor func(c *Collection, offset int64) WalkControl

// VisitClassHierarchy walks start's base-class graph depth-first in
// pre-order. The starting collection is visited first with offset 0; each
// inherited-from edge is then followed in declaration order, accumulating
// constant edge offsets. Returning WalkStop from the visitor aborts the
// walk immediately, so no later node in pre-order is visited, and WalkStop
// propagates to the caller.
//
// Expression-valued edges (virtual inheritance) contribute no static offset
// and are skipped: their sub-objects cannot be located without evaluating
// the edge expression against a concrete instance, which is the expression
// evaluator's concern, not this traversal's. Edges that fail to resolve to
// a collection are likewise skipped rather than aborting the walk. A
// repeated key on the current path (corrupt, cyclic inheritance data) stops
// the descent down that path.
func VisitClassHierarchy(start *Collection, visit HierarchyVisitor) WalkControl {
	if start == nil {
		return WalkContinue
	}
	onPath := map[Key]bool{}
	return visitHierarchy(start, 0, visit, onPath)
}

func visitHierarchy(c *Collection, offset int64, visit HierarchyVisitor, onPath map[Key]bool) WalkControl {
	if c.Key() != 0 {
		if onPath[c.Key()] {
			return WalkContinue
		}
		onPath[c.Key()] = true
		defer delete(onPath, c.Key())
	}

	if visit(c, offset) == WalkStop {
		return WalkStop
	}

	for _, edge := range c.BaseClasses() {
		edgeOffset, constant := edge.ConstOffset()
		if !constant {
			continue
		}
		base, ok := edge.Base().(*Collection)
		if !ok {
			continue
		}
		if visitHierarchy(base, offset+edgeOffset, visit, onPath) == WalkStop {
			return WalkStop
		}
	}
	return WalkContinue
}

// FindMember locates a data member by name in c or any of its base classes,
// searching in DFS pre-order so a member of the derived class shadows one
// of the same name in a base. It returns the member together with the
// cumulative byte offset of the member within an instance of c.
func (c *Collection) FindMember(name string) (*DataMember, int64, bool) {
	var (
		found       *DataMember
		foundOffset int64
	)
	VisitClassHierarchy(c, func(cur *Collection, offset int64) WalkControl {
		for _, m := range cur.Members() {
			if m.Name() == name {
				found = m
				foundOffset = offset + m.ByteOffset
				return WalkStop
			}
		}
		return WalkContinue
	})
	if found == nil {
		return nil, 0, false
	}
	return found, foundOffset, true
}

// InheritanceStep is one edge/collection pair on a path from a derived
// class to an ancestor.
type InheritanceStep struct {
	Edge *InheritedFrom
	Base *Collection
}

// InheritancePath is an ordered sequence of steps from a derived collection
// to an ancestor, outermost edge first.
type InheritancePath []InheritanceStep

// ConstantOffset returns the total byte offset from the derived object to
// the ancestor sub-object. It reports false as soon as any edge on the path
// is expression-valued: with virtual inheritance the total depends on the
// dynamic most-derived object and must be computed at runtime per instance.
func (p InheritancePath) ConstantOffset() (int64, bool) {
	var total int64
	for _, step := range p {
		off, constant := step.Edge.ConstOffset()
		if !constant {
			return 0, false
		}
		total += off
	}
	return total, true
}

// FindInheritancePath returns the first declaration-order DFS path from
// derived to a base collection whose qualified name matches ancestor.
// Symbol identity is not pointer identity (the same logical class may be
// decoded into several instances), so matching is by qualified name.
// Virtual-inheritance edges are followed when building the path (the path
// itself is still meaningful; only its total offset is not static).
func FindInheritancePath(derived *Collection, ancestor string) (InheritancePath, bool) {
	if derived == nil {
		return nil, false
	}
	onPath := map[Key]bool{}
	return findPath(derived, ancestor, nil, onPath)
}

func findPath(c *Collection, ancestor string, acc InheritancePath, onPath map[Key]bool) (InheritancePath, bool) {
	if c.Key() != 0 {
		if onPath[c.Key()] {
			return nil, false
		}
		onPath[c.Key()] = true
		defer delete(onPath, c.Key())
	}

	for _, edge := range c.BaseClasses() {
		base, ok := edge.Base().(*Collection)
		if !ok {
			continue
		}
		path := append(append(InheritancePath{}, acc...), InheritanceStep{Edge: edge, Base: base})
		if base.QualifiedName() == ancestor {
			return path, true
		}
		if found, ok := findPath(base, ancestor, path, onPath); ok {
			return found, true
		}
	}
	return nil, false
}

// ScopeVisitor is invoked for each symbol on a lexical scope chain.
type ScopeVisitor func(s Symbol) WalkControl

// VisitLocalScopeChain walks upward from start through its parents,
// visiting each block on the way and stopping at, and including, the
// first function encountered. It never crosses above a function boundary:
// names declared outside the function are not lexically visible to code
// inside it. Returning WalkStop aborts the walk.
func VisitLocalScopeChain(start Symbol, visit ScopeVisitor) WalkControl {
	s := start
	for depth := 0; depth < maxScopeDepth; depth++ {
		if IsNull(s) {
			return WalkContinue
		}
		if visit(s) == WalkStop {
			return WalkStop
		}
		if s.Tag() == TagFunction {
			return WalkContinue
		}
		s = s.Parent()
	}
	return WalkContinue
}
