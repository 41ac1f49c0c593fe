package symbolic

// Collection is a struct, class or union: an ordered list of data members
// plus an ordered list of inherited-from edges describing its base classes,
// both in declaration order. A collection may additionally (or instead)
// carry a variant part, making it a tagged union; a collection with a
// variant part and no members of its own is a tagged-union-only type.
type Collection struct {
	Type
	MemberRefs  []*CachedRef
	InheritRefs []*CachedRef
	VariantRef  *CachedRef
}

func (*Collection) Tag() Tag { return TagCollection }

// Members resolves the collection's own data members in declaration order.
// References that fail to resolve to a data member are skipped; a malformed
// member does not abort the rest of the list.
func (c *Collection) Members() []*DataMember {
	out := make([]*DataMember, 0, len(c.MemberRefs))
	for _, ref := range c.MemberRefs {
		if m, ok := ref.Get().(*DataMember); ok {
			out = append(out, m)
		}
	}
	return out
}

// BaseClasses resolves the inherited-from edges in declaration order,
// skipping malformed references.
func (c *Collection) BaseClasses() []*InheritedFrom {
	out := make([]*InheritedFrom, 0, len(c.InheritRefs))
	for _, ref := range c.InheritRefs {
		if e, ok := ref.Get().(*InheritedFrom); ok {
			out = append(out, e)
		}
	}
	return out
}

// Variant resolves the collection's variant part, if it has one.
func (c *Collection) Variant() (*VariantPart, bool) {
	if c.VariantRef == nil {
		return nil, false
	}
	vp, ok := c.VariantRef.Get().(*VariantPart)
	return vp, ok
}

// DataMember is one field of a collection: a byte offset within the
// containing instance plus the member's type.
type DataMember struct {
	Common
	ByteOffset int64
	TypeRef    *CachedRef
}

func (*DataMember) Tag() Tag { return TagDataMember }

// Type resolves the member's type.
func (m *DataMember) Type() Symbol { return m.TypeRef.Get() }

// ByteSize returns the member's storage size, derived from its concrete
// type. Zero means the size is unknown.
func (m *DataMember) ByteSize() uint64 {
	return typeByteSize(ConcreteType(m.Type()))
}

// typeByteSize extracts the byte size carried by any of the type kinds.
func typeByteSize(s Symbol) uint64 {
	switch t := s.(type) {
	case *Collection:
		return t.ByteSize
	case *Enumeration:
		return t.ByteSize
	case *ModifiedType:
		return t.ByteSize
	case *MemberPointer:
		return t.ByteSize
	case *FunctionType:
		return t.ByteSize
	case *Type:
		return t.ByteSize
	default:
		return 0
	}
}

// InheritedFrom is one edge from a derived collection to a base collection.
// The offset of the base sub-object within the derived object is either a
// constant (ordinary single or multiple inheritance) or an expression to be
// evaluated against a concrete instance (virtual inheritance, where the
// offset depends on the dynamic most-derived object). Exactly one of Offset
// and OffsetExpr is meaningful: OffsetExpr == nil means constant.
type InheritedFrom struct {
	Common
	BaseRef    *CachedRef
	Offset     int64
	OffsetExpr *Expr
}

func (*InheritedFrom) Tag() Tag { return TagInheritedFrom }

// Base resolves the base collection. Callers must check the kind: a corrupt
// edge may point at something that is not a collection.
func (e *InheritedFrom) Base() Symbol { return e.BaseRef.Get() }

// ConstOffset returns the edge's constant byte offset. It reports false for
// virtual inheritance, where the offset is expression-valued and cannot be
// known statically.
func (e *InheritedFrom) ConstOffset() (int64, bool) {
	if e.OffsetExpr != nil {
		return 0, false
	}
	return e.Offset, true
}

// VariantPart turns its containing collection into a tagged union. The
// discriminant member's value selects the active alternative from the
// ordered variant list. Discriminant values across the list are pairwise
// distinct and at most one variant omits a value (the default).
type VariantPart struct {
	Common
	DiscriminantRef *CachedRef
	VariantRefs     []*CachedRef
}

func (*VariantPart) Tag() Tag { return TagVariantPart }

// Discriminant resolves the data member whose value selects the active
// alternative.
func (vp *VariantPart) Discriminant() (*DataMember, bool) {
	m, ok := vp.DiscriminantRef.Get().(*DataMember)
	return m, ok
}

// Variants resolves the alternatives in declaration order, skipping
// malformed references.
func (vp *VariantPart) Variants() []*Variant {
	out := make([]*Variant, 0, len(vp.VariantRefs))
	for _, ref := range vp.VariantRefs {
		if v, ok := ref.Get().(*Variant); ok {
			out = append(out, v)
		}
	}
	return out
}

// Variant is one alternative of a variant part. HasValue distinguishes an
// explicit discriminant value from the implicit default alternative. The
// payload member list describes the alternative's fields; offsets are
// relative to the containing collection, not to the variant part.
type Variant struct {
	Common
	HasValue   bool
	Value      uint64
	MemberRefs []*CachedRef
}

func (*Variant) Tag() Tag { return TagVariant }

// Members resolves the alternative's payload members. In practice each
// variant carries exactly one member, which packs the alternative's fields.
func (v *Variant) Members() []*DataMember {
	out := make([]*DataMember, 0, len(v.MemberRefs))
	for _, ref := range v.MemberRefs {
		if m, ok := ref.Get().(*DataMember); ok {
			out = append(out, m)
		}
	}
	return out
}
