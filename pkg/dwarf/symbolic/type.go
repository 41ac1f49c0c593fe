package symbolic

// Type is a program type: an assigned name (possibly empty) plus a byte
// size. A size of zero is permitted for incomplete or forward-declared
// types.
type Type struct {
	Common
	ByteSize uint64
}

func (*Type) Tag() Tag { return TagType }

// Modifier classifies the layer a ModifiedType wraps around its base type.
type Modifier int

const (
	ModConst Modifier = iota
	ModVolatile
	ModRestrict
	ModTypedef
	ModAtomic
)

var modifierNames = map[Modifier]string{
	ModConst:    "const",
	ModVolatile: "volatile",
	ModRestrict: "restrict",
	ModTypedef:  "typedef",
	ModAtomic:   "atomic",
}

func (m Modifier) String() string {
	if name, ok := modifierNames[m]; ok {
		return name
	}
	return "invalid"
}

// ModifiedType wraps another type with a qualifier or typedef layer.
type ModifiedType struct {
	Type
	Modifier Modifier
	BaseRef  *CachedRef
}

func (*ModifiedType) Tag() Tag { return TagModifiedType }

// Base resolves the wrapped type.
func (t *ModifiedType) Base() Symbol { return t.BaseRef.Get() }

// maxModifierDepth bounds qualifier stripping so a corrupt typedef cycle
// cannot loop.
const maxModifierDepth = 64

// ConcreteType strips qualifier and typedef layers from s. It returns the
// null symbol when the modifier chain does not terminate, which only happens
// on corrupt input.
func ConcreteType(s Symbol) Symbol {
	if s == nil {
		return Null()
	}
	for i := 0; i < maxModifierDepth; i++ {
		m, ok := s.(*ModifiedType)
		if !ok {
			return s
		}
		s = m.Base()
	}
	return Null()
}

// MemberPointer is a pointer-to-member type: a pointee type plus the
// collection it is a member of.
type MemberPointer struct {
	Type
	ContainingRef *CachedRef
	PointeeRef    *CachedRef
}

func (*MemberPointer) Tag() Tag { return TagMemberPointer }

// Containing resolves the collection the member belongs to.
func (t *MemberPointer) Containing() Symbol { return t.ContainingRef.Get() }

// Pointee resolves the pointed-to type.
func (t *MemberPointer) Pointee() Symbol { return t.PointeeRef.Get() }

// FunctionType is the type of a function: return type plus parameter types
// in declaration order.
type FunctionType struct {
	Type
	ReturnRef *CachedRef
	ParamRefs []*CachedRef
}

func (*FunctionType) Tag() Tag { return TagFunctionType }

// Return resolves the return type; the null symbol means void.
func (t *FunctionType) Return() Symbol { return t.ReturnRef.Get() }

// Params resolves the parameter types in declaration order.
func (t *FunctionType) Params() []Symbol {
	out := make([]Symbol, 0, len(t.ParamRefs))
	for _, ref := range t.ParamRefs {
		out = append(out, ref.Get())
	}
	return out
}

// Enumeration is an enumerated type with its named constants.
type Enumeration struct {
	Type
	EnumeratorRefs []*CachedRef
}

func (*Enumeration) Tag() Tag { return TagEnumeration }

// Enumerators resolves the enumeration's constants in declaration order,
// skipping any reference that does not resolve to an enumerator.
func (e *Enumeration) Enumerators() []*Enumerator {
	out := make([]*Enumerator, 0, len(e.EnumeratorRefs))
	for _, ref := range e.EnumeratorRefs {
		if en, ok := ref.Get().(*Enumerator); ok {
			out = append(out, en)
		}
	}
	return out
}

// Lookup returns the name of the constant with the given raw value.
func (e *Enumeration) Lookup(value uint64) (string, bool) {
	for _, en := range e.Enumerators() {
		if en.Value == value {
			return en.Name(), true
		}
	}
	return "", false
}

// Enumerator is a single named constant of an Enumeration. Value holds the
// raw bit pattern; signedness is a property of the enumeration's underlying
// type, not of the constant.
type Enumerator struct {
	Common
	Value uint64
}

func (*Enumerator) Tag() Tag { return TagEnumerator }
