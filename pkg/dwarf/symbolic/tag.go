package symbolic

// Tag discriminates the concrete kind of a Symbol. It is used for dispatch
// only, never to carry data. The set is closed: factories must not invent
// tags outside this list.
type Tag int

const (
	TagNone Tag = iota
	TagType
	TagCodeBlock
	TagFunction
	TagParameter
	TagVariable
	TagDataMember
	TagCollection
	TagEnumeration
	TagEnumerator
	TagModifiedType
	TagMemberPointer
	TagFunctionType
	TagInheritedFrom
	TagNamespace
	TagCompileUnit
	TagVariant
	TagVariantPart
	TagCallSite
)

var tagNames = map[Tag]string{
	TagNone:          "none",
	TagType:          "type",
	TagCodeBlock:     "code-block",
	TagFunction:      "function",
	TagParameter:     "parameter",
	TagVariable:      "variable",
	TagDataMember:    "data-member",
	TagCollection:    "collection",
	TagEnumeration:   "enumeration",
	TagEnumerator:    "enumerator",
	TagModifiedType:  "modified-type",
	TagMemberPointer: "member-pointer",
	TagFunctionType:  "function-type",
	TagInheritedFrom: "inherited-from",
	TagNamespace:     "namespace",
	TagCompileUnit:   "compile-unit",
	TagVariant:       "variant",
	TagVariantPart:   "variant-part",
	TagCallSite:      "call-site",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "invalid"
}
