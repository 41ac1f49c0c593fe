package symbolic

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrNoMatchingVariant is returned when a discriminant value matches no
// explicit variant and the variant part declares no default. This is a hard
// error: resolution never silently falls back to an undeclared default.
var ErrNoMatchingVariant = errors.New("discriminant does not match any variant")

// ResolveActiveVariant selects the active alternative of a tagged union
// given the raw bytes of a containing-collection instance.
//
// The discriminant member's value is read from the instance bytes as an
// unsigned integer of up to 8 bytes, little-endian. The discriminant's
// declared type determines storage only; comparison against variant values
// is always on the raw bit pattern reinterpreted unsigned, matching the one
// real-world producer (Rust), which emits unsigned discriminants. A signed
// discriminant type is accepted without a separate comparison rule.
//
// Selection scans the variant list in order for an explicit value match,
// then falls back to the single variant declared without a value, and fails
// with ErrNoMatchingVariant when neither exists.
func ResolveActiveVariant(vp *VariantPart, data []byte) (*Variant, error) {
	value, err := readDiscriminant(vp, data)
	if err != nil {
		return nil, err
	}

	var fallback *Variant
	for _, v := range vp.Variants() {
		if !v.HasValue {
			if fallback == nil {
				fallback = v
			}
			continue
		}
		if v.Value == value {
			return v, nil
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, fmt.Errorf("%w: discriminant value %d", ErrNoMatchingVariant, value)
}

// ActiveAlternativeName resolves the active variant and returns its payload
// member's assigned name, which is the tag name of the active enum value. A variant
// with no payload yields an empty name.
func ActiveAlternativeName(vp *VariantPart, data []byte) (string, error) {
	v, err := ResolveActiveVariant(vp, data)
	if err != nil {
		return "", err
	}
	members := v.Members()
	if len(members) == 0 {
		return "", nil
	}
	return members[0].Name(), nil
}

// ResolveActiveAlternativeValue resolves the active variant and extracts
// its payload member's bytes from the instance. Payload offsets are
// relative to the containing collection, not to the variant part. A variant
// with no payload yields an empty value.
func ResolveActiveAlternativeValue(vp *VariantPart, data []byte) ([]byte, error) {
	v, err := ResolveActiveVariant(vp, data)
	if err != nil {
		return nil, err
	}
	members := v.Members()
	if len(members) == 0 {
		return nil, nil
	}
	m := members[0]
	size := m.ByteSize()
	if size == 0 {
		return nil, nil
	}
	if m.ByteOffset < 0 || uint64(m.ByteOffset)+size > uint64(len(data)) {
		return nil, fmt.Errorf("variant payload %q at offset %d size %d exceeds instance of %d bytes",
			m.Name(), m.ByteOffset, size, len(data))
	}
	out := make([]byte, size)
	copy(out, data[m.ByteOffset:uint64(m.ByteOffset)+size])
	return out, nil
}

// readDiscriminant reads the variant part's discriminant member from the
// instance bytes as a raw unsigned value.
func readDiscriminant(vp *VariantPart, data []byte) (uint64, error) {
	discr, ok := vp.Discriminant()
	if !ok {
		return 0, errors.New("variant part has no discriminant member")
	}
	size := discr.ByteSize()
	if size == 0 || size > 8 {
		return 0, fmt.Errorf("discriminant %q has unsupported size %d", discr.Name(), size)
	}
	if discr.ByteOffset < 0 || uint64(discr.ByteOffset)+size > uint64(len(data)) {
		return 0, fmt.Errorf("discriminant %q at offset %d size %d exceeds instance of %d bytes",
			discr.Name(), discr.ByteOffset, size, len(data))
	}
	var buf [8]byte
	copy(buf[:], data[discr.ByteOffset:uint64(discr.ByteOffset)+size])
	return binary.LittleEndian.Uint64(buf[:]), nil
}
