package op

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/reeflab/reef/pkg/dwarf/leb128"
)

// Operation is one decoded operator with its rendered form. Offset is the
// operator's position in the expression, usable as a branch target key.
type Operation struct {
	Offset int
	Opcode Opcode
	Text   string
}

// DescribeOption configures rendering.
type DescribeOption func(*describer)

// WithRegisterNames renders register operands through the given naming
// function, for example regnum.AMD64Name.
func WithRegisterNames(name func(uint64) string) DescribeOption {
	return func(d *describer) { d.regName = name }
}

type describer struct {
	regName func(uint64) string
}

// DescribeOps decodes an expression into its operator sequence. The scan is
// strictly linear: control flow is rendered, never followed, so looping
// expressions still decode in one pass. On a truncated operand or an
// unknown opcode the operations decoded so far are returned alongside the
// error.
func DescribeOps(expr []byte, opts ...DescribeOption) ([]Operation, error) {
	var d describer
	for _, opt := range opts {
		opt(&d)
	}

	var ops []Operation
	pc := 0
	for pc < len(expr) {
		at := pc
		opcode := Opcode(expr[pc])
		pc++

		info, ok := opcode.info()
		if !ok {
			return ops, &UnknownOpcodeError{Opcode: byte(opcode), Offset: at}
		}

		text, next, err := d.render(expr, pc, opcode, info)
		if err != nil {
			return ops, fmt.Errorf("%s at offset %d: %w", info.name, at, err)
		}
		pc = next
		ops = append(ops, Operation{Offset: at, Opcode: opcode, Text: text})
	}
	return ops, nil
}

// Describe renders an expression as a single line, operators joined with
// "; ".
func Describe(expr []byte, opts ...DescribeOption) (string, error) {
	ops, err := DescribeOps(expr, opts...)
	if err != nil {
		return "", err
	}
	texts := make([]string, len(ops))
	for i, o := range ops {
		texts[i] = o.Text
	}
	return strings.Join(texts, "; "), nil
}

func (d *describer) render(expr []byte, pc int, opcode Opcode, info opInfo) (string, int, error) {
	var sb strings.Builder
	sb.WriteString(info.name)

	for _, kind := range info.operands {
		sb.WriteByte(' ')
		switch kind {
		case opdU8, opdU16, opdU32, opdU64:
			size := fixedSize(kind)
			if pc+size > len(expr) {
				return "", 0, ErrTruncated
			}
			fmt.Fprintf(&sb, "%d", readUnsigned(expr[pc:], size))
			pc += size

		case opdS8, opdS16, opdS32, opdS64:
			size := fixedSize(kind)
			if pc+size > len(expr) {
				return "", 0, ErrTruncated
			}
			fmt.Fprintf(&sb, "%d", readSigned(expr[pc:], size))
			pc += size

		case opdAddr:
			if pc+8 > len(expr) {
				return "", 0, ErrTruncated
			}
			fmt.Fprintf(&sb, "0x%x", binary.LittleEndian.Uint64(expr[pc:]))
			pc += 8

		case opdULEB:
			v, n := leb128.DecodeULEB128(expr[pc:])
			if n == 0 {
				return "", 0, ErrTruncated
			}
			fmt.Fprintf(&sb, "%d", v)
			pc += n

		case opdSLEB:
			v, n := leb128.DecodeSLEB128(expr[pc:])
			if n == 0 {
				return "", 0, ErrTruncated
			}
			fmt.Fprintf(&sb, "%d", v)
			pc += n

		case opdBlock:
			length, n := leb128.DecodeULEB128(expr[pc:])
			if n == 0 {
				return "", 0, ErrTruncated
			}
			pc += n
			if pc+int(length) > len(expr) {
				return "", 0, ErrTruncated
			}
			fmt.Fprintf(&sb, "[% x]", expr[pc:pc+int(length)])
			pc += int(length)
		}
	}

	if d.regName != nil {
		if reg, ok := registerOf(opcode); ok {
			fmt.Fprintf(&sb, " (%s)", d.regName(reg))
		}
	}
	return sb.String(), pc, nil
}

// registerOf extracts the register an operator encodes in its opcode byte.
// Operators carrying the register as a ULEB operand (regx, bregx) render it
// numerically instead.
func registerOf(opcode Opcode) (uint64, bool) {
	switch {
	case opcode >= DW_OP_reg0 && opcode <= DW_OP_reg31:
		return uint64(opcode - DW_OP_reg0), true
	case opcode >= DW_OP_breg0 && opcode <= DW_OP_breg31:
		return uint64(opcode - DW_OP_breg0), true
	}
	return 0, false
}

func fixedSize(kind operand) int {
	switch kind {
	case opdU8, opdS8:
		return 1
	case opdU16, opdS16:
		return 2
	case opdU32, opdS32:
		return 4
	default:
		return 8
	}
}

func readUnsigned(b []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

func readSigned(b []byte, size int) int64 {
	switch size {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	default:
		return int64(binary.LittleEndian.Uint64(b))
	}
}
