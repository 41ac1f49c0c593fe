package op

import (
	"errors"
	"fmt"
)

// ResultKind classifies what an evaluation produced.
type ResultKind int

const (
	// KindAddress means the result is a memory address: the variable's
	// bytes live in the debuggee at Result.Address.
	KindAddress ResultKind = iota
	// KindValue means the result is the value itself, not backed by
	// memory: a DW_OP_stack_value computation or a bare register read.
	KindValue
	// KindData means the result is a byte buffer composed from pieces or
	// embedded in the expression, with possibly-unknown spans.
	KindData
)

func (k ResultKind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindValue:
		return "value"
	case KindData:
		return "data"
	default:
		return "invalid"
	}
}

// Span marks a byte range of a composed result whose contents are
// undefined. The bytes under a span are zero in Result.Data but carry no
// information.
type Span struct {
	Offset int
	Size   int
}

// Result is the outcome of a successful evaluation.
type Result struct {
	Kind ResultKind

	// Address is set for KindAddress.
	Address uint64

	// Value is set for KindValue.
	Value uint64
	// Register names the source register when a KindValue result is a
	// bare register read; HasRegister distinguishes register zero from
	// "no register".
	Register    uint64
	HasRegister bool

	// Data and Unknown are set for KindData.
	Data    []byte
	Unknown []Span
}

// Evaluation-fatal errors callers may want to match on.
var (
	// ErrNoResult is reported when an expression terminates having pushed
	// nothing.
	ErrNoResult = errors.New("expression produced no result")
	// ErrDivideByZero is reported for division or modulo by zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrStackUnderflow is reported when an operator needs more stack
	// entries than are available.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrBranchOutOfBounds is reported when skip or bra targets an offset
	// before the start or past the end of the expression.
	ErrBranchOutOfBounds = errors.New("branch out of bounds")
	// ErrTruncated is reported when an operand extends past the end of
	// the expression.
	ErrTruncated = errors.New("truncated operand")
	// ErrCancelled is reported internally when an evaluator is cancelled;
	// the completion callback is never invoked with it.
	ErrCancelled = errors.New("evaluation cancelled")
)

// UnknownOpcodeError identifies the offending byte of an unrecognized
// operator.
type UnknownOpcodeError struct {
	Opcode byte
	Offset int
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unrecognized opcode 0x%02x at offset %d", e.Opcode, e.Offset)
}
