// Package op evaluates DWARF location expressions: small byte-coded
// stack-machine programs that compute where a variable's bytes live at
// runtime.
//
// Evaluation is cooperative and single-threaded. The evaluator executes
// opcodes synchronously until it reaches one whose input is not immediately
// available: a register or memory read, the call-frame address, a
// thread-local base, or a nested entry-value sub-evaluation. It then
// suspends, issuing exactly one request to the injected DataProvider; the
// provider's completion callback re-enters the evaluator at the suspended
// instruction. Completions may fire synchronously inside the provider call
// or later from the caller's event loop, never concurrently from another
// goroutine. At most one request is outstanding at any moment and requests
// are issued in strict program order.
//
// Cancelling an evaluator while a request is in flight is safe: a late
// completion against a cancelled evaluator is a silent no-op.
//
// An evaluation produces one of: a memory address, a value not backed by
// memory (in a register or computed on the stack), or a composed byte
// buffer assembled from pieces, where individual pieces may be explicitly
// unknown. All malformed input (unknown opcodes, truncated operands,
// out-of-bounds branches, stack underflow, division by zero) terminates
// the evaluation with a descriptive error; the evaluator never panics on
// expression bytes.
//
// The package also decodes expressions to human-readable operator
// sequences without executing them; see Describe.
package op
