package op

// DataProvider supplies the runtime state an expression needs: memory,
// registers, the call-frame address, the frame-base expression and the
// thread-local-storage base. It is external to this package; real
// implementations talk to a stopped process, test implementations serve
// canned state.
//
// The asynchronous methods take a completion callback instead of returning
// a value. A provider may invoke the completion synchronously, inside the
// call, when the data is at hand; or later, from the caller's event loop,
// after fetching it. Completions must never be invoked concurrently with
// the evaluator from another goroutine; the model is cooperative, not
// parallel. Each request's completion must be invoked exactly once.
type DataProvider interface {
	// ReadMemory fetches size bytes at addr.
	ReadMemory(addr uint64, size int, complete func(data []byte, err error))

	// ReadRegister fetches the value of the given DWARF register number.
	ReadRegister(reg uint64, complete func(value uint64, err error))

	// FrameBaseExpression returns the current function's frame-base
	// location expression, or an error when no frame base is available.
	// The expression itself is debug information, available synchronously;
	// evaluating it may still suspend on registers.
	FrameBaseExpression() ([]byte, error)

	// CallFrameCFA fetches the canonical frame address of the current
	// frame.
	CallFrameCFA(complete func(addr uint64, err error))

	// TLSBase fetches the thread-local-storage base of the current
	// thread.
	TLSBase(complete func(base uint64, err error))

	// EntryProvider returns a provider representing the register and
	// memory state at the current function's call entry, used by
	// entry-value sub-evaluations. It returns nil when that state is
	// unavailable.
	EntryProvider() DataProvider
}
