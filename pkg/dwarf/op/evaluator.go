package op

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reeflab/reef/pkg/dwarf/leb128"
	"github.com/reeflab/reef/pkg/dwarf/symbolic"
)

// State tracks an evaluator through its lifecycle. Running is re-entered
// after every suspension.
type State int

const (
	NotStarted State = iota
	Running
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return "invalid"
	}
}

type pieceKind int

const (
	pieceAddress pieceKind = iota
	pieceRegister
	pieceValue
	pieceImplicit
	pieceUndefined
)

// piece is one named contributor to a composed result, recorded when a
// DW_OP_piece operator consumes the location description before it.
type piece struct {
	kind     pieceKind
	size     int
	addr     uint64
	value    uint64
	register uint64
	bytes    []byte
}

// Evaluator is a single-use stack machine for one expression. It is not
// safe for concurrent use; the cooperative model runs it on one goroutine
// only.
type Evaluator struct {
	logger    zerolog.Logger
	id        string
	expr      []byte
	source    *symbolic.Expr
	provider  DataProvider
	debugAddr []byte

	state State
	pc    int
	stack []uint64

	pieces       []piece
	implicit     []byte
	isStackValue bool
	regSource    uint64
	regValid     bool

	// noFrameBase marks frame-base sub-evaluations, where a nested
	// DW_OP_fbreg would recurse forever.
	noFrameBase bool

	suspended bool
	running   bool
	cancelled bool
	sub       *Evaluator

	composeIdx int
	composed   []byte
	unknown    []Span

	complete func(Result, error)
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger attaches a logger; evaluation steps are traced at debug
// level.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// WithSource attaches the owning symbolic expression, giving the addrx and
// constx operators access to the owning compile unit's address-table base.
func WithSource(source *symbolic.Expr) Option {
	return func(e *Evaluator) { e.source = source }
}

// WithDebugAddr supplies the module's address table, consumed by addrx and
// constx together with the owning compile unit's base offset.
func WithDebugAddr(table []byte) Option {
	return func(e *Evaluator) { e.debugAddr = table }
}

// New returns an evaluator for the given expression bytes. The provider
// supplies registers, memory and frame state during the run.
func New(expr []byte, provider DataProvider, opts ...Option) *Evaluator {
	e := &Evaluator{
		logger:   zerolog.Nop(),
		id:       uuid.NewString(),
		expr:     expr,
		provider: provider,
		state:    NotStarted,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "expr-evaluator").Str("evaluation", e.id).Logger()
	return e
}

// NewForExpr returns an evaluator for a symbolic expression, wiring its
// owning symbol as the source for addrx/constx resolution.
func NewForExpr(expr *symbolic.Expr, provider DataProvider, opts ...Option) *Evaluator {
	opts = append([]Option{WithSource(expr)}, opts...)
	return New(expr.Bytes, provider, opts...)
}

// State returns the evaluator's lifecycle state.
func (e *Evaluator) State() State { return e.state }

// Run starts the evaluation. The completion callback is invoked exactly
// once with the result or an error: synchronously when the expression
// needs no external data, otherwise after the last outstanding request
// completes. Run must be called at most once.
func (e *Evaluator) Run(complete func(Result, error)) {
	if e.cancelled {
		complete(Result{}, ErrCancelled)
		return
	}
	if e.state != NotStarted {
		complete(Result{}, fmt.Errorf("evaluator already started (state %s)", e.state))
		return
	}
	e.complete = complete
	e.state = Running
	e.logger.Debug().Int("bytes", len(e.expr)).Msg("evaluation started")
	e.resume()
}

// Cancel abandons the evaluation. Any in-flight request's completion
// becomes a silent no-op; the Run callback is never invoked after Cancel.
// Cancel is idempotent.
func (e *Evaluator) Cancel() {
	if e.state == Complete && !e.cancelled {
		e.cancelled = true
		return
	}
	e.cancelled = true
	e.state = Complete
	e.complete = nil
	if e.sub != nil {
		e.sub.Cancel()
		e.sub = nil
	}
}

// resume drives the interpreter loop. It trampolines: a completion firing
// synchronously inside a provider call clears the suspension and returns,
// letting the already-active loop continue instead of recursing.
func (e *Evaluator) resume() {
	if e.running {
		return
	}
	e.running = true
	for e.state == Running && !e.suspended {
		if e.pc < len(e.expr) {
			e.step()
		} else {
			e.finish()
		}
	}
	e.running = false
}

func (e *Evaluator) fail(err error) {
	if e.state == Complete {
		return
	}
	e.state = Complete
	cb := e.complete
	e.complete = nil
	e.logger.Debug().Err(err).Msg("evaluation failed")
	if cb != nil && !e.cancelled {
		cb(Result{}, err)
	}
}

func (e *Evaluator) deliver(res Result) {
	if e.state == Complete {
		return
	}
	e.state = Complete
	cb := e.complete
	e.complete = nil
	e.logger.Debug().Str("kind", res.Kind.String()).Msg("evaluation complete")
	if cb != nil && !e.cancelled {
		cb(res, nil)
	}
}

// live reports whether a request completion should still be applied.
func (e *Evaluator) live() bool {
	return !e.cancelled && e.state == Running
}

func (e *Evaluator) push(v uint64) {
	e.stack = append(e.stack, v)
}

func (e *Evaluator) pop() (uint64, bool) {
	if len(e.stack) == 0 {
		return 0, false
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, true
}

// pop2 pops the top two entries, returning (second, top).
func (e *Evaluator) pop2() (uint64, uint64, bool) {
	if len(e.stack) < 2 {
		return 0, 0, false
	}
	top := e.stack[len(e.stack)-1]
	second := e.stack[len(e.stack)-2]
	e.stack = e.stack[:len(e.stack)-2]
	return second, top, true
}

// Operand readers. Each reports failure when the operand runs past the end
// of the expression.

func (e *Evaluator) operandBytes(n int) ([]byte, bool) {
	if e.pc+n > len(e.expr) {
		return nil, false
	}
	b := e.expr[e.pc : e.pc+n]
	e.pc += n
	return b, true
}

func (e *Evaluator) operandULEB() (uint64, bool) {
	v, n := leb128.DecodeULEB128(e.expr[e.pc:])
	if n == 0 {
		return 0, false
	}
	e.pc += n
	return v, true
}

func (e *Evaluator) operandSLEB() (int64, bool) {
	v, n := leb128.DecodeSLEB128(e.expr[e.pc:])
	if n == 0 {
		return 0, false
	}
	e.pc += n
	return v, true
}

func (e *Evaluator) truncated(opcode Opcode, at int) {
	e.fail(fmt.Errorf("%s at offset %d: %w", opcode, at, ErrTruncated))
}

func (e *Evaluator) underflow(opcode Opcode, at int) {
	e.fail(fmt.Errorf("%s at offset %d: %w", opcode, at, ErrStackUnderflow))
}

// step executes the single opcode at the program counter, possibly leaving
// the evaluator suspended on a provider request.
func (e *Evaluator) step() {
	at := e.pc
	opcode := Opcode(e.expr[e.pc])
	e.pc++

	// A bare register read only survives as the result's register source
	// when nothing but DW_OP_stack_value or DW_OP_piece follows it.
	if opcode != DW_OP_stack_value && opcode != DW_OP_piece {
		e.regValid = false
	}

	switch {
	case opcode >= DW_OP_lit0 && opcode <= DW_OP_lit31:
		e.push(uint64(opcode - DW_OP_lit0))

	case opcode >= DW_OP_reg0 && opcode <= DW_OP_reg31:
		e.readRegisterLocation(uint64(opcode - DW_OP_reg0))

	case opcode >= DW_OP_breg0 && opcode <= DW_OP_breg31:
		offset, ok := e.operandSLEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		e.readRegisterBased(uint64(opcode-DW_OP_breg0), offset)

	default:
		e.stepNamed(opcode, at)
	}
}

func (e *Evaluator) stepNamed(opcode Opcode, at int) {
	switch opcode {
	case DW_OP_nop:

	case DW_OP_addr:
		b, ok := e.operandBytes(8)
		if !ok {
			e.truncated(opcode, at)
			return
		}
		e.push(binary.LittleEndian.Uint64(b))

	case DW_OP_const1u, DW_OP_const1s, DW_OP_const2u, DW_OP_const2s,
		DW_OP_const4u, DW_OP_const4s, DW_OP_const8u, DW_OP_const8s:
		e.pushFixedConst(opcode, at)

	case DW_OP_constu:
		v, ok := e.operandULEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		e.push(v)

	case DW_OP_consts:
		v, ok := e.operandSLEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		e.push(uint64(v))

	case DW_OP_regx:
		n, ok := e.operandULEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		e.readRegisterLocation(n)

	case DW_OP_bregx:
		n, ok := e.operandULEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		offset, ok := e.operandSLEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		e.readRegisterBased(n, offset)

	case DW_OP_fbreg:
		offset, ok := e.operandSLEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		e.pushFrameBase(offset)

	case DW_OP_call_frame_cfa:
		e.suspended = true
		e.provider.CallFrameCFA(func(addr uint64, err error) {
			if !e.live() {
				return
			}
			if err != nil {
				e.fail(fmt.Errorf("call frame cfa: %w", err))
				return
			}
			e.push(addr)
			e.suspended = false
			e.resume()
		})

	case DW_OP_form_tls_address, DW_OP_GNU_push_tls_address:
		v, ok := e.pop()
		if !ok {
			e.underflow(opcode, at)
			return
		}
		e.suspended = true
		e.provider.TLSBase(func(base uint64, err error) {
			if !e.live() {
				return
			}
			if err != nil {
				e.fail(fmt.Errorf("tls base: %w", err))
				return
			}
			e.push(base + v)
			e.suspended = false
			e.resume()
		})

	case DW_OP_deref:
		e.deref(opcode, at, 8)

	case DW_OP_deref_size:
		b, ok := e.operandBytes(1)
		if !ok {
			e.truncated(opcode, at)
			return
		}
		size := int(b[0])
		if size < 1 || size > 8 {
			e.fail(fmt.Errorf("%s at offset %d: invalid size %d", opcode, at, size))
			return
		}
		e.deref(opcode, at, size)

	case DW_OP_addrx, DW_OP_constx:
		index, ok := e.operandULEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		v, err := e.addressTableEntry(opcode, index)
		if err != nil {
			e.fail(err)
			return
		}
		e.push(v)

	case DW_OP_dup:
		if len(e.stack) == 0 {
			e.underflow(opcode, at)
			return
		}
		e.push(e.stack[len(e.stack)-1])

	case DW_OP_drop:
		if _, ok := e.pop(); !ok {
			e.underflow(opcode, at)
		}

	case DW_OP_over:
		if len(e.stack) < 2 {
			e.underflow(opcode, at)
			return
		}
		e.push(e.stack[len(e.stack)-2])

	case DW_OP_pick:
		b, ok := e.operandBytes(1)
		if !ok {
			e.truncated(opcode, at)
			return
		}
		n := int(b[0])
		if n >= len(e.stack) {
			e.underflow(opcode, at)
			return
		}
		e.push(e.stack[len(e.stack)-1-n])

	case DW_OP_swap:
		if len(e.stack) < 2 {
			e.underflow(opcode, at)
			return
		}
		last := len(e.stack) - 1
		e.stack[last], e.stack[last-1] = e.stack[last-1], e.stack[last]

	case DW_OP_rot:
		if len(e.stack) < 3 {
			e.underflow(opcode, at)
			return
		}
		last := len(e.stack) - 1
		top, second, third := e.stack[last], e.stack[last-1], e.stack[last-2]
		e.stack[last], e.stack[last-1], e.stack[last-2] = second, third, top

	case DW_OP_abs, DW_OP_neg, DW_OP_not:
		v, ok := e.pop()
		if !ok {
			e.underflow(opcode, at)
			return
		}
		switch opcode {
		case DW_OP_abs:
			if s := int64(v); s < 0 {
				v = uint64(-s)
			}
		case DW_OP_neg:
			v = uint64(-int64(v))
		case DW_OP_not:
			v = ^v
		}
		e.push(v)

	case DW_OP_plus_uconst:
		addend, ok := e.operandULEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		v, ok := e.pop()
		if !ok {
			e.underflow(opcode, at)
			return
		}
		e.push(v + addend)

	case DW_OP_and, DW_OP_or, DW_OP_xor, DW_OP_plus, DW_OP_minus, DW_OP_mul,
		DW_OP_div, DW_OP_mod, DW_OP_shl, DW_OP_shr, DW_OP_shra:
		a, b, ok := e.pop2()
		if !ok {
			e.underflow(opcode, at)
			return
		}
		v, err := binaryOp(opcode, a, b)
		if err != nil {
			e.fail(fmt.Errorf("%s at offset %d: %w", opcode, at, err))
			return
		}
		e.push(v)

	case DW_OP_eq, DW_OP_ne, DW_OP_lt, DW_OP_le, DW_OP_gt, DW_OP_ge:
		a, b, ok := e.pop2()
		if !ok {
			e.underflow(opcode, at)
			return
		}
		if compareOp(opcode, int64(a), int64(b)) {
			e.push(1)
		} else {
			e.push(0)
		}

	case DW_OP_skip:
		e.branch(opcode, at, true)

	case DW_OP_bra:
		e.branch(opcode, at, false)

	case DW_OP_stack_value:
		if len(e.stack) == 0 {
			e.underflow(opcode, at)
			return
		}
		e.isStackValue = true

	case DW_OP_implicit_value:
		block, ok := e.operandBlock()
		if !ok {
			e.fail(fmt.Errorf("%s at offset %d: bad block length: %w", opcode, at, ErrTruncated))
			return
		}
		e.implicit = block

	case DW_OP_entry_value, DW_OP_GNU_entry_value:
		block, ok := e.operandBlock()
		if !ok {
			e.fail(fmt.Errorf("%s at offset %d: bad block length: %w", opcode, at, ErrTruncated))
			return
		}
		e.evalEntryValue(block)

	case DW_OP_piece:
		size, ok := e.operandULEB()
		if !ok {
			e.truncated(opcode, at)
			return
		}
		e.addPiece(int(size))

	default:
		e.fail(&UnknownOpcodeError{Opcode: byte(opcode), Offset: at})
	}
}

func (e *Evaluator) pushFixedConst(opcode Opcode, at int) {
	var size int
	var signed bool
	switch opcode {
	case DW_OP_const1u:
		size, signed = 1, false
	case DW_OP_const1s:
		size, signed = 1, true
	case DW_OP_const2u:
		size, signed = 2, false
	case DW_OP_const2s:
		size, signed = 2, true
	case DW_OP_const4u:
		size, signed = 4, false
	case DW_OP_const4s:
		size, signed = 4, true
	case DW_OP_const8u:
		size, signed = 8, false
	case DW_OP_const8s:
		size, signed = 8, true
	}
	b, ok := e.operandBytes(size)
	if !ok {
		e.truncated(opcode, at)
		return
	}
	var v uint64
	switch size {
	case 1:
		v = uint64(b[0])
		if signed {
			v = uint64(int64(int8(b[0])))
		}
	case 2:
		v = uint64(binary.LittleEndian.Uint16(b))
		if signed {
			v = uint64(int64(int16(binary.LittleEndian.Uint16(b))))
		}
	case 4:
		v = uint64(binary.LittleEndian.Uint32(b))
		if signed {
			v = uint64(int64(int32(binary.LittleEndian.Uint32(b))))
		}
	case 8:
		v = binary.LittleEndian.Uint64(b)
	}
	e.push(v)
}

// operandBlock reads a ULEB length followed by that many bytes.
func (e *Evaluator) operandBlock() ([]byte, bool) {
	length, ok := e.operandULEB()
	if !ok {
		return nil, false
	}
	return e.operandBytes(int(length))
}

func (e *Evaluator) branch(opcode Opcode, at int, unconditional bool) {
	b, ok := e.operandBytes(2)
	if !ok {
		e.truncated(opcode, at)
		return
	}
	offset := int16(binary.LittleEndian.Uint16(b))

	if !unconditional {
		v, ok := e.pop()
		if !ok {
			e.underflow(opcode, at)
			return
		}
		if v == 0 {
			return
		}
	}

	target := e.pc + int(offset)
	if target < 0 || target > len(e.expr) {
		e.fail(fmt.Errorf("%s at offset %d targets %d: %w", opcode, at, target, ErrBranchOutOfBounds))
		return
	}
	e.pc = target
}

// readRegisterLocation handles DW_OP_regN/regx: the variable lives in the
// register itself. The fetched value is pushed and the register recorded as
// the result's source; any following operator other than stack_value or
// piece demotes it to a plain stack entry.
func (e *Evaluator) readRegisterLocation(reg uint64) {
	e.suspended = true
	e.provider.ReadRegister(reg, func(value uint64, err error) {
		if !e.live() {
			return
		}
		if err != nil {
			e.fail(fmt.Errorf("read register %d: %w", reg, err))
			return
		}
		e.push(value)
		e.regSource = reg
		e.regValid = true
		e.suspended = false
		e.resume()
	})
}

// readRegisterBased handles DW_OP_bregN/bregx: register value plus offset,
// producing an address.
func (e *Evaluator) readRegisterBased(reg uint64, offset int64) {
	e.suspended = true
	e.provider.ReadRegister(reg, func(value uint64, err error) {
		if !e.live() {
			return
		}
		if err != nil {
			e.fail(fmt.Errorf("read register %d: %w", reg, err))
			return
		}
		e.push(value + uint64(offset))
		e.suspended = false
		e.resume()
	})
}

func (e *Evaluator) deref(opcode Opcode, at int, size int) {
	addr, ok := e.pop()
	if !ok {
		e.underflow(opcode, at)
		return
	}
	e.suspended = true
	e.provider.ReadMemory(addr, size, func(data []byte, err error) {
		if !e.live() {
			return
		}
		if err != nil {
			e.fail(fmt.Errorf("read %d bytes at 0x%x: %w", size, addr, err))
			return
		}
		if len(data) < size {
			e.fail(fmt.Errorf("read %d bytes at 0x%x: short read of %d", size, addr, len(data)))
			return
		}
		var buf [8]byte
		copy(buf[:], data[:size])
		e.push(binary.LittleEndian.Uint64(buf[:]))
		e.suspended = false
		e.resume()
	})
}

// pushFrameBase evaluates the provider's frame-base expression in a nested
// evaluation and pushes its result plus offset.
func (e *Evaluator) pushFrameBase(offset int64) {
	if e.noFrameBase {
		e.fail(fmt.Errorf("DW_OP_fbreg inside a frame-base expression"))
		return
	}
	fb, err := e.provider.FrameBaseExpression()
	if err != nil {
		e.fail(fmt.Errorf("frame base: %w", err))
		return
	}

	sub := New(fb, e.provider, WithLogger(e.logger), WithDebugAddr(e.debugAddr))
	sub.source = e.source
	sub.noFrameBase = true
	e.sub = sub
	e.suspended = true
	sub.Run(func(res Result, err error) {
		if !e.live() {
			return
		}
		e.sub = nil
		if err != nil {
			e.fail(fmt.Errorf("frame base: %w", err))
			return
		}
		base, ok := scalarOf(res)
		if !ok {
			e.fail(fmt.Errorf("frame base: composite result"))
			return
		}
		e.push(base + uint64(offset))
		e.suspended = false
		e.resume()
	})
}

// evalEntryValue evaluates the nested block against the provider's
// call-entry state and pushes the sub-result.
func (e *Evaluator) evalEntryValue(block []byte) {
	entry := e.provider.EntryProvider()
	if entry == nil {
		e.fail(fmt.Errorf("entry value: no call-entry state available"))
		return
	}

	sub := New(block, entry, WithLogger(e.logger), WithDebugAddr(e.debugAddr))
	sub.source = e.source
	e.sub = sub
	e.suspended = true
	sub.Run(func(res Result, err error) {
		if !e.live() {
			return
		}
		e.sub = nil
		if err != nil {
			e.fail(fmt.Errorf("entry value: %w", err))
			return
		}
		v, ok := scalarOf(res)
		if !ok {
			e.fail(fmt.Errorf("entry value: composite result"))
			return
		}
		e.push(v)
		e.suspended = false
		e.resume()
	})
}

// scalarOf folds a sub-evaluation result into a single stack entry.
func scalarOf(res Result) (uint64, bool) {
	switch res.Kind {
	case KindAddress:
		return res.Address, true
	case KindValue:
		return res.Value, true
	default:
		return 0, false
	}
}

// addressTableEntry resolves an addrx/constx index through the owning
// compile unit's address-table base.
func (e *Evaluator) addressTableEntry(opcode Opcode, index uint64) (uint64, error) {
	if e.source == nil {
		return 0, fmt.Errorf("%s: expression has no owning symbol", opcode)
	}
	cu, ok := e.source.CompileUnit()
	if !ok {
		return 0, fmt.Errorf("%s: owning symbol has no compile unit", opcode)
	}
	if e.debugAddr == nil {
		return 0, fmt.Errorf("%s: no address table supplied", opcode)
	}
	tableLen := uint64(len(e.debugAddr))
	// Check the index against the remaining table before multiplying so a
	// hostile ULEB index cannot wrap the offset back in bounds.
	if cu.AddrBase > tableLen || index >= (tableLen-cu.AddrBase)/8 {
		return 0, fmt.Errorf("%s: index %d outside address table", opcode, index)
	}
	offset := cu.AddrBase + index*8
	return binary.LittleEndian.Uint64(e.debugAddr[offset : offset+8]), nil
}

// addPiece consumes the pending location description as one piece of a
// composite result.
func (e *Evaluator) addPiece(size int) {
	p := piece{size: size}
	switch {
	case e.regValid:
		v, _ := e.pop()
		p.kind = pieceRegister
		p.value = v
		p.register = e.regSource
	case e.implicit != nil:
		p.kind = pieceImplicit
		p.bytes = e.implicit
	case e.isStackValue:
		v, _ := e.pop()
		p.kind = pieceValue
		p.value = v
	case len(e.stack) > 0:
		v, _ := e.pop()
		p.kind = pieceAddress
		p.addr = v
	default:
		p.kind = pieceUndefined
	}
	e.pieces = append(e.pieces, p)

	e.regValid = false
	e.isStackValue = false
	e.implicit = nil
}

// finish runs once the program counter passes the end of the expression:
// either composing the recorded pieces (which may suspend on memory reads)
// or delivering the scalar result.
func (e *Evaluator) finish() {
	if len(e.pieces) > 0 {
		e.composeStep()
		return
	}

	if e.implicit != nil {
		e.deliver(Result{Kind: KindData, Data: e.implicit})
		return
	}

	top, ok := e.pop()
	if !ok {
		e.fail(ErrNoResult)
		return
	}

	switch {
	case e.isStackValue:
		e.deliver(Result{Kind: KindValue, Value: top})
	case e.regValid:
		e.deliver(Result{Kind: KindValue, Value: top, Register: e.regSource, HasRegister: true})
	default:
		e.deliver(Result{Kind: KindAddress, Address: top})
	}
}

// composeStep appends the next piece to the composed buffer. Address pieces
// suspend on a memory read; everything else is appended synchronously.
func (e *Evaluator) composeStep() {
	if e.composeIdx == len(e.pieces) {
		e.deliver(Result{Kind: KindData, Data: e.composed, Unknown: e.unknown})
		return
	}

	p := e.pieces[e.composeIdx]
	e.composeIdx++

	switch p.kind {
	case pieceAddress:
		e.suspended = true
		e.provider.ReadMemory(p.addr, p.size, func(data []byte, err error) {
			if !e.live() {
				return
			}
			if err != nil {
				e.fail(fmt.Errorf("piece of %d bytes at 0x%x: %w", p.size, p.addr, err))
				return
			}
			if len(data) < p.size {
				e.fail(fmt.Errorf("piece of %d bytes at 0x%x: short read of %d", p.size, p.addr, len(data)))
				return
			}
			e.composed = append(e.composed, data[:p.size]...)
			e.suspended = false
			e.resume()
		})

	case pieceRegister, pieceValue:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], p.value)
		e.composed = appendSized(e.composed, buf[:], p.size)

	case pieceImplicit:
		e.composed = appendSized(e.composed, p.bytes, p.size)

	case pieceUndefined:
		// Unknown, not zero: the span records that these bytes carry no
		// information.
		e.unknown = append(e.unknown, Span{Offset: len(e.composed), Size: p.size})
		e.composed = append(e.composed, make([]byte, p.size)...)
	}
}

// appendSized appends exactly size bytes of src, zero-padding when src is
// shorter.
func appendSized(dst, src []byte, size int) []byte {
	if len(src) >= size {
		return append(dst, src[:size]...)
	}
	dst = append(dst, src...)
	return append(dst, make([]byte, size-len(src))...)
}

// binaryOp applies an arithmetic or bitwise operator to (second, top).
// Division is signed two's-complement; modulo is unsigned; division or
// modulo by zero is a hard evaluation error.
func binaryOp(opcode Opcode, a, b uint64) (uint64, error) {
	switch opcode {
	case DW_OP_and:
		return a & b, nil
	case DW_OP_or:
		return a | b, nil
	case DW_OP_xor:
		return a ^ b, nil
	case DW_OP_plus:
		return a + b, nil
	case DW_OP_minus:
		return a - b, nil
	case DW_OP_mul:
		return a * b, nil
	case DW_OP_div:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		sa, sb := int64(a), int64(b)
		if sb == -1 && sa == -sa {
			// MinInt64 / -1 wraps in two's complement.
			return uint64(sa), nil
		}
		return uint64(sa / sb), nil
	case DW_OP_mod:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a % b, nil
	case DW_OP_shl:
		if b >= 64 {
			return 0, nil
		}
		return a << b, nil
	case DW_OP_shr:
		if b >= 64 {
			return 0, nil
		}
		return a >> b, nil
	case DW_OP_shra:
		if b >= 64 {
			b = 63
		}
		return uint64(int64(a) >> b), nil
	default:
		return 0, fmt.Errorf("not a binary operator: %s", opcode)
	}
}

// compareOp applies a relational operator to (second, top) as signed
// machine words.
func compareOp(opcode Opcode, a, b int64) bool {
	switch opcode {
	case DW_OP_eq:
		return a == b
	case DW_OP_ne:
		return a != b
	case DW_OP_lt:
		return a < b
	case DW_OP_le:
		return a <= b
	case DW_OP_gt:
		return a > b
	case DW_OP_ge:
		return a >= b
	default:
		return false
	}
}
