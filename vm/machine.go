package vm

// TrapHandler services a TRAP opcode. It runs with full access to the
// machine's stacks and may push/pop the number or scratch stack; it must
// not touch m.Code or re-enter Run.
type TrapHandler func(m *Machine) error

type loopFrame struct {
	Index int64
	Limit int64
}

// GasBudget bounds how many opcodes Run will execute before raising
// RanOutOfGas. A zero-value GasBudget (Limited == false) is unlimited.
type GasBudget struct {
	Limited bool
	Limit   uint64
}

// Unlimited is the zero-cost GasBudget that never raises RanOutOfGas.
var Unlimited = GasBudget{}

// Limited constructs a GasBudget that exhausts after n opcodes.
func Limited(n uint64) GasBudget { return GasBudget{Limited: true, Limit: n} }

// Machine is the stack VM the forth package compiles down to: a flat,
// append-only code array plus a number stack, a loop stack, a scratch
// stack, and a call stack, executed one opcode at a time under an optional
// gas budget.
type Machine struct {
	Code []Opcode

	number  []int64
	loop    []loopFrame
	scratch []int64
	calls   []int

	used  uint64
	traps map[int64]TrapHandler
	logf  func(pc int, op Opcode, number []int64)
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithTrap installs h as the handler for TRAP id.
func WithTrap(id int64, h TrapHandler) Option {
	return func(m *Machine) { m.traps[id] = h }
}

// WithTraceFunc installs a step-trace hook invoked before every opcode.
func WithTraceFunc(f func(pc int, op Opcode, number []int64)) Option {
	return func(m *Machine) { m.logf = f }
}

// New constructs a Machine with an empty code array and no trap handlers.
func New(opts ...Option) *Machine {
	m := &Machine{traps: make(map[int64]TrapHandler)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GasUsed reports the number of opcodes executed by the most recent Run.
func (m *Machine) GasUsed() uint64 { return m.used }

// NumberStack returns a copy of the number stack, bottom first.
func (m *Machine) NumberStack() []int64 {
	out := make([]int64, len(m.number))
	copy(out, m.number)
	return out
}

// ScratchStack returns a copy of the scratch stack, bottom first.
func (m *Machine) ScratchStack() []int64 {
	out := make([]int64, len(m.scratch))
	copy(out, m.scratch)
	return out
}

// ResetStacks clears the number, loop, scratch and call stacks without
// touching installed code or trap handlers.
func (m *Machine) ResetStacks() {
	m.number = m.number[:0]
	m.loop = m.loop[:0]
	m.scratch = m.scratch[:0]
	m.calls = m.calls[:0]
	m.used = 0
}

// SetTrap installs h as the handler for TRAP id, replacing any prior
// handler.
func (m *Machine) SetTrap(id int64, h TrapHandler) { m.traps[id] = h }

// SetTraceFunc installs or clears the step-trace hook invoked before every
// opcode during Run.
func (m *Machine) SetTraceFunc(f func(pc int, op Opcode, number []int64)) {
	m.logf = f
}

func (m *Machine) pushNumber(v int64) { m.number = append(m.number, v) }

func (m *Machine) popNumber() (int64, error) {
	n := len(m.number)
	if n == 0 {
		return 0, errUnderflow(NumberStackUnderflow)
	}
	v := m.number[n-1]
	m.number = m.number[:n-1]
	return v, nil
}

func (m *Machine) pushScratch(v int64) { m.scratch = append(m.scratch, v) }

func (m *Machine) popScratch() (int64, error) {
	n := len(m.scratch)
	if n == 0 {
		return 0, errUnderflow(ScratchStackUnderflow)
	}
	v := m.scratch[n-1]
	m.scratch = m.scratch[:n-1]
	return v, nil
}

func (m *Machine) pushLoop(f loopFrame) { m.loop = append(m.loop, f) }

func (m *Machine) topLoop() (*loopFrame, error) {
	n := len(m.loop)
	if n == 0 {
		return nil, errUnderflow(LoopStackUnderflow)
	}
	return &m.loop[n-1], nil
}

func (m *Machine) popLoop() error {
	n := len(m.loop)
	if n == 0 {
		return errUnderflow(LoopStackUnderflow)
	}
	m.loop = m.loop[:n-1]
	return nil
}

// PushNumber pushes v onto the number stack; exported so callers can seed
// state before Run (e.g. the driver pushing DO/LOOP bounds is done by
// compiled code, but tests and embedders may want to seed values directly).
func (m *Machine) PushNumber(v int64) { m.pushNumber(v) }

// PushScratch pushes v onto the scratch stack, for use by trap handlers and
// tests.
func (m *Machine) PushScratch(v int64) { m.pushScratch(v) }

// PopScratch pops the scratch stack, for use by trap handlers.
func (m *Machine) PopScratch() (int64, error) { return m.popScratch() }

// PopNumber pops the number stack, for use by trap handlers.
func (m *Machine) PopNumber() (int64, error) { return m.popNumber() }
