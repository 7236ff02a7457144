package vm

// Run executes the code array starting at entry until an OpRET is reached
// at call depth zero, or until an error is raised (stack underflow, an
// unhandled TRAP, gas exhaustion, or an out-of-range program counter).
//
// Branch opcodes are always preceded by the LDI that pushed their offset;
// the offset is relative to the branch opcode's own address, matching the
// compiler's "instruction after the LDI" reference point.
func (m *Machine) Run(entry int, gas GasBudget) error {
	m.used = 0
	m.calls = m.calls[:0]
	pc := entry

	for {
		if pc < 0 || pc >= len(m.Code) {
			return errInvalidCell("program counter out of range")
		}
		if gas.Limited && m.used >= gas.Limit {
			return errOutOfGas(m.used, gas.Limit)
		}

		op := m.Code[pc]
		if m.logf != nil {
			m.logf(pc, op, m.number)
		}
		m.used++
		next := pc + 1

		switch op.Op {
		case OpNOP:
			// no-op

		case OpLDI:
			m.pushNumber(op.Imm)

		case OpADD, OpSUB, OpMUL, OpDIV:
			b, err := m.popNumber()
			if err != nil {
				return err
			}
			a, err := m.popNumber()
			if err != nil {
				return err
			}
			switch op.Op {
			case OpADD:
				m.pushNumber(a + b)
			case OpSUB:
				m.pushNumber(a - b)
			case OpMUL:
				m.pushNumber(a * b)
			case OpDIV:
				if b == 0 {
					return errInvalidCell("division by zero")
				}
				m.pushNumber(a / b)
			}

		case OpNOT:
			a, err := m.popNumber()
			if err != nil {
				return err
			}
			if a == 0 {
				m.pushNumber(-1)
			} else {
				m.pushNumber(0)
			}

		case OpDUP:
			a, err := m.popNumber()
			if err != nil {
				return err
			}
			m.pushNumber(a)
			m.pushNumber(a)

		case OpDUP2:
			n := len(m.number)
			if n < 2 {
				return errUnderflow(NumberStackUnderflow)
			}
			a, b := m.number[n-2], m.number[n-1]
			m.pushNumber(a)
			m.pushNumber(b)

		case OpDROP, OpPOP:
			if _, err := m.popNumber(); err != nil {
				return err
			}

		case OpSWAP:
			n := len(m.number)
			if n < 2 {
				return errUnderflow(NumberStackUnderflow)
			}
			m.number[n-2], m.number[n-1] = m.number[n-1], m.number[n-2]

		case OpSWAP2:
			n := len(m.number)
			if n < 4 {
				return errUnderflow(NumberStackUnderflow)
			}
			a, b, c, d := m.number[n-4], m.number[n-3], m.number[n-2], m.number[n-1]
			m.number[n-4], m.number[n-3], m.number[n-2], m.number[n-1] = c, d, a, b

		case OpOVER2:
			n := len(m.number)
			if n < 4 {
				return errUnderflow(NumberStackUnderflow)
			}
			a, b := m.number[n-4], m.number[n-3]
			m.pushNumber(a)
			m.pushNumber(b)

		case OpJR:
			off, err := m.popNumber()
			if err != nil {
				return err
			}
			next = pc + int(off)

		case OpJRZ:
			off, err := m.popNumber()
			if err != nil {
				return err
			}
			cond, err := m.popNumber()
			if err != nil {
				return err
			}
			if cond == 0 {
				next = pc + int(off)
			}

		case OpCALL:
			addr, err := m.popNumber()
			if err != nil {
				return err
			}
			m.calls = append(m.calls, next)
			next = int(addr)

		case OpRET:
			n := len(m.calls)
			if n == 0 {
				return nil
			}
			next = m.calls[n-1]
			m.calls = m.calls[:n-1]

		case OpTRAP:
			id, err := m.popNumber()
			if err != nil {
				return err
			}
			h, ok := m.traps[id]
			if !ok {
				return errUnhandledTrap(id)
			}
			if err := h(m); err != nil {
				return err
			}

		case OpPUSHLP:
			lo, err := m.popNumber()
			if err != nil {
				return err
			}
			hi, err := m.popNumber()
			if err != nil {
				return err
			}
			m.pushLoop(loopFrame{Index: lo, Limit: hi})

		case OpDROPLP:
			if err := m.popLoop(); err != nil {
				return err
			}

		case OpINCLP:
			f, err := m.topLoop()
			if err != nil {
				return err
			}
			f.Index++

		case OpADDLP:
			step, err := m.popNumber()
			if err != nil {
				return err
			}
			f, err := m.topLoop()
			if err != nil {
				return err
			}
			f.Index += step

		case OpCMPLOOP:
			f, err := m.topLoop()
			if err != nil {
				return err
			}
			if f.Index >= f.Limit {
				m.pushNumber(-1)
			} else {
				m.pushNumber(0)
			}

		case OpGETLP:
			f, err := m.topLoop()
			if err != nil {
				return err
			}
			m.pushNumber(f.Index)

		case OpGETLP2:
			n := len(m.loop)
			if n < 2 {
				return errUnderflow(LoopStackUnderflow)
			}
			m.pushNumber(m.loop[n-2].Index)

		default:
			return errInvalidCell("unrecognized opcode")
		}

		pc = next
	}
}
