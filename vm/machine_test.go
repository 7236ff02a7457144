package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type machineCase struct {
	name    string
	code    []Opcode
	entry   int
	gas     GasBudget
	traps   map[int64]TrapHandler
	wantNum []int64
	wantErr ErrorKind
}

func (mc machineCase) run(t *testing.T) {
	m := New()
	for id, h := range mc.traps {
		m.SetTrap(id, h)
	}
	m.Code = mc.code
	err := m.Run(mc.entry, mc.gas)
	if mc.wantErr != 0 {
		require.Error(t, err)
		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, mc.wantErr, verr.Kind)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, mc.wantNum, m.NumberStack())
}

func TestMachineArithmetic(t *testing.T) {
	cases := []machineCase{
		{
			name:    "add mul",
			code:    []Opcode{LDI(123), LDI(321), Inst(OpADD), LDI(2), Inst(OpMUL), Inst(OpRET)},
			wantNum: []int64{888},
		},
		{
			name:    "sub",
			code:    []Opcode{LDI(10), LDI(4), Inst(OpSUB), Inst(OpRET)},
			wantNum: []int64{6},
		},
		{
			name:    "div by zero",
			code:    []Opcode{LDI(1), LDI(0), Inst(OpDIV), Inst(OpRET)},
			wantErr: InvalidCellOperation,
		},
		{
			name:    "not",
			code:    []Opcode{LDI(0), Inst(OpNOT), LDI(5), Inst(OpNOT), Inst(OpRET)},
			wantNum: []int64{-1, 0},
		},
		{
			name:    "underflow",
			code:    []Opcode{Inst(OpADD), Inst(OpRET)},
			wantErr: NumberStackUnderflow,
		},
	}
	for _, c := range cases {
		t.Run(c.name, c.run)
	}
}

func TestMachineStackShuffles(t *testing.T) {
	cases := []machineCase{
		{
			name:    "dup",
			code:    []Opcode{LDI(7), Inst(OpDUP), Inst(OpRET)},
			wantNum: []int64{7, 7},
		},
		{
			name:    "swap",
			code:    []Opcode{LDI(1), LDI(2), Inst(OpSWAP), Inst(OpRET)},
			wantNum: []int64{2, 1},
		},
		{
			name:    "2dup",
			code:    []Opcode{LDI(1), LDI(2), Inst(OpDUP2), Inst(OpRET)},
			wantNum: []int64{1, 2, 1, 2},
		},
		{
			name:    "2swap",
			code:    []Opcode{LDI(1), LDI(2), LDI(3), LDI(4), Inst(OpSWAP2), Inst(OpRET)},
			wantNum: []int64{3, 4, 1, 2},
		},
		{
			name:    "2over",
			code:    []Opcode{LDI(1), LDI(2), LDI(3), LDI(4), Inst(OpOVER2), Inst(OpRET)},
			wantNum: []int64{1, 2, 3, 4, 1, 2},
		},
	}
	for _, c := range cases {
		t.Run(c.name, c.run)
	}
}

func TestMachineBranches(t *testing.T) {
	// Manually encoded: if top == 0 skip the LDI(99), else fall through.
	// JRZ at pc=2 jumps to pc+off when cond==0.
	code := []Opcode{
		LDI(0),      // 0
		LDI(2),      // 1: offset operand for JRZ at pc=2
		Inst(OpJRZ), // 2
		LDI(99),     // 3 (skipped when cond == 0)
		Inst(OpRET), // 4
	}
	m := New()
	m.Code = code
	require.NoError(t, m.Run(0, Unlimited))
	assert.Equal(t, []int64{}, m.NumberStack())
}

func TestMachineCallReturn(t *testing.T) {
	// word at addr 4: DUP, RET
	code := []Opcode{
		LDI(5),       // 0
		LDI(4),       // 1: address of word
		Inst(OpCALL), // 2
		Inst(OpRET),  // 3: top-level halt
		Inst(OpDUP),  // 4: word body
		Inst(OpRET),  // 5: word return
	}
	m := New()
	m.Code = code
	require.NoError(t, m.Run(0, Unlimited))
	assert.Equal(t, []int64{5, 5}, m.NumberStack())
}

func TestMachineGas(t *testing.T) {
	code := []Opcode{Inst(OpNOP), Inst(OpNOP), Inst(OpNOP), Inst(OpRET)}
	m := New()
	m.Code = code
	err := m.Run(0, Limited(2))
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, RanOutOfGas, verr.Kind)
	assert.Equal(t, uint64(2), verr.Used)
	assert.Equal(t, uint64(2), verr.Limit)
}

func TestMachineLoopPrimitives(t *testing.T) {
	// 10 0 DO I LOOP  (hand-lowered)
	// PUSHLP pops lo then hi: stack must be [hi, lo] with lo on top.
	code := []Opcode{
		LDI(10),          // 0: hi
		LDI(0),           // 1: lo
		Inst(OpPUSHLP),   // 2
		Inst(OpGETLP),    // 3: body: push I
		Inst(OpINCLP),    // 4
		Inst(OpCMPLOOP),  // 5
		LDI(-4),          // 6: offset from pc=7 back to pc=3
		Inst(OpJRZ),      // 7
		Inst(OpDROPLP),   // 8
		Inst(OpRET),      // 9
	}
	m := New()
	m.Code = code
	require.NoError(t, m.Run(0, Limited(1000)))
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, m.NumberStack())
}

func TestMachineTrap(t *testing.T) {
	var got []int64
	code := []Opcode{
		LDI(42),
		LDI(7), // trap id
		Inst(OpTRAP),
		Inst(OpRET),
	}
	m := New(WithTrap(7, func(m *Machine) error {
		v, err := m.popNumber()
		if err != nil {
			return err
		}
		got = append(got, v)
		return nil
	}))
	m.Code = code
	require.NoError(t, m.Run(0, Unlimited))
	assert.Equal(t, []int64{42}, got)
	assert.Equal(t, []int64{}, m.NumberStack())
}

func TestMachineUnhandledTrap(t *testing.T) {
	code := []Opcode{LDI(9), Inst(OpTRAP), Inst(OpRET)}
	m := New()
	m.Code = code
	err := m.Run(0, Unlimited)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, UnhandledTrap, verr.Kind)
	assert.Equal(t, int64(9), verr.TrapID)
}
