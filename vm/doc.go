// Package vm implements the small stack machine that the forth package
// compiles Forth source down to.
//
// The machine has three stacks -- a number stack for data, a loop stack for
// DO/LOOP index/limit pairs, and a scratch stack that trap handlers may use
// to shuttle values without disturbing the number stack -- plus a call
// stack for CALL/RET and a flat, append-only code array addressed by Go int.
//
// Branch opcodes (JR, JRZ) never carry an inline operand: the compiler
// always emits an LDI immediately before one, and the branch pops its
// target offset off the number stack. The offset is relative to the
// address of the branch opcode itself, not the instruction after it; see
// Machine.Run for the arithmetic.
package vm
