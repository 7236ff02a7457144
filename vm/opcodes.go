package vm

import "strconv"

// Op names an opcode's operation. Only OpLDI carries an immediate operand
// (Opcode.Imm); every other opcode ignores it.
type Op uint8

// Opcode set. Branch opcodes (OpJR, OpJRZ) never carry an inline operand:
// the compiler always emits an OpLDI immediately before one, and the branch
// pops its target offset off the number stack.
const (
	OpNOP Op = iota
	OpLDI        // push Imm
	OpADD        // a,b -> a+b
	OpSUB        // a,b -> a-b
	OpMUL        // a,b -> a*b
	OpDIV        // a,b -> a/b (truncating)
	OpNOT        // a -> (a==0 ? -1 : 0)
	OpDUP        // a -> a,a
	OpDUP2       // a,b -> a,b,a,b
	OpDROP       // a ->
	OpPOP        // a -> (distinct opcode, same effect as OpDROP)
	OpSWAP       // a,b -> b,a
	OpSWAP2      // a,b,c,d -> c,d,a,b
	OpOVER2      // a,b,c,d -> a,b,c,d,a,b
	OpJR         // offset popped from number stack; unconditional relative jump
	OpJRZ        // cond popped; relative jump if cond == 0
	OpCALL       // addr popped from number stack; call
	OpRET        // return; RET at call depth 0 halts execution
	OpTRAP       // id popped from number stack; dispatch to a trap handler
	OpPUSHLP     // lo,hi popped; push loop frame {index: lo, limit: hi}
	OpDROPLP     // discard the innermost loop frame
	OpINCLP      // innermost loop frame's index += 1
	OpADDLP      // step popped; innermost loop frame's index += step
	OpCMPLOOP    // push -1 if innermost loop's index has reached its limit, else 0
	OpGETLP      // push innermost loop frame's index (Forth I)
	OpGETLP2     // push the second-innermost loop frame's index (Forth J)

	opCount
)

var opNames = [opCount]string{
	OpNOP:     "NOP",
	OpLDI:     "LDI",
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpMUL:     "MUL",
	OpDIV:     "DIV",
	OpNOT:     "NOT",
	OpDUP:     "DUP",
	OpDUP2:    "DUP2",
	OpDROP:    "DROP",
	OpPOP:     "POP",
	OpSWAP:    "SWAP",
	OpSWAP2:   "SWAP2",
	OpOVER2:   "OVER2",
	OpJR:      "JR",
	OpJRZ:     "JRZ",
	OpCALL:    "CALL",
	OpRET:     "RET",
	OpTRAP:    "TRAP",
	OpPUSHLP:  "PUSHLP",
	OpDROPLP:  "DROPLP",
	OpINCLP:   "INCLP",
	OpADDLP:   "ADDLP",
	OpCMPLOOP: "CMPLOOP",
	OpGETLP:   "GETLP",
	OpGETLP2:  "GETLP2",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "INVALID"
}

// Opcode is the tagged value the compiler emits and the machine executes.
type Opcode struct {
	Op  Op
	Imm int64
}

// LDI constructs a push-immediate opcode.
func LDI(n int64) Opcode { return Opcode{Op: OpLDI, Imm: n} }

// Inst constructs a no-immediate opcode for any Op other than OpLDI.
func Inst(op Op) Opcode { return Opcode{Op: op} }

func (c Opcode) String() string {
	if c.Op == OpLDI {
		return c.Op.String() + "(" + strconv.FormatInt(c.Imm, 10) + ")"
	}
	return c.Op.String()
}
