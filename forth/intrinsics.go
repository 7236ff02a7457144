package forth

import "github.com/tsorensen/forthc/vm"

// intrinsics maps a built-in word name to the fixed opcode sequence it
// expands to inline. Names here are shadowed by the word registry: a user
// definition with the same name always wins (see lowerer.token).
var intrinsics = map[string][]vm.Opcode{
	"POP":   {vm.Inst(vm.OpPOP)},
	"DROP":  {vm.Inst(vm.OpDROP)},
	"2DROP": {vm.Inst(vm.OpDROP), vm.Inst(vm.OpDROP)},

	"SWAP":  {vm.Inst(vm.OpSWAP)},
	"2SWAP": {vm.Inst(vm.OpSWAP2)},
	"2OVER": {vm.Inst(vm.OpOVER2)},

	"DUP":  {vm.Inst(vm.OpDUP)},
	"2DUP": {vm.Inst(vm.OpDUP2)},

	"NOT": {vm.Inst(vm.OpNOT)},
	"ADD": {vm.Inst(vm.OpADD)},
	"SUB": {vm.Inst(vm.OpSUB)},
	"MUL": {vm.Inst(vm.OpMUL)},
	"DIV": {vm.Inst(vm.OpDIV)},

	// = and <> are implementation-defined so long as the result is -1/0;
	// both are built from SUB+NOT so a==b reduces to NOT(a-b).
	"=":  {vm.Inst(vm.OpSUB), vm.Inst(vm.OpNOT)},
	"<>": {vm.Inst(vm.OpSUB), vm.Inst(vm.OpNOT), vm.Inst(vm.OpNOT)},

	"1+": {vm.LDI(1), vm.Inst(vm.OpADD)},
	"1-": {vm.LDI(-1), vm.Inst(vm.OpADD)},
	"2+": {vm.LDI(2), vm.Inst(vm.OpADD)},
	"2-": {vm.LDI(-2), vm.Inst(vm.OpADD)},
	"2*": {vm.LDI(2), vm.Inst(vm.OpMUL)},
	"2/": {vm.LDI(2), vm.Inst(vm.OpDIV)},

	"I": {vm.Inst(vm.OpGETLP)},
	"J": {vm.Inst(vm.OpGETLP2)},

	"TRAP": {vm.Inst(vm.OpTRAP)},
}
