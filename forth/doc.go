// Package forth compiles a small Forth dialect down to opcodes for the
// stack machine in package vm, and drives its execution.
//
// A source string is tokenized (Tokenizer), split into word-definition
// bodies and an interactive tail (Compiler.extract), lowered to opcodes
// with structured control flow resolved to relative jumps via a deferred
// fixup stack (lowerTokens/lowerer), and finally installed into the
// compiler's code memory and executed (Compiler.ExecuteString).
//
// A Compiler instance owns its code array, word registry and VM
// exclusively; it is not safe for concurrent use, and execution is
// synchronous: ExecuteString does not return until the VM halts, errors,
// or exhausts its gas budget.
package forth
