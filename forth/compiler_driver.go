package forth

import (
	"bufio"
	"bytes"
	"io"

	"github.com/tsorensen/forthc/internal/flushio"
	"github.com/tsorensen/forthc/internal/panicerr"
	"github.com/tsorensen/forthc/vm"
)

// TrapEmit is the default TRAP id wired to write one cell to the
// Compiler's output writer as a rune.
const TrapEmit int64 = 0

// TrapKey is the default TRAP id wired to read one rune from the
// Compiler's input reader and push it.
const TrapKey int64 = 1

// Compiler owns a code array, a word registry, a monotonic frontier, and
// the VM that executes compiled opcodes. A Compiler instance is
// single-threaded: it owns its VM exclusively and is not safe for
// concurrent use.
type Compiler struct {
	code      []vm.Opcode
	frontier  int
	codeLimit uint // 0 == unlimited

	registry *registry
	machine  *vm.Machine

	gas vm.GasBudget

	in  *bufio.Reader
	out flushio.WriteFlusher

	logf func(mess string, args ...interface{})
}

// New constructs a Compiler with the full intrinsic table available and
// the default TrapEmit/TrapKey handlers installed.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		registry: newRegistry(),
		in:       bufio.NewReader(bytes.NewReader(nil)),
		out:      flushio.NewWriteFlusher(io.Discard),
	}
	c.machine = vm.New()
	c.installDefaultTraps()
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

func (c *Compiler) installDefaultTraps() {
	c.machine.SetTrap(TrapEmit, func(m *vm.Machine) error {
		v, err := m.PopNumber()
		if err != nil {
			return err
		}
		_, err = c.out.Write([]byte(string(rune(v))))
		return err
	})
	c.machine.SetTrap(TrapKey, func(m *vm.Machine) error {
		r, _, err := c.in.ReadRune()
		if err != nil {
			if err == io.EOF {
				m.PushNumber(-1)
				return nil
			}
			return err
		}
		m.PushNumber(int64(r))
		return nil
	})
}

// NumberStack returns a copy of the underlying VM's number stack.
func (c *Compiler) NumberStack() []int64 { return c.machine.NumberStack() }

// Frontier reports the current code-memory frontier.
func (c *Compiler) Frontier() int { return c.frontier }

// SetTrapHandler installs h as the handler for TRAP id, overriding any
// default or previously installed handler.
func (c *Compiler) SetTrapHandler(id int64, h vm.TrapHandler) {
	c.machine.SetTrap(id, h)
}

// ExecuteString tokenizes and compiles source, then runs it: the
// definition extractor installs any `: … ;` word bodies at the frontier,
// and the remaining interactive tokens are compiled and executed at the
// (possibly advanced) frontier under the configured gas budget.
func (c *Compiler) ExecuteString(source string) error {
	return panicerr.Recover("forth", func() error {
		return c.execute(source)
	})
}

func (c *Compiler) execute(source string) error {
	toks := NewTokenizer(source).All()

	interactive, err := c.extract(toks)
	if err != nil {
		return err
	}
	interactive = append(interactive, vm.Inst(vm.OpRET))

	c.truncateToFrontier()
	if c.codeLimit > 0 && uint(c.frontier+len(interactive)) > c.codeLimit {
		return errInvalidSyntax("code memory limit exceeded")
	}
	c.code = append(c.code, interactive...)
	c.machine.Code = c.code

	runErr := c.machine.Run(c.frontier, c.gas)
	if flushErr := c.out.Flush(); runErr == nil {
		runErr = flushErr
	}
	if runErr != nil {
		return fromVMError(runErr)
	}
	return nil
}

// Dump writes the frontier and the current number-stack contents, followed
// by a disassembly of installed words and the interactive tail, to w.
func (c *Compiler) Dump(w io.Writer) {
	dumpCompiler(c, w)
}

func newBufReader(r io.Reader) *bufio.Reader { return bufio.NewReader(r) }
