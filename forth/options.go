package forth

import (
	"io"

	"github.com/tsorensen/forthc/internal/flushio"
	"github.com/tsorensen/forthc/vm"
)

// Option configures a Compiler at construction time.
type Option interface{ apply(c *Compiler) }

type options []Option

func (opts options) apply(c *Compiler) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(c)
		}
	}
}

// Options flattens any number of Option values into one, so construction
// helpers can assemble a default set and let callers extend it.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	return res
}

type gasOption vm.GasBudget

func (o gasOption) apply(c *Compiler) { c.gas = vm.GasBudget(o) }

// WithGas bounds every subsequent ExecuteString call to n opcodes.
func WithGas(n uint64) Option { return gasOption(vm.Limited(n)) }

// WithUnlimitedGas removes any gas bound (the default).
func WithUnlimitedGas() Option { return gasOption(vm.Unlimited) }

type codeLimitOption uint

func (o codeLimitOption) apply(c *Compiler) { c.codeLimit = uint(o) }

// WithCodeLimit caps total code-memory growth at limit opcodes; zero means
// unlimited (the default).
func WithCodeLimit(limit uint) Option { return codeLimitOption(limit) }

type logfOption func(mess string, args ...interface{})

func (f logfOption) apply(c *Compiler) {
	c.logf = f
	c.machine.SetTraceFunc(func(pc int, op vm.Opcode, number []int64) {
		f("pc=%d op=%v stack=%v", pc, op, number)
	})
}

// WithLogf installs a step-trace hook, fed "pc=.. op=.. stack=.." lines
// while the VM runs.
func WithLogf(f func(mess string, args ...interface{})) Option { return logfOption(f) }

type trapOption struct {
	id int64
	h  vm.TrapHandler
}

func (o trapOption) apply(c *Compiler) { c.machine.SetTrap(o.id, o.h) }

// WithTrapHandler installs h as the handler for TRAP id, overriding the
// default TrapEmit/TrapKey handlers if id collides with either.
func WithTrapHandler(id int64, h vm.TrapHandler) Option { return trapOption{id, h} }

type inputOption struct{ io.Reader }

func (o inputOption) apply(c *Compiler) { c.in = newBufReader(o.Reader) }

// WithInput sets the reader TrapKey reads runes from.
func WithInput(r io.Reader) Option { return inputOption{r} }

type outputOption struct{ io.Writer }

func (o outputOption) apply(c *Compiler) { c.out = flushio.NewWriteFlusher(o.Writer) }

// WithOutput sets the writer TrapEmit writes runes to.
func WithOutput(w io.Writer) Option { return outputOption{w} }
