// Command forthc compiles and runs Forth-dialect source against the
// embedded stack VM: point it at a script, pipe source on stdin, or pass
// -interactive for a line-at-a-time REPL.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tsorensen/forthc/forth"
	"github.com/tsorensen/forthc/internal/logio"
)

func main() {
	var (
		gas         uint64
		codeLimit   uint
		trace       bool
		interactive bool
		dump        bool
	)
	flag.Uint64Var(&gas, "gas", 0, "limit execution to this many opcodes (0 = unlimited)")
	flag.UintVar(&codeLimit, "code-limit", 0, "cap total code-memory growth (0 = unlimited)")
	flag.BoolVar(&trace, "trace", false, "enable step-trace logging")
	flag.BoolVar(&interactive, "interactive", false, "drop into a raw-terminal REPL")
	flag.BoolVar(&dump, "dump", false, "print a dump after each execution")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	opts := []forth.Option{
		forth.WithCodeLimit(codeLimit),
		forth.WithOutput(os.Stdout),
		forth.WithInput(os.Stdin),
	}
	if gas > 0 {
		opts = append(opts, forth.WithGas(gas))
	}
	if trace {
		opts = append(opts, forth.WithLogf(log.Leveledf("TRACE")))
	}
	c := forth.New(opts...)

	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer lw.Close()
		defer c.Dump(lw)
	}

	var err error
	if interactive {
		err = runREPL(c, &log)
	} else {
		err = runScript(c, flag.Args())
	}
	log.ErrorIf(err)
}

func runScript(c *forth.Compiler, args []string) error {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return c.ExecuteString(string(src))
}

func runREPL(c *forth.Compiler, log *logio.Logger) error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, state)
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := sc.Text()
		if err := c.ExecuteString(line); err != nil {
			log.Printf("ERROR", "%v", err)
			continue
		}
		fmt.Fprintf(os.Stdout, "\r\nok %v\r\n", c.NumberStack())
	}
	return sc.Err()
}
