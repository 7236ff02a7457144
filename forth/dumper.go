package forth

import (
	"fmt"
	"io"
	"sort"

	"github.com/tsorensen/forthc/vm"
)

// dumpCompiler writes the frontier and the number stack's current contents,
// then a disassembly of every installed word, then the interactive tail.
func dumpCompiler(c *Compiler, w io.Writer) {
	fmt.Fprintf(w, "# Compiler Dump\n")
	fmt.Fprintf(w, "  frontier: %d\n", c.frontier)
	fmt.Fprintf(w, "  stack: %v\n", c.machine.NumberStack())

	names := make(map[int]string)
	var addrs []int
	for _, name := range c.registry.names() {
		addr, ok := c.registry.lookup(name)
		if !ok {
			continue
		}
		names[int(addr)] = name
		addrs = append(addrs, int(addr))
	}
	sort.Ints(addrs)

	fmt.Fprintf(w, "  words: %d\n", len(addrs))
	vm.Disassemble(w, c.code, 0, c.frontier, names)

	if len(c.code) > c.frontier {
		fmt.Fprintf(w, "# interactive tail\n")
		vm.Disassemble(w, c.code, c.frontier, len(c.code), nil)
	}
}
