package forth

import "github.com/dolthub/swiss"

// registry records, for each user-defined word, the address of its compiled
// body in VM code memory. Redefinition replaces the address; the previous
// body's bytes remain orphaned in code memory (no reclamation is attempted).
type registry struct {
	m *swiss.Map[string, uint]
}

func newRegistry() *registry {
	return &registry{m: swiss.NewMap[string, uint](32)}
}

func (r *registry) lookup(name string) (uint, bool) {
	return r.m.Get(name)
}

func (r *registry) define(name string, addr uint) {
	r.m.Put(name, addr)
}

func (r *registry) len() int {
	return r.m.Count()
}

// names returns every installed word name in undefined order, for use by
// Dump.
func (r *registry) names() []string {
	out := make([]string, 0, r.m.Count())
	r.m.Iter(func(name string, _ uint) bool {
		out = append(out, name)
		return false
	})
	return out
}
