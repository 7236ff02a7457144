package forth

import "github.com/tsorensen/forthc/vm"

// extract consumes a token stream, installing every `: name … ;` as a
// compiled word at the current frontier (advancing frontier and growing
// code), and lowers every other token into the returned interactive opcode
// sequence (not yet RET-terminated).
//
// Interactive tokens are lowered as they're reached rather than collected
// and lowered afterward, so a Command resolves against the word registry
// exactly as it stood at that point in the source: an earlier reference to
// a name that a later `: name … ;` redefines still lowers to the older
// address, per the ordering guarantee in §5.
//
// On any error mid-definition, frontier is left exactly where it was
// before that definition began: only a body whose `;` was reached is
// installed.
func (c *Compiler) extract(toks []Token) ([]vm.Opcode, error) {
	tail := newLowerer(c.registry)
	i := 0
	for i < len(toks) {
		tok := toks[i]
		switch tok.Kind {
		case TokColon:
			i++
			if i >= len(toks) || toks[i].Kind != TokCommand {
				return nil, errMissingCommandAfterColon()
			}
			name := toks[i].Name
			i++

			bodyStart := i
			for i < len(toks) && toks[i].Kind != TokSemiColon {
				if toks[i].Kind == TokColon {
					return nil, errMissingCommandAfterColon()
				}
				i++
			}
			if i >= len(toks) {
				return nil, errMissingSemicolonAfterColon()
			}
			body := toks[bodyStart:i]
			i++ // consume SemiColon

			if err := c.installWord(name, body); err != nil {
				return nil, err
			}

		case TokSemiColon:
			return nil, errSemicolonBeforeColon()

		default:
			if err := tail.token(tok); err != nil {
				return nil, err
			}
			i++
		}
	}
	if err := tail.done(); err != nil {
		return nil, err
	}
	return tail.code, nil
}

// installWord compiles body at the current frontier, appending RET,
// records name in the registry, and advances frontier.
func (c *Compiler) installWord(name string, body []Token) error {
	code, err := lowerTokens(body, c.registry)
	if err != nil {
		return err
	}
	code = append(code, vm.Inst(vm.OpRET))
	if c.codeLimit > 0 && uint(c.frontier+len(code)) > c.codeLimit {
		return errInvalidSyntax("code memory limit exceeded")
	}

	c.truncateToFrontier()
	c.code = append(c.code, code...)
	c.registry.define(name, uint(c.frontier))
	c.frontier += len(code)
	return nil
}

// truncateToFrontier discards any interactive bytes written past frontier
// on a previous call, so code length matches frontier before a new word
// body or interactive run is appended.
func (c *Compiler) truncateToFrontier() {
	if len(c.code) > c.frontier {
		c.code = c.code[:c.frontier]
	}
}
