package forth

import "github.com/tsorensen/forthc/vm"

var controlFlowKeywords = map[string]bool{
	"IF": true, "ELSE": true, "THEN": true,
	"DO": true, "LOOP": true, "+LOOP": true,
	"BEGIN": true, "UNTIL": true, "WHILE": true, "REPEAT": true, "AGAIN": true,
	"LEAVE": true,
}

// lowerer accumulates opcodes and open control-flow frames for one
// compiled unit (a word body, or the interactive tail). Tokens are fed in
// one at a time via token, so a caller can interleave lowering with other
// side effects (the extractor installs word bodies between interactive
// tokens, and each token must resolve against the registry state at the
// moment it is reached, not after later definitions run).
type lowerer struct {
	code   []vm.Opcode
	frames fixupStack
	reg    *registry
}

func newLowerer(reg *registry) *lowerer { return &lowerer{reg: reg} }

func (lw *lowerer) ldi(n int64)   { lw.code = append(lw.code, vm.LDI(n)) }
func (lw *lowerer) emit(op vm.Op) { lw.code = append(lw.code, vm.Inst(op)) }
func (lw *lowerer) patch(pos int, n int64) {
	lw.code[pos] = vm.LDI(n)
}

func (lw *lowerer) patchExits(exits []int, postLoopLen int) error {
	for _, e := range exits {
		off, err := jumpOffset(e, postLoopLen)
		if err != nil {
			return err
		}
		lw.patch(e, off)
	}
	return nil
}

// token lowers a single Number/Command/comment token, given no Colon or
// SemiColon (the extractor consumes those itself).
func (lw *lowerer) token(tok Token) error {
	switch tok.Kind {
	case TokNumber:
		lw.ldi(tok.Number)
		return nil
	case TokLineComment, TokBlockComment, TokStringLiteral:
		return nil
	case TokColon, TokSemiColon:
		return nil
	}

	name := tok.Name
	if controlFlowKeywords[name] {
		return lw.keyword(name)
	}
	if addr, ok := lw.reg.lookup(name); ok {
		lw.ldi(int64(addr))
		lw.emit(vm.OpCALL)
		return nil
	}
	if ops, ok := intrinsics[name]; ok {
		lw.code = append(lw.code, ops...)
		return nil
	}
	return errUnknownToken(name)
}

// done reports an error if any control-flow frame is still open.
func (lw *lowerer) done() error {
	if _, open := lw.frames.top(); open {
		return errInvalidSyntax("unterminated control-flow construct")
	}
	return nil
}

// lowerTokens lowers a self-contained slice of tokens (no Colon/SemiColon)
// into an opcode sequence with every intra-slice jump patched. It never
// emits a trailing RET; callers append that themselves. Used to compile a
// word body, whose fixups never span outside it.
func lowerTokens(toks []Token, reg *registry) ([]vm.Opcode, error) {
	lw := newLowerer(reg)
	for _, tok := range toks {
		if err := lw.token(tok); err != nil {
			return nil, err
		}
	}
	if err := lw.done(); err != nil {
		return nil, err
	}
	return lw.code, nil
}

func (lw *lowerer) keyword(name string) error {
	code := &lw.code
	frames := &lw.frames
	switch name {
	case "IF":
		ifPos := len(*code)
		lw.ldi(0)
		lw.emit(vm.OpJRZ)
		frames.push(fixupFrame{kind: frameIf, ifPos: ifPos})

	case "ELSE":
		f, ok := frames.top()
		if !ok || f.kind != frameIf {
			return errInvalidSyntax("ELSE without IF")
		}
		if f.hasElse {
			return errInvalidSyntax("ELSE after ELSE")
		}
		elsePos := len(*code)
		lw.ldi(0)
		lw.emit(vm.OpJR)
		f.elsePos = elsePos
		f.hasElse = true

	case "THEN":
		f, ok := frames.pop()
		if !ok || f.kind != frameIf {
			return errInvalidSyntax("THEN without IF")
		}
		currentLen := len(*code)
		if f.hasElse {
			off1, err := jumpOffset(f.ifPos, f.elsePos+2)
			if err != nil {
				return err
			}
			lw.patch(f.ifPos, off1)
			off2, err := jumpOffset(f.elsePos, currentLen)
			if err != nil {
				return err
			}
			lw.patch(f.elsePos, off2)
		} else {
			off, err := jumpOffset(f.ifPos, currentLen)
			if err != nil {
				return err
			}
			lw.patch(f.ifPos, off)
		}

	case "DO":
		preludePos := len(*code)
		lw.emit(vm.OpPUSHLP)
		frames.push(fixupFrame{kind: frameDoLoop, preludePos: preludePos, bodyStart: len(*code)})

	case "LOOP", "+LOOP":
		f, ok := frames.pop()
		if !ok || f.kind != frameDoLoop {
			return errInvalidSyntax(name + " without DO")
		}
		if name == "LOOP" {
			lw.emit(vm.OpINCLP)
		} else {
			lw.emit(vm.OpADDLP)
		}
		lw.emit(vm.OpCMPLOOP)
		ldiPos := len(*code)
		lw.ldi(0)
		lw.emit(vm.OpJRZ)
		off, err := jumpOffset(ldiPos, f.bodyStart)
		if err != nil {
			return err
		}
		lw.patch(ldiPos, off)
		lw.emit(vm.OpDROPLP)
		if err := lw.patchExits(f.exits, len(*code)); err != nil {
			return err
		}

	case "BEGIN":
		frames.push(fixupFrame{kind: frameBeginLoop, bodyStart: len(*code)})

	case "UNTIL":
		f, ok := frames.pop()
		if !ok || f.kind != frameBeginLoop {
			return errInvalidSyntax("UNTIL without BEGIN")
		}
		ldiPos := len(*code)
		lw.ldi(0)
		lw.emit(vm.OpJRZ)
		off, err := jumpOffset(ldiPos, f.bodyStart)
		if err != nil {
			return err
		}
		lw.patch(ldiPos, off)
		if err := lw.patchExits(f.exits, len(*code)); err != nil {
			return err
		}

	case "WHILE":
		f, ok := frames.top()
		if !ok || f.kind != frameBeginLoop {
			return errInvalidSyntax("WHILE without BEGIN")
		}
		ldiPos := len(*code)
		lw.ldi(0)
		lw.emit(vm.OpJRZ)
		f.exits = append(f.exits, ldiPos)

	case "REPEAT", "AGAIN":
		f, ok := frames.pop()
		if !ok || f.kind != frameBeginLoop {
			return errInvalidSyntax(name + " without BEGIN")
		}
		ldiPos := len(*code)
		lw.ldi(0)
		lw.emit(vm.OpJR)
		off, err := jumpOffset(ldiPos, f.bodyStart)
		if err != nil {
			return err
		}
		lw.patch(ldiPos, off)
		if err := lw.patchExits(f.exits, len(*code)); err != nil {
			return err
		}

	case "LEAVE":
		f, ok := frames.nearestLoop()
		if !ok {
			return errInvalidSyntax("LEAVE outside loop")
		}
		ldiPos := len(*code)
		lw.ldi(0)
		lw.emit(vm.OpJR)
		f.exits = append(f.exits, ldiPos)
	}
	return nil
}

// jumpOffset computes the signed offset from the branch opcode at
// ldiPos+1 (the instruction after the LDI that loads it) to target, per the
// "reference point is the LDI+1" rule, flagging overflow against the i64
// range the VM's Opcode.Imm carries.
func jumpOffset(ldiPos, target int) (int64, error) {
	ref := int64(ldiPos) + 1
	tgt := int64(target)
	diff := tgt - ref
	if (tgt > 0 && ref < 0 && diff < 0) || (tgt < 0 && ref > 0 && diff > 0) {
		return 0, errInternalNumericOverflow()
	}
	return diff, nil
}
