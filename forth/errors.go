package forth

import (
	"fmt"

	"github.com/tsorensen/forthc/vm"
)

// ErrorKind tags the variants an Error can carry.
type ErrorKind int

const (
	_ ErrorKind = iota
	UnknownToken
	InvalidSyntax
	MissingCommandAfterColon
	MissingSemicolonAfterColon
	SemicolonBeforeColon
	InternalNumericOverflow
	NumberStackUnderflow
	LoopStackUnderflow
	ScratchStackUnderflow
	InvalidCellOperation
	UnhandledTrap
	RanOutOfGas
	UnknownError
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownToken:
		return "UnknownToken"
	case InvalidSyntax:
		return "InvalidSyntax"
	case MissingCommandAfterColon:
		return "MissingCommandAfterColon"
	case MissingSemicolonAfterColon:
		return "MissingSemicolonAfterColon"
	case SemicolonBeforeColon:
		return "SemicolonBeforeColon"
	case InternalNumericOverflow:
		return "InternalNumericOverflow"
	case NumberStackUnderflow:
		return "NumberStackUnderflow"
	case LoopStackUnderflow:
		return "LoopStackUnderflow"
	case ScratchStackUnderflow:
		return "ScratchStackUnderflow"
	case InvalidCellOperation:
		return "InvalidCellOperation"
	case UnhandledTrap:
		return "UnhandledTrap"
	case RanOutOfGas:
		return "RanOutOfGas"
	default:
		return "UnknownError"
	}
}

// Error is the single tagged error kind the compiler and driver raise. The
// fields populated depend on Kind; see the constructors below.
type Error struct {
	Kind ErrorKind

	Name   string // UnknownToken (bad token text)
	Msg    string // InvalidSyntax
	TrapID int64
	Used   uint64
	Limit  uint64

	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownToken:
		return fmt.Sprintf("unknown token %q", e.Name)
	case InvalidSyntax:
		return fmt.Sprintf("invalid syntax: %s", e.Msg)
	case UnhandledTrap:
		return fmt.Sprintf("unhandled trap %d", e.TrapID)
	case RanOutOfGas:
		return fmt.Sprintf("ran out of gas: used %d of %d", e.Used, e.Limit)
	default:
		return e.Kind.String()
	}
}

// Unwrap exposes the underlying VM error, if this Error was raised during
// execution rather than compilation.
func (e *Error) Unwrap() error { return e.cause }

func errUnknownToken(name string) *Error {
	return &Error{Kind: UnknownToken, Name: name}
}

func errInvalidSyntax(msg string) *Error {
	return &Error{Kind: InvalidSyntax, Msg: msg}
}

func errMissingCommandAfterColon() *Error {
	return &Error{Kind: MissingCommandAfterColon}
}

func errMissingSemicolonAfterColon() *Error {
	return &Error{Kind: MissingSemicolonAfterColon}
}

func errSemicolonBeforeColon() *Error {
	return &Error{Kind: SemicolonBeforeColon}
}

func errInternalNumericOverflow() *Error {
	return &Error{Kind: InternalNumericOverflow}
}

// fromVMError maps a vm.Error into the compiler's own tagged Error, keeping
// the original as cause for errors.Unwrap/errors.As.
func fromVMError(err error) *Error {
	verr, ok := err.(*vm.Error)
	if !ok {
		return &Error{Kind: UnknownError, cause: err}
	}
	e := &Error{cause: err, TrapID: verr.TrapID, Used: verr.Used, Limit: verr.Limit}
	switch verr.Kind {
	case vm.NumberStackUnderflow:
		e.Kind = NumberStackUnderflow
	case vm.LoopStackUnderflow:
		e.Kind = LoopStackUnderflow
	case vm.ScratchStackUnderflow:
		e.Kind = ScratchStackUnderflow
	case vm.InvalidCellOperation:
		e.Kind = InvalidCellOperation
	case vm.UnhandledTrap:
		e.Kind = UnhandledTrap
	case vm.RanOutOfGas:
		e.Kind = RanOutOfGas
	default:
		e.Kind = UnknownError
	}
	return e
}
