package forth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compilerCase is a small builder DSL for end-to-end Compiler scenarios,
// in the spirit of a table-driven test case: each case names an input
// source, an optional gas budget, and the assertions to run against the
// resulting Compiler once ExecuteString returns.
type compilerCase struct {
	name   string
	source string
	gas    uint64

	wantErrKind ErrorKind
	expect      []func(t *testing.T, c *Compiler)
}

func (cc compilerCase) withGas(n uint64) compilerCase {
	cc.gas = n
	return cc
}

func (cc compilerCase) expectStack(want ...int64) compilerCase {
	if want == nil {
		want = []int64{}
	}
	cc.expect = append(cc.expect, func(t *testing.T, c *Compiler) {
		assert.Equal(t, want, c.NumberStack())
	})
	return cc
}

func (cc compilerCase) expectErr(kind ErrorKind) compilerCase {
	cc.wantErrKind = kind
	return cc
}

func (cc compilerCase) run(t *testing.T) {
	var opts []Option
	if cc.gas > 0 {
		opts = append(opts, WithGas(cc.gas))
	}
	c := New(opts...)
	err := c.ExecuteString(cc.source)

	if cc.wantErrKind != 0 {
		require.Error(t, err)
		var ferr *Error
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, cc.wantErrKind, ferr.Kind)
		return
	}
	require.NoError(t, err)
	for _, f := range cc.expect {
		f(t, c)
	}
}

type compilerCases []compilerCase

func (ccs compilerCases) run(t *testing.T) {
	for _, cc := range ccs {
		t.Run(cc.name, cc.run)
	}
}

func TestEndToEndScenarios(t *testing.T) {
	compilerCases{
		compilerCase{name: "arithmetic", source: "123 321 ADD 2 MUL"}.
			expectStack(888),

		compilerCase{name: "word definition and call", source: ": R 123 321 ADD 2 MUL ; R R"}.
			expectStack(888, 888),

		compilerCase{name: "if else false branch", source: "0 IF 1 2 ADD ELSE 3 4 ADD THEN"}.
			expectStack(7),

		compilerCase{name: "if else true branch", source: "1 IF 1 2 ADD ELSE 3 4 ADD THEN"}.
			expectStack(3),

		compilerCase{name: "counted loop", source: "10 0 DO I LOOP"}.
			withGas(250).
			expectStack(0, 1, 2, 3, 4, 5, 6, 7, 8, 9),

		compilerCase{name: "counted step loop", source: "10 0 DO I 2 +LOOP"}.
			withGas(250).
			expectStack(0, 2, 4, 6, 8),

		compilerCase{name: "begin leave again", source: "10 BEGIN 1- DUP NOT IF LEAVE THEN AGAIN"}.
			withGas(250).
			expectStack(0),
	}.run(t)
}

func TestErrorScenarios(t *testing.T) {
	compilerCases{
		compilerCase{name: "missing command after colon", source: ": R 1 2 ; : ; 3"}.
			expectErr(MissingCommandAfterColon),

		compilerCase{name: "semicolon before colon", source: ": R 1 2 ; ;"}.
			expectErr(SemicolonBeforeColon),

		compilerCase{name: "missing semicolon", source: ": R 1 2 ADD"}.
			expectErr(MissingSemicolonAfterColon),

		compilerCase{name: "unknown token", source: "FOO"}.
			expectErr(UnknownToken),

		compilerCase{name: "gas exhaustion", source: "10 BEGIN 1- DUP NOT IF LEAVE THEN AGAIN"}.
			withGas(3).
			expectErr(RanOutOfGas),
	}.run(t)
}

func TestWhileRepeat(t *testing.T) {
	// count down from 5 to 1; the trailing DROP removes the final 0,
	// leaving an empty stack
	compilerCases{
		compilerCase{name: "while repeat", source: "5 BEGIN DUP WHILE DUP 1- SWAP DROP REPEAT DROP"}.
			withGas(250).
			expectStack(),
	}.run(t)
}

func TestWordShadowsIntrinsic(t *testing.T) {
	cc := compilerCase{name: "shadow", source: ": DUP 1 ; DUP"}.expectStack(1)
	cc.run(t)
}

func TestRedefinitionTakesEffectAfterSemicolon(t *testing.T) {
	cc := compilerCase{
		name:   "redefine",
		source: ": F 1 ; F : F 2 ; F",
	}.expectStack(1, 2)
	cc.run(t)
}

func TestFrontierMonotonic(t *testing.T) {
	c := New()
	require.NoError(t, c.ExecuteString(": A 1 2 ADD ;"))
	f1 := c.Frontier()
	require.NoError(t, c.ExecuteString("A A"))
	assert.Equal(t, f1, c.Frontier())
	require.NoError(t, c.ExecuteString(": B 3 ;"))
	assert.Greater(t, c.Frontier(), f1)
}
