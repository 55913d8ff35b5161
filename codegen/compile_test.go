package codegen_test

import (
	"strings"
	"testing"

	"github.com/0b01/solenoid/codegen"
	"github.com/stretchr/testify/assert"
)

// PUSH1 0x02 PUSH1 0x03 ADD PUSH1 0x00 MSTORE PUSH1 0x20 PUSH1 0x00 RETURN
var addAndReturn = []byte{
	0x60, 0x02,
	0x60, 0x03,
	0x01,
	0x60, 0x00,
	0x52,
	0x60, 0x20,
	0x60, 0x00,
	0xf3,
}

func TestCompileConstructorProducesIR(t *testing.T) {
	c := codegen.NewCompiler("test", false)
	fn, err := c.CompileConstructor("Adder_constructor", addAndReturn)
	assert.NoError(t, err)
	assert.NotNil(t, fn)

	var buf strings.Builder
	_, err = c.Mod.WriteTo(&buf)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Adder_constructor")
	assert.Contains(t, out, "jumpbb")
	assert.Contains(t, out, "errbb")
	assert.Contains(t, out, "@revert")
}

func TestCompileRuntimeSharesStackGlobals(t *testing.T) {
	c := codegen.NewCompiler("test", false)
	_, err := c.CompileConstructor("C_constructor", addAndReturn)
	assert.NoError(t, err)
	_, err = c.CompileRuntime("C_runtime", addAndReturn)
	assert.NoError(t, err)

	var buf strings.Builder
	_, err = c.Mod.WriteTo(&buf)
	assert.NoError(t, err)
	out := buf.String()

	// Exactly one stack/sp/mem global, shared across both halves.
	assert.Equal(t, 1, strings.Count(out, "@stack ="))
	assert.Equal(t, 1, strings.Count(out, "@sp ="))
	assert.Equal(t, 1, strings.Count(out, "@mem ="))
}

func TestCompileWithJumpsBuildsDispatch(t *testing.T) {
	// PUSH1 0x04 JUMP ... JUMPDEST STOP
	code := []byte{
		0x60, 0x04, // PUSH1 4
		0x56,       // JUMP
		0xfe,       // INVALID (dead code, never reached)
		0x5b,       // JUMPDEST at offset 4
		0x00,       // STOP
	}
	c := codegen.NewCompiler("test", false)
	fn, err := c.CompileRuntime("Jumper_runtime", code)
	assert.NoError(t, err)
	assert.NotNil(t, fn)
}

// TestDivModUseOnlyTwoOperands reproduces
// original_source/tests/integration_tests.rs's Push(10),Push(30),Div ⇒ [3]
// vector: Div/Mod/SDiv/SMod are 2-operand instructions, so with the
// minimal sp==2 case they must never reach a third stack slot for
// quotient scratch space — that GEP would index sp-3, which is out of
// bounds here and would clobber a live value for any deeper stack.
func TestDivModUseOnlyTwoOperands(t *testing.T) {
	for _, tc := range []struct {
		name string
		op   byte
	}{
		{"Div", 0x04},
		{"Mod", 0x06},
		{"SDiv", 0x05},
		{"SMod", 0x07},
	} {
		// PUSH1 0x0a PUSH1 0x1e <op> STOP
		code := []byte{0x60, 0x0a, 0x60, 0x1e, tc.op, 0x00}

		c := codegen.NewCompiler("test", false)
		fn, err := c.CompileRuntime(tc.name+"_runtime", code)
		assert.NoError(t, err)
		assert.NotNil(t, fn)

		var buf strings.Builder
		_, err = c.Mod.WriteTo(&buf)
		assert.NoError(t, err)
		out := buf.String()

		assert.NotRegexp(t, `sub i64 %\S+, 3\b`, out, "%s must not reach a third stack slot for scratch space", tc.name)
	}
}

func TestDebugModeInsertsDumpStackCalls(t *testing.T) {
	c := codegen.NewCompiler("test", true)
	_, err := c.CompileRuntime("Dbg_runtime", addAndReturn)
	assert.NoError(t, err)

	var buf strings.Builder
	_, err = c.Mod.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "@dump_stack")
}
