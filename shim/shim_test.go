package shim_test

import (
	"strings"
	"testing"

	"github.com/0b01/solenoid/abi"
	"github.com/0b01/solenoid/bridge"
	solir "github.com/0b01/solenoid/ir"
	"github.com/0b01/solenoid/shim"
	"github.com/stretchr/testify/assert"
)

func TestGenerateFunctionShimEncodesSelectorAndArgs(t *testing.T) {
	mod := solir.NewModule("test")
	br := bridge.New(mod)
	g := shim.New(mod, br)

	fn := abi.Function{
		Name: "transfer",
		Inputs: []abi.Param{
			{Name: "to", Type: abi.ParamType{Kind: abi.KindAddress}},
			{Name: "amount", Type: abi.ParamType{Kind: abi.KindUint, Bits: 256}},
		},
	}
	out := g.GenerateFunctionShim("Token_transfer_0_abi", fn)
	assert.NotNil(t, out)
	assert.Len(t, out.Params, 4) // out_buf, out_len, to, amount

	var buf strings.Builder
	_, err := mod.WriteTo(&buf)
	assert.NoError(t, err)
	ir := buf.String()
	assert.Contains(t, ir, "Token_transfer_0_abi")
	// address and uint256 arguments are copied as raw big-endian bytes;
	// only register-width integers and bools go through a byte swap.
	assert.NotContains(t, ir, "swap_endianness")
	assert.Contains(t, ir, "llvm.memcpy")
}

func TestGenerateConstructorShimPrependsCode(t *testing.T) {
	mod := solir.NewModule("test")
	br := bridge.New(mod)
	g := shim.New(mod, br)

	code := mod.DataGlobal("Token_code", []byte{0x60, 0x80, 0x60, 0x40})
	inputs := []abi.Param{
		{Name: "supply", Type: abi.ParamType{Kind: abi.KindUint, Bits: 256}},
	}
	out := g.GenerateConstructorShim(shim.ConstructorShimName("Token"), code, 4, inputs)
	assert.NotNil(t, out)
	assert.Len(t, out.Params, 3) // out_buf, out_len, supply

	var buf strings.Builder
	_, err := mod.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Token_ctor_abi")
}

func TestGenerateFunctionShimLogsUnimplementedDynamicTypes(t *testing.T) {
	mod := solir.NewModule("test")
	br := bridge.New(mod)
	g := shim.New(mod, br)

	fn := abi.Function{
		Name: "setName",
		Inputs: []abi.Param{
			{Name: "name", Type: abi.ParamType{Kind: abi.KindString}},
		},
	}
	out := g.GenerateFunctionShim("Token_setName_0_abi", fn)
	assert.NotNil(t, out)
}

func TestSharedBridgeAvoidsDuplicateSwapEndianness(t *testing.T) {
	mod := solir.NewModule("test")
	br := bridge.New(mod)
	g := shim.New(mod, br)

	fn := abi.Function{
		Name:   "f",
		Inputs: []abi.Param{{Name: "a", Type: abi.ParamType{Kind: abi.KindUint, Bits: 8}}},
	}
	g.GenerateFunctionShim("A_f_0_abi", fn)
	g.GenerateFunctionShim("A_f_1_abi", fn)
	_ = br.SwapEndianness()

	var buf strings.Builder
	_, err := mod.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "declare void @swap_endianness"))
}
