package abi_test

import (
	"encoding/hex"
	"testing"

	"github.com/0b01/solenoid/abi"
	"github.com/stretchr/testify/assert"
)

func TestReadWriteRoundTrip(t *testing.T) {
	cases := []string{
		"address", "bool", "string", "bytes",
		"uint256", "int8", "bytes32",
		"uint256[]", "address[3]",
		"(address,uint256)",
	}
	for _, s := range cases {
		pt, err := abi.Read(s)
		assert.NoError(t, err, s)
		assert.Equal(t, s, abi.Write(pt), s)
	}
}

func TestReadBareIntUint(t *testing.T) {
	pt, err := abi.Read("uint")
	assert.NoError(t, err)
	assert.Equal(t, 256, pt.Bits)

	pt, err = abi.Read("int")
	assert.NoError(t, err)
	assert.Equal(t, abi.KindInt, pt.Kind)
}

func TestReadRejectsUnknown(t *testing.T) {
	_, err := abi.Read("fixed128x8")
	assert.Error(t, err)
}

func TestSelectorMatchesERC20Transfer(t *testing.T) {
	fn := abi.Function{
		Name: "transfer",
		Inputs: []abi.Param{
			{Name: "to", Type: abi.ParamType{Kind: abi.KindAddress}},
			{Name: "amount", Type: abi.ParamType{Kind: abi.KindUint, Bits: 256}},
		},
	}
	assert.Equal(t, "transfer(address,uint256)", fn.Signature())

	sel := fn.Selector()
	want, _ := hex.DecodeString("a9059cbb")
	assert.Equal(t, want, sel[:])
}

func TestLoadCombinedJSON(t *testing.T) {
	input := []byte(`{
		"contracts": {
			"set.sol:Setter": {
				"abi": [{"type":"function","name":"set","inputs":[{"name":"v","type":"uint256"}]},{"type":"function","name":"get","inputs":[]}],
				"bin": "6080",
				"bin-runtime": "6081"
			}
		}
	}`)
	contracts, err := abi.LoadCombinedJSON(input)
	assert.NoError(t, err)
	c, ok := contracts["Setter"]
	assert.True(t, ok)
	assert.Len(t, c.Functions, 2)
	assert.Equal(t, "set(uint256)", c.Functions[0].Signature())
	assert.Equal(t, []byte{0x60, 0x80}, c.Bin)
	assert.Equal(t, []byte{0x60, 0x81}, c.BinRuntime)
}
