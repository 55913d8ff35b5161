package abi

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Param is one function input parameter.
type Param struct {
	Name string
	Type ParamType
}

// Function is a single exported contract function, as the external ABI
// description loader (spec.md §1) would hand it to the compiler.
type Function struct {
	Name   string
	Inputs []Param
}

// Signature renders the canonical textual signature "name(type1,type2,…)"
// the selector hash is computed over (spec.md §4.F).
func (f Function) Signature() string {
	types := make([]string, len(f.Inputs))
	for i, p := range f.Inputs {
		types[i] = Write(p.Type)
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(types, ","))
}

// Selector returns the first 4 bytes of the Keccak-256 hash of f's
// canonical signature (spec.md §4.F, §GLOSSARY "Selector").
func (f Function) Selector() [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(f.Signature()))
	sum := h.Sum(nil)
	var sel [4]byte
	copy(sel[:], sum[:4])
	return sel
}

// Contract is one compiled unit's full ABI plus its constructor and
// runtime bytecode, as decoded from solc's --combined-json output
// (original_source/src/bin.rs's `Contract`/`Contracts` shape).
type Contract struct {
	Name              string
	Functions         []Function
	ConstructorInputs []Param // from the "constructor"-typed ABI entry, if any
	Bin               []byte  // constructor payload (hex-decoded)
	BinRuntime        []byte  // deployed runtime payload (hex-decoded)
}
