// Package shim implements the ABI Marshaller (spec.md §4.F): one
// native-callable encoder per declared contract function, plus the
// constructor, each packing typed arguments into the VM's big-endian,
// 32-byte-padded calldata layout and prepending either a 4-byte selector
// or the constructor's own bytecode payload.
package shim

import (
	"fmt"
	"log"

	"github.com/0b01/solenoid/abi"
	"github.com/0b01/solenoid/bridge"
	solir "github.com/0b01/solenoid/ir"
	llvmir "github.com/llir/llvm/ir"
	llvmtypes "github.com/llir/llvm/ir/types"
	llvmvalue "github.com/llir/llvm/ir/value"
)

var Logger = log.New(log.Writer(), "shim: ", 0)

const wordBytes = 32

// Generator emits ABI-encoding shim functions into mod, reusing br for the
// swap_endianness helper so the module never declares it twice (spec.md
// §5's idempotent-declaration requirement applies across packages, not
// just within bridge).
type Generator struct {
	mod *solir.Module
	br  *bridge.Bridge

	memcpyFn *llvmir.Func
}

// New creates a Generator bound to mod, sharing br with whatever codegen
// pass compiled mod's contract halves.
func New(mod *solir.Module, br *bridge.Bridge) *Generator {
	return &Generator{mod: mod, br: br}
}

func (g *Generator) memcpy() *llvmir.Func {
	if g.memcpyFn == nil {
		g.memcpyFn = g.mod.DeclareMemcpy()
	}
	return g.memcpyFn
}

// FunctionShimName is the conventional name for fn's encoder, derived
// from the contract name the way original_source/src/cffigen.rs derives
// ABI-function stub names from the function's position in the contract.
func FunctionShimName(contractName string, idx int, fn abi.Function) string {
	return fmt.Sprintf("%s_%s_%d_abi", contractName, fn.Name, idx)
}

// ConstructorShimName is the conventional name for a contract's
// constructor encoder.
func ConstructorShimName(contractName string) string {
	return contractName + "_ctor_abi"
}

// GenerateFunctionShim emits:
//
//	void <shimName>(i8* out_buf, i32* out_len, <typed args>)
//
// writing the 4-byte Keccak-256 selector of fn's canonical signature
// followed by one 32-byte big-endian slot per argument (spec.md §4.F).
func (g *Generator) GenerateFunctionShim(shimName string, fn abi.Function) *llvmir.Func {
	sel := fn.Selector()
	selGlobal := g.mod.StringGlobal(shimName+"_selector", string(sel[:]))

	params := make([]*llvmir.Param, 0, len(fn.Inputs)+2)
	params = append(params, solir.Param("out_buf", solir.I8Ptr), solir.Param("out_len", solir.I32Ptr))
	for _, p := range fn.Inputs {
		params = append(params, solir.Param(p.Name, g.paramLLVMType(p.Type)))
	}

	fn2 := g.mod.DeclareFunc(shimName, solir.Void, params...)
	block := solir.NewBlock(fn2, "entry")

	outBuf := fn2.Params[0]
	outLen := fn2.Params[1]

	solir.Call(block, g.memcpy(), outBuf, solir.BitcastToI8Ptr(block, selGlobal),
		solir.IntConst(solir.I64, 4), solir.IntConst(solir.I1, 0))

	for i, p := range fn.Inputs {
		offset := uint64(4 + i*wordBytes)
		slotPtr := solir.GEPPtrOffset(block, solir.I8, outBuf, solir.IntConst(solir.I64, offset))
		g.encodeParam(block, slotPtr, p.Type, fn2.Params[2+i])
	}

	totalLen := uint64(4 + len(fn.Inputs)*wordBytes)
	solir.Store(block, solir.IntConst(solir.I32, totalLen), outLen)
	solir.RetVoid(block)

	return fn2
}

// GenerateConstructorShim emits the constructor's encoder. Instead of a
// 4-byte selector, the output is prefixed with the contract's full
// constructor bytecode (spec.md §4.F "The constructor shim instead
// prepends the contract's constructor bytecode"), followed by one
// 32-byte slot per constructor argument exactly as GenerateFunctionShim
// lays out a regular function's arguments.
func (g *Generator) GenerateConstructorShim(shimName string, codeGlobal *llvmir.Global, codeLen uint64, inputs []abi.Param) *llvmir.Func {
	params := make([]*llvmir.Param, 0, len(inputs)+2)
	params = append(params, solir.Param("out_buf", solir.I8Ptr), solir.Param("out_len", solir.I32Ptr))
	for _, p := range inputs {
		params = append(params, solir.Param(p.Name, g.paramLLVMType(p.Type)))
	}

	fn := g.mod.DeclareFunc(shimName, solir.Void, params...)
	block := solir.NewBlock(fn, "entry")

	outBuf := fn.Params[0]
	outLen := fn.Params[1]

	solir.Call(block, g.memcpy(), outBuf, solir.BitcastToI8Ptr(block, codeGlobal),
		solir.IntConst(solir.I64, codeLen), solir.IntConst(solir.I1, 0))

	for i, p := range inputs {
		offset := codeLen + uint64(i*wordBytes)
		slotPtr := solir.GEPPtrOffset(block, solir.I8, outBuf, solir.IntConst(solir.I64, offset))
		g.encodeParam(block, slotPtr, p.Type, fn.Params[2+i])
	}

	totalLen := codeLen + uint64(len(inputs)*wordBytes)
	solir.Store(block, solir.IntConst(solir.I32, totalLen), outLen)
	solir.RetVoid(block)

	return fn
}

// paramLLVMType maps an ABI parameter type to its native shim-argument
// type, following original_source/src/cffigen.rs::add_abi_function's
// type table: integers that fit a machine register pass by value, wider
// integers and everything opaque (addresses, bytes, strings, arrays,
// tuples) pass as a raw byte pointer.
func (g *Generator) paramLLVMType(pt abi.ParamType) llvmtypes.Type {
	switch pt.Kind {
	case abi.KindUint, abi.KindInt:
		switch pt.Bits {
		case 8:
			return solir.I8
		case 16:
			return solir.I16
		case 32:
			return solir.I32
		case 64:
			return solir.I64
		default:
			return solir.I8Ptr
		}
	case abi.KindBool:
		return solir.I32
	default:
		return solir.I8Ptr
	}
}

// encodeParam writes one argument's wire-format encoding into the 32-byte
// slot at slotPtr (spec.md §4.F "Parameter rules per input type").
func (g *Generator) encodeParam(block *llvmir.Block, slotPtr llvmvalue.Value, pt abi.ParamType, arg llvmvalue.Value) {
	switch pt.Kind {
	case abi.KindUint, abi.KindInt:
		// Follow paramLLVMType: only 8/16/32/64-bit integers arrive by value.
		if _, byPtr := g.paramLLVMType(pt).(*llvmtypes.PointerType); byPtr {
			g.storeWideInt(block, slotPtr, arg, pt.Bits)
		} else {
			g.storeSmallInt(block, slotPtr, arg)
		}
	case abi.KindBool:
		g.storeSmallInt(block, slotPtr, arg)
	case abi.KindAddress:
		g.storeAddress(block, slotPtr, arg)
	default:
		Logger.Printf("shim: %s parameters are not implemented; producing no encoding", abi.Write(pt))
	}
}

// storeSmallInt zero-extends a register-width argument to 256 bits,
// writes it in the stack/memory buffers' native (little-endian) layout,
// then flips it to the wire's big-endian form in place.
func (g *Generator) storeSmallInt(block *llvmir.Block, slotPtr, arg llvmvalue.Value) {
	wide := solir.ZExt(block, arg, solir.I256)
	wordPtr := solir.BitCast(block, slotPtr, solir.I256Ptr)
	solir.Store(block, wide, wordPtr)
	solir.Call(block, g.br.SwapEndianness(), solir.BitcastToI8Ptr(block, slotPtr))
}

// storeWideInt handles integers passed by pointer (every width other than
// 8/16/32/64 bits): the argument is a pointer to its raw big-endian bytes (spec.md §4.F
// "pointer-load the raw bits"), so the slot is zeroed and the bytes are
// copied right-aligned — the big-endian equivalent of zero-extension.
func (g *Generator) storeWideInt(block *llvmir.Block, slotPtr, srcPtr llvmvalue.Value, bits int) {
	wordPtr := solir.BitCast(block, slotPtr, solir.I256Ptr)
	solir.Store(block, solir.IntConst(solir.I256, 0), wordPtr)

	byteWidth := uint64((bits + 7) / 8)
	destPtr := solir.GEPPtrOffset(block, solir.I8, slotPtr, solir.IntConst(solir.I64, wordBytes-byteWidth))
	solir.Call(block, g.memcpy(), destPtr, srcPtr, solir.IntConst(solir.I64, byteWidth), solir.IntConst(solir.I1, 0))
}

// storeAddress copies a 20-byte address into the low 20 bytes of the
// 32-byte slot (offset 12), per spec.md §4.F.
func (g *Generator) storeAddress(block *llvmir.Block, slotPtr, addrPtr llvmvalue.Value) {
	wordPtr := solir.BitCast(block, slotPtr, solir.I256Ptr)
	solir.Store(block, solir.IntConst(solir.I256, 0), wordPtr)

	destPtr := solir.GEPPtrOffset(block, solir.I8, slotPtr, solir.IntConst(solir.I64, 12))
	solir.Call(block, g.memcpy(), destPtr, addrPtr, solir.IntConst(solir.I64, 20), solir.IntConst(solir.I1, 0))
}
