package ir

import (
	llvmconstant "github.com/llir/llvm/ir/constant"
	llvmenum "github.com/llir/llvm/ir/enum"
	llvmir "github.com/llir/llvm/ir"
	llvmtypes "github.com/llir/llvm/ir/types"
	llvmvalue "github.com/llir/llvm/ir/value"
)

// NewBlock appends a new, empty basic block to fn and returns it. Because
// llir/llvm basic blocks are ordinary Go pointers, a block can be created
// — and referenced by a switch's case list — before any of its own
// instructions are emitted. This is how jumpbb is built ahead of the
// jumpdest blocks it dispatches to (spec.md §4.D, §4.B "forward
// references").
func NewBlock(fn *llvmir.Func, name string) *llvmir.Block {
	return fn.NewBlock(name)
}

// Case builds one switch arm: when x equals value, branch to target.
func Case(typ *llvmtypes.IntType, value uint64, target *llvmir.Block) *llvmir.Case {
	return llvmir.NewCase(llvmconstant.NewInt(typ, int64(value)), target)
}

// Switch terminates block with a switch on x, branching to the matching
// case or def by default — the dispatch block's terminator (spec.md
// §4.D).
func Switch(block *llvmir.Block, x llvmvalue.Value, def *llvmir.Block, cases ...*llvmir.Case) *llvmir.TermSwitch {
	return block.NewSwitch(x, def, cases...)
}

// CondBr terminates block with a conditional branch.
func CondBr(block *llvmir.Block, cond llvmvalue.Value, then, els *llvmir.Block) *llvmir.TermCondBr {
	return block.NewCondBr(cond, then, els)
}

// Br terminates block with an unconditional branch.
func Br(block *llvmir.Block, target *llvmir.Block) *llvmir.TermBr {
	return block.NewBr(target)
}

// RetVoid terminates block with a bare return.
func RetVoid(block *llvmir.Block) *llvmir.TermRet {
	return block.NewRet(nil)
}

// GEPArrayElem computes a pointer to element idx of the array global arr
// (element type elemType), e.g. &stack[sp] or &mem[offset].
func GEPArrayElem(block *llvmir.Block, elemType llvmtypes.Type, arrNelems uint64, arr llvmvalue.Value, idx llvmvalue.Value) *llvmir.InstGetElementPtr {
	arrTy := llvmtypes.NewArray(arrNelems, elemType)
	zero := llvmconstant.NewInt(llvmtypes.I64, 0)
	return block.NewGetElementPtr(arrTy, arr, zero, idx)
}

// GEPByteOffset computes a byte pointer offset bytes into a flat [N x i8]
// array global, e.g. indexing into the mem/code byte arrays.
func GEPByteOffset(block *llvmir.Block, arrNelems uint64, arr llvmvalue.Value, offset llvmvalue.Value) *llvmir.InstGetElementPtr {
	return GEPArrayElem(block, I8, arrNelems, arr, offset)
}

// GEPPtrOffset computes elemType*(ptr) + idx for a plain pointer parameter
// (not an array global), e.g. indexing into the msg calldata buffer whose
// size is only known at runtime.
func GEPPtrOffset(block *llvmir.Block, elemType llvmtypes.Type, ptr llvmvalue.Value, idx llvmvalue.Value) *llvmir.InstGetElementPtr {
	return block.NewGetElementPtr(elemType, ptr, idx)
}

// Load reads a typ-typed value from ptr.
func Load(block *llvmir.Block, typ llvmtypes.Type, ptr llvmvalue.Value) *llvmir.InstLoad {
	return block.NewLoad(typ, ptr)
}

// Store writes src to ptr.
func Store(block *llvmir.Block, src, ptr llvmvalue.Value) *llvmir.InstStore {
	return block.NewStore(src, ptr)
}

// Call emits a call to callee with args.
func Call(block *llvmir.Block, callee llvmvalue.Value, args ...llvmvalue.Value) *llvmir.InstCall {
	return block.NewCall(callee, args...)
}

// BitcastToI8Ptr casts ptr (any pointer type) to i8*, the pointer type the
// runtime bridge helpers accept.
func BitcastToI8Ptr(block *llvmir.Block, ptr llvmvalue.Value) *llvmir.InstBitCast {
	return block.NewBitCast(ptr, I8Ptr)
}

// BitCast casts ptr to an arbitrary pointer type, e.g. reinterpreting a
// byte offset into the memory buffer as an i256* for MLoad/MStore.
func BitCast(block *llvmir.Block, ptr llvmvalue.Value, to llvmtypes.Type) *llvmir.InstBitCast {
	return block.NewBitCast(ptr, to)
}

// ZExt zero-extends x to typ.
func ZExt(block *llvmir.Block, x llvmvalue.Value, typ llvmtypes.Type) *llvmir.InstZExt {
	return block.NewZExt(x, typ)
}

// SExt sign-extends x to typ.
func SExt(block *llvmir.Block, x llvmvalue.Value, typ llvmtypes.Type) *llvmir.InstSExt {
	return block.NewSExt(x, typ)
}

// Trunc truncates x to typ.
func Trunc(block *llvmir.Block, x llvmvalue.Value, typ llvmtypes.Type) *llvmir.InstTrunc {
	return block.NewTrunc(x, typ)
}

// Binary integer ops, one function per opcode family the lowerer needs.
func Add(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstAdd   { return block.NewAdd(x, y) }
func Sub(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstSub   { return block.NewSub(x, y) }
func Mul(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstMul   { return block.NewMul(x, y) }
func And(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstAnd   { return block.NewAnd(x, y) }
func Or(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstOr     { return block.NewOr(x, y) }
func Xor(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstXor   { return block.NewXor(x, y) }
func Shl(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstShl   { return block.NewShl(x, y) }
func LShr(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstLShr { return block.NewLShr(x, y) }
func AShr(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstAShr { return block.NewAShr(x, y) }
func UDiv(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstUDiv { return block.NewUDiv(x, y) }
func URem(block *llvmir.Block, x, y llvmvalue.Value) *llvmir.InstURem { return block.NewURem(x, y) }

// ICmp predicates used by the comparison opcodes.
const (
	PredEQ  = llvmenum.IPredEQ
	PredNE  = llvmenum.IPredNE
	PredULT = llvmenum.IPredULT
	PredUGT = llvmenum.IPredUGT
	PredUGE = llvmenum.IPredUGE
	PredSLT = llvmenum.IPredSLT
	PredSGT = llvmenum.IPredSGT
)

// ICmp compares x and y under pred, producing an i1.
func ICmp(block *llvmir.Block, pred llvmenum.IPred, x, y llvmvalue.Value) *llvmir.InstICmp {
	return block.NewICmp(pred, x, y)
}
