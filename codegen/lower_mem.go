package codegen

import (
	"github.com/0b01/solenoid/bytecode"
	solir "github.com/0b01/solenoid/ir"
	llvmir "github.com/llir/llvm/ir"
	llvmvalue "github.com/llir/llvm/ir/value"
)

// lowerMem lowers the memory, storage, and hashing opcodes: MLoad/MStore
// operate on the fixed 32KiB memory global at byte granularity, with no
// alignment assumption (spec.md §4.E "Memory").
func lowerMem(fb *funcBuilder, op bytecode.Opcode) {
	switch op {
	case bytecode.OpMLoad:
		block := fb.cur
		offset := fb.peek(block, 1)
		fb.dropN(block, 1)
		wordPtr := fb.memWordPtr(block, offset)
		fb.push(block, solir.Load(block, solir.I256, wordPtr))

	case bytecode.OpMStore:
		block := fb.cur
		offset := fb.peek(block, 1)
		value := fb.peek(block, 2)
		fb.dropN(block, 2)
		wordPtr := fb.memWordPtr(block, offset)
		solir.Store(block, value, wordPtr)

	case bytecode.OpMStore8:
		block := fb.cur
		offset := fb.peek(block, 1)
		value := fb.peek(block, 2)
		fb.dropN(block, 2)
		off64 := solir.Trunc(block, offset, solir.I64)
		bytePtr := solir.GEPByteOffset(block, bytecode.MemSize, fb.c.MemG, off64)
		lowByte := solir.Trunc(block, solir.And(block, value, solir.IntConst(solir.I256, 0xff)), solir.I8)
		solir.Store(block, lowByte, bytePtr)

	case bytecode.OpSha3:
		block := fb.cur
		offset := fb.peek(block, 1)
		length := fb.peek(block, 2)
		fb.dropN(block, 2)
		off64 := solir.Trunc(block, offset, solir.I64)
		len16 := solir.Trunc(block, length, solir.I16)
		inPtr := solir.GEPByteOffset(block, bytecode.MemSize, fb.c.MemG, off64)

		sp := fb.loadSP(block)
		outPtr := fb.slotPtr(block, sp, 0)
		fb.storeSP(block, solir.Add(block, sp, solir.IntConst(solir.I64, 1)))
		solir.Call(block, fb.c.Bridge.Keccak256(), inPtr, len16, solir.BitcastToI8Ptr(block, outPtr))

	case bytecode.OpSLoad:
		block := fb.cur
		keyPtr := fb.peekPtr(block, 1)
		solir.Call(block, fb.c.Bridge.SLoad(), fb.storage(block), solir.BitcastToI8Ptr(block, keyPtr))
		// sload writes the loaded value back over the key slot in place.

	case bytecode.OpSStore:
		block := fb.cur
		keyPtr := fb.peekPtr(block, 1)
		valPtr := fb.peekPtr(block, 2)
		solir.Call(block, fb.c.Bridge.SStore(), fb.storage(block),
			solir.BitcastToI8Ptr(block, keyPtr), solir.BitcastToI8Ptr(block, valPtr))
		fb.dropN(block, 2)

	case bytecode.OpCodeCopy:
		block := fb.cur
		destOffset := fb.peek(block, 1)
		srcOffset := fb.peek(block, 2)
		length := fb.peek(block, 3)
		fb.dropN(block, 3)
		fb.memcpyFromCode(block, destOffset, srcOffset, length)

	case bytecode.OpCallDataCopy:
		block := fb.cur
		destOffset := fb.peek(block, 1)
		srcOffset := fb.peek(block, 2)
		length := fb.peek(block, 3)
		fb.dropN(block, 3)
		destPtr := solir.GEPByteOffset(block, bytecode.MemSize, fb.c.MemG, solir.Trunc(block, destOffset, solir.I64))
		srcPtr := solir.GEPPtrOffset(block, solir.I8, fb.msgParam, solir.Trunc(block, srcOffset, solir.I64))
		solir.Call(block, fb.c.memcpy(), destPtr, srcPtr, solir.Trunc(block, length, solir.I64), solir.IntConst(solir.I1, 0))
	}
}

// memWordPtr computes a byte-granular pointer into mem at offset and
// bitcasts it to an i256*, for MLoad/MStore.
func (fb *funcBuilder) memWordPtr(block *llvmir.Block, offset llvmvalue.Value) *llvmir.InstBitCast {
	off64 := solir.Trunc(block, offset, solir.I64)
	bytePtr := solir.GEPByteOffset(block, bytecode.MemSize, fb.c.MemG, off64)
	return solir.BitCast(block, bytePtr, solir.I256Ptr)
}

// storage returns this half's storage pointer argument, bitcast to i8*.
func (fb *funcBuilder) storage(block *llvmir.Block) llvmvalue.Value {
	return solir.BitcastToI8Ptr(block, fb.storageParam)
}

// memcpyFromCode copies length bytes from srcOffset in this half's code
// payload to destOffset in mem. The constructor half reads its own
// immutable code global directly; the runtime half reads through the
// shared code_ptr global, which the runtime function itself sets to its
// own code global at entry (spec.md §3, §4.E
// "CodeCopy").
func (fb *funcBuilder) memcpyFromCode(block *llvmir.Block, destOffset, srcOffset, length llvmvalue.Value) {
	destPtr := solir.GEPByteOffset(block, bytecode.MemSize, fb.c.MemG, solir.Trunc(block, destOffset, solir.I64))

	var srcPtr llvmvalue.Value
	if fb.codeG != nil {
		srcPtr = solir.GEPByteOffset(block, fb.codeNelems, fb.codeG, solir.Trunc(block, srcOffset, solir.I64))
	} else {
		codePtr := solir.Load(block, solir.I8Ptr, fb.c.CodePtrG)
		srcPtr = solir.GEPPtrOffset(block, solir.I8, codePtr, solir.Trunc(block, srcOffset, solir.I64))
	}

	solir.Call(block, fb.c.memcpy(), destPtr, srcPtr, solir.Trunc(block, length, solir.I64), solir.IntConst(solir.I1, 0))
}
