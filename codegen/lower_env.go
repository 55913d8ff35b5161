package codegen

import (
	"github.com/0b01/solenoid/bytecode"
	"github.com/0b01/solenoid/disasm"
	solir "github.com/0b01/solenoid/ir"
	llvmir "github.com/llir/llvm/ir"
	llvmvalue "github.com/llir/llvm/ir/value"
)

// lowerEnv lowers the small set of environment-introspection opcodes that
// carry simplified-but-implemented semantics (spec.md's disposition for
// CallValue/Caller), plus CallDataLoad/CallDataSize/CodeSize. Opcodes
// bytecode.Opcode.Unimplemented() reports true for are handled by
// lowerUnimplemented instead and never reach this function.
func lowerEnv(fb *funcBuilder, op bytecode.Opcode) {
	switch op {
	case bytecode.OpCallDataLoad:
		block := fb.cur
		offset := fb.peek(block, 1)
		fb.dropN(block, 1)
		fb.pushWireWord(block, solir.GEPPtrOffset(block, solir.I8, fb.msgParam, solir.Trunc(block, offset, solir.I64)))

	case bytecode.OpCallDataSize:
		fb.push(fb.cur, solir.ZExt(fb.cur, fb.msgLenParam, solir.I256))

	case bytecode.OpCodeSize:
		fb.push(fb.cur, solir.IntConst(solir.I256, fb.codeNelems))

	case bytecode.OpCallValue:
		// No native value-transfer model exists at this layer; a contract
		// compiled here always observes zero value sent (spec.md open
		// question, resolved as-is).
		fb.push(fb.cur, solir.IntConst(solir.I256, 0))

	case bytecode.OpCaller:
		// The caller argument is a 20-byte address: zero the new slot, copy
		// the address into its low 20 bytes in wire order (offset 12), then
		// byte-swap the whole word into the stack's native layout.
		block := fb.cur
		sp := fb.loadSP(block)
		ptr := fb.slotPtr(block, sp, 0)
		fb.storeSP(block, solir.Add(block, sp, solir.IntConst(solir.I64, 1)))
		solir.Store(block, solir.IntConst(solir.I256, 0), ptr)
		dst := solir.BitcastToI8Ptr(block, ptr)
		addrDst := solir.GEPPtrOffset(block, solir.I8, dst, solir.IntConst(solir.I64, 12))
		solir.Call(block, fb.c.memcpy(), addrDst, fb.callerParam, solir.IntConst(solir.I64, 20), solir.IntConst(solir.I1, 0))
		solir.Call(block, fb.c.Bridge.SwapEndianness(), dst)
	}
}

// pushWireWord reserves the next stack slot, copies 32 raw bytes from src
// (a big-endian "wire format" buffer such as calldata) into it, and
// byte-swaps it in place into the native little-endian layout the stack
// array uses (spec.md §3, §4.C SwapEndianness).
func (fb *funcBuilder) pushWireWord(block *llvmir.Block, src llvmvalue.Value) {
	sp := fb.loadSP(block)
	ptr := fb.slotPtr(block, sp, 0)
	fb.storeSP(block, solir.Add(block, sp, solir.IntConst(solir.I64, 1)))

	dst := solir.BitcastToI8Ptr(block, ptr)
	solir.Call(block, fb.c.memcpy(), dst, src, solir.IntConst(solir.I64, bytecode.WordBytes), solir.IntConst(solir.I1, 0))
	solir.Call(block, fb.c.Bridge.SwapEndianness(), dst)
}

// lowerUnimplemented handles opcodes the compiler recognizes but does not
// translate to semantically equivalent IR: it emits a diagnostic and
// leaves no trace in the module (spec.md §4.E, §7).
func lowerUnimplemented(fb *funcBuilder, pi disasm.PosInstr) {
	Logger.Printf("unimplemented opcode %s at offset %d: compiled to no-op", pi.Instr.Op, pi.Offset)
}
