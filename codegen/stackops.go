package codegen

import (
	"github.com/0b01/solenoid/bytecode"
	solir "github.com/0b01/solenoid/ir"
	llvmir "github.com/llir/llvm/ir"
	llvmvalue "github.com/llir/llvm/ir/value"
)

// loadSP reads the current stack pointer in block.
func (fb *funcBuilder) loadSP(block *llvmir.Block) llvmvalue.Value {
	return solir.Load(block, solir.I64, fb.c.SPG)
}

// storeSP writes v as the new stack pointer in block.
func (fb *funcBuilder) storeSP(block *llvmir.Block, v llvmvalue.Value) {
	solir.Store(block, v, fb.c.SPG)
}

// slotPtr computes &stack[sp-back] in block, a pointer to the back'th word
// from the top (back=1 is the current top of stack).
func (fb *funcBuilder) slotPtr(block *llvmir.Block, sp llvmvalue.Value, back uint64) *llvmir.InstGetElementPtr {
	idx := solir.Sub(block, sp, solir.IntConst(solir.I64, back))
	return solir.GEPArrayElem(block, solir.I256, bytecode.StackSize, fb.c.StackG, idx)
}

// peek loads the back'th word from the top of stack without adjusting sp.
func (fb *funcBuilder) peek(block *llvmir.Block, back uint64) llvmvalue.Value {
	sp := fb.loadSP(block)
	ptr := fb.slotPtr(block, sp, back)
	return solir.Load(block, solir.I256, ptr)
}

// peekPtr is like peek but returns the address instead of the loaded
// value, for opcodes (SLoad/SStore, Exp) that hand a pointer to a stack
// slot straight to a runtime bridge helper, and for Swap.
func (fb *funcBuilder) peekPtr(block *llvmir.Block, back uint64) *llvmir.InstGetElementPtr {
	sp := fb.loadSP(block)
	return fb.slotPtr(block, sp, back)
}

// dropN decrements sp by n, discarding the top n words.
func (fb *funcBuilder) dropN(block *llvmir.Block, n uint64) {
	sp := fb.loadSP(block)
	fb.storeSP(block, solir.Sub(block, sp, solir.IntConst(solir.I64, n)))
}

// push writes v to the slot at the current sp and increments sp by one —
// the canonical "pop k, compute, push 1" tail shared by nearly every
// arithmetic and bitwise opcode.
func (fb *funcBuilder) push(block *llvmir.Block, v llvmvalue.Value) {
	sp := fb.loadSP(block)
	ptr := solir.GEPArrayElem(block, solir.I256, bytecode.StackSize, fb.c.StackG, sp)
	solir.Store(block, v, ptr)
	fb.storeSP(block, solir.Add(block, sp, solir.IntConst(solir.I64, 1)))
}

// binOp implements the pop-2/push-1 pattern: peek the top two words
// (leaving them in place), drop both, then push f's result. Mirrors
// original_source/src/compiler.rs's peek(1)/peek(2)/decr(2)/push shape.
func (fb *funcBuilder) binOp(block *llvmir.Block, f func(block *llvmir.Block, a, b llvmvalue.Value) llvmvalue.Value) {
	a := fb.peek(block, 1)
	b := fb.peek(block, 2)
	fb.dropN(block, 2)
	fb.push(block, f(block, a, b))
}

// unOp implements the pop-1/push-1 pattern.
func (fb *funcBuilder) unOp(block *llvmir.Block, f func(block *llvmir.Block, a llvmvalue.Value) llvmvalue.Value) {
	a := fb.peek(block, 1)
	fb.dropN(block, 1)
	fb.push(block, f(block, a))
}

// bitcastSlot returns an i8* view of the back'th stack slot from the
// top, for passing to bridge helpers that operate on raw byte buffers.
func (fb *funcBuilder) bitcastSlot(block *llvmir.Block, back uint64) llvmvalue.Value {
	return solir.BitcastToI8Ptr(block, fb.peekPtr(block, back))
}
