package codegen

import (
	"github.com/0b01/solenoid/bytecode"
	solir "github.com/0b01/solenoid/ir"
	llvmenum "github.com/llir/llvm/ir/enum"
	llvmir "github.com/llir/llvm/ir"
	llvmvalue "github.com/llir/llvm/ir/value"
)

// lowerArith lowers the pure arithmetic and bitwise opcodes — everything
// that fits the pop-2-push-1 or pop-1-push-1 shape without touching
// control flow (spec.md §4.E).
func lowerArith(fb *funcBuilder, op bytecode.Opcode) {
	switch op {
	case bytecode.OpAdd:
		fb.binOp(fb.cur, addW)
	case bytecode.OpSub:
		fb.binOp(fb.cur, subW)
	case bytecode.OpMul:
		fb.binOp(fb.cur, mulW)
	case bytecode.OpAnd:
		fb.binOp(fb.cur, andW)
	case bytecode.OpOr:
		fb.binOp(fb.cur, orW)
	case bytecode.OpXor:
		fb.binOp(fb.cur, xorW)
	case bytecode.OpNot:
		fb.unOp(fb.cur, func(block *llvmir.Block, a llvmvalue.Value) llvmvalue.Value {
			allOnes := solir.IntConst(solir.I256, ^uint64(0))
			return solir.Xor(block, a, allOnes)
		})
	case bytecode.OpIsZero:
		fb.unOp(fb.cur, func(block *llvmir.Block, a llvmvalue.Value) llvmvalue.Value {
			zero := solir.IntConst(solir.I256, 0)
			cmp := solir.ICmp(block, solir.PredEQ, a, zero)
			return solir.ZExt(block, cmp, solir.I256)
		})
	case bytecode.OpLt:
		fb.binOp(fb.cur, cmpOp(solir.PredULT))
	case bytecode.OpGt:
		fb.binOp(fb.cur, cmpOp(solir.PredUGT))
	case bytecode.OpSLt:
		fb.binOp(fb.cur, cmpOp(solir.PredSLT))
	case bytecode.OpSGt:
		fb.binOp(fb.cur, cmpOp(solir.PredSGT))
	case bytecode.OpEQ:
		fb.binOp(fb.cur, cmpOp(solir.PredEQ))
	case bytecode.OpShl:
		// Stack: shift (top), value. Result = value << shift.
		fb.binOp(fb.cur, func(block *llvmir.Block, shift, value llvmvalue.Value) llvmvalue.Value {
			return solir.Shl(block, value, shift)
		})
	case bytecode.OpShr:
		fb.binOp(fb.cur, func(block *llvmir.Block, shift, value llvmvalue.Value) llvmvalue.Value {
			return solir.LShr(block, value, shift)
		})
	case bytecode.OpSar:
		fb.binOp(fb.cur, func(block *llvmir.Block, shift, value llvmvalue.Value) llvmvalue.Value {
			return solir.AShr(block, value, shift)
		})
	case bytecode.OpAddMod:
		lowerAddMulMod(fb, addW)
	case bytecode.OpMulMod:
		lowerAddMulMod(fb, mulW)
	case bytecode.OpDiv:
		lowerDivMod(fb, fb.c.Bridge.UDiv256(), true)
	case bytecode.OpMod:
		lowerDivMod(fb, fb.c.Bridge.UDiv256(), false)
	case bytecode.OpSDiv:
		lowerDivMod(fb, fb.c.Bridge.SDiv256(), true)
	case bytecode.OpSMod:
		lowerDivMod(fb, fb.c.Bridge.SDiv256(), false)
	case bytecode.OpExp:
		lowerExp(fb)
	case bytecode.OpByte:
		lowerByte(fb)
	case bytecode.OpSignExtend:
		lowerSignExtend(fb)
	}
}

// Adapters from the ir package's concrete-instruction-returning binary ops
// to the llvmvalue.Value-returning shape binOp/lowerAddMulMod expect.
func addW(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value { return solir.Add(block, x, y) }
func subW(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value { return solir.Sub(block, x, y) }
func mulW(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value { return solir.Mul(block, x, y) }
func andW(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value { return solir.And(block, x, y) }
func orW(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value  { return solir.Or(block, x, y) }
func xorW(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value { return solir.Xor(block, x, y) }

func cmpOp(pred llvmenum.IPred) func(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value {
	return func(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value {
		cmp := solir.ICmp(block, pred, x, y)
		return solir.ZExt(block, cmp, solir.I256)
	}
}

// lowerAddMulMod implements the documented wrapping-then-mod simplification
// (spec.md open question, resolved as-is): the intermediate a OP b is
// computed at native 256-bit width — genuinely overflowing moduli lose
// the carry — then reduced mod n with a plain urem, rather than the
// unbounded-precision arithmetic the bytecode semantics technically call
// for.
func lowerAddMulMod(fb *funcBuilder, combine func(block *llvmir.Block, x, y llvmvalue.Value) llvmvalue.Value) {
	block := fb.cur
	a := fb.peek(block, 1)
	b := fb.peek(block, 2)
	n := fb.peek(block, 3)
	fb.dropN(block, 3)
	sum := combine(block, a, b)
	fb.push(block, solir.URem(block, sum, n))
}

// lowerDivMod implements the three-pointer division pattern. Stack order
// is dividend a (top), divisor b: the dividend and divisor slots are
// handed to the runtime helper as n/d, and the genuinely free slot one
// past the top (the same slot OpSha3 and the lowerByte/lowerSignExtend
// merge-block pattern use for their own output) receives the quotient
// through q while the helper overwrites n in place with the remainder
// (spec.md §4.C, §4.E "Division and modulus"). Div/Mod are strictly
// 2-operand instructions — reaching a third real stack slot for scratch
// space would read out of bounds when sp==2 and clobber a live value
// when sp>2.
func lowerDivMod(fb *funcBuilder, helper *llvmir.Func, wantQuotient bool) {
	block := fb.cur
	sp := fb.loadSP(block)
	nPtr := fb.slotPtr(block, sp, 1) // dividend a, top of stack
	dPtr := fb.slotPtr(block, sp, 2) // divisor b
	qPtr := fb.slotPtr(block, sp, 0) // free scratch slot just above the top

	solir.Call(block, helper,
		solir.BitcastToI8Ptr(block, nPtr),
		solir.BitcastToI8Ptr(block, dPtr),
		solir.BitcastToI8Ptr(block, qPtr))

	var result llvmvalue.Value
	if wantQuotient {
		result = solir.Load(block, solir.I256, qPtr)
	} else {
		result = solir.Load(block, solir.I256, nPtr)
	}

	fb.dropN(block, 2)
	fb.push(block, result)
}

// lowerExp computes base**exp mod 2**256 via the powmod bridge helper,
// writing the result back in place over the base operand's own slot.
func lowerExp(fb *funcBuilder) {
	block := fb.cur
	basePtr := fb.peekPtr(block, 1)
	expPtr := fb.peekPtr(block, 2)

	solir.Call(block, fb.c.Bridge.Powmod(),
		solir.BitcastToI8Ptr(block, basePtr),
		solir.BitcastToI8Ptr(block, expPtr),
		solir.BitcastToI8Ptr(block, basePtr))

	fb.dropN(block, 2)
	fb.push(block, solir.Load(block, solir.I256, basePtr))
}

// lowerByte extracts the i-th big-endian byte of x (0 = most significant),
// or 0 if i >= 32. The out-of-range guard is a real conditional split —
// the shift amount (31-i)*8 is meaningless once i >= 32 — so this is one
// of the few opcodes that branches rather than computing straight-line.
func lowerByte(fb *funcBuilder) {
	entry := fb.cur
	i := fb.peek(entry, 1)
	x := fb.peek(entry, 2)
	fb.dropN(entry, 2)

	sp := fb.loadSP(entry)
	ptr := fb.slotPtr(entry, sp, 0) // the slot push would use next; compute once, write from both arms
	fb.storeSP(entry, solir.Add(entry, sp, solir.IntConst(solir.I64, 1)))

	outOfRange := solir.ICmp(entry, solir.PredUGE, i, solir.IntConst(solir.I256, 32))
	oobBB := fb.freshBlock("byte_oob")
	inBB := fb.freshBlock("byte_in_range")
	mergeBB := fb.freshBlock("byte_merge")
	solir.CondBr(entry, outOfRange, oobBB, inBB)

	solir.Store(oobBB, solir.IntConst(solir.I256, 0), ptr)
	solir.Br(oobBB, mergeBB)

	shiftBits := solir.Mul(inBB, solir.Sub(inBB, solir.IntConst(solir.I256, 31), i), solir.IntConst(solir.I256, 8))
	shifted := solir.LShr(inBB, x, shiftBits)
	masked := solir.And(inBB, shifted, solir.IntConst(solir.I256, 0xff))
	solir.Store(inBB, masked, ptr)
	solir.Br(inBB, mergeBB)

	fb.cur = mergeBB
}

// lowerSignExtend sign-extends x from the (b+1)-byte boundary outward, or
// leaves x unchanged if b >= 31 (a 32-byte or wider boundary leaves nothing
// to extend, and bitpos+1 = 256 would be an out-of-range shift; spec.md
// §4.E). Uses mask-then-flip-sign
// trick: with bitpos = b*8+7, mask = (1<<(bitpos+1))-1, t = 1<<bitpos,
// result = ((x & mask) ^ t) - t.
func lowerSignExtend(fb *funcBuilder) {
	entry := fb.cur
	b := fb.peek(entry, 1)
	x := fb.peek(entry, 2)
	fb.dropN(entry, 2)

	sp := fb.loadSP(entry)
	ptr := fb.slotPtr(entry, sp, 0)
	fb.storeSP(entry, solir.Add(entry, sp, solir.IntConst(solir.I64, 1)))

	noop := solir.ICmp(entry, solir.PredUGE, b, solir.IntConst(solir.I256, 31))
	noopBB := fb.freshBlock("signextend_noop")
	extBB := fb.freshBlock("signextend_compute")
	mergeBB := fb.freshBlock("signextend_merge")
	solir.CondBr(entry, noop, noopBB, extBB)

	solir.Store(noopBB, x, ptr)
	solir.Br(noopBB, mergeBB)

	one := solir.IntConst(solir.I256, 1)
	bitpos := solir.Add(extBB, solir.Mul(extBB, b, solir.IntConst(solir.I256, 8)), solir.IntConst(solir.I256, 7))
	mask := solir.Sub(extBB, solir.Shl(extBB, one, solir.Add(extBB, bitpos, one)), one)
	t := solir.Shl(extBB, one, bitpos)
	xm := solir.And(extBB, x, mask)
	result := solir.Sub(extBB, solir.Xor(extBB, xm, t), t)
	solir.Store(extBB, result, ptr)
	solir.Br(extBB, mergeBB)

	fb.cur = mergeBB
}
