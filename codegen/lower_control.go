package codegen

import (
	"github.com/0b01/solenoid/bytecode"
	solir "github.com/0b01/solenoid/ir"
)

// lowerControl lowers the terminator opcodes: Stop/Return/Revert/Invalid
// end the function outright, Jump/JumpIf hand off to the dispatch block
// (spec.md §4.D, §4.E). The caller (lowerInstr in lower.go) opens a fresh
// block for fb.cur after any of these except JumpIf, which opens its own,
// so a source stream with trailing dead code past a terminator still has
// somewhere valid to land.
func lowerControl(fb *funcBuilder, op bytecode.Opcode) {
	switch op {
	case bytecode.OpStop:
		block := fb.cur
		solir.Store(block, solir.IntConst(solir.I64, 0), fb.retLenParam)
		solir.RetVoid(block)

	case bytecode.OpReturn:
		block := fb.cur
		offset := fb.peek(block, 1)
		length := fb.peek(block, 2)
		fb.dropN(block, 2)
		solir.Store(block, solir.Trunc(block, offset, solir.I64), fb.retOffsetParam)
		solir.Store(block, solir.Trunc(block, length, solir.I64), fb.retLenParam)
		solir.RetVoid(block)

	case bytecode.OpRevert, bytecode.OpInvalid:
		solir.Br(fb.cur, fb.errbb)

	case bytecode.OpJump:
		solir.Br(fb.cur, fb.jumpbb)

	case bytecode.OpJumpIf:
		lowerJumpIf(fb)
	}
}

// lowerJumpIf pops (dest, cond) — dest on top — pushes dest back, then
// conditionally branches to jumpbb when cond != 0. jumpbb itself pops the
// destination it dispatches on, so the fall-through path must compensate
// by decrementing sp once more, leaving sp down by 2 relative to entry on
// both paths (spec.md §4.E "JumpIf", §8 property 4).
func lowerJumpIf(fb *funcBuilder) {
	block := fb.cur
	dest := fb.peek(block, 1)
	cond := fb.peek(block, 2)
	fb.dropN(block, 2)
	fb.push(block, dest)

	taken := solir.ICmp(block, solir.PredNE, cond, solir.IntConst(solir.I256, 0))
	fallthroughBB := fb.freshBlock("jumpif_fallthrough")
	solir.CondBr(block, taken, fb.jumpbb, fallthroughBB)

	fb.dropN(fallthroughBB, 1)
	fb.cur = fallthroughBB
}
