package codegen

import (
	"fmt"

	"github.com/0b01/solenoid/bytecode"
	"github.com/0b01/solenoid/disasm"
	solir "github.com/0b01/solenoid/ir"
)

// terminatesBlock reports whether op ends the function (Stop/Return/
// Revert/Invalid) or hands off to the dispatch block (Jump) — in either
// case fb.cur's block now has a terminator and lowering the next source
// instruction, if any, needs a fresh block to land in. JumpIf manages its
// own continuation block and is excluded.
func terminatesBlock(op bytecode.Opcode) bool {
	switch op {
	case bytecode.OpStop, bytecode.OpReturn, bytecode.OpRevert, bytecode.OpInvalid, bytecode.OpJump:
		return true
	default:
		return false
	}
}

// lowerInstr lowers one source instruction into fb.cur, dispatching to
// the per-family lowerer and, for JumpDest, closing the current block
// with a branch into its pre-allocated target (spec.md §4.D, §4.E).
func lowerInstr(fb *funcBuilder, pi disasm.PosInstr) error {
	op := pi.Instr.Op

	if op == bytecode.OpJumpDest {
		target := fb.jumpdests[pi.Offset]
		solir.Br(fb.cur, target)
		fb.cur = target
		return nil
	}

	if op.Unimplemented() {
		lowerUnimplemented(fb, pi)
		return nil
	}

	switch op {
	case bytecode.OpPush, bytecode.OpPop, bytecode.OpDup, bytecode.OpSwap:
		if err := lowerStack(fb, pi); err != nil {
			return err
		}
	case bytecode.OpMLoad, bytecode.OpMStore, bytecode.OpMStore8, bytecode.OpSha3,
		bytecode.OpSLoad, bytecode.OpSStore, bytecode.OpCodeCopy, bytecode.OpCallDataCopy:
		lowerMem(fb, op)
	case bytecode.OpCallDataLoad, bytecode.OpCallDataSize, bytecode.OpCodeSize,
		bytecode.OpCallValue, bytecode.OpCaller:
		lowerEnv(fb, op)
	case bytecode.OpStop, bytecode.OpReturn, bytecode.OpRevert, bytecode.OpInvalid,
		bytecode.OpJump, bytecode.OpJumpIf:
		lowerControl(fb, op)
	default:
		lowerArith(fb, op)
	}

	if fb.c.Debug && !terminatesBlock(op) {
		fb.emitDumpStack(pi)
	}
	if terminatesBlock(op) {
		fb.cur = fb.freshBlock("dead_after_terminator")
	}
	return nil
}

// emitDumpStack inserts a call to the debug-only dump_stack bridge helper
// after a lowered instruction, gated by Compiler.Debug (spec.md §3 "An
// optional debug flag").
func (fb *funcBuilder) emitDumpStack(pi disasm.PosInstr) {
	block := fb.cur
	name := fmt.Sprintf("dbglabel_%d", pi.Offset)
	label := fb.c.Mod.StringGlobal(name, pi.Instr.String())
	solir.Call(block, fb.c.Bridge.DumpStack(),
		solir.BitcastToI8Ptr(block, label),
		fb.loadSP(block),
		solir.IntConst(solir.I64, pi.Offset),
		solir.BitcastToI8Ptr(block, fb.c.StackG),
		solir.BitcastToI8Ptr(block, fb.c.MemG))
}
