package codegen

import (
	"fmt"

	"github.com/0b01/solenoid/bytecode"
	"github.com/0b01/solenoid/disasm"
	solir "github.com/0b01/solenoid/ir"
	llvmir "github.com/llir/llvm/ir"
)

// scanJumpDests pre-allocates one empty block per JumpDest instruction
// (spec.md §4.D "two-pass"): a first pass over the flat instruction list
// builds every jumpdest's block so that later instructions — including
// ones lexically preceding their own target — can forward-reference it,
// and so jumpbb's switch can be built before any instruction lowering
// happens.
func scanJumpDests(fn *llvmir.Func, instrs []disasm.PosInstr) map[uint64]*llvmir.Block {
	dests := make(map[uint64]*llvmir.Block)
	for _, pi := range instrs {
		if pi.Instr.Op == bytecode.OpJumpDest {
			dests[pi.Offset] = solir.NewBlock(fn, jumpdestLabel(pi.Offset))
		}
	}
	return dests
}

func jumpdestLabel(offset uint64) string {
	return fmt.Sprintf("jumpdest_%d", offset)
}

// buildErrBB builds the distinguished error block: it calls the revert
// bridge helper and returns (spec.md §4.D, §4.C). Every invalid jump
// target and every Revert/Invalid opcode branches here.
func buildErrBB(fb *funcBuilder) *llvmir.Block {
	bb := solir.NewBlock(fb.fn, "errbb")
	solir.Call(bb, fb.c.Bridge.Revert())
	solir.RetVoid(bb)
	return bb
}

// buildJumpBB builds the distinguished dispatch block: it pops the
// destination word off the stack and switches on it, branching to the
// matching jumpdest block or to errbb if the destination was never a
// JumpDest (spec.md §4.D "single dispatch block").
func buildJumpBB(fb *funcBuilder) *llvmir.Block {
	bb := solir.NewBlock(fb.fn, "jumpbb")

	sp := solir.Load(bb, solir.I64, fb.c.SPG)
	newSP := solir.Sub(bb, sp, solir.IntConst(solir.I64, 1))
	solir.Store(bb, newSP, fb.c.SPG)

	destPtr := solir.GEPArrayElem(bb, solir.I256, bytecode.StackSize, fb.c.StackG, newSP)
	dest256 := solir.Load(bb, solir.I256, destPtr)

	// Switch on the full 256-bit word, so a destination whose low 64 bits
	// happen to equal a JumpDest offset still falls to errbb.
	cases := make([]*llvmir.Case, 0, len(fb.jumpdests))
	for offset, target := range fb.jumpdests {
		cases = append(cases, solir.Case(solir.I256, offset, target))
	}
	solir.Switch(bb, dest256, fb.errbb, cases...)
	return bb
}
