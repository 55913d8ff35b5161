package codegen

import (
	"fmt"

	"github.com/0b01/solenoid/bytecode"
	"github.com/0b01/solenoid/disasm"
	solir "github.com/0b01/solenoid/ir"
)

// lowerStack lowers Push/Pop/Dup/Swap — pure stack shuffles with no
// arithmetic content (spec.md §4.E).
func lowerStack(fb *funcBuilder, pi disasm.PosInstr) error {
	instr := pi.Instr
	switch instr.Op {
	case bytecode.OpPush:
		w, err := bytecode.FromBigEndianBytes(instr.Bytes)
		if err != nil {
			return fmt.Errorf("codegen: push at offset %d: %w", pi.Offset, err)
		}
		fb.push(fb.cur, solir.IntConstBig(solir.I256, w.Decimal()))

	case bytecode.OpPop:
		fb.dropN(fb.cur, 1)

	case bytecode.OpDup:
		// DUPn (n = instr.N+1) duplicates the n'th word from the top.
		n := uint64(instr.N) + 1
		v := fb.peek(fb.cur, n)
		fb.push(fb.cur, v)

	case bytecode.OpSwap:
		// SWAPn (n = instr.N+1) exchanges the top with the (n+1)'th word.
		n := uint64(instr.N) + 1
		block := fb.cur
		topPtr := fb.peekPtr(block, 1)
		otherPtr := fb.peekPtr(block, n+1)
		top := solir.Load(block, solir.I256, topPtr)
		other := solir.Load(block, solir.I256, otherPtr)
		solir.Store(block, other, topPtr)
		solir.Store(block, top, otherPtr)
	}
	return nil
}
