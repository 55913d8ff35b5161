package codegen

import (
	"fmt"

	"github.com/0b01/solenoid/bytecode"
	"github.com/0b01/solenoid/disasm"
	solir "github.com/0b01/solenoid/ir"
	llvmir "github.com/llir/llvm/ir"
)

// CompileConstructor lowers a contract's deploy-time bytecode into a
// function named name, owning its own code global (spec.md §3 "Contract
// unit", §4.A-§4.G end-to-end).
func (c *Compiler) CompileConstructor(name string, code []byte) (*llvmir.Func, error) {
	return c.compileHalf(name, code, true)
}

// CompileRuntime lowers a contract's deployed bytecode into a function
// named name. It shares the constructor's stack/sp/mem globals but reads
// its code payload through the shared code_ptr indirection rather than
// owning it directly (spec.md §3).
func (c *Compiler) CompileRuntime(name string, code []byte) (*llvmir.Func, error) {
	return c.compileHalf(name, code, false)
}

func (c *Compiler) compileHalf(name string, code []byte, isConstructor bool) (*llvmir.Func, error) {
	instrs, err := disasm.Disassemble(code)
	if err != nil {
		return nil, fmt.Errorf("codegen: disassembling %s: %w", name, err)
	}

	fn := c.Mod.DeclareFunc(name, solir.Void,
		solir.Param("msg", solir.I8Ptr),
		solir.Param("msg_len", solir.I64),
		solir.Param("ret_offset", solir.I64Ptr),
		solir.Param("ret_len", solir.I64Ptr),
		solir.Param("storage", solir.I8Ptr),
		solir.Param("caller", solir.I8Ptr),
	)
	params := fn.Params

	fb := &funcBuilder{
		c:              c,
		fn:             fn,
		msgParam:       params[0],
		msgLenParam:    params[1],
		retOffsetParam: params[2],
		retLenParam:    params[3],
		storageParam:   params[4],
		callerParam:    params[5],
	}

	codeGlobal := c.Mod.DataGlobal(name+"_code", code)
	fb.codeNelems = uint64(len(code))
	if isConstructor {
		fb.codeG = codeGlobal
	}

	// entry must be the first block appended to fn: LLVM takes a
	// function's first basic block as its entry point regardless of name.
	entry := solir.NewBlock(fn, "entry")
	main := solir.NewBlock(fn, "main")

	fb.jumpdests = scanJumpDests(fn, instrs)
	fb.errbb = buildErrBB(fb)
	fb.jumpbb = buildJumpBB(fb)

	solir.Br(entry, main)
	fb.cur = main

	if !isConstructor {
		solir.Store(main, solir.BitcastToI8Ptr(main, codeGlobal), c.CodePtrG)
	}

	for _, pi := range instrs {
		// SelfDestruct ends compilation of this half: nothing after it is
		// lowered, the open block is closed as an implicit Stop below, and
		// any jumpdest block left empty routes to errbb.
		if pi.Instr.Op == bytecode.OpSelfDestruct {
			Logger.Printf("selfdestruct at offset %d in %s: compilation stops here", pi.Offset, name)
			for _, bb := range fb.jumpdests {
				if bb.Term == nil && bb != fb.cur {
					solir.Br(bb, fb.errbb)
				}
			}
			break
		}
		if err := lowerInstr(fb, pi); err != nil {
			return nil, fmt.Errorf("codegen: %s: %w", name, err)
		}
	}

	// A source stream that never executes an explicit Stop/Return falls
	// off the end; treat that the same as an implicit Stop (spec.md §4.D
	// "every block... falls through to exactly one successor except...").
	if fb.cur.Term == nil {
		solir.Store(fb.cur, solir.IntConst(solir.I64, 0), fb.retLenParam)
		solir.RetVoid(fb.cur)
	}

	return fn, nil
}
