// Package codegen is the hard core of this repository: it reconstructs
// structured control flow from a flat, dynamically-jumping bytecode
// stream (spec.md §4.D) and lowers each source opcode to semantically
// equivalent typed SSA IR (spec.md §4.E), using the ir façade (component
// B) and the bridge's externally-linked helpers (component C).
package codegen

import (
	"fmt"
	"log"

	"github.com/0b01/solenoid/bridge"
	"github.com/0b01/solenoid/bytecode"
	solir "github.com/0b01/solenoid/ir"
	llvmir "github.com/llir/llvm/ir"
)

// Logger is used for compile-time degraded diagnostics (unimplemented
// opcodes, per spec.md §7). It writes to the standard logger's output
// (stderr by default) whether or not debug mode is on; a caller may
// redirect it with Logger.SetOutput. The --debug stack-dump insertion is
// gated by Compiler.Debug, not by this logger.
var Logger = log.New(log.Writer(), "codegen: ", 0)

// Compiler owns one CompilerState's globals for one contract compilation
// unit: the stack, sp, mem, and code_ptr globals are shared between the
// constructor and runtime halves (spec.md §3 "Contract unit"); `code`
// itself is owned by whichever half is compiling (the constructor
// initializes it from the deploy payload; the runtime reads through
// code_ptr instead). One Compiler per ir.Module — not reentrant
// (spec.md §5).
type Compiler struct {
	Mod    *solir.Module
	Bridge *bridge.Bridge
	Debug  bool

	StackG   *llvmir.Global // [1024 x i256]
	SPG      *llvmir.Global // i64
	MemG     *llvmir.Global // [32768 x i8]
	CodePtrG *llvmir.Global // i8* — set per runtime invocation

	memcpyFn *llvmir.Func
}

// memcpy returns the shared llvm.memcpy intrinsic declaration, declaring
// it on first use.
func (c *Compiler) memcpy() *llvmir.Func {
	if c.memcpyFn == nil {
		c.memcpyFn = c.Mod.DeclareMemcpy()
	}
	return c.memcpyFn
}

// NewCompiler creates a Compiler bound to a fresh module named name. debug
// enables dump_stack call insertion after every lowered instruction
// (spec.md §3 "An optional debug flag").
func NewCompiler(name string, debug bool) *Compiler {
	mod := solir.NewModule(name)
	c := &Compiler{
		Mod:    mod,
		Bridge: bridge.New(mod),
		Debug:  debug,
	}
	c.StackG = mod.ZeroArrayGlobal("stack", solir.I256, bytecode.StackSize)
	c.SPG = mod.ScalarGlobal("sp", solir.I64)
	c.MemG = mod.ZeroArrayGlobal("mem", solir.I8, bytecode.MemSize)
	c.CodePtrG = mod.ScalarGlobal("code_ptr", solir.I8Ptr)
	return c
}

// funcBuilder is the per-contract-half compile state: the current
// function, its jumpdest block table, the two distinguished blocks, and
// the block the lowerer is currently appending into. This is
// CompilerState restricted to the parts that don't survive across the
// constructor/runtime boundary (spec.md §3).
type funcBuilder struct {
	c *Compiler

	fn  *llvmir.Func
	cur *llvmir.Block

	jumpdests map[uint64]*llvmir.Block
	jumpbb    *llvmir.Block
	errbb     *llvmir.Block

	// codeG is this half's view of the immutable code payload: the
	// constructor's own `code` global, or nil for the runtime half
	// (which reads through CodePtrG instead; spec.md §3). codeNelems is
	// this half's own code length regardless of which branch holds —
	// CodeCopy's source-pointer computation needs codeG, but CodeSize
	// only needs the length, which is known for both halves.
	codeG      *llvmir.Global
	codeNelems uint64

	msgParam, msgLenParam, retOffsetParam, retLenParam, storageParam, callerParam *llvmir.Param

	labelSeq int
}

func (fb *funcBuilder) label(prefix string) string {
	fb.labelSeq++
	return fmt.Sprintf("%s_%d", prefix, fb.labelSeq)
}

// freshBlock appends a new block named prefix_<n> to fn and returns it; it
// does not change fb.cur, so callers assign it when it should become the
// current block — as lowerInstr does after any terminator, so later dead
// code (if the input stream has any past a Stop/Return/Revert/Jump) still
// has somewhere syntactically valid to land.
func (fb *funcBuilder) freshBlock(prefix string) *llvmir.Block {
	return solir.NewBlock(fb.fn, fb.label(prefix))
}
