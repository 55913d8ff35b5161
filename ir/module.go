// Package ir is a thin façade over github.com/llir/llvm, the typed SSA IR
// library this compiler targets (spec.md §4.B). It exposes only the
// handful of constructs codegen needs: typed globals, forward-referenceable
// basic blocks, GEP-style addressing, switch terminators, and the
// zero/sign-extend/truncate casts the lowerer requires. Nothing here
// optimizes or verifies IR — that is the external backend's job
// (spec.md §1).
package ir

import (
	"fmt"
	"io"

	llvmconstant "github.com/llir/llvm/ir/constant"
	llvmir "github.com/llir/llvm/ir"
	llvmtypes "github.com/llir/llvm/ir/types"
)

// Common integer types used throughout codegen.
var (
	I1   = llvmtypes.I1
	I8   = llvmtypes.I8
	I16  = llvmtypes.I16
	I32  = llvmtypes.I32
	I64  = llvmtypes.I64
	I256 = llvmtypes.NewInt(256)
	Void = llvmtypes.Void
)

// I8Ptr is the generic byte-pointer type used for buffer arguments handed
// to runtime bridge helpers.
var I8Ptr = llvmtypes.NewPointer(I8)

// I256Ptr is a pointer to one 256-bit word, the type memory/storage
// accesses are bitcast to after computing a byte offset.
var I256Ptr = llvmtypes.NewPointer(I256)

// I64Ptr is the type of the ret_offset/ret_len out-parameters.
var I64Ptr = llvmtypes.NewPointer(I64)

// I32Ptr is the type of a shim's out_len out-parameter.
var I32Ptr = llvmtypes.NewPointer(I32)

// Module wraps a single LLVM module — one compilation unit, one
// CompilerState's worth of globals (spec.md §5: not reentrant, one module
// per contract compilation).
type Module struct {
	M *llvmir.Module
}

// NewModule creates an empty module named name.
func NewModule(name string) *Module {
	m := llvmir.NewModule()
	m.SourceFilename = name
	return &Module{M: m}
}

// WriteTo writes the module's textual IR (the out.ll artifact, spec.md §6)
// to w.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprint(w, m.M)
	return int64(n), err
}

// ZeroArrayGlobal declares a zero-initialized global array of nelems
// elements of typ, e.g. the stack/mem globals (spec.md §3).
func (m *Module) ZeroArrayGlobal(name string, typ llvmtypes.Type, nelems uint64) *llvmir.Global {
	arrTy := llvmtypes.NewArray(nelems, typ)
	g := m.M.NewGlobalDef(name, llvmconstant.NewZeroInitializer(arrTy))
	return g
}

// ScalarGlobal declares a global scalar of typ initialized to zero, e.g.
// sp, code_ptr.
func (m *Module) ScalarGlobal(name string, typ llvmtypes.Type) *llvmir.Global {
	var zero llvmconstant.Constant
	switch t := typ.(type) {
	case *llvmtypes.IntType:
		zero = llvmconstant.NewInt(t, 0)
	case *llvmtypes.PointerType:
		zero = llvmconstant.NewNull(t)
	default:
		zero = llvmconstant.NewZeroInitializer(typ)
	}
	return m.M.NewGlobalDef(name, zero)
}

// DataGlobal declares an immutable byte-array global initialized from
// data, used for the constructor's code payload.
func (m *Module) DataGlobal(name string, data []byte) *llvmir.Global {
	g := m.M.NewGlobalDef(name, llvmconstant.NewCharArray(data))
	g.Immutable = true
	return g
}

// StringGlobal declares an immutable global holding s as a raw (non-NUL
// terminated) byte array, used for ABI selector precomputation and debug
// labels.
func (m *Module) StringGlobal(name, s string) *llvmir.Global {
	g := m.M.NewGlobalDef(name, llvmconstant.NewCharArrayFromString(s))
	g.Immutable = true
	return g
}

// DeclareMemcpy declares the LLVM memcpy intrinsic used by CodeCopy and
// CallDataCopy to move raw bytes between the code/calldata buffers and
// the emitted memory global (spec.md §4.B "memcpy intrinsics").
func (m *Module) DeclareMemcpy() *llvmir.Func {
	const name = "llvm.memcpy.p0i8.p0i8.i64"
	for _, f := range m.M.Funcs {
		if f.Name() == name {
			return f
		}
	}
	fn := m.M.NewFunc(name, Void,
		Param("dst", I8Ptr), Param("src", I8Ptr), Param("len", I64), Param("isvolatile", I1))
	return fn
}

// DeclareFunc declares (no body) or defines (if body is later populated by
// appending blocks) a function. Declaring the same name twice within one
// module is the caller's bug to avoid — bridge guards against it with its
// own idempotency map (spec.md §5); shim relies on unique shim names and
// creates one selector global per generated shim without checking for an
// existing one.
func (m *Module) DeclareFunc(name string, ret llvmtypes.Type, params ...*llvmir.Param) *llvmir.Func {
	return m.M.NewFunc(name, ret, params...)
}

// Param constructs a named function parameter.
func Param(name string, typ llvmtypes.Type) *llvmir.Param {
	return llvmir.NewParam(name, typ)
}

// IntConst builds a constant of the given integer type from a uint64. For
// values that do not fit 64 bits (256-bit push constants), use
// IntConstBig.
func IntConst(typ *llvmtypes.IntType, v uint64) *llvmconstant.Int {
	return llvmconstant.NewInt(typ, int64(v))
}

// IntConstBig builds an arbitrary-precision integer constant of typ from
// its decimal string representation — used for 256-bit push values, which
// may exceed 64 bits.
func IntConstBig(typ *llvmtypes.IntType, decimal string) *llvmconstant.Int {
	c, err := llvmconstant.NewIntFromString(typ, decimal)
	if err != nil {
		panic(fmt.Sprintf("ir: invalid integer constant %q: %v", decimal, err))
	}
	return c
}
