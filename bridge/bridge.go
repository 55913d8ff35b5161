// Package bridge declares the externally-linked runtime helpers the
// lowerer calls into: keccak, division, modular exponentiation, storage
// I/O, endian swap, revert, and the debug stack dumper (spec.md §4.C).
// Implementations live in runtimec/ and are never compiled by this
// module — they're the "runtime library... assumed to exist" collaborator
// named in spec.md §1.
package bridge

import (
	solir "github.com/0b01/solenoid/ir"
	llvmir "github.com/llir/llvm/ir"
	llvmtypes "github.com/llir/llvm/ir/types"
)

// Bridge declares runtime helpers lazily and idempotently: the first call
// to a given method inserts the `declare`, and every subsequent call
// within the same module returns the cached handle, keeping unused
// helpers out of the emitted module (spec.md §4.C, §5).
type Bridge struct {
	mod   *solir.Module
	funcs map[string]*llvmir.Func
}

// New creates a Bridge bound to mod. One Bridge per module, matching one
// CompilerState per module (spec.md §5).
func New(mod *solir.Module) *Bridge {
	return &Bridge{mod: mod, funcs: map[string]*llvmir.Func{}}
}

func (b *Bridge) declare(name string, ret llvmtypes.Type, params ...*llvmir.Param) *llvmir.Func {
	if fn, ok := b.funcs[name]; ok {
		return fn
	}
	fn := b.mod.DeclareFunc(name, ret, params...)
	b.funcs[name] = fn
	return fn
}

// Keccak256 declares `void keccak256(i8* in, i16 len, i8* out)`.
func (b *Bridge) Keccak256() *llvmir.Func {
	return b.declare("keccak256", solir.Void,
		solir.Param("in", solir.I8Ptr),
		solir.Param("len", solir.I16),
		solir.Param("out", solir.I8Ptr))
}

// SStore declares `void sstore(i8* storage, i8* key, i8* value)`.
func (b *Bridge) SStore() *llvmir.Func {
	return b.declare("sstore", solir.Void,
		solir.Param("storage", solir.I8Ptr),
		solir.Param("key", solir.I8Ptr),
		solir.Param("value", solir.I8Ptr))
}

// SLoad declares `void sload(i8* storage, i8* key_then_value)`.
func (b *Bridge) SLoad() *llvmir.Func {
	return b.declare("sload", solir.Void,
		solir.Param("storage", solir.I8Ptr),
		solir.Param("key_then_value", solir.I8Ptr))
}

// UDiv256 declares `void udiv256(i8* n, i8* d, i8* q)` — writes the
// quotient through q and the remainder back through n (spec.md §4.C,
// §4.E "Division and modulus").
func (b *Bridge) UDiv256() *llvmir.Func {
	return b.declare("udiv256", solir.Void,
		solir.Param("n", solir.I8Ptr),
		solir.Param("d", solir.I8Ptr),
		solir.Param("q", solir.I8Ptr))
}

// SDiv256 is the signed analogue of UDiv256.
func (b *Bridge) SDiv256() *llvmir.Func {
	return b.declare("sdiv256", solir.Void,
		solir.Param("n", solir.I8Ptr),
		solir.Param("d", solir.I8Ptr),
		solir.Param("q", solir.I8Ptr))
}

// Powmod declares `void powmod(i8* base, i8* exp, i8* out)`.
func (b *Bridge) Powmod() *llvmir.Func {
	return b.declare("powmod", solir.Void,
		solir.Param("base", solir.I8Ptr),
		solir.Param("exp", solir.I8Ptr),
		solir.Param("out", solir.I8Ptr))
}

// SwapEndianness declares `void swap_endianness(i8* buf)`.
func (b *Bridge) SwapEndianness() *llvmir.Func {
	return b.declare("swap_endianness", solir.Void, solir.Param("buf", solir.I8Ptr))
}

// Revert declares `void revert()`.
func (b *Bridge) Revert() *llvmir.Func {
	return b.declare("revert", solir.Void)
}

// DumpStack declares `void dump_stack(i8* label, i64 sp, i64 pc, i8* stack, i8* mem)`,
// a debug-only helper inserted only when codegen's Compiler.Debug is set.
func (b *Bridge) DumpStack() *llvmir.Func {
	return b.declare("dump_stack", solir.Void,
		solir.Param("label", solir.I8Ptr),
		solir.Param("sp", solir.I64),
		solir.Param("pc", solir.I64),
		solir.Param("stack", solir.I8Ptr),
		solir.Param("mem", solir.I8Ptr))
}
