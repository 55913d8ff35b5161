package bytecode

import (
	"fmt"

	"github.com/holiman/uint256"
)

// WordBytes is the size in bytes of a source VM word: a 256-bit integer,
// big-endian on the wire, little-endian in the emitted program's stack and
// memory arrays (spec.md §3).
const WordBytes = 32

// StackSize is the number of word-sized slots in the emitted stack global.
const StackSize = 1024

// MemSize is the fixed size in bytes of the emitted scratch memory global.
// There is no growth; out-of-range accesses are undefined at this layer
// (spec.md §4.E "Memory").
const MemSize = 32768

// Word is a 256-bit unsigned integer. It is the compile-time value domain
// shared by the disassembler (decoding Push operands) and the lowerer
// (folding constants, computing switch-case labels). It is never the
// runtime representation — that's the emitted stack/mem arrays' job.
type Word struct {
	v uint256.Int
}

// WordFromUint64 builds a Word from a native uint64.
func WordFromUint64(n uint64) Word {
	var w Word
	w.v.SetUint64(n)
	return w
}

// FromBigEndianBytes decodes bytes (len <= 32) as an unsigned big-endian
// integer, zero-extended on the left to 256 bits — the same decoding the
// source VM applies to a Push operand (spec.md §4.A, tested by §8
// property 2).
func FromBigEndianBytes(b []byte) (Word, error) {
	if len(b) > WordBytes {
		return Word{}, fmt.Errorf("bytecode: push operand too long: %d bytes", len(b))
	}
	var w Word
	w.v.SetBytes(b)
	return w, nil
}

// BigEndianBytes returns the wire-format (big-endian, 32-byte-padded)
// encoding of w — the form used for calldata, storage keys, and hash
// inputs.
func (w Word) BigEndianBytes() [WordBytes]byte {
	return w.v.Bytes32()
}

// LittleEndianBytes returns the in-memory encoding of w, matching the byte
// order the emitted stack/mem array globals use.
func (w Word) LittleEndianBytes() [WordBytes]byte {
	be := w.v.Bytes32()
	var le [WordBytes]byte
	for i := range be {
		le[i] = be[WordBytes-1-i]
	}
	return le
}

// Uint64 returns the low 64 bits of w, truncating.
func (w Word) Uint64() uint64 { return w.v.Uint64() }

// Offset returns the low 64 bits of w, truncating, for use as a jump
// offset (jump destinations are always small in practice; a word of 2^64
// or more is not distinguished from its low 64 bits here).
func (w Word) Offset() uint64 { return w.v.Uint64() }

func (w Word) String() string { return w.v.Hex() }

// Decimal renders w as a base-10 string, suitable for building an
// arbitrary-precision IR integer constant from a Push operand that
// exceeds 64 bits.
func (w Word) Decimal() string { return w.v.Dec() }
