package bytecode

import (
	"bytes"
	"testing"
)

func TestFromBigEndianBytesZeroExtends(t *testing.T) {
	w, err := FromBigEndianBytes([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	if err != nil {
		t.Fatal(err)
	}
	be := w.BigEndianBytes()
	want := make([]byte, WordBytes)
	copy(want[WordBytes-4:], []byte{0xAA, 0xBB, 0xCC, 0xDD})
	if !bytes.Equal(be[:], want) {
		t.Errorf("got %x, want %x", be, want)
	}
}

func TestFromBigEndianBytesRejectsOverlong(t *testing.T) {
	if _, err := FromBigEndianBytes(make([]byte, 33)); err == nil {
		t.Error("expected error for 33-byte push operand")
	}
}

func TestLittleEndianBytesReversesBigEndian(t *testing.T) {
	w, _ := FromBigEndianBytes([]byte{0x01, 0x02, 0x03})
	be := w.BigEndianBytes()
	le := w.LittleEndianBytes()
	for i := 0; i < WordBytes; i++ {
		if le[i] != be[WordBytes-1-i] {
			t.Fatalf("byte %d: le=%x be(reversed)=%x", i, le[i], be[WordBytes-1-i])
		}
	}
}

func TestWordFromUint64(t *testing.T) {
	w := WordFromUint64(42)
	if w.Uint64() != 42 {
		t.Errorf("got %d, want 42", w.Uint64())
	}
}
