// Copyright 2018 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm_test

import (
	"testing"

	"github.com/0b01/solenoid/bytecode"
	"github.com/0b01/solenoid/disasm"
)

func TestDisassembleSimpleArith(t *testing.T) {
	// PUSH1 0x64, PUSH1 0x02, MUL, PUSH1 0x37, ADD
	code := []byte{0x60, 0x64, 0x60, 0x02, 0x02, 0x60, 0x37, 0x01}
	instrs, err := disasm.Disassemble(code)
	if err != nil {
		t.Fatal(err)
	}
	want := []bytecode.Opcode{bytecode.OpPush, bytecode.OpPush, bytecode.OpMul, bytecode.OpPush, bytecode.OpAdd}
	if len(instrs) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(instrs), len(want))
	}
	for i, pi := range instrs {
		if pi.Instr.Op != want[i] {
			t.Errorf("instr %d: got %s, want %s", i, pi.Instr.Op, want[i])
		}
	}
	if instrs[2].Offset != 4 {
		t.Errorf("MUL offset = %d, want 4", instrs[2].Offset)
	}
}

func TestDisassembleDupSwapLog(t *testing.T) {
	code := []byte{0x80, 0x8f, 0x90, 0x9f, 0xa0, 0xa4}
	instrs, err := disasm.Disassemble(code)
	if err != nil {
		t.Fatal(err)
	}
	if instrs[0].Instr.N != 0 || instrs[0].Instr.Op != bytecode.OpDup {
		t.Errorf("DUP1 decoded as %+v", instrs[0].Instr)
	}
	if instrs[1].Instr.N != 15 || instrs[1].Instr.Op != bytecode.OpDup {
		t.Errorf("DUP16 decoded as %+v", instrs[1].Instr)
	}
	if instrs[2].Instr.N != 0 || instrs[2].Instr.Op != bytecode.OpSwap {
		t.Errorf("SWAP1 decoded as %+v", instrs[2].Instr)
	}
	if instrs[4].Instr.N != 0 || instrs[4].Instr.Op != bytecode.OpLog {
		t.Errorf("LOG0 decoded as %+v", instrs[4].Instr)
	}
	if instrs[5].Instr.N != 4 || instrs[5].Instr.Op != bytecode.OpLog {
		t.Errorf("LOG4 decoded as %+v", instrs[5].Instr)
	}
}

func TestDisassembleTruncatedPushIsBenign(t *testing.T) {
	// PUSH4 with only 2 bytes remaining.
	code := []byte{0x63, 0x01, 0x02}
	instrs, err := disasm.Disassemble(code)
	if err != nil {
		t.Fatalf("expected no error on truncated trailing push, got %v", err)
	}
	if len(instrs) != 0 {
		t.Errorf("expected truncated push to be dropped, got %d instrs", len(instrs))
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	code := []byte{0x0c} // unassigned
	if _, err := disasm.Disassemble(code); err == nil {
		t.Error("expected error for unknown opcode")
	}
}

func TestDisassembleHexWithPrefix(t *testing.T) {
	instrs, err := disasm.DisassembleHex("0x6001600201")
	if err != nil {
		t.Fatal(err)
	}
	if len(instrs) != 3 {
		t.Fatalf("got %d instrs, want 3", len(instrs))
	}
}

func TestFormatOpcodes(t *testing.T) {
	instrs, _ := disasm.Disassemble([]byte{0x5b, 0x00})
	out := disasm.FormatOpcodes(instrs)
	if out == "" {
		t.Error("expected non-empty output")
	}
}
