// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm provides a thin disassembler for the source VM's flat
// bytecode stream, turning it into (offset, Instruction) pairs. It carries
// no knowledge of control flow, ABI, or codegen — it is the minimal
// mechanical decode step upstream of codegen (spec.md §1 item b).
package disasm

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/0b01/solenoid/bytecode"
)

// PosInstr pairs a decoded instruction with the byte offset of its opcode
// in the source stream. Offsets of JumpDest instructions are the only
// valid jump targets (spec.md §3).
type PosInstr struct {
	Offset uint64
	Instr  bytecode.Instruction
}

var singleByteOp = map[byte]bytecode.Opcode{
	0x00: bytecode.OpStop,
	0x01: bytecode.OpAdd,
	0x02: bytecode.OpMul,
	0x03: bytecode.OpSub,
	0x04: bytecode.OpDiv,
	0x05: bytecode.OpSDiv,
	0x06: bytecode.OpMod,
	0x07: bytecode.OpSMod,
	0x08: bytecode.OpAddMod,
	0x09: bytecode.OpMulMod,
	0x0a: bytecode.OpExp,
	0x0b: bytecode.OpSignExtend,
	0x10: bytecode.OpLt,
	0x11: bytecode.OpGt,
	0x12: bytecode.OpSLt,
	0x13: bytecode.OpSGt,
	0x14: bytecode.OpEQ,
	0x15: bytecode.OpIsZero,
	0x16: bytecode.OpAnd,
	0x17: bytecode.OpOr,
	0x18: bytecode.OpXor,
	0x19: bytecode.OpNot,
	0x1a: bytecode.OpByte,
	0x1b: bytecode.OpShl,
	0x1c: bytecode.OpShr,
	0x1d: bytecode.OpSar,
	0x20: bytecode.OpSha3,
	0x30: bytecode.OpAddr,
	0x31: bytecode.OpBalance,
	0x32: bytecode.OpOrigin,
	0x33: bytecode.OpCaller,
	0x34: bytecode.OpCallValue,
	0x35: bytecode.OpCallDataLoad,
	0x36: bytecode.OpCallDataSize,
	0x37: bytecode.OpCallDataCopy,
	0x38: bytecode.OpCodeSize,
	0x39: bytecode.OpCodeCopy,
	0x3a: bytecode.OpGasPrice,
	0x3b: bytecode.OpExtCodeSize,
	0x3c: bytecode.OpExtCodeCopy,
	0x3d: bytecode.OpReturnDataSize,
	0x3e: bytecode.OpReturnDataCopy,
	0x3f: bytecode.OpExtCodeHash,
	0x40: bytecode.OpBlockhash,
	0x41: bytecode.OpCoinbase,
	0x42: bytecode.OpTimestamp,
	0x43: bytecode.OpNumber,
	0x44: bytecode.OpDifficulty,
	0x45: bytecode.OpGasLimit,
	0x46: bytecode.OpChainID,
	0x50: bytecode.OpPop,
	0x51: bytecode.OpMLoad,
	0x52: bytecode.OpMStore,
	0x53: bytecode.OpMStore8,
	0x54: bytecode.OpSLoad,
	0x55: bytecode.OpSStore,
	0x56: bytecode.OpJump,
	0x57: bytecode.OpJumpIf,
	0x58: bytecode.OpPC,
	0x59: bytecode.OpMSize,
	0x5a: bytecode.OpGas,
	0x5b: bytecode.OpJumpDest,
	0xf0: bytecode.OpCreate,
	0xf1: bytecode.OpCall,
	0xf2: bytecode.OpCallCode,
	0xf3: bytecode.OpReturn,
	0xf4: bytecode.OpDelegateCall,
	0xf5: bytecode.OpCreate2,
	0xfa: bytecode.OpStaticCall,
	0xfd: bytecode.OpRevert,
	0xfe: bytecode.OpInvalid,
	0xff: bytecode.OpSelfDestruct,
}

// Disassemble decodes code into a flat sequence of (offset, Instruction)
// pairs. It stops cleanly at a truncated trailing Push rather than
// erroring — some source compilers emit trailing constant data that isn't
// really an instruction stream (original_source/src/evm_opcode/mod.rs
// ::disassemble_bytes treats this the same way) — and otherwise errors on
// any byte it cannot map to a known opcode.
func Disassemble(code []byte) ([]PosInstr, error) {
	var out []PosInstr
	i := 0
	for i < len(code) {
		offset := uint64(i)
		b := code[i]
		i++

		switch {
		case b >= 0x60 && b <= 0x7f: // PUSH1..PUSH32
			n := int(b-0x60) + 1
			if i+n > len(code) {
				return out, nil
			}
			out = append(out, PosInstr{offset, bytecode.Instruction{Op: bytecode.OpPush, Bytes: append([]byte(nil), code[i:i+n]...)}})
			i += n
		case b >= 0x80 && b <= 0x8f: // DUP1..DUP16
			out = append(out, PosInstr{offset, bytecode.Instruction{Op: bytecode.OpDup, N: b - 0x80}})
		case b >= 0x90 && b <= 0x9f: // SWAP1..SWAP16
			out = append(out, PosInstr{offset, bytecode.Instruction{Op: bytecode.OpSwap, N: b - 0x90}})
		case b >= 0xa0 && b <= 0xa4: // LOG0..LOG4
			out = append(out, PosInstr{offset, bytecode.Instruction{Op: bytecode.OpLog, N: b - 0xa0}})
		default:
			op, ok := singleByteOp[b]
			if !ok {
				return nil, fmt.Errorf("disasm: unknown opcode 0x%02x at offset %d", b, offset)
			}
			out = append(out, PosInstr{offset, bytecode.Instruction{Op: op}})
		}
	}
	return out, nil
}

// DisassembleHex decodes a "0x"-prefixed or bare hex string of bytecode.
func DisassembleHex(s string) ([]PosInstr, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("disasm: invalid hex string: %w", err)
	}
	return Disassemble(b)
}

// FormatOpcodes renders instrs the way --print-opcodes does: one line per
// instruction, offset then mnemonic.
func FormatOpcodes(instrs []PosInstr) string {
	s := ""
	for _, pi := range instrs {
		s += fmt.Sprintf("%5d %s\n", pi.Offset, pi.Instr.String())
	}
	return s
}
