// This file is part of RVFP32.
//
// RVFP32 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RVFP32 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RVFP32.  If not, see <https://www.gnu.org/licenses/>.

// Package decode extracts the floating-point operations of the RV32F
// extension from their 32-bit instruction words: the R4-type fused
// multiply-add formats and the OP-FP format with its funct7/funct3
// sub-encodings.
//
// Only the operations executed by this model decode successfully. Division,
// square root, the conversions and the register moves, along with every
// double precision encoding, return an error: a malformed or unsupported
// word is a contract violation by whatever produced the instruction stream,
// not a condition the numeric core can represent.
package decode

import (
	"fmt"

	"github.com/jetsetilly/rvfp32/curated"
	"github.com/jetsetilly/rvfp32/hardware/fpu"
)

// Sentinal errors returned by Decode().
const (
	NotFloatingPoint = "decode: not a floating-point instruction: %08x"
	Unsupported      = "decode: unsupported floating-point instruction: %08x"
	DoublePrecision  = "decode: double precision is not supported: %08x"
)

// Class groups the decoded operations by execution resource.
type Class int

// List of valid Class values.
const (
	ClassArithmetic Class = iota
	ClassSignInject
	ClassMinMax
	ClassCompare
	ClassClassify
)

// Instruction is a decoded floating-point instruction. The field for the
// operation selector that matches Class is valid; the others are zero.
type Instruction struct {
	Class Class

	Kind    fpu.OperationKind // ClassArithmetic
	Inject  fpu.SignInjection // ClassSignInject
	Max     bool              // ClassMinMax
	Compare fpu.Comparison    // ClassCompare

	Rd  uint8
	Rs1 uint8
	Rs2 uint8
	Rs3 uint8 // fused kinds only

	// the rm field. for the arithmetic operations this is the rounding mode
	// selector, possibly deferring to frm (csr.RmDyn); for the others it is
	// part of the operation encoding and already consumed
	Rm uint8

	// the comparison and classification operations write to the integer
	// register file
	IntDest bool
}

func (ins Instruction) String() string {
	switch ins.Class {
	case ClassArithmetic:
		switch ins.Kind {
		case fpu.Add, fpu.Sub, fpu.Mul:
			return fmt.Sprintf("%s f%d, f%d, f%d", ins.Kind, ins.Rd, ins.Rs1, ins.Rs2)
		}
		return fmt.Sprintf("%s f%d, f%d, f%d, f%d", ins.Kind, ins.Rd, ins.Rs1, ins.Rs2, ins.Rs3)
	case ClassSignInject:
		return fmt.Sprintf("FSGNJ.S f%d, f%d, f%d", ins.Rd, ins.Rs1, ins.Rs2)
	case ClassMinMax:
		if ins.Max {
			return fmt.Sprintf("FMAX.S f%d, f%d, f%d", ins.Rd, ins.Rs1, ins.Rs2)
		}
		return fmt.Sprintf("FMIN.S f%d, f%d, f%d", ins.Rd, ins.Rs1, ins.Rs2)
	case ClassCompare:
		return fmt.Sprintf("FCMP.S x%d, f%d, f%d", ins.Rd, ins.Rs1, ins.Rs2)
	case ClassClassify:
		return fmt.Sprintf("FCLASS.S x%d, f%d", ins.Rd, ins.Rs1)
	}
	panic("unknown instruction class")
}

// the opcodes of the floating-point path.
const (
	opcodeFMADD  = 0b1000011
	opcodeFMSUB  = 0b1000111
	opcodeFNMSUB = 0b1001011
	opcodeFNMADD = 0b1001111
	opcodeOPFP   = 0b1010011
)

// Decode a 32-bit instruction word into a floating-point Instruction.
func Decode(word uint32) (Instruction, error) {
	ins := Instruction{
		Rd:  uint8(word >> 7 & 0x1f),
		Rm:  uint8(word >> 12 & 0x07),
		Rs1: uint8(word >> 15 & 0x1f),
		Rs2: uint8(word >> 20 & 0x1f),
		Rs3: uint8(word >> 27 & 0x1f),
	}

	opcode := word & 0x7f

	// the R4-type fused kinds carry the format in bits 25-26
	switch opcode {
	case opcodeFMADD, opcodeFMSUB, opcodeFNMSUB, opcodeFNMADD:
		switch word >> 25 & 0b11 {
		case 0b00:
			// single precision
		case 0b01:
			return Instruction{}, curated.Errorf(DoublePrecision, word)
		default:
			return Instruction{}, curated.Errorf(Unsupported, word)
		}

		ins.Class = ClassArithmetic
		switch opcode {
		case opcodeFMADD:
			ins.Kind = fpu.MulAdd
		case opcodeFMSUB:
			ins.Kind = fpu.MulSub
		case opcodeFNMSUB:
			ins.Kind = fpu.NegMulSub
		case opcodeFNMADD:
			ins.Kind = fpu.NegMulAdd
		}
		return ins, nil

	case opcodeOPFP:
		// handled below
	default:
		return Instruction{}, curated.Errorf(NotFloatingPoint, word)
	}

	funct7 := word >> 25 & 0x7f

	// bit 0 of funct7 selects double precision throughout the OP-FP space
	if funct7&0b0000001 == 0b0000001 {
		return Instruction{}, curated.Errorf(DoublePrecision, word)
	}

	switch funct7 {
	case 0b0000000:
		ins.Class = ClassArithmetic
		ins.Kind = fpu.Add
	case 0b0000100:
		ins.Class = ClassArithmetic
		ins.Kind = fpu.Sub
	case 0b0001000:
		ins.Class = ClassArithmetic
		ins.Kind = fpu.Mul

	case 0b0010000:
		ins.Class = ClassSignInject
		switch ins.Rm {
		case 0b000:
			ins.Inject = fpu.SignReplace
		case 0b001:
			ins.Inject = fpu.SignNegate
		case 0b010:
			ins.Inject = fpu.SignXor
		default:
			return Instruction{}, curated.Errorf(Unsupported, word)
		}

	case 0b0010100:
		ins.Class = ClassMinMax
		switch ins.Rm {
		case 0b000:
			ins.Max = false
		case 0b001:
			ins.Max = true
		default:
			return Instruction{}, curated.Errorf(Unsupported, word)
		}

	case 0b1010000:
		ins.Class = ClassCompare
		ins.IntDest = true
		switch ins.Rm {
		case 0b010:
			ins.Compare = fpu.CompareEqual
		case 0b001:
			ins.Compare = fpu.CompareLess
		case 0b000:
			ins.Compare = fpu.CompareLessEqual
		default:
			return Instruction{}, curated.Errorf(Unsupported, word)
		}

	case 0b1110000:
		// FCLASS.S shares funct7 with FMV.X.W; only the former is executed
		// by this model
		if ins.Rm != 0b001 || ins.Rs2 != 0 {
			return Instruction{}, curated.Errorf(Unsupported, word)
		}
		ins.Class = ClassClassify
		ins.IntDest = true

	default:
		// division, square root, conversions and moves
		return Instruction{}, curated.Errorf(Unsupported, word)
	}

	return ins, nil
}
