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

package fpu

// OperationKind selects the multiply/add participants and the sign rule for
// an operation. The four fused kinds compute with a single rounding step.
type OperationKind int

// List of valid OperationKind values.
const (
	Add OperationKind = iota
	Sub
	Mul
	MulAdd
	MulSub
	NegMulAdd
	NegMulSub
)

func (kind OperationKind) String() string {
	switch kind {
	case Add:
		return "FADD.S"
	case Sub:
		return "FSUB.S"
	case Mul:
		return "FMUL.S"
	case MulAdd:
		return "FMADD.S"
	case MulSub:
		return "FMSUB.S"
	case NegMulAdd:
		return "FNMADD.S"
	case NegMulSub:
		return "FNMSUB.S"
	}
	panic("unknown operation kind")
}

// RoundingMode values match the RISC-V rm field encoding. Values 5 and 6 are
// reserved by the ISA and 7 (DYN) is resolved from the fcsr before the
// operation reaches this package.
type RoundingMode int

// List of valid RoundingMode values.
const (
	RoundNearestEven RoundingMode = 0 // RNE
	RoundZero        RoundingMode = 1 // RTZ
	RoundDown        RoundingMode = 2 // RDN, towards negative infinity
	RoundUp          RoundingMode = 3 // RUP, towards positive infinity
	RoundNearestMax  RoundingMode = 4 // RMM, ties away from zero
)

func (mode RoundingMode) String() string {
	switch mode {
	case RoundNearestEven:
		return "RNE"
	case RoundZero:
		return "RTZ"
	case RoundDown:
		return "RDN"
	case RoundUp:
		return "RUP"
	case RoundNearestMax:
		return "RMM"
	}
	panic("unknown rounding mode")
}

// ExceptionFlags is the 5-bit accrued exception vector in the fflags layout
// of the RISC-V ISA. The flags are sticky only once they reach the fcsr; a
// single call to Operate() reports only the flags raised by that operation.
type ExceptionFlags uint8

// List of individual exception flags. FlagDZ is defined for completeness of
// the fflags register but no operation in this package can raise it.
const (
	FlagNX ExceptionFlags = 0b00001 // inexact
	FlagUF ExceptionFlags = 0b00010 // underflow
	FlagOF ExceptionFlags = 0b00100 // overflow
	FlagDZ ExceptionFlags = 0b01000 // divide by zero (never raised)
	FlagNV ExceptionFlags = 0b10000 // invalid operation
)

func (flags ExceptionFlags) String() string {
	s := []byte("-----")
	if flags&FlagNV != 0 {
		s[0] = 'V'
	}
	if flags&FlagDZ != 0 {
		s[1] = 'Z'
	}
	if flags&FlagOF != 0 {
		s[2] = 'O'
	}
	if flags&FlagUF != 0 {
		s[3] = 'U'
	}
	if flags&FlagNX != 0 {
		s[4] = 'X'
	}
	return string(s)
}

// Result is the only observable output of an operation: the packed 32-bit
// value and the exception flags it raised.
type Result struct {
	Value uint32
	Flags ExceptionFlags
}

// the bit pattern substituted for the second multiplicand when Add and Sub
// pass through the unified multiply-add datapath.
const oneBits = 0x3f800000

// Operate performs a single operation over the packed operands a, b and c.
// The number of participating operands depends on kind: Add and Sub use a and
// b (c is ignored and the multiplier is bypassed with a second multiplicand
// of 1.0); Mul uses a and b with no addend; the fused kinds use all three,
// computing (a×b)±c with a single rounding.
//
// The function is total: every combination of bit patterns has a defined
// result and the only error reporting is through the returned flags.
func Operate(kind OperationKind, mode RoundingMode, a uint32, b uint32, c uint32) Result {
	var xb, yb, zb uint32
	var hasAddend bool

	switch kind {
	case Add, Sub:
		xb, yb, zb = a, oneBits, b
		hasAddend = true
	case Mul:
		xb, yb = a, b
	case MulAdd, MulSub, NegMulAdd, NegMulSub:
		xb, yb, zb = a, b, c
		hasAddend = true
	default:
		panic("unknown operation kind in Operate()")
	}

	x := Unpack(xb)
	y := Unpack(yb)
	z := Unpack(zb)

	productSign, addendSign := ResolveSigns(x.Sign, y.Sign, z.Sign, kind)

	signaling := x.IsSignalingNaN || y.IsSignalingNaN || (hasAddend && z.IsSignalingNaN)
	invalid := InvalidOperation(x, y, z, productSign, addendSign, hasAddend)

	if v, ok := specialValue(x, y, z, xb, yb, zb, productSign, addendSign, hasAddend); ok {
		var flags ExceptionFlags
		if signaling || invalid {
			flags |= FlagNV
		}
		return Result{Value: v, Flags: flags}
	}

	// normal path. zero operands shortcut the adder because a significand of
	// zero cannot be normalised
	productZero := x.IsZero || y.IsZero
	addendZero := !hasAddend || z.IsZero

	var as AlignedSignificand

	switch {
	case productZero && addendZero:
		// equal magnitude zero addition. like signs keep the sign; opposite
		// signs follow the exact-cancellation rule. a zero product with no
		// addend keeps the product sign
		sign := productSign
		if hasAddend && productSign != addendSign {
			sign = mode == RoundDown
		}
		as = AlignedSignificand{Sign: sign}
	case productZero:
		zm, ze := normalizeSignificand(uint64(z.Mantissa), z.scaledExponent())
		as = frameSingle(zm, ze, addendSign)
	case addendZero:
		pm, pe := MultiplySignificands(x, y)
		pm, pe = normalizeSignificand(pm, pe)
		as = frameSingle(pm, pe, productSign)
	default:
		pm, pe := MultiplySignificands(x, y)
		pm, pe = normalizeSignificand(pm, pe)
		zm, ze := normalizeSignificand(uint64(z.Mantissa), z.scaledExponent())
		as = AddSignificands(pm, pe, productSign, zm, ze, addendSign, mode)
	}

	rounded := Round(as, mode)

	return Result{
		Value: resolveRounded(rounded),
		Flags: GenerateFlags(false, rounded),
	}
}
