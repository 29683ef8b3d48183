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

// UnpackedOperand is the decomposition of a single precision bit pattern,
// derived once per operand. The classification flags are mutually exclusive
// with the exception of IsSubnormal, which can accompany a set Sign.
type UnpackedOperand struct {
	Sign     bool
	Exponent uint32 // 8-bit biased exponent field as stored
	Mantissa uint32 // 24 bits with the implicit bit restored for normal numbers

	IsZero         bool
	IsInfinity     bool
	IsQuietNaN     bool
	IsSignalingNaN bool
	IsSubnormal    bool
}

// Unpack classifies a bit pattern. It is a total function: all 2^32 patterns
// produce a valid classification.
//
// Quiet and signaling NaNs are told apart by the top mantissa bit, as
// required by IEEE 754-2019 section 6.2.1. NaN and subnormal mantissas are
// kept as stored; normal numbers have the implicit leading bit restored.
func Unpack(v uint32) UnpackedOperand {
	u := UnpackedOperand{
		Sign:     v&0x80000000 != 0,
		Exponent: (v >> 23) & 0xff,
		Mantissa: v & 0x7fffff,
	}

	switch {
	case u.Exponent == 0x00 && u.Mantissa == 0:
		u.IsZero = true
	case u.Exponent == 0x00:
		u.IsSubnormal = true
	case u.Exponent == 0xff && u.Mantissa == 0:
		u.IsInfinity = true
	case u.Exponent == 0xff && u.Mantissa&0x400000 != 0:
		u.IsQuietNaN = true
	case u.Exponent == 0xff:
		u.IsSignalingNaN = true
	default:
		u.Mantissa |= 0x800000
	}

	return u
}

// IsNaN is true for both quiet and signaling NaNs.
func (u UnpackedOperand) IsNaN() bool {
	return u.IsQuietNaN || u.IsSignalingNaN
}

// scaledExponent returns the exponent e for which the operand's value equals
// Mantissa × 2^e. Subnormal numbers share the scale of the smallest normal
// exponent.
func (u UnpackedOperand) scaledExponent() int {
	e := int(u.Exponent)
	if e == 0 {
		e = 1
	}
	return e - 150
}
