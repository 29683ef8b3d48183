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

import (
	"math/bits"
)

// MultiplySignificands forms the exact double-width product of the two
// significands. The returned exponent e satisfies value = product × 2^e.
//
// Two 24-bit significands always multiply into at most 48 bits so the
// product is exact in a uint64. Operations without a real multiply (Add,
// Sub) arrive here with a second multiplicand of exactly 1.0, which reduces
// the product to the first significand shifted into the wide frame. One
// datapath therefore serves every operation kind.
//
// Neither significand may be zero; zero operands are resolved before the
// datapath is entered.
func MultiplySignificands(x UnpackedOperand, y UnpackedOperand) (uint64, int) {
	return uint64(x.Mantissa) * uint64(y.Mantissa), x.scaledExponent() + y.scaledExponent()
}

// normalizeSignificand shifts a non-zero significand so that its most
// significant bit sits at bit 47, adjusting the exponent to preserve
// value = sig × 2^e. Subnormal operands and products of subnormal operands
// enter with short significands and are brought to the common frame here,
// which keeps the later magnitude comparison in the aligner a simple
// (exponent, significand) comparison.
func normalizeSignificand(sig uint64, e int) (uint64, int) {
	shift := 47 - (bits.Len64(sig) - 1)
	return sig << uint(shift), e - shift
}
