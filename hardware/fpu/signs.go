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

// ResolveSigns derives the effective signs that enter the adder. The product
// sign is the XOR of the multiplicand signs; the addend sign is taken from
// the third operand, inverted for the subtracting kinds.
//
// FNMADD computes -(x×y)-z and FNMSUB computes -(x×y)+z. Both are realised
// here by inverting the appropriate effective signs before the add, rather
// than negating the rounded result afterwards. The two are equivalent for
// non-zero results but only the former gives the correct zero sign on exact
// cancellation and the correct saturation direction for the directed
// rounding modes.
//
// The sign of the final result follows from these two: it is the product
// sign when no addend participates, and otherwise the sign of the larger
// magnitude side of the addition (or the rounding-mode dependent zero sign
// on exact cancellation), which is resolved by AddSignificands().
func ResolveSigns(signX bool, signY bool, signZ bool, kind OperationKind) (bool, bool) {
	productSign := signX != signY
	addendSign := signZ

	switch kind {
	case Add, Mul, MulAdd:
		// effective signs used as they are
	case Sub, MulSub:
		addendSign = !addendSign
	case NegMulAdd:
		productSign = !productSign
		addendSign = !addendSign
	case NegMulSub:
		productSign = !productSign
	default:
		panic("unknown operation kind in ResolveSigns()")
	}

	return productSign, addendSign
}
