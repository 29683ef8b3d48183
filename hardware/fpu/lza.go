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

// Predict anticipates the number of leading zeros in the sum A+B+carry or
// the difference A-B-(1-carry), without reference to the completed result.
// In the hardware this runs in parallel with the carry propagate adder; the
// model preserves the same contract so that the normaliser exercises the
// anticipation and its correction rather than counting zeros in the sum.
//
// The anticipation works on the propagate, generate and kill vectors of the
// effective addition (P = A xor B, G = A and B, K = not A and not B, with B
// complemented first when subtracting). Following Schmookler and Nowka, an
// indicator vector marks every position at which the leading one of the
// result can appear: a position that is not a propagate and whose next lower
// position is not a kill. The carry-in folds into the indicator as the
// kill/generate state of a virtual position below bit zero.
//
// For subtraction the caller must present the larger magnitude as A; the
// top-of-word boundary condition is then that of a non-negative result.
//
// The guarantee is |predicted - true| <= 1. The error is one-sided either
// way: a subtraction may under-count the leading zeros by one, an addition
// may over-count by one (a carry out of the anticipated top position).
// Callers must correct with the true sum's top bit once the adder has
// produced it. See AddSignificands() in align.go.
func Predict(a uint64, b uint64, carry bool, subtract bool, width int) int {
	mask := uint64(1)<<uint(width) - 1

	if !subtract {
		// an addition never cancels: the leading one of the sum is at the
		// highest generate or propagate position, or one above it
		f := (a | b) & mask
		if f == 0 {
			return width
		}
		return bits.LeadingZeros64(f) - (64 - width)
	}

	// subtraction is analysed as A + not(B) + carry
	bc := ^b & mask
	p := (a ^ bc) & mask
	k := (^a & ^bc) & mask

	// indicator: not a propagate position, and the position below is not a
	// kill. a kill run below a generate marks ongoing cancellation and the
	// leading one surfaces only where the run ends
	f := ^p & ^(k << 1) & mask

	// carry-in boundary: without a carry the virtual position below bit
	// zero behaves as a kill
	if !carry {
		f &^= 1
	}

	if f == 0 {
		return width
	}
	return bits.LeadingZeros64(f) - (64 - width)
}
