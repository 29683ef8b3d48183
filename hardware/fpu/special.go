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

// CanonicalNaN is the quiet NaN produced for invalid operations and for the
// quieting of signaling NaN operands.
const CanonicalNaN = 0x7fc00000

// the bit that distinguishes a quiet NaN from a signaling NaN.
const quietBit = 0x00400000

// Infinity returns the packed pattern of a signed infinity.
func Infinity(sign bool) uint32 {
	if sign {
		return 0xff800000
	}
	return 0x7f800000
}

// MaxNormal returns the packed pattern of the largest finite magnitude.
func MaxNormal(sign bool) uint32 {
	if sign {
		return 0xff7fffff
	}
	return 0x7f7fffff
}

// Zero returns the packed pattern of a signed zero.
func Zero(sign bool) uint32 {
	if sign {
		return 0x80000000
	}
	return 0
}

// specialValue arbitrates the classification-driven overrides, in strict
// priority order, ahead of the datapath:
//
//  1. a signaling NaN operand forces the canonical quiet NaN
//  2. a quiet NaN operand propagates, quiet bit forced, scanned in operand
//     order x, y, z
//  3. an invalid combination of zeros and infinities forces the canonical
//     quiet NaN
//  4. an infinite product or addend forces the signed infinity
//
// The remaining priorities (overflow, underflow, the rounded result) need
// the rounder's output and are arbitrated by resolveRounded(). Exactly one
// of the two paths determines the final bit pattern.
func specialValue(x UnpackedOperand, y UnpackedOperand, z UnpackedOperand,
	xb uint32, yb uint32, zb uint32,
	productSign bool, addendSign bool, hasAddend bool) (uint32, bool) {

	if x.IsSignalingNaN || y.IsSignalingNaN || (hasAddend && z.IsSignalingNaN) {
		return CanonicalNaN, true
	}

	if x.IsQuietNaN {
		return xb | quietBit, true
	}
	if y.IsQuietNaN {
		return yb | quietBit, true
	}
	if hasAddend && z.IsQuietNaN {
		return zb | quietBit, true
	}

	if InvalidOperation(x, y, z, productSign, addendSign, hasAddend) {
		return CanonicalNaN, true
	}

	if x.IsInfinity || y.IsInfinity {
		return Infinity(productSign), true
	}
	if hasAddend && z.IsInfinity {
		return Infinity(addendSign), true
	}

	return 0, false
}

// resolveRounded arbitrates the rounder-driven overrides: an overflow
// resolves to signed infinity or saturates at the maximum finite magnitude
// according to the mode and sign direction already settled by the rounder;
// everything else, including results that underflowed to a signed zero,
// packs directly.
func resolveRounded(rr RoundedResult) uint32 {
	if rr.Overflow {
		if rr.OverflowToInfinity {
			return Infinity(rr.Sign)
		}
		return MaxNormal(rr.Sign)
	}
	return rr.Pack()
}
