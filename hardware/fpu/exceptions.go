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

// InvalidOperation reports the non-NaN invalid combinations for the
// operation: a multiplication of zero by infinity, or the addition of
// opposite-signed infinities (IEEE 754-2019 section 7.2). The addition test
// works on the effective signs so a single test covers Add, Sub and all four
// fused kinds.
//
// A signaling NaN operand also raises the invalid flag but that is detected
// directly from the classification; a quiet NaN never does.
func InvalidOperation(x UnpackedOperand, y UnpackedOperand, z UnpackedOperand, productSign bool, addendSign bool, hasAddend bool) bool {
	if (x.IsZero && y.IsInfinity) || (x.IsInfinity && y.IsZero) {
		return true
	}

	// the magnitude test is not enough for the fused kinds: a NaN multiplicand
	// means the product is NaN, not infinity, and no infinity subtraction
	// takes place
	if x.IsNaN() || y.IsNaN() {
		return false
	}

	if hasAddend && (x.IsInfinity || y.IsInfinity) && z.IsInfinity && productSign != addendSign {
		return true
	}

	return false
}

// GenerateFlags assembles the exception vector from the classification stage
// and the rounder output. In priority order: invalid operation; overflow
// with inexact; underflow with inexact; inexact alone. The divide-by-zero
// flag has no source in this pipeline and is always zero.
func GenerateFlags(invalid bool, rr RoundedResult) ExceptionFlags {
	var flags ExceptionFlags

	if invalid {
		flags |= FlagNV
	}
	if rr.Overflow {
		flags |= FlagOF | FlagNX
	}
	if rr.Underflow {
		flags |= FlagUF | FlagNX
	}
	if rr.Inexact {
		flags |= FlagNX
	}

	return flags
}
