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

// Package fpu implements the single precision floating-point datapath of the
// RV32F execution pipeline. It is a bit-exact software model: every result is
// assembled from integer arithmetic on the operand bit patterns, never from
// the host's floating-point hardware.
//
// The path through the package for an arithmetic operation mirrors the
// hardware it models. Operands are unpacked and classified; the sign resolver
// derives the effective product and addend signs for the operation; the
// significand multiplier forms the exact double-width product (addition and
// subtraction reuse the multiplier with a second operand of 1.0); the
// aligner/adder aligns and sums the significands with guard, round and sticky
// bits; the leading-zero anticipator predicts the normalisation shift; the
// rounder applies one of the five RISC-V rounding modes; and the special-case
// resolver arbitrates between the rounded result and any IEEE 754 mandated
// override (NaNs, infinities, overflow and underflow patterns).
//
// The package is stateless. Rounding mode is supplied per call and exception
// flags are returned alongside the packed result, leaving accumulation to the
// csr package.
package fpu
