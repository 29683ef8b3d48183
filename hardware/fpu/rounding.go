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

// RoundedResult is the rounder's output, consumed by the special-case
// resolver and the exception flag generator.
//
// On Overflow the mantissa and exponent fields are not meaningful: the
// resolver chooses between signed infinity and the maximum finite magnitude
// according to OverflowToInfinity, which encodes the mode and sign dependent
// direction of IEEE 754-2019 section 7.4. The exponent never silently wraps.
type RoundedResult struct {
	Mantissa uint32 // 23 bits, implicit bit removed
	Exponent uint32 // 8-bit exponent field
	Sign     bool

	Inexact            bool
	Overflow           bool
	OverflowToInfinity bool
	Underflow          bool
}

// Pack returns the 32-bit pattern of a non-overflowed result.
func (rr RoundedResult) Pack() uint32 {
	v := rr.Exponent<<23 | rr.Mantissa
	if rr.Sign {
		v |= 0x80000000
	}
	return v
}

// Round applies the rounding mode to an aligned significand.
//
// The round-up decisions over the guard, round and sticky bits:
//
//	RNE: G and (R or S), or an exact tie (G alone) with an odd LSB
//	RTZ: never
//	RDN: negative result and any of G/R/S
//	RUP: positive result and any of G/R/S
//	RMM: G, regardless of R and S
//
// A round-up that carries out of the significand shifts back into frame and
// increments the exponent. An exponent field reaching 255 is reported as
// overflow. Underflow is recognised as tininess after rounding: a result
// that is still subnormal (or zero) after rounding, and inexact. A subnormal
// that rounds up to the smallest normal magnitude raises no underflow.
func Round(as AlignedSignificand, mode RoundingMode) RoundedResult {
	sig := as.Mantissa >> 3
	guard := as.Guard()
	inexact := as.Mantissa&0b111 != 0

	var roundUp bool
	var overflowToInf bool

	switch mode {
	case RoundNearestEven:
		roundUp = guard && (as.Round() || as.Sticky() || sig&1 == 1)
		overflowToInf = true
	case RoundZero:
		roundUp = false
		overflowToInf = false
	case RoundDown:
		roundUp = as.Sign && inexact
		overflowToInf = as.Sign
	case RoundUp:
		roundUp = !as.Sign && inexact
		overflowToInf = !as.Sign
	case RoundNearestMax:
		roundUp = guard
		overflowToInf = true
	default:
		panic("unknown rounding mode in Round()")
	}

	exp := as.Exponent
	if roundUp {
		sig++
		if sig == 1<<24 {
			sig = 1 << 23
			exp++
		}
	}

	rr := RoundedResult{
		Sign:               as.Sign,
		Inexact:            inexact,
		OverflowToInfinity: overflowToInf,
	}

	if sig&(1<<23) == 0 {
		// subnormal or zero result. the aligner has already pinned the
		// exponent to the bottom of the range
		rr.Mantissa = uint32(sig)
		rr.Underflow = inexact
		return rr
	}

	if exp >= 255 {
		rr.Overflow = true
		rr.Inexact = true
		return rr
	}

	rr.Mantissa = uint32(sig) & 0x7fffff
	rr.Exponent = uint32(exp)
	return rr
}
