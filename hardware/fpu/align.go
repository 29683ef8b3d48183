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

// AlignedSignificand is the output of the aligner/adder, staged for the
// rounder: the normalised sum in a fixed frame together with the extended
// exponent and the resolved sign.
//
// The frame places the significand in bits 26 to 3 with the guard, round and
// sticky bits in bits 2 to 0. A zero Mantissa with a zero sticky region is an
// exact zero result.
type AlignedSignificand struct {
	Mantissa uint64
	Exponent int // extended biased exponent; valid range is settled by the rounder
	Sign     bool
}

// Guard returns the first bit below the rounding point.
func (as AlignedSignificand) Guard() bool {
	return as.Mantissa&0b100 != 0
}

// Round returns the second bit below the rounding point.
func (as AlignedSignificand) Round() bool {
	return as.Mantissa&0b010 != 0
}

// Sticky returns the OR of every bit below the round bit.
func (as AlignedSignificand) Sticky() bool {
	return as.Mantissa&0b001 != 0
}

// jamShiftRight shifts right, ORing any lost bits into the lowest retained
// bit. Classic sticky-preserving shift: the jammed bit keeps the result on
// the correct side of every rounding decision even though the lost value is
// no longer representable.
func jamShiftRight(v uint64, by int) uint64 {
	if by <= 0 {
		return v
	}
	if by >= 64 {
		if v != 0 {
			return 1
		}
		return 0
	}
	r := v >> uint(by)
	if r<<uint(by) != v {
		r |= 1
	}
	return r
}

// AddSignificands aligns and adds (or subtracts, according to the effective
// signs) two significands that have been normalised to the 48-bit frame.
// The smaller magnitude operand is shifted right by the exponent difference,
// with shifts beyond the width collapsing into the sticky bit.
//
// An exactly cancelling subtraction produces positive zero unless the
// rounding mode is RDN, in which case it produces negative zero (IEEE
// 754-2019 section 6.3).
func AddSignificands(pm uint64, pe int, pSign bool, zm uint64, ze int, zSign bool, mode RoundingMode) AlignedSignificand {
	// order by magnitude. both significands share the 48-bit frame so the
	// comparison is lexicographic on (exponent, significand)
	bm, be, bSign := pm, pe, pSign
	sm, se, sSign := zm, ze, zSign
	if ze > pe || (ze == pe && zm > pm) {
		bm, be, bSign = zm, ze, zSign
		sm, se, sSign = pm, pe, pSign
	}

	// three guard positions below the 48-bit frame hold the alignment
	// residue. an exponent difference of one, the only distance at which
	// deep cancellation can occur, loses nothing into the jam
	a := bm << 3
	b := jamShiftRight(sm<<3, be-se)

	if bSign == sSign {
		sum := a + b
		msb := 50
		if sum>>51 != 0 {
			msb = 51
		}
		return frame(sum, msb, be, bSign)
	}

	if a == b {
		return AlignedSignificand{Sign: mode == RoundDown}
	}

	sum := a - b

	// the anticipated leading zero count can be short by one; correct
	// against the true sum's top bit
	msb := 50 - Predict(a, b, true, true, 51)
	if msb > 0 && sum>>uint(msb)&1 == 0 {
		msb--
	}

	return frame(sum, msb, be, bSign)
}

// frame normalises a raw sum to the rounding frame. The sum is positioned
// with its most significant bit at bit 26; right shifts jam into the sticky
// position. Sums that fall below the minimum normal exponent are pushed into
// the subnormal frame, losing significance to the right as the hardware
// denormalising shifter would.
//
// msb is the bit position of the sum's leading one and be the exponent of
// the 48-bit frame the adder operated in.
func frame(sum uint64, msb int, be int, sign bool) AlignedSignificand {
	eb := be + msb + 124

	var sig uint64
	if msb > 26 {
		sig = jamShiftRight(sum, msb-26)
	} else {
		sig = sum << uint(26-msb)
	}

	if eb <= 0 {
		sig = jamShiftRight(sig, 1-eb)
		eb = 1
	}

	return AlignedSignificand{Mantissa: sig, Exponent: eb, Sign: sign}
}

// frameSingle stages a lone normalised significand for rounding, bypassing
// the adder. Used when no addend participates (Mul) or when one side of the
// addition is zero.
func frameSingle(m uint64, e int, sign bool) AlignedSignificand {
	return frame(m<<3, 50, e, sign)
}
