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

// The auxiliary single precision operations of RV32F: classification, sign
// injection, minimum/maximum and the comparisons. None of them pass through
// the multiply-add datapath but all of them reuse the classifier.

// The bits of the FCLASS.S result mask.
const (
	ClassNegInfinity  = 1 << 0
	ClassNegNormal    = 1 << 1
	ClassNegSubnormal = 1 << 2
	ClassNegZero      = 1 << 3
	ClassPosZero      = 1 << 4
	ClassPosSubnormal = 1 << 5
	ClassPosNormal    = 1 << 6
	ClassPosInfinity  = 1 << 7
	ClassSignalingNaN = 1 << 8
	ClassQuietNaN     = 1 << 9
)

// Class returns the FCLASS.S mask for the operand. Exactly one bit is set
// for every input pattern. Classification raises no exception flags, even
// for a signaling NaN.
func Class(v uint32) uint32 {
	u := Unpack(v)

	switch {
	case u.IsSignalingNaN:
		return ClassSignalingNaN
	case u.IsQuietNaN:
		return ClassQuietNaN
	case u.IsInfinity && u.Sign:
		return ClassNegInfinity
	case u.IsInfinity:
		return ClassPosInfinity
	case u.IsZero && u.Sign:
		return ClassNegZero
	case u.IsZero:
		return ClassPosZero
	case u.IsSubnormal && u.Sign:
		return ClassNegSubnormal
	case u.IsSubnormal:
		return ClassPosSubnormal
	case u.Sign:
		return ClassNegNormal
	}
	return ClassPosNormal
}

// orderKey maps a non-NaN pattern to an integer that orders exactly as the
// represented value, with both zeros mapping to the same key.
func orderKey(v uint32) int64 {
	k := int64(v & 0x7fffffff)
	if v&0x80000000 != 0 {
		k = -k
	}
	return k
}

// Min implements FMIN.S: IEEE 754-2019 minimumNumber. A single quiet NaN
// operand is ignored in favour of the number; two NaNs give the canonical
// quiet NaN; a signaling NaN raises the invalid flag either way. Negative
// zero is smaller than positive zero.
func Min(a uint32, b uint32) Result {
	return minMax(a, b, false)
}

// Max implements FMAX.S: IEEE 754-2019 maximumNumber. The NaN and zero
// handling mirrors Min.
func Max(a uint32, b uint32) Result {
	return minMax(a, b, true)
}

func minMax(a uint32, b uint32, max bool) Result {
	ua := Unpack(a)
	ub := Unpack(b)

	var flags ExceptionFlags
	if ua.IsSignalingNaN || ub.IsSignalingNaN {
		flags = FlagNV
	}

	switch {
	case ua.IsNaN() && ub.IsNaN():
		return Result{Value: CanonicalNaN, Flags: flags}
	case ua.IsNaN():
		return Result{Value: b, Flags: flags}
	case ub.IsNaN():
		return Result{Value: a, Flags: flags}
	}

	if ua.IsZero && ub.IsZero {
		if max {
			return Result{Value: Zero(ua.Sign && ub.Sign), Flags: flags}
		}
		return Result{Value: Zero(ua.Sign || ub.Sign), Flags: flags}
	}

	less := orderKey(a) < orderKey(b)
	if less != max {
		return Result{Value: a, Flags: flags}
	}
	return Result{Value: b, Flags: flags}
}

// SignInjection selects the FSGNJ.S variant.
type SignInjection int

// List of valid SignInjection values.
const (
	SignReplace SignInjection = iota // FSGNJ.S
	SignNegate                       // FSGNJN.S
	SignXor                          // FSGNJX.S
)

// InjectSign implements the FSGNJ.S group: the magnitude of a spliced with a
// sign derived from b. A pure bit operation with no classification and no
// flags; NaN payloads pass through untouched.
func InjectSign(a uint32, b uint32, how SignInjection) uint32 {
	const signBit = 0x80000000

	switch how {
	case SignReplace:
		return a&^signBit | b&signBit
	case SignNegate:
		return a&^signBit | ^b&signBit
	case SignXor:
		return a ^ b&signBit
	}
	panic("unknown sign injection in InjectSign()")
}

// Comparison selects the comparison predicate.
type Comparison int

// List of valid Comparison values.
const (
	CompareEqual     Comparison = iota // FEQ.S
	CompareLess                        // FLT.S
	CompareLessEqual                   // FLE.S
)

// Compare implements FEQ.S, FLT.S and FLE.S. The result value is 1 when the
// predicate holds and 0 otherwise; any comparison with a NaN operand fails.
// FEQ is a quiet predicate, raising invalid only for a signaling NaN; FLT
// and FLE are signaling predicates, raising invalid for any NaN operand.
func Compare(a uint32, b uint32, cmp Comparison) Result {
	ua := Unpack(a)
	ub := Unpack(b)

	if ua.IsNaN() || ub.IsNaN() {
		var flags ExceptionFlags
		switch cmp {
		case CompareEqual:
			if ua.IsSignalingNaN || ub.IsSignalingNaN {
				flags = FlagNV
			}
		case CompareLess, CompareLessEqual:
			flags = FlagNV
		default:
			panic("unknown comparison in Compare()")
		}
		return Result{Value: 0, Flags: flags}
	}

	ka := orderKey(a)
	kb := orderKey(b)

	var holds bool
	switch cmp {
	case CompareEqual:
		holds = ka == kb
	case CompareLess:
		holds = ka < kb
	case CompareLessEqual:
		holds = ka <= kb
	default:
		panic("unknown comparison in Compare()")
	}

	if holds {
		return Result{Value: 1}
	}
	return Result{Value: 0}
}
