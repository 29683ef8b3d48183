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

package fpu_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jetsetilly/rvfp32/hardware/fpu"
	"github.com/jetsetilly/rvfp32/test"
)

// frequently used patterns.
const (
	posZero   = 0x00000000
	negZero   = 0x80000000
	posInf    = 0x7f800000
	negInf    = 0xff800000
	one       = 0x3f800000
	two       = 0x40000000
	canonNaN  = 0x7fc00000
	qNaNOdd   = 0x7fc12345 // quiet NaN with a distinctive payload
	sNaNOdd   = 0x7f812345 // signaling NaN with a distinctive payload
	maxNorm   = 0x7f7fffff
	minSubn   = 0x00000001
	maxSubn   = 0x007fffff
	minNorm   = 0x00800000
)

var allModes = []fpu.RoundingMode{
	fpu.RoundNearestEven, fpu.RoundZero, fpu.RoundDown, fpu.RoundUp, fpu.RoundNearestMax,
}

func TestAddBasic(t *testing.T) {
	// 1.5 + 2.5 = 4.0
	r := fpu.Operate(fpu.Add, fpu.RoundNearestEven, math.Float32bits(1.5), math.Float32bits(2.5), 0)
	test.Equate(t, r.Value, 0x40800000)
	test.Equate(t, uint8(r.Flags), 0)

	// 3.0 - 2.0 = 1.0
	r = fpu.Operate(fpu.Sub, fpu.RoundNearestEven, math.Float32bits(3.0), math.Float32bits(2.0), 0)
	test.Equate(t, r.Value, uint32(one))
	test.Equate(t, uint8(r.Flags), 0)

	// additions of infinite magnitude
	r = fpu.Operate(fpu.Add, fpu.RoundNearestEven, posInf, one, 0)
	test.Equate(t, r.Value, uint32(posInf))
	test.Equate(t, uint8(r.Flags), 0)

	// opposite-signed infinities are an invalid operation
	r = fpu.Operate(fpu.Add, fpu.RoundNearestEven, posInf, negInf, 0)
	test.Equate(t, r.Value, uint32(canonNaN))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))

	// subtracting like-signed infinities is the same invalid operation
	r = fpu.Operate(fpu.Sub, fpu.RoundNearestEven, posInf, posInf, 0)
	test.Equate(t, r.Value, uint32(canonNaN))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))
}

func TestMulBasic(t *testing.T) {
	// 2.0 * 3.0 = 6.0
	r := fpu.Operate(fpu.Mul, fpu.RoundNearestEven, math.Float32bits(2.0), math.Float32bits(3.0), 0)
	test.Equate(t, r.Value, 0x40c00000)
	test.Equate(t, uint8(r.Flags), 0)

	// zero times infinity is invalid whichever way round
	r = fpu.Operate(fpu.Mul, fpu.RoundNearestEven, posZero, posInf, 0)
	test.Equate(t, r.Value, uint32(canonNaN))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))
	r = fpu.Operate(fpu.Mul, fpu.RoundNearestEven, negInf, negZero, 0)
	test.Equate(t, r.Value, uint32(canonNaN))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))
}

// the saturation direction on overflow depends on both the rounding mode
// and the sign of the result (IEEE 754-2019 section 7.4).
func TestOverflowSaturation(t *testing.T) {
	expected := map[fpu.RoundingMode][2]uint32{
		// {positive result, negative result}
		fpu.RoundNearestEven: {posInf, negInf},
		fpu.RoundNearestMax:  {posInf, negInf},
		fpu.RoundZero:        {maxNorm, maxNorm | 0x80000000},
		fpu.RoundDown:        {maxNorm, negInf},
		fpu.RoundUp:          {posInf, maxNorm | 0x80000000},
	}

	for mode, want := range expected {
		r := fpu.Operate(fpu.Mul, mode, maxNorm, two, 0)
		test.Equate(t, r.Value, want[0])
		test.Equate(t, uint8(r.Flags), uint8(fpu.FlagOF|fpu.FlagNX))

		r = fpu.Operate(fpu.Mul, mode, maxNorm|0x80000000, two, 0)
		test.Equate(t, r.Value, want[1])
		test.Equate(t, uint8(r.Flags), uint8(fpu.FlagOF|fpu.FlagNX))
	}
}

func TestFusedBasic(t *testing.T) {
	// 2.0*3.0 + 4.0 = 10.0
	r := fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven,
		math.Float32bits(2.0), math.Float32bits(3.0), math.Float32bits(4.0))
	test.Equate(t, r.Value, 0x41200000)
	test.Equate(t, uint8(r.Flags), 0)

	// 2.0*3.0 - 4.0 = 2.0
	r = fpu.Operate(fpu.MulSub, fpu.RoundNearestEven,
		math.Float32bits(2.0), math.Float32bits(3.0), math.Float32bits(4.0))
	test.Equate(t, r.Value, uint32(two))

	// -(2.0*3.0) - 4.0 = -10.0
	r = fpu.Operate(fpu.NegMulAdd, fpu.RoundNearestEven,
		math.Float32bits(2.0), math.Float32bits(3.0), math.Float32bits(4.0))
	test.Equate(t, r.Value, 0xc1200000)

	// -(2.0*3.0) + 4.0 = -2.0
	r = fpu.Operate(fpu.NegMulSub, fpu.RoundNearestEven,
		math.Float32bits(2.0), math.Float32bits(3.0), math.Float32bits(4.0))
	test.Equate(t, r.Value, uint32(two|0x80000000))
}

// the fused kinds round once. (1+2^-23)^2 - (1+2^-22) = 2^-46 exactly; a
// separate multiply would round the square to 1+2^-22 and the difference
// would collapse to zero.
func TestFusedSingleRounding(t *testing.T) {
	x := uint32(0x3f800001) // 1 + 2^-23
	z := uint32(0x3f800002) // 1 + 2^-22

	r := fpu.Operate(fpu.MulSub, fpu.RoundNearestEven, x, x, z)
	test.Equate(t, r.Value, 0x28800000) // 2^-46
	test.Equate(t, uint8(r.Flags), 0)

	// the unfused sequence loses the low product bits
	p := fpu.Operate(fpu.Mul, fpu.RoundNearestEven, x, x, 0)
	test.Equate(t, p.Value, uint32(z))
	test.Equate(t, uint8(p.Flags), uint8(fpu.FlagNX))

	s := fpu.Operate(fpu.Sub, fpu.RoundNearestEven, p.Value, z, 0)
	test.Equate(t, s.Value, uint32(posZero))
}

func TestZeroSigns(t *testing.T) {
	// like-signed zero additions keep the sign in every mode
	for _, mode := range allModes {
		r := fpu.Operate(fpu.Add, mode, posZero, posZero, 0)
		test.Equate(t, r.Value, uint32(posZero))
		r = fpu.Operate(fpu.Add, mode, negZero, negZero, 0)
		test.Equate(t, r.Value, uint32(negZero))
	}

	// exact cancellation gives positive zero except when rounding down
	for _, mode := range allModes {
		want := uint32(posZero)
		if mode == fpu.RoundDown {
			want = negZero
		}

		r := fpu.Operate(fpu.Add, mode, posZero, negZero, 0)
		test.Equate(t, r.Value, want)

		r = fpu.Operate(fpu.Sub, mode, one, one, 0)
		test.Equate(t, r.Value, want)

		r = fpu.Operate(fpu.MulAdd, mode, one, one, one|0x80000000)
		test.Equate(t, r.Value, want)
	}

	// multiplication zero signs are exact XOR, including the kinds that
	// invert the product
	r := fpu.Operate(fpu.Mul, fpu.RoundNearestEven, posZero, math.Float32bits(-5.0), 0)
	test.Equate(t, r.Value, uint32(negZero))
	r = fpu.Operate(fpu.Mul, fpu.RoundNearestEven, negZero, math.Float32bits(-5.0), 0)
	test.Equate(t, r.Value, uint32(posZero))

	// -(+0 * 1) - (-0) is an exact zero sum of a negative product and a
	// positive addend: positive zero except when rounding down
	r = fpu.Operate(fpu.NegMulAdd, fpu.RoundNearestEven, posZero, one, negZero)
	test.Equate(t, r.Value, uint32(posZero))
	r = fpu.Operate(fpu.NegMulAdd, fpu.RoundDown, posZero, one, negZero)
	test.Equate(t, r.Value, uint32(negZero))

	// a zero product with a like-signed zero addend keeps the sign
	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, negZero, one, negZero)
	test.Equate(t, r.Value, uint32(negZero))
}

func TestNaNPropagation(t *testing.T) {
	// a quiet NaN propagates with its payload, scanned in operand order
	r := fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, qNaNOdd, canonNaN, one)
	test.Equate(t, r.Value, uint32(qNaNOdd))
	test.Equate(t, uint8(r.Flags), 0)

	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, one, qNaNOdd, canonNaN)
	test.Equate(t, r.Value, uint32(qNaNOdd))

	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, one, two, qNaNOdd)
	test.Equate(t, r.Value, uint32(qNaNOdd))

	// a signaling NaN forces the canonical NaN and raises invalid
	r = fpu.Operate(fpu.Add, fpu.RoundNearestEven, sNaNOdd, one, 0)
	test.Equate(t, r.Value, uint32(canonNaN))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))

	// a signaling NaN outranks a quiet NaN in an earlier operand
	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, qNaNOdd, sNaNOdd, one)
	test.Equate(t, r.Value, uint32(canonNaN))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))

	// an invalid zero-times-infinity with a quiet NaN addend: the NaN
	// propagates but the invalid flag is still raised
	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, posZero, posInf, qNaNOdd)
	test.Equate(t, r.Value, uint32(qNaNOdd))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))

	// a NaN multiplicand means the product is NaN: the opposite-signed
	// infinities in the remaining operands are never subtracted and no
	// invalid flag is raised
	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, qNaNOdd, posInf, negInf)
	test.Equate(t, r.Value, uint32(qNaNOdd))
	test.Equate(t, uint8(r.Flags), 0)

	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, posInf, qNaNOdd, negInf)
	test.Equate(t, r.Value, uint32(qNaNOdd))
	test.Equate(t, uint8(r.Flags), 0)

	// a NaN addend likewise quietens an infinite product
	r = fpu.Operate(fpu.MulSub, fpu.RoundNearestEven, posInf, one, qNaNOdd)
	test.Equate(t, r.Value, uint32(qNaNOdd))
	test.Equate(t, uint8(r.Flags), 0)

	// the addend is not consulted for Mul
	r = fpu.Operate(fpu.Mul, fpu.RoundNearestEven, one, two, qNaNOdd)
	test.Equate(t, r.Value, uint32(two))
	test.Equate(t, uint8(r.Flags), 0)
}

func TestInfinityArithmetic(t *testing.T) {
	// an infinite product takes the product sign
	r := fpu.Operate(fpu.Mul, fpu.RoundNearestEven, negInf, math.Float32bits(2.5), 0)
	test.Equate(t, r.Value, uint32(negInf))

	// an infinite product against a like-signed infinite addend
	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, posInf, one, posInf)
	test.Equate(t, r.Value, uint32(posInf))
	test.Equate(t, uint8(r.Flags), 0)

	// an infinite product against an opposite-signed infinite addend
	r = fpu.Operate(fpu.MulAdd, fpu.RoundNearestEven, posInf, one, negInf)
	test.Equate(t, r.Value, uint32(canonNaN))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))

	// the sign inverting kinds flip the effective signs before the test:
	// -(+inf * 1) + (+inf) cancels and is invalid
	r = fpu.Operate(fpu.NegMulSub, fpu.RoundNearestEven, posInf, one, posInf)
	test.Equate(t, r.Value, uint32(canonNaN))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNV))

	// -(+inf * 1) + (-inf) agrees on negative infinity
	r = fpu.Operate(fpu.NegMulSub, fpu.RoundNearestEven, posInf, one, negInf)
	test.Equate(t, r.Value, uint32(negInf))
	test.Equate(t, uint8(r.Flags), 0)

	// as does -(+inf * 1) - (+inf)
	r = fpu.Operate(fpu.NegMulAdd, fpu.RoundNearestEven, posInf, one, posInf)
	test.Equate(t, r.Value, uint32(negInf))
	test.Equate(t, uint8(r.Flags), 0)
}

func TestSubnormals(t *testing.T) {
	// 2^-149 * 0.5 = 2^-150: an exact tie below the smallest subnormal
	half := math.Float32bits(0.5)

	r := fpu.Operate(fpu.Mul, fpu.RoundNearestEven, minSubn, half, 0)
	test.Equate(t, r.Value, uint32(posZero))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagUF|fpu.FlagNX))

	r = fpu.Operate(fpu.Mul, fpu.RoundUp, minSubn, half, 0)
	test.Equate(t, r.Value, uint32(minSubn))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagUF|fpu.FlagNX))

	r = fpu.Operate(fpu.Mul, fpu.RoundZero, minSubn, half, 0)
	test.Equate(t, r.Value, uint32(posZero))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagUF|fpu.FlagNX))

	r = fpu.Operate(fpu.Mul, fpu.RoundDown, minSubn, half, 0)
	test.Equate(t, r.Value, uint32(posZero))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagUF|fpu.FlagNX))

	// the negative mirror rounds away from zero in RDN
	r = fpu.Operate(fpu.Mul, fpu.RoundDown, minSubn|0x80000000, half, 0)
	test.Equate(t, r.Value, uint32(minSubn|0x80000000))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagUF|fpu.FlagNX))

	// exact subnormal arithmetic raises nothing
	r = fpu.Operate(fpu.Add, fpu.RoundNearestEven, maxSubn, minSubn, 0)
	test.Equate(t, r.Value, uint32(minNorm))
	test.Equate(t, uint8(r.Flags), 0)

	r = fpu.Operate(fpu.Add, fpu.RoundNearestEven, 0x00000003, minSubn, 0)
	test.Equate(t, r.Value, 0x00000004)
	test.Equate(t, uint8(r.Flags), 0)

	// (1 - 2^-24) * 2^-126 sits exactly between the largest subnormal and
	// the smallest normal; RNE resolves the tie to the even significand,
	// which is the smallest normal. not tiny after rounding: inexact but no
	// underflow
	r = fpu.Operate(fpu.Mul, fpu.RoundNearestEven, 0x3f7fffff, minNorm, 0)
	test.Equate(t, r.Value, uint32(minNorm))
	test.Equate(t, uint8(r.Flags), uint8(fpu.FlagNX))
}

// pool of awkward patterns mixed into the random operand streams.
var specialPool = []uint32{
	posZero, negZero, posInf, negInf, canonNaN, qNaNOdd, sNaNOdd,
	one, two, maxNorm, maxNorm | 0x80000000,
	minSubn, maxSubn, minNorm, minSubn | 0x80000000,
	0x3f800001, 0x34000000, 0x00800001, 0x7f000000,
}

func randOperand(rnd *rand.Rand) uint32 {
	if rnd.Intn(4) == 0 {
		return specialPool[rnd.Intn(len(specialPool))]
	}
	return rnd.Uint32()
}

// differential test against the host's binary32 arithmetic, which rounds to
// nearest even. NaN results compare by NaN-ness only; the host does not
// promise payload propagation.
func TestDifferentialNearestEven(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 50000; i++ {
		a := randOperand(rnd)
		b := randOperand(rnd)
		fa := math.Float32frombits(a)
		fb := math.Float32frombits(b)

		check := func(kind fpu.OperationKind, want float32) {
			r := fpu.Operate(kind, fpu.RoundNearestEven, a, b, 0)
			wb := math.Float32bits(want)
			if wb&0x7fffffff > 0x7f800000 {
				if r.Value&0x7fffffff <= 0x7f800000 {
					t.Fatalf("%v %08x %08x: expected NaN, got %08x", kind, a, b, r.Value)
				}
				return
			}
			if r.Value != wb {
				t.Fatalf("%v %08x %08x: expected %08x, got %08x", kind, a, b, wb, r.Value)
			}
		}

		check(fpu.Add, fa+fb)
		check(fpu.Sub, fa-fb)
		check(fpu.Mul, fa*fb)
	}
}

// Add and Mul are commutative in value and flags for non-NaN operands. NaN
// operands are excluded because payload propagation is ordered.
func TestCommutativity(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))

	for i := 0; i < 20000; i++ {
		a := randOperand(rnd)
		b := randOperand(rnd)
		if a&0x7fffffff > 0x7f800000 || b&0x7fffffff > 0x7f800000 {
			continue
		}

		for _, mode := range allModes {
			x := fpu.Operate(fpu.Add, mode, a, b, 0)
			y := fpu.Operate(fpu.Add, mode, b, a, 0)
			test.Equate(t, x.Value, y.Value)
			test.Equate(t, uint8(x.Flags), uint8(y.Flags))

			x = fpu.Operate(fpu.Mul, mode, a, b, 0)
			y = fpu.Operate(fpu.Mul, mode, b, a, 0)
			test.Equate(t, x.Value, y.Value)
			test.Equate(t, uint8(x.Flags), uint8(y.Flags))
		}
	}
}

// the directed modes bracket the exact result: RDN <= RNE <= RUP as real
// values, for finite non-NaN results.
func TestDirectedModeBracketing(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))

	asOrdered := func(v uint32) int64 {
		k := int64(v & 0x7fffffff)
		if v&0x80000000 != 0 {
			k = -k
		}
		return k
	}

	for i := 0; i < 20000; i++ {
		a := randOperand(rnd)
		b := randOperand(rnd)
		c := randOperand(rnd)

		for _, kind := range []fpu.OperationKind{fpu.Add, fpu.Mul, fpu.MulAdd} {
			dn := fpu.Operate(kind, fpu.RoundDown, a, b, c)
			up := fpu.Operate(kind, fpu.RoundUp, a, b, c)

			if dn.Value&0x7fffffff > 0x7f800000 || up.Value&0x7fffffff >= 0x7f800000 ||
				dn.Value&0x7fffffff == 0x7f800000 {
				continue
			}

			if asOrdered(dn.Value) > asOrdered(up.Value) {
				t.Fatalf("%v %08x %08x %08x: RDN %08x above RUP %08x",
					kind, a, b, c, dn.Value, up.Value)
			}
		}
	}
}
