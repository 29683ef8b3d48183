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

package performance

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/jetsetilly/rvfp32/curated"
	"github.com/jetsetilly/rvfp32/hardware"
	"github.com/jetsetilly/rvfp32/hardware/decode"
	"github.com/jetsetilly/rvfp32/hardware/fpu"
)

// how often to poll the duration timer. polling the channel is relatively
// expensive so we don't want to do it for every operation.
const performanceBrake = 1024

// bit patterns used to seed the register file before the soak begins. the
// soak feeds results back into the registers so the special values keep
// reappearing in new combinations.
var seedPatterns = []uint32{
	0x00000000, // +zero
	0x80000000, // -zero
	0x7f800000, // +inf
	0xff800000, // -inf
	0x7fc00000, // canonical NaN
	0x7f800001, // signaling NaN
	0x00000001, // smallest subnormal
	0x007fffff, // largest subnormal
	0x7f7fffff, // largest normal
	0x3f800000, // one
}

var soakKinds = []fpu.OperationKind{
	fpu.Add, fpu.Sub, fpu.Mul,
	fpu.MulAdd, fpu.MulSub, fpu.NegMulAdd, fpu.NegMulSub,
}

// Check the performance of the emulation by running a pseudo-random
// instruction stream for the specified duration.
//
// The stream mixes every arithmetic kind and rounding mode. Results feed
// back into the register file so the operand population stays varied without
// further intervention.
//
// A cpu profile, memory profile, or execution trace (or a combination of
// those) is created as defined by the profile argument.
func Check(output io.Writer, profile Profile, duration string, seed int64) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf(ProfilingError, err)
	}

	fp := hardware.NewRV32F()
	rnd := rand.New(rand.NewSource(seed))

	for i := range fp.Fregs {
		if i < len(seedPatterns) {
			fp.Fregs[i] = seedPatterns[i]
		} else {
			fp.Fregs[i] = rnd.Uint32()
		}
	}

	var operations int
	var ticks int

	runner := func() error {
		timesUp := make(chan bool)
		time.AfterFunc(dur, func() {
			timesUp <- true
		})

		brake := 0
		done := false

		for !done {
			brake++
			if brake >= performanceBrake {
				brake = 0
				select {
				case <-timesUp:
					done = true
					continue
				default:
				}
			}

			ins := decode.Instruction{
				Class: decode.ClassArithmetic,
				Kind:  soakKinds[rnd.Intn(len(soakKinds))],
				Rd:    uint8(rnd.Intn(32)),
				Rs1:   uint8(rnd.Intn(32)),
				Rs2:   uint8(rnd.Intn(32)),
				Rs3:   uint8(rnd.Intn(32)),
				Rm:    uint8(rnd.Intn(5)),
			}

			if !fp.ShouldStall(ins) {
				if err := fp.Issue(ins); err != nil {
					return err
				}
				operations++
			}

			fp.Step()
			ticks++
		}

		return nil
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil {
		return err
	}

	ticks += fp.Drain()

	secs := dur.Seconds()
	output.Write([]byte(fmt.Sprintf("%.0f operations/sec (%d operations in %d ticks over %.2f seconds)\n",
		float64(operations)/secs, operations, ticks, secs)))

	return nil
}
