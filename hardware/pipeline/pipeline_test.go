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

package pipeline_test

import (
	"testing"

	"github.com/jetsetilly/rvfp32/curated"
	"github.com/jetsetilly/rvfp32/hardware/fpu"
	"github.com/jetsetilly/rvfp32/hardware/pipeline"
	"github.com/jetsetilly/rvfp32/test"
)

func TestLatency(t *testing.T) {
	test.Equate(t, pipeline.Latency(fpu.Add), pipeline.LatencyAdd)
	test.Equate(t, pipeline.Latency(fpu.Sub), pipeline.LatencyAdd)
	test.Equate(t, pipeline.Latency(fpu.Mul), pipeline.LatencyMul)
	test.Equate(t, pipeline.Latency(fpu.MulAdd), pipeline.LatencyFused)
	test.Equate(t, pipeline.Latency(fpu.MulSub), pipeline.LatencyFused)
	test.Equate(t, pipeline.Latency(fpu.NegMulAdd), pipeline.LatencyFused)
	test.Equate(t, pipeline.Latency(fpu.NegMulSub), pipeline.LatencyFused)
}

func TestCompletionSchedule(t *testing.T) {
	seq := pipeline.NewSequencer()

	err := seq.Issue(pipeline.Token{Kind: fpu.Add, Dest: 1})
	test.ExpectedSuccess(t, err)
	test.Equate(t, seq.InFlight(), 1)

	// an addition issued at tick zero completes on the fourth Tick()
	for i := 0; i < pipeline.LatencyAdd-1; i++ {
		test.Equate(t, len(seq.Tick()), 0)
	}
	completed := seq.Tick()
	test.Equate(t, len(completed), 1)
	test.Equate(t, completed[0].Dest, 1)
	test.Equate(t, seq.InFlight(), 0)
	test.Equate(t, seq.TickCount(), uint64(pipeline.LatencyAdd))
}

func TestIssueSlot(t *testing.T) {
	seq := pipeline.NewSequencer()

	err := seq.Issue(pipeline.Token{Kind: fpu.Add, Dest: 1})
	test.ExpectedSuccess(t, err)

	// the second issue in the same tick is refused
	err = seq.Issue(pipeline.Token{Kind: fpu.Mul, Dest: 2})
	test.ExpectedFailure(t, err)
	if !curated.Is(err, pipeline.IssueSlotTaken) {
		t.Errorf("unexpected error: %v", err)
	}
	test.Equate(t, seq.InFlight(), 1)

	// the slot frees on the next tick
	seq.Tick()
	err = seq.Issue(pipeline.Token{Kind: fpu.Mul, Dest: 2})
	test.ExpectedSuccess(t, err)
	test.Equate(t, seq.InFlight(), 2)
}

// two in-flight tokens do not interfere: each completes exactly on its own
// schedule.
func TestIndependentTokens(t *testing.T) {
	seq := pipeline.NewSequencer()

	// addition at tick 0, fused at tick 1. they complete at ticks 4 and 7
	err := seq.Issue(pipeline.Token{Kind: fpu.Add, Dest: 1})
	test.ExpectedSuccess(t, err)
	seq.Tick()
	err = seq.Issue(pipeline.Token{Kind: fpu.MulAdd, Dest: 2})
	test.ExpectedSuccess(t, err)

	var retired []uint8
	for seq.InFlight() > 0 {
		for _, tok := range seq.Tick() {
			if seq.TickCount() == 4 || seq.TickCount() == 7 {
				retired = append(retired, tok.Dest)
			} else {
				t.Errorf("completion at unexpected tick %d", seq.TickCount())
			}
		}
	}

	test.Equate(t, len(retired), 2)
	test.Equate(t, retired[0], 1)
	test.Equate(t, retired[1], 2)
}

// operations of different latencies landing on the same tick complete
// together, in issue order.
func TestConvergingCompletions(t *testing.T) {
	seq := pipeline.NewSequencer()

	// fused at tick 0 completes at tick 6
	err := seq.Issue(pipeline.Token{Kind: fpu.MulAdd, Dest: 3})
	test.ExpectedSuccess(t, err)
	seq.Tick()

	// multiply at tick 1 also completes at tick 6
	err = seq.Issue(pipeline.Token{Kind: fpu.Mul, Dest: 4})
	test.ExpectedSuccess(t, err)

	for i := 0; i < pipeline.LatencyMul-1; i++ {
		test.Equate(t, len(seq.Tick()), 0)
	}
	completed := seq.Tick()
	test.Equate(t, len(completed), 2)
	test.Equate(t, completed[0].Dest, 3)
	test.Equate(t, completed[1].Dest, 4)
	test.Equate(t, seq.TickCount(), 6)
}

// the auxiliary operations transit at adder latency whatever their Kind
// field holds.
func TestAuxiliaryLatency(t *testing.T) {
	seq := pipeline.NewSequencer()

	err := seq.Issue(pipeline.Token{Aux: true, Dest: 7, IntDest: true})
	test.ExpectedSuccess(t, err)

	for i := 0; i < pipeline.LatencyAdd-1; i++ {
		test.Equate(t, len(seq.Tick()), 0)
	}
	completed := seq.Tick()
	test.Equate(t, len(completed), 1)
	test.Equate(t, completed[0].IntDest, true)
}

func TestTrackerProducer(t *testing.T) {
	tr := pipeline.NewTracker()

	loc, remaining := tr.Producer(5)
	test.Equate(t, loc == pipeline.LocationRegisterFile, true)
	test.Equate(t, remaining, 0)
	test.Equate(t, tr.ShouldStall(5), false)

	tr.Claim(5, pipeline.LatencyAdd)

	// in execute until the result is one tick from the register file
	for i := 0; i < pipeline.LatencyAdd-1; i++ {
		loc, remaining = tr.Producer(5)
		test.Equate(t, loc == pipeline.LocationExecute, true)
		test.Equate(t, remaining, pipeline.LatencyAdd-i)
		test.Equate(t, tr.ShouldStall(5), true)
		tr.Tick()
	}

	// forwardable from the writeback staging register
	loc, remaining = tr.Producer(5)
	test.Equate(t, loc == pipeline.LocationWriteback, true)
	test.Equate(t, remaining, 1)
	test.Equate(t, tr.ShouldStall(5), false)

	// retired
	tr.Tick()
	loc, _ = tr.Producer(5)
	test.Equate(t, loc == pipeline.LocationRegisterFile, true)

	// an unrelated register was never affected
	test.Equate(t, tr.ShouldStall(6), false)
}

// a second claim on the same register replaces the first.
func TestTrackerReclaim(t *testing.T) {
	tr := pipeline.NewTracker()

	tr.Claim(2, pipeline.LatencyAdd)
	tr.Tick()
	tr.Claim(2, pipeline.LatencyFused)

	_, remaining := tr.Producer(2)
	test.Equate(t, remaining, pipeline.LatencyFused)
}
