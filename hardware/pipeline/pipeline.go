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

// Package pipeline sequences floating-point operations through the fixed
// latency execution path. The model is a delay queue rather than literal
// stage registers: an accepted operation is scheduled for completion a fixed
// number of ticks ahead, and every accepted operation completes exactly on
// schedule. There are no stalls, retries or cancellations inside the
// pipeline; the only contended resource is the single issue slot per tick.
//
// The hazard sub-component tracks, for every destination register with a
// result in flight, which stage holds the pending value. The dispatch path
// outside the core uses that producer location to choose between stalling a
// dependent reader and forwarding from the staging register.
package pipeline

import (
	"github.com/jetsetilly/rvfp32/curated"
	"github.com/jetsetilly/rvfp32/hardware/fpu"
)

// Latency in ticks for each operation class. A result issued at tick T is
// visible at tick T+latency, counted by the number of Tick() calls.
const (
	LatencyAdd   = 4 // FADD.S, FSUB.S and the auxiliary operations
	LatencyMul   = 5 // FMUL.S
	LatencyFused = 6 // FMADD.S, FMSUB.S, FNMADD.S, FNMSUB.S
)

// ringSize must exceed the longest latency.
const ringSize = 8

// sentinal error returned by Issue().
const IssueSlotTaken = "pipeline: issue slot already taken at this tick"

// Latency returns the tick count for an operation kind.
func Latency(kind fpu.OperationKind) int {
	switch kind {
	case fpu.Add, fpu.Sub:
		return LatencyAdd
	case fpu.Mul:
		return LatencyMul
	case fpu.MulAdd, fpu.MulSub, fpu.NegMulAdd, fpu.NegMulSub:
		return LatencyFused
	}
	panic("unknown operation kind in Latency()")
}

// Token is one in-flight operation. The result is computed at issue and
// carried through the delay queue; the pipeline is purely a timing model and
// never touches the value.
type Token struct {
	Kind fpu.OperationKind

	// the auxiliary operations (sign injection, min/max, comparison,
	// classification) have no arithmetic kind. they use the adder path and
	// complete at LatencyAdd
	Aux bool

	// destination register. interpreted against the integer register file
	// when IntDest is set (the comparison and classification operations)
	Dest    uint8
	IntDest bool

	Result fpu.Result
}

// latency of the token in ticks.
func (tok Token) latency() int {
	if tok.Aux {
		return LatencyAdd
	}
	return Latency(tok.Kind)
}

// Sequencer is the delay queue. Operations of different latencies can land
// on the same tick; the queue holds every token for a tick in the slot for
// that tick.
type Sequencer struct {
	tick   uint64
	slots  [ringSize][]Token
	issued bool // an operation has been accepted since the last Tick()

	inFlight int
}

// NewSequencer is the preferred method of initialisation of the Sequencer
// type.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Tick advances the pipeline by one tick and returns the tokens that
// complete on the new tick, in issue order. The returned slice is only valid
// until the next call to Tick().
func (seq *Sequencer) Tick() []Token {
	seq.tick++
	seq.issued = false

	slot := seq.tick % ringSize
	completed := seq.slots[slot]
	seq.slots[slot] = nil
	seq.inFlight -= len(completed)

	return completed
}

// Issue accepts a token for completion after the latency of its kind. One
// operation can be accepted per tick; a second in the same tick returns the
// IssueSlotTaken error and the pipeline state is unchanged.
func (seq *Sequencer) Issue(tok Token) error {
	if seq.issued {
		return curated.Errorf(IssueSlotTaken)
	}
	seq.issued = true

	slot := (seq.tick + uint64(tok.latency())) % ringSize
	seq.slots[slot] = append(seq.slots[slot], tok)
	seq.inFlight++

	return nil
}

// InFlight returns the number of accepted tokens that have not yet
// completed. Under the one-issue-per-tick contract this never exceeds
// LatencyFused.
func (seq *Sequencer) InFlight() int {
	return seq.inFlight
}

// TickCount returns the current tick number. Ticks count upwards from zero,
// one per call to the Tick() function.
func (seq *Sequencer) TickCount() uint64 {
	return seq.tick
}
