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

// Package hardware is the main container for the emulated floating-point
// unit: the register files, the control and status register, the numeric
// core and the pipeline that sequences results back to the registers.
package hardware

import (
	"github.com/jetsetilly/rvfp32/curated"
	"github.com/jetsetilly/rvfp32/hardware/csr"
	"github.com/jetsetilly/rvfp32/hardware/decode"
	"github.com/jetsetilly/rvfp32/hardware/fpu"
	"github.com/jetsetilly/rvfp32/hardware/pipeline"
)

// Sentinal errors returned by the RV32F type.
const (
	InvalidRoundingMode = "rv32f: invalid rounding mode: %03b"
	DataHazard          = "rv32f: data hazard on f%d"
)

// RV32F is the emulated floating-point unit. The hart around it is reduced
// to the two register files; instruction fetch and the integer datapath are
// outside the scope of the emulation.
type RV32F struct {
	// the floating-point register file. entries are raw binary32 bit
	// patterns, never converted through the host's float types
	Fregs [32]uint32

	// the integer register file receives the results of the comparison and
	// classification operations. x0 is hardwired to zero
	Xregs [32]uint32

	FCSR *csr.FCSR

	Pipeline *pipeline.Sequencer
	Hazards  *pipeline.Tracker
}

// NewRV32F is the preferred method of initialisation for the RV32F type.
func NewRV32F() *RV32F {
	return &RV32F{
		FCSR:     &csr.FCSR{},
		Pipeline: pipeline.NewSequencer(),
		Hazards:  pipeline.NewTracker(),
	}
}

// Reset the machine. Register files are cleared, the fcsr returns to zero
// and any in-flight operations are discarded.
func (fp *RV32F) Reset() {
	fp.Fregs = [32]uint32{}
	fp.Xregs = [32]uint32{}
	fp.FCSR.SetValue(0)
	fp.Pipeline = pipeline.NewSequencer()
	fp.Hazards = pipeline.NewTracker()
}

// roundingMode resolves the rm field of an instruction against frm. The rm
// encodings map directly onto the fpu rounding modes.
func (fp *RV32F) roundingMode(rm uint8) (fpu.RoundingMode, error) {
	if rm == csr.RmDyn {
		rm = fp.FCSR.Frm()
	}
	if rm > csr.RmRMM {
		return 0, curated.Errorf(InvalidRoundingMode, rm)
	}
	return fpu.RoundingMode(rm), nil
}

// sources returns the registers read by an instruction.
func sources(ins decode.Instruction) []uint8 {
	switch ins.Class {
	case decode.ClassArithmetic:
		switch ins.Kind {
		case fpu.Add, fpu.Sub, fpu.Mul:
			return []uint8{ins.Rs1, ins.Rs2}
		}
		return []uint8{ins.Rs1, ins.Rs2, ins.Rs3}
	case decode.ClassClassify:
		return []uint8{ins.Rs1}
	}
	return []uint8{ins.Rs1, ins.Rs2}
}

// ShouldStall reports whether an instruction must wait before issue: either
// a source register has a result in flight that is not yet forwardable, or
// the destination register itself is pending.
func (fp *RV32F) ShouldStall(ins decode.Instruction) bool {
	for _, reg := range sources(ins) {
		if fp.Hazards.ShouldStall(reg) {
			return true
		}
	}
	if !ins.IntDest && fp.Hazards.ShouldStall(ins.Rd) {
		return true
	}
	return false
}

// Issue an instruction into the pipeline. The result is computed here and
// carried through the delay queue; it is not visible in the register file or
// the fcsr until the operation retires in a later Step().
//
// Issue does not stall on the caller's behalf. Issuing an instruction for
// which ShouldStall() is true returns the DataHazard error.
func (fp *RV32F) Issue(ins decode.Instruction) error {
	if fp.ShouldStall(ins) {
		return curated.Errorf(DataHazard, ins.Rd)
	}

	a := fp.Fregs[ins.Rs1]
	b := fp.Fregs[ins.Rs2]
	c := fp.Fregs[ins.Rs3]

	tok := pipeline.Token{
		Dest:    ins.Rd,
		IntDest: ins.IntDest,
	}

	switch ins.Class {
	case decode.ClassArithmetic:
		mode, err := fp.roundingMode(ins.Rm)
		if err != nil {
			return err
		}
		tok.Kind = ins.Kind
		tok.Result = fpu.Operate(ins.Kind, mode, a, b, c)

	case decode.ClassSignInject:
		tok.Aux = true
		tok.Result = fpu.Result{Value: fpu.InjectSign(a, b, ins.Inject)}

	case decode.ClassMinMax:
		tok.Aux = true
		if ins.Max {
			tok.Result = fpu.Max(a, b)
		} else {
			tok.Result = fpu.Min(a, b)
		}

	case decode.ClassCompare:
		tok.Aux = true
		tok.Result = fpu.Compare(a, b, ins.Compare)

	case decode.ClassClassify:
		tok.Aux = true
		tok.Result = fpu.Result{Value: fpu.Class(a)}
	}

	if err := fp.Pipeline.Issue(tok); err != nil {
		return err
	}

	if ins.IntDest {
		return nil
	}

	latency := pipeline.LatencyAdd
	if ins.Class == decode.ClassArithmetic {
		latency = pipeline.Latency(ins.Kind)
	}
	fp.Hazards.Claim(ins.Rd, latency)

	return nil
}

// Step advances the machine by one tick and retires any operations that
// complete on the new tick. Retirement writes the destination register and
// accumulates the exception flags into fflags.
func (fp *RV32F) Step() {
	for _, tok := range fp.Pipeline.Tick() {
		if tok.IntDest {
			if tok.Dest != 0 {
				fp.Xregs[tok.Dest] = tok.Result.Value
			}
		} else {
			fp.Fregs[tok.Dest] = tok.Result.Value
		}
		fp.FCSR.RaiseFflags(uint8(tok.Result.Flags))
	}
	fp.Hazards.Tick()
}

// Drain steps the machine until no operations remain in flight. It returns
// the number of ticks taken.
func (fp *RV32F) Drain() int {
	n := 0
	for fp.Pipeline.InFlight() > 0 {
		fp.Step()
		n++
	}
	return n
}
