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

package pipeline

// Location identifies the stage holding a register's pending value. The
// hazard/forwarding unit outside the core turns this into a stall-or-forward
// decision for a dependent reader.
type Location int

// List of valid Location values.
const (
	// no result in flight; read the register file
	LocationRegisterFile Location = iota

	// the value is still being computed in the execute stages. a dependent
	// reader must stall
	LocationExecute

	// the value completes this tick and sits in the writeback staging
	// register. a dependent reader can take it on the forwarding path
	LocationWriteback
)

func (loc Location) String() string {
	switch loc {
	case LocationRegisterFile:
		return "register file"
	case LocationExecute:
		return "execute"
	case LocationWriteback:
		return "writeback"
	}
	panic("unknown producer location")
}

// Tracker maintains the producer location for every register with a result
// in flight: a bounded table from register id to ticks remaining, refreshed
// every tick by the dispatch path. Write-after-write simply replaces the
// entry; the earlier result still completes but the later one owns the
// register.
type Tracker struct {
	pending map[uint8]int
}

// NewTracker is the preferred method of initialisation of the Tracker type.
func NewTracker() *Tracker {
	return &Tracker{
		pending: make(map[uint8]int),
	}
}

// Claim records that the register's next value completes after the given
// latency. Called by the dispatch path at issue, in the same tick as
// Sequencer.Issue().
func (tr *Tracker) Claim(reg uint8, latency int) {
	tr.pending[reg] = latency
}

// Tick advances every pending entry by one tick, retiring entries whose
// results have reached the register file.
func (tr *Tracker) Tick() {
	for reg, remaining := range tr.pending {
		remaining--
		if remaining <= 0 {
			delete(tr.pending, reg)
		} else {
			tr.pending[reg] = remaining
		}
	}
}

// Producer returns the stage holding the register's pending value and the
// number of ticks until the value reaches the register file. A count of zero
// means no result is in flight.
func (tr *Tracker) Producer(reg uint8) (Location, int) {
	remaining, ok := tr.pending[reg]
	if !ok {
		return LocationRegisterFile, 0
	}
	if remaining == 1 {
		return LocationWriteback, 1
	}
	return LocationExecute, remaining
}

// ShouldStall is the stall-or-forward decision for a dependent reader: true
// while the pending value is still in execute, false once it is forwardable
// or in the register file.
func (tr *Tracker) ShouldStall(reg uint8) bool {
	loc, _ := tr.Producer(reg)
	return loc == LocationExecute
}
