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

// Package csr implements the floating-point control and status register of
// the RV32F extension: the accrued exception flags (fflags), the dynamic
// rounding mode (frm) and their combined view (fcsr).
//
// The register is the only architectural state of the floating-point path.
// The numeric core itself is stateless; the flags of every completed
// operation are ORed into fflags here, and remain set until software clears
// them.
package csr

import (
	"fmt"
)

// FCSR is the combined floating-point control and status register.
//
//	bits 0-4  fflags  accrued exceptions (NX, UF, OF, DZ, NV)
//	bits 5-7  frm     dynamic rounding mode
type FCSR struct {
	value uint32
}

// The rm encodings of the RISC-V ISA. RmDyn never appears in frm itself; it
// is the instruction encoding that defers to frm.
const (
	RmRNE uint8 = 0b000
	RmRTZ uint8 = 0b001
	RmRDN uint8 = 0b010
	RmRUP uint8 = 0b011
	RmRMM uint8 = 0b100
	RmDyn uint8 = 0b111
)

func (c FCSR) String() string {
	return fmt.Sprintf("fcsr=%#02x frm=%03b fflags=%05b", c.value, c.Frm(), c.Fflags())
}

// Value returns the combined fcsr view.
func (c FCSR) Value() uint32 {
	return c.value
}

// SetValue writes the combined fcsr view. Bits above the frm field are
// hardwired to zero.
func (c *FCSR) SetValue(v uint32) {
	c.value = v & 0xff
}

// Frm returns the dynamic rounding mode field.
func (c FCSR) Frm() uint8 {
	// bits 5-7
	return uint8(c.value>>5) & 0b111
}

// SetFrm writes the dynamic rounding mode field. The reserved encodings and
// RmDyn can be written; they take effect (as an illegal operation) only when
// an instruction defers to frm.
func (c *FCSR) SetFrm(rm uint8) {
	// bits 5-7
	c.value = c.value&^uint32(0b111<<5) | uint32(rm&0b111)<<5
}

// Fflags returns the accrued exception flags.
func (c FCSR) Fflags() uint8 {
	// bits 0-4
	return uint8(c.value) & 0b11111
}

// SetFflags writes the accrued exception flags.
func (c *FCSR) SetFflags(flags uint8) {
	// bits 0-4
	c.value = c.value&^uint32(0b11111) | uint32(flags&0b11111)
}

// RaiseFflags ORs the flags of a completed operation into the accrued
// flags. This is the sticky behaviour: a raised flag stays raised until
// software writes the field.
func (c *FCSR) RaiseFflags(flags uint8) {
	c.value |= uint32(flags & 0b11111)
}

// ClearFflags clears the given flags, leaving the others raised.
func (c *FCSR) ClearFflags(flags uint8) {
	c.value &^= uint32(flags & 0b11111)
}
