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

package csr_test

import (
	"testing"

	"github.com/jetsetilly/rvfp32/hardware/csr"
	"github.com/jetsetilly/rvfp32/test"
)

func TestFields(t *testing.T) {
	var c csr.FCSR

	test.Equate(t, c.Value(), 0)
	test.Equate(t, c.Frm(), csr.RmRNE)
	test.Equate(t, c.Fflags(), 0)

	c.SetFrm(csr.RmRUP)
	test.Equate(t, c.Frm(), csr.RmRUP)
	test.Equate(t, c.Fflags(), 0)
	test.Equate(t, c.Value(), uint32(csr.RmRUP)<<5)

	c.SetFflags(0b10001)
	test.Equate(t, c.Fflags(), 0b10001)
	test.Equate(t, c.Frm(), csr.RmRUP)

	// a write through the combined view replaces both fields
	c.SetValue(uint32(csr.RmRTZ)<<5 | 0b00100)
	test.Equate(t, c.Frm(), csr.RmRTZ)
	test.Equate(t, c.Fflags(), 0b00100)

	// bits above frm are hardwired to zero
	c.SetValue(0xffffffff)
	test.Equate(t, c.Value(), 0xff)
}

func TestStickyFlags(t *testing.T) {
	var c csr.FCSR

	c.RaiseFflags(0b00001)
	c.RaiseFflags(0b10000)
	test.Equate(t, c.Fflags(), 0b10001)

	// raising is an OR. flags already set stay set
	c.RaiseFflags(0b00001)
	test.Equate(t, c.Fflags(), 0b10001)

	c.ClearFflags(0b00001)
	test.Equate(t, c.Fflags(), 0b10000)

	c.ClearFflags(0b11111)
	test.Equate(t, c.Fflags(), 0)

	// flag bits never leak into frm
	c.SetFrm(csr.RmRMM)
	c.RaiseFflags(0xff)
	test.Equate(t, c.Fflags(), 0b11111)
	test.Equate(t, c.Frm(), csr.RmRMM)
}
