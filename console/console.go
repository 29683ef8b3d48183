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

// Package console is an interactive front-end to the emulated machine. The
// terminal is held in cbreak mode so single key presses step the machine
// one tick at a time; entering an operation switches back to canonical mode
// for line input.
//
// Key commands:
//
//	space   step the machine one tick
//	d       drain the pipeline (step until nothing is in flight)
//	i       enter an operation in the trace listing format
//	p       print the non-zero registers
//	f       print the fcsr
//	l       print the log
//	r       reset the machine
//	q       quit (also ctrl-c and ctrl-d)
package console

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/jetsetilly/rvfp32/console/easyterm"
	"github.com/jetsetilly/rvfp32/hardware"
	"github.com/jetsetilly/rvfp32/logger"
	"github.com/jetsetilly/rvfp32/trace"
)

// registers used when an operation is entered at the console. the same
// convention as the trace package.
const (
	srcA = 1
	srcB = 2
	srcC = 3
	dst  = 10
)

// Console is the interactive session. The machine is directly accessible
// between key presses.
type Console struct {
	term easyterm.Terminal
	fp   *hardware.RV32F

	// line input for the operation entry command. reads from the same file
	// as the cbreak key loop, in canonical mode
	lines *bufio.Reader
}

// NewConsole is the preferred method of initialisation for the Console type.
func NewConsole(input, output *os.File) (*Console, error) {
	con := &Console{
		fp:    hardware.NewRV32F(),
		lines: bufio.NewReader(input),
	}

	err := con.term.Initialise(input, output)
	if err != nil {
		return nil, err
	}

	return con, nil
}

// Run the interactive session. Returns when the user quits.
func (con *Console) Run() error {
	con.term.CBreakMode()
	defer con.term.CleanUp()

	con.term.Print("RVFP32 console. press i to enter an operation, q to quit\n")
	con.status()

	for {
		key, err := con.term.ReadKey()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch key {
		case 'q', easyterm.KeyCtrlC, easyterm.KeyCtrlD:
			con.term.Print("\n")
			return nil

		case easyterm.KeySpace, 't':
			con.fp.Step()
			con.status()

		case 'd':
			n := con.fp.Drain()
			con.term.Print("drained in %d ticks\n", n)
			con.status()

		case 'i':
			con.inputOperation()

		case 'p':
			con.printRegisters()

		case 'f':
			con.term.Print("%v\n", con.fp.FCSR)

		case 'l':
			con.printLog()

		case 'r':
			con.fp.Reset()
			con.term.Print("machine reset\n")
			con.status()
		}
	}
}

func (con *Console) status() {
	con.term.Print("tick %d: %d in flight\n", con.fp.Pipeline.TickCount(), con.fp.Pipeline.InFlight())
}

// inputOperation reads an operation in the trace listing format and issues
// it. The pipeline is not drained; the user steps the machine to see the
// result retire.
func (con *Console) inputOperation() {
	con.term.CanonicalMode()
	defer con.term.CBreakMode()

	con.term.Print("> ")

	line, err := con.lines.ReadString('\n')
	if err != nil {
		con.term.Print("error: %v\n", err)
		return
	}

	parsed, err := trace.ParseLine(line, 0)
	if err != nil {
		con.term.Print("error: %v\n", err)
		return
	}

	if parsed.Skip {
		return
	}

	if parsed.IsFrm {
		con.fp.FCSR.SetFrm(parsed.Frm)
		con.term.Print("%v\n", con.fp.FCSR)
		return
	}

	ins := parsed.Ins
	ins.Rd = dst
	ins.Rs1 = srcA
	ins.Rs2 = srcB
	ins.Rs3 = srcC

	regs := []uint8{srcA, srcB, srcC}
	for i, v := range parsed.Operands {
		con.fp.Fregs[regs[i]] = v
	}

	if err := con.fp.Issue(ins); err != nil {
		con.term.Print("error: %v\n", err)
		return
	}

	if ins.IntDest {
		con.term.Print("issued %v, result will retire to x%d\n", ins, dst)
	} else {
		con.term.Print("issued %v, result will retire to f%d\n", ins, dst)
	}
}

func (con *Console) printRegisters() {
	for i, v := range con.fp.Fregs {
		if v != 0 {
			con.term.Print("f%-2d %08x\n", i, v)
		}
	}
	for i, v := range con.fp.Xregs {
		if v != 0 {
			con.term.Print("x%-2d %08x\n", i, v)
		}
	}
	con.term.Print("%v\n", con.fp.FCSR)
}

func (con *Console) printLog() {
	s := &strings.Builder{}
	logger.Tail(s, 10)
	if s.Len() == 0 {
		con.term.Print("log is empty\n")
		return
	}
	con.term.Print("%s", s.String())
}
