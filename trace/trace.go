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

// Package trace executes a listing of floating-point operations through the
// emulated machine and writes one line of results per operation.
//
// The listing format is line based. Empty lines and lines beginning with the
// '#' character are skipped. The frm directive sets the dynamic rounding
// mode for subsequent operations:
//
//	frm rtz
//
// Every other line is an operation: a mnemonic, a rounding mode for the
// arithmetic operations, and the packed operands in hexadecimal:
//
//	fadd.s rne 3f800000 40200000
//	fmadd.s dyn 40000000 40400000 40800000
//	fmin.s 3f800000 bf800000
//	fclass.s 7fc00000
//
// Each operation is issued to an empty pipeline and the machine stepped
// until it retires, so the listing also observes the fixed operation
// latencies. The fflags column shows only the flags raised by that
// operation.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jetsetilly/rvfp32/curated"
	"github.com/jetsetilly/rvfp32/hardware"
	"github.com/jetsetilly/rvfp32/hardware/csr"
	"github.com/jetsetilly/rvfp32/hardware/decode"
	"github.com/jetsetilly/rvfp32/hardware/fpu"
)

// Sentinal errors returned by the trace functions.
const (
	UnknownMnemonic = "trace: line %d: unknown mnemonic: %s"
	UnknownMode     = "trace: line %d: unknown rounding mode: %s"
	BadOperand      = "trace: line %d: bad operand: %s"
	BadLine         = "trace: line %d: wrong number of fields"
)

// registers used by the executed operations. the destination is distinct
// from the sources so a retired result never feeds back into the next line.
const (
	srcA = 1
	srcB = 2
	srcC = 3
	dst  = 10
)

// rounding mode mnemonics in rm encoding order.
var modes = map[string]uint8{
	"rne": csr.RmRNE,
	"rtz": csr.RmRTZ,
	"rdn": csr.RmRDN,
	"rup": csr.RmRUP,
	"rmm": csr.RmRMM,
	"dyn": csr.RmDyn,
}

// operation templates, filled in with operands during execution. the numArgs
// field is the number of hexadecimal operands the line carries.
type template struct {
	ins     decode.Instruction
	numArgs int
	hasMode bool
}

var mnemonics = map[string]template{
	"fadd.s":   {decode.Instruction{Class: decode.ClassArithmetic, Kind: fpu.Add}, 2, true},
	"fsub.s":   {decode.Instruction{Class: decode.ClassArithmetic, Kind: fpu.Sub}, 2, true},
	"fmul.s":   {decode.Instruction{Class: decode.ClassArithmetic, Kind: fpu.Mul}, 2, true},
	"fmadd.s":  {decode.Instruction{Class: decode.ClassArithmetic, Kind: fpu.MulAdd}, 3, true},
	"fmsub.s":  {decode.Instruction{Class: decode.ClassArithmetic, Kind: fpu.MulSub}, 3, true},
	"fnmadd.s": {decode.Instruction{Class: decode.ClassArithmetic, Kind: fpu.NegMulAdd}, 3, true},
	"fnmsub.s": {decode.Instruction{Class: decode.ClassArithmetic, Kind: fpu.NegMulSub}, 3, true},
	"fsgnj.s":  {decode.Instruction{Class: decode.ClassSignInject, Inject: fpu.SignReplace}, 2, false},
	"fsgnjn.s": {decode.Instruction{Class: decode.ClassSignInject, Inject: fpu.SignNegate}, 2, false},
	"fsgnjx.s": {decode.Instruction{Class: decode.ClassSignInject, Inject: fpu.SignXor}, 2, false},
	"fmin.s":   {decode.Instruction{Class: decode.ClassMinMax, Max: false}, 2, false},
	"fmax.s":   {decode.Instruction{Class: decode.ClassMinMax, Max: true}, 2, false},
	"feq.s":    {decode.Instruction{Class: decode.ClassCompare, Compare: fpu.CompareEqual, IntDest: true}, 2, false},
	"flt.s":    {decode.Instruction{Class: decode.ClassCompare, Compare: fpu.CompareLess, IntDest: true}, 2, false},
	"fle.s":    {decode.Instruction{Class: decode.ClassCompare, Compare: fpu.CompareLessEqual, IntDest: true}, 2, false},
	"fclass.s": {decode.Instruction{Class: decode.ClassClassify, IntDest: true}, 1, false},
}

// Line is the parsed form of a single listing line. An frm directive sets
// IsFrm and the Frm field; otherwise the Ins and Operands fields describe an
// operation. A skipped line (blank or comment) sets Skip.
type Line struct {
	Skip bool

	IsFrm bool
	Frm   uint8

	Ins      decode.Instruction
	Operands []uint32
}

// ParseLine parses a single listing line. The line number is used in error
// messages only.
func ParseLine(line string, lineNum int) (Line, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Line{Skip: true}, nil
	}

	fields := strings.Fields(strings.ToLower(line))

	if fields[0] == "frm" {
		if len(fields) != 2 {
			return Line{}, curated.Errorf(BadLine, lineNum)
		}
		rm, ok := modes[fields[1]]
		if !ok || rm == csr.RmDyn {
			return Line{}, curated.Errorf(UnknownMode, lineNum, fields[1])
		}
		return Line{IsFrm: true, Frm: rm}, nil
	}

	tmpl, ok := mnemonics[fields[0]]
	if !ok {
		return Line{}, curated.Errorf(UnknownMnemonic, lineNum, fields[0])
	}

	args := fields[1:]
	ins := tmpl.ins

	if tmpl.hasMode {
		if len(args) == 0 {
			return Line{}, curated.Errorf(BadLine, lineNum)
		}
		rm, ok := modes[args[0]]
		if !ok {
			return Line{}, curated.Errorf(UnknownMode, lineNum, args[0])
		}
		ins.Rm = rm
		args = args[1:]
	}

	if len(args) != tmpl.numArgs {
		return Line{}, curated.Errorf(BadLine, lineNum)
	}

	operands := make([]uint32, tmpl.numArgs)
	for i, a := range args {
		v, err := strconv.ParseUint(a, 16, 32)
		if err != nil {
			return Line{}, curated.Errorf(BadOperand, lineNum, a)
		}
		operands[i] = uint32(v)
	}

	return Line{Ins: ins, Operands: operands}, nil
}

// Execute a listing, writing one line of output per operation. Execution
// stops at the first malformed line.
func Execute(input io.Reader, output io.Writer) error {
	fp := hardware.NewRV32F()

	scanner := bufio.NewScanner(input)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		parsed, err := ParseLine(scanner.Text(), lineNum)
		if err != nil {
			return err
		}

		if parsed.Skip {
			continue
		}

		if parsed.IsFrm {
			fp.FCSR.SetFrm(parsed.Frm)
			continue
		}

		result, flags, err := execute(fp, parsed.Ins, parsed.Operands)
		if err != nil {
			return err
		}

		line := strings.Join(strings.Fields(strings.TrimSpace(scanner.Text())), " ")
		output.Write([]byte(fmt.Sprintf("%s = %08x [%s]\n", line, result, flags)))
	}

	return scanner.Err()
}

// execute a single operation through an otherwise idle machine. returns the
// retired value of the destination register and the flags the operation
// raised.
func execute(fp *hardware.RV32F, ins decode.Instruction, operands []uint32) (uint32, fpu.ExceptionFlags, error) {
	regs := []uint8{srcA, srcB, srcC}
	for i, v := range operands {
		fp.Fregs[regs[i]] = v
	}

	ins.Rd = dst
	ins.Rs1 = srcA
	ins.Rs2 = srcB
	ins.Rs3 = srcC

	before := fp.FCSR.Fflags()

	if err := fp.Issue(ins); err != nil {
		return 0, 0, err
	}
	fp.Drain()

	raised := fp.FCSR.Fflags() &^ before
	fp.FCSR.ClearFflags(raised)

	if ins.IntDest {
		return fp.Xregs[dst], fpu.ExceptionFlags(raised), nil
	}
	return fp.Fregs[dst], fpu.ExceptionFlags(raised), nil
}
