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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jetsetilly/rvfp32/console"
	"github.com/jetsetilly/rvfp32/logger"
	"github.com/jetsetilly/rvfp32/modalflag"
	"github.com/jetsetilly/rvfp32/performance"
	"github.com/jetsetilly/rvfp32/statsview"
	"github.com/jetsetilly/rvfp32/trace"
	"github.com/jetsetilly/rvfp32/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "CONSOLE", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "CONSOLE":
		err = interact(md)

	case "PERFORMANCE":
		err = perform(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// run executes a trace listing, from a file or from stdin when no file is
// given.
func run(md *modalflag.Modes) error {
	md.NewMode()

	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return trace.Execute(os.Stdin, os.Stdout)
	case 1:
		f, err := os.Open(md.GetArg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		return trace.Execute(f, os.Stdout)
	default:
		return fmt.Errorf("at most one trace listing can be specified for %s mode", md)
	}
}

// interact runs the interactive console.
func interact(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	con, err := console.NewConsole(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	return con.Run()
}

// perform runs the performance soak, optionally with profiling and the
// statsview server.
func perform(md *modalflag.Modes) error {
	md.NewMode()

	duration := md.AddString("duration", "5s", "run duration (with an additional 2s overhead)")
	profile := md.AddString("profile", "none", "type of profile to create: cpu,mem,trace,all,none")
	seed := md.AddInt64("seed", 0, "seed for the instruction stream (0 uses the clock)")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	if *stats {
		if !statsview.Available() {
			return fmt.Errorf("statsview is not available in this build")
		}
		statsview.Launch(os.Stdout)
	}

	s := *seed
	if s == 0 {
		s = int64(time.Now().Nanosecond())
	}

	return performance.Check(os.Stdout, prf, *duration, s)
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("v", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	vers, rev, _ := version.Version()
	fmt.Printf("%s (%s)\n", version.ApplicationName, vers)
	if *revision {
		fmt.Println(rev)
	}

	return nil
}
