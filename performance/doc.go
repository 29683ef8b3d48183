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

// Package performance contains helper functions relating to performance.
//
// Check() drives the emulated floating-point unit with a pseudo-random
// instruction stream for a fixed duration of time and reports the achieved
// operation and tick rates. It will optionally generate profiling
// information.
//
// RunProfiler() can be used to generate the various profile types on its
// own. It does not limit the amount of time the program runs for so it is
// useful for more real-world situations.
package performance
