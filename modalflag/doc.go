// This file is part of Verihost.
//
// Verihost is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Verihost is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Verihost.  If not, see <https://www.gnu.org/licenses/>.
// Package modalflag wraps the flag package of the Go standard library and
// adds program modes. A mode is a special command line argument that selects
// a different mode of operation, with its own set of flags. For example:
//
//	verihost -log run -steps 1000 model.so
//	verihost headless -wav out.wav model.so
//
// Arguments are given to the Modes type with NewArgs(). Flags for the first
// layer are added and then Parse() is called. If sub-modes have been added
// with AddSubModes() then the first non-flag argument is checked against the
// list of sub-modes. If it does not match, the first sub-mode is chosen as the
// default and the argument is left in place.
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("run", "headless")
//	log := md.AddBool("log", false, "echo log to stderr")
//	if r, err := md.Parse(); r != modalflag.ParseContinue {
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		steps := md.AddInt("steps", 0, "steps to run")
//		...
//	}
//
// Sub-mode comparisons are case insensitive and Mode() always returns the
// upper-case form.
//
// Flags that set values in the prefs system can be added with AddPref(). The
// value is pushed onto the prefs command line stack, where it will override
// the value loaded from disk.
package modalflag
