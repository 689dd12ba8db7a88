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
// Package prefs holds preference values that can be changed by one part of
// the program (a console command, a script or the command line) and read by
// another (the simulation loop) between batches.
//
// Values are stored atomically so they can be read from the simulation
// goroutine while a presentation goroutine is setting them. Each type has an
// optional pre and post hook that is called when the value is Set().
//
// The Disk type associates preference values with keys and can save and load
// them to a file. Each line of the file is of the form:
//
//	key :: value
//
// Values can also be specified on the command line as a single string, with
// key/value pairs separated by a semi-colon:
//
//	"sim.batchsize::1000; sim.trace::true"
//
// See PushCommandLineStack(). Command line values take priority over values
// loaded from disk.
package prefs
