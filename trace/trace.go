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
package trace

// Tracer is the interface used by the simulation to record the state of the
// model at each simulated time step.
type Tracer interface {
	// Open the trace for writing to the named file. If the trace is already
	// open it is closed first.
	Open(filename string) error

	// Dump the current state of the model with the timestamp.
	Dump(time uint64) error

	// Flush buffered data to the file. Does nothing if the trace is not open.
	Flush() error

	// Close the trace. Does nothing if the trace is not open.
	Close() error

	IsOpen() bool
}
