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
// Package trace records the ports of the hardware model over simulated time.
// The Tracer interface is the record interface used by the simulation. The
// VCD type is an implementation that writes a Value Change Dump file which
// can be viewed with any waveform viewer.
//
// Only ports that change value are written for each timestamp. Open, Flush and
// Close can be called repeatedly without harm.
package trace
