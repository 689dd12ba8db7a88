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
// Package synthetic implements a small deterministic hardware model. It is
// used by the tests of the simulation driver and by the headless mode of the
// command line tool when no other model is available.
//
// The model acts on rising edges of its clock port. It has:
//
//   - a video timing generator with configurable active and blanking
//     regions, producing a test pattern on the colour ports
//   - a loader that accepts bytes from the ioctl bus and records them,
//     stalling the bus with a configurable wait pattern
//   - an audio generator producing a ramp on the left channel and its
//     inverse on the right channel
//
// The entire state of the model can be serialised and deserialised.
package synthetic
