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


package television

// State is the position of the frame assembler. It does not include the
// contents of the frame buffers.
type State struct {
	col       int
	row       int
	prevVSync bool
}

// Snapshot returns the current State of the frame assembler.
func (tv *Television) Snapshot() State {
	return State{
		col:       tv.col,
		row:       tv.row,
		prevVSync: tv.prevVSync,
	}
}

// Plumb a State returned by Snapshot() into the frame assembler. Samples
// dropped since the last frame are forgotten.
func (tv *Television) Plumb(s State) {
	tv.col = s.col
	tv.row = s.row
	tv.prevVSync = s.prevVSync
	tv.dropped = 0
}
