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


// Package rewind keeps a history of simulation snapshots so that the
// simulation can be returned to an earlier frame.
//
// A snapshot is taken at the end of the first step following a new frame,
// every Freq frames. The history holds at most MaxEntries snapshots, after
// which the earliest snapshot is forgotten. Moving to an earlier snapshot
// forgets every later snapshot as soon as a new snapshot is taken.
//
// Snapshots are only taken while the simulation model supports save states.
// The download engine is not part of a snapshot.
package rewind
