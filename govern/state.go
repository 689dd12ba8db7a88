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
package govern

// State indicates the simulation's state.
type State int

// List of possible simulation states.
//
// Idle is the default state. Stepping is entered for the duration of a run of
// steps and left when the run completes. Finished is entered when the model
// signals that it has finished and is never left.
const (
	Idle State = iota
	Stepping
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Stepping:
		return "Stepping"
	case Finished:
		return "Finished"
	}
	return ""
}
