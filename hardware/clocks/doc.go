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
// Package clocks derives logical clock signals from the simulation's step
// counter. Each Domain has a divisor and is ticked once per simulation step.
// When the phase counter of the domain reaches the divisor the level of the
// clock toggles. A divisor of one therefore produces a transition on every
// tick and a full clock period every two ticks.
//
// The hardware.Sim type drives the level of every domain into the model port
// named by the domain. The first domain given to the Sim is the primary
// domain and host-side work only happens when the primary domain is rising.
package clocks
