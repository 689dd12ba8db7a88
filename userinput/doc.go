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
// Package userinput holds the state of the controller inputs sent to the
// hardware model. The inputs are packed into a single bitmask that is sampled
// by the simulation once per batch.
//
// The bitmask can be changed from any goroutine. In the command line tool the
// console and script packages change the inputs while the simulation is
// running.
package userinput
