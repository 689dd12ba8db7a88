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
// Package model defines the contract between the simulation driver and the
// hardware model being simulated. The model is a black box that exposes named
// ports. The driver assigns input ports, evaluates the model and then reads
// output ports.
//
// Any type that satisfies the Model interface can be driven by the
// hardware.Sim type. Optional capabilities (finalisation, state
// serialisation and port probing for trace capture) are expressed as separate
// interfaces and are discovered with a type assertion.
package model
