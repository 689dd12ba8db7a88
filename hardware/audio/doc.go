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
// Package audio captures the stereo sample pairs produced by the hardware
// model. The Sink is clocked once per primary clock rising edge and records
// every sample pair into a Ring for visualisation and forwards it to any
// registered Mixer implementations.
//
// No resampling or filtering is performed by the Sink. The model is expected
// to hold its sample outputs at its own audio rate. Mixers that need a lower
// sample rate can be wrapped by a Decimator.
package audio
