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
// Package playback sends the audio output of the simulation to the host's
// sound device. The Player type implements the audio.Mixer interface and so
// can be added to the simulation's audio sink with AddMixer().
//
// Samples are queued by SetAudio() and consumed by the sound device on its own
// goroutine. When the simulation produces samples more slowly than the device
// consumes them, the device is given silence. When the simulation is faster,
// the oldest queued samples are discarded.
//
// The package uses the oto library and is not available when the headless
// build constraint is present. In that case New() returns an error.
package playback
