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
// Package digest is used to create SHA-1 hashes of the simulation output.
// Each hash is chained with the previous hash, so the final value depends on
// every frame (or audio sample) produced since the digest was reset.
//
// Video implements the television.FrameTrigger interface and Audio
// implements the audio.Mixer interface. The digests are used for regression
// comparison of simulation runs.
package digest
