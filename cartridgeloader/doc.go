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
// Package cartridgeloader is used to specify the data that is to be
// downloaded into the hardware model. The data can come from a local file, a
// file served over HTTP, or from memory.
//
// Files with a .wav or .mp3 extension are treated as tape images. The audio
// is decoded and the left channel is converted to unsigned 8 bit PCM, which is
// the data that is downloaded. The Hash field in this case is of the original
// file and not of the decoded data.
package cartridgeloader
