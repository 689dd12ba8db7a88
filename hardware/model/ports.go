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
package model

// List of port names used by the simulation driver. The names follow the
// conventions of the hardware model's top level wrapper.
const (
	Reset Port = "reset"

	// control bus for downloading data into the model
	Download Port = "ioctl_download"
	Upload   Port = "ioctl_upload"
	Index    Port = "ioctl_index"
	Write    Port = "ioctl_wr"
	Address  Port = "ioctl_addr"
	DataOut  Port = "ioctl_dout"
	DataIn   Port = "ioctl_din"
	Wait     Port = "ioctl_wait"

	// video output
	PixelEnable Port = "ce_pix"
	Red         Port = "VGA_R"
	Green       Port = "VGA_G"
	Blue        Port = "VGA_B"
	HSync       Port = "VGA_HS"
	VSync       Port = "VGA_VS"
	HBlank      Port = "VGA_HB"
	VBlank      Port = "VGA_VB"

	// audio output. samples are signed 16 bit values
	AudioLeft  Port = "AUDIO_L"
	AudioRight Port = "AUDIO_R"

	// controller input as a packed bitmask
	Inputs Port = "inputs"
)
