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
// Package signal exposes the interface between the hardware model's video
// outputs and the television implementation.
package signal

import (
	"fmt"
	"strings"
)

// Colour is a pixel value packed as 0xAABBGGRR. The alpha channel is always
// opaque for colours created by RGB().
type Colour uint32

// RGB packs the three colour channels into a Colour value.
func RGB(r, g, b uint8) Colour {
	return Colour(0xff000000 | uint32(b)<<16 | uint32(g)<<8 | uint32(r))
}

// RGBA unpacks the Colour value.
func (c Colour) RGBA() (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

func (c Colour) String() string {
	return fmt.Sprintf("%08x", uint32(c))
}

// Expand a colour channel of depth bits to eight bits. The maximum value for
// the depth is expanded to 255.
func Expand(v uint64, depth int) uint8 {
	if depth <= 0 {
		return 0
	}
	if depth >= 8 {
		return uint8(v >> (depth - 8))
	}
	max := uint64(1)<<depth - 1
	return uint8((v & max) * 255 / max)
}

// Attributes represents the data sent to the television on a cycle where the
// pixel clock is enabled.
type Attributes struct {
	HBlank bool
	VBlank bool
	HSync  bool
	VSync  bool
	Colour Colour
}

func (a Attributes) String() string {
	s := strings.Builder{}
	if a.VSync {
		s.WriteString("VSYNC ")
	}
	if a.VBlank {
		s.WriteString("VBLANK ")
	}
	if a.HSync {
		s.WriteString("HSYNC ")
	}
	if a.HBlank {
		s.WriteString("HBLANK ")
	}
	s.WriteString(a.Colour.String())
	return s.String()
}
