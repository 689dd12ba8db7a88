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
package television

import (
	"image"

	"github.com/jetsetilly/verihost/hardware/television/signal"
)

// Frame is a completed frame. The Pixels slice is owned by the television and
// must not be modified or retained beyond the next frame.
type Frame struct {
	Pixels   []signal.Colour
	Width    int
	Height   int
	FrameNum int
	FPS      float32
}

// Image returns a copy of the frame as an image.RGBA.
func (f Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, c := range f.Pixels {
		r, g, b, a := c.RGBA()
		img.Pix[i*4] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = a
	}
	return img
}

// FrameTrigger implementations listen for NewFrame events.
type FrameTrigger interface {
	NewFrame(frame Frame) error
}

// present copies the src pixels into dst, applying rotation and vertical flip.
// returns the dimensions of the presented frame
func present(dst, src []signal.Colour, width, height int, rotation int, flipV bool) (int, int) {
	pw, ph := width, height
	if rotation != 0 {
		pw, ph = height, width
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var dx, dy int
			switch rotation {
			case 1:
				dx, dy = height-1-y, x
			case -1:
				dx, dy = y, width-1-x
			default:
				dx, dy = x, y
			}
			if flipV {
				dy = ph - 1 - dy
			}
			dst[dy*pw+dx] = src[y*width+x]
		}
	}

	return pw, ph
}
