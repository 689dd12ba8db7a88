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
package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/television"
)

// the number of bytes per pixel in the digest buffer
const pixelDepth = 3

// Video is an implementation of the television.FrameTrigger interface.
type Video struct {
	digest   [sha1.Size]byte
	pixels   []byte
	frameNum int
}

// NewVideo is the preferred method of initialisation for the Video type. The
// digest is registered with the television.
func NewVideo(tv *television.Television) *Video {
	dig := &Video{}
	tv.AddFrameTrigger(dig)
	return dig
}

// Hash implements the Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	clear(dig.digest[:])
}

// FrameNum returns the frame number of the most recent frame included in the
// digest.
func (dig *Video) FrameNum() int {
	return dig.frameNum
}

// NewFrame implements the television.FrameTrigger interface.
func (dig *Video) NewFrame(frame television.Frame) error {
	// the previous digest value is stored at the head of the pixel data so that
	// the digests are chained
	l := len(dig.digest) + len(frame.Pixels)*pixelDepth
	if len(dig.pixels) != l {
		dig.pixels = make([]byte, l)
	}

	n := copy(dig.pixels, dig.digest[:])
	if n != len(dig.digest) {
		return curated.Errorf("digest: video: digest error during new frame")
	}

	i := n
	for _, c := range frame.Pixels {
		r, g, b, _ := c.RGBA()
		dig.pixels[i] = r
		dig.pixels[i+1] = g
		dig.pixels[i+2] = b
		i += pixelDepth
	}

	dig.digest = sha1.Sum(dig.pixels)
	dig.frameNum = frame.FrameNum

	return nil
}
