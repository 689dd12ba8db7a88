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
)

// the length of the buffer we're using isn't really important. that said, it
// needs to be at least sha1.Size bytes in length
const audioBufferLength = 4096 + sha1.Size

// the buffer is flushed when it is full. the previous digest value is stored
// at the start of the buffer and is included in the next digest value
const audioBufferStart = sha1.Size

// Audio is an implementation of the audio.Mixer interface.
type Audio struct {
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	return &Audio{
		buffer:   make([]uint8, audioBufferLength),
		bufferCt: audioBufferStart,
	}
}

// Hash implements the Digest interface. Samples that have not yet been
// flushed are not included in the value.
func (dig *Audio) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Audio) ResetDigest() {
	clear(dig.digest[:])
	dig.bufferCt = audioBufferStart
}

// SetAudio implements the audio.Mixer interface.
func (dig *Audio) SetAudio(left, right int16) error {
	for _, v := range [4]uint8{uint8(left), uint8(left >> 8), uint8(right), uint8(right >> 8)} {
		dig.buffer[dig.bufferCt] = v
		dig.bufferCt++
		if dig.bufferCt >= audioBufferLength {
			if err := dig.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (dig *Audio) flush() error {
	dig.digest = sha1.Sum(dig.buffer[:dig.bufferCt])
	n := copy(dig.buffer, dig.digest[:])
	if n != len(dig.digest) {
		return curated.Errorf("digest: audio: digest error while flushing audio stream")
	}
	dig.bufferCt = audioBufferStart
	return nil
}

// EndMixing implements the audio.Mixer interface. Any samples not yet included
// in the digest are flushed.
func (dig *Audio) EndMixing() error {
	if dig.bufferCt > audioBufferStart {
		return dig.flush()
	}
	return nil
}
