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
package digest_test

import (
	"testing"

	"github.com/jetsetilly/verihost/digest"
	"github.com/jetsetilly/verihost/hardware/audio"
	"github.com/jetsetilly/verihost/hardware/television"
	"github.com/jetsetilly/verihost/hardware/television/signal"
	"github.com/jetsetilly/verihost/test"
)

// interface checks
var _ digest.Digest = (*digest.Video)(nil)
var _ digest.Digest = (*digest.Audio)(nil)
var _ television.FrameTrigger = (*digest.Video)(nil)
var _ audio.Mixer = (*digest.Audio)(nil)

const emptyHash = "0000000000000000000000000000000000000000"

func frames(t *testing.T, seed uint8, n int) string {
	t.Helper()
	tv, err := television.NewTelevision(television.Spec{Width: 4, Height: 2})
	test.DemandSuccess(t, err)
	dig := digest.NewVideo(tv)
	test.ExpectEquality(t, dig.Hash(), emptyHash)

	for f := 0; f < n; f++ {
		for i := 0; i < 8; i++ {
			test.DemandSuccess(t, tv.Signal(signal.Attributes{Colour: signal.RGB(seed, uint8(i), uint8(f))}))
		}
		test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true, VSync: true}))
		test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true}))
	}
	test.ExpectEquality(t, dig.FrameNum(), n)
	return dig.Hash()
}

func TestVideo(t *testing.T) {
	a := frames(t, 1, 5)
	test.ExpectInequality(t, a, emptyHash)
	test.ExpectEquality(t, frames(t, 1, 5), a)
	test.ExpectInequality(t, frames(t, 2, 5), a)

	// chained digests depend on the number of frames
	test.ExpectInequality(t, frames(t, 1, 4), a)
}

func samples(n int, scale int16) string {
	dig := digest.NewAudio()
	for i := 0; i < n; i++ {
		_ = dig.SetAudio(int16(i)*scale, -int16(i)*scale)
	}
	_ = dig.EndMixing()
	return dig.Hash()
}

func TestAudio(t *testing.T) {
	a := samples(5000, 3)
	test.ExpectInequality(t, a, emptyHash)
	test.ExpectEquality(t, samples(5000, 3), a)
	test.ExpectInequality(t, samples(5000, 2), a)
	test.ExpectInequality(t, samples(4999, 3), a)

	dig := digest.NewAudio()
	test.ExpectSuccess(t, dig.EndMixing())
	test.ExpectEquality(t, dig.Hash(), emptyHash)
	test.ExpectSuccess(t, dig.SetAudio(1, 1))
	test.ExpectSuccess(t, dig.EndMixing())
	test.ExpectInequality(t, dig.Hash(), emptyHash)
	dig.ResetDigest()
	test.ExpectEquality(t, dig.Hash(), emptyHash)
}
