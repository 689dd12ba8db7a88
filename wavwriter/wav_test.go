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
package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/jetsetilly/verihost/hardware/audio"
	"github.com/jetsetilly/verihost/test"
	"github.com/jetsetilly/verihost/wavwriter"
)

var _ audio.Mixer = (*wavwriter.WavWriter)(nil)

func TestWavWriter(t *testing.T) {
	_, err := wavwriter.New("", 48000)
	test.ExpectFailure(t, err)

	fn := filepath.Join(t.TempDir(), "test.wav")
	_, err = wavwriter.New(fn, 0)
	test.ExpectFailure(t, err)

	aw, err := wavwriter.New(fn, 22050)
	test.DemandSuccess(t, err)

	const n = 1000
	for i := 0; i < n; i++ {
		test.DemandSuccess(t, aw.SetAudio(int16(i), int16(-i)))
	}
	test.ExpectEquality(t, aw.NumSamples(), n)
	test.DemandSuccess(t, aw.EndMixing())

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	test.DemandSuccess(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, int(dec.NumChans), 2)
	test.ExpectEquality(t, int(dec.BitDepth), 16)
	test.ExpectEquality(t, int(dec.SampleRate), 22050)
	test.DemandEquality(t, len(buf.Data), n*2)

	test.ExpectEquality(t, buf.Data[0], 0)
	test.ExpectEquality(t, buf.Data[1], 0)
	test.ExpectEquality(t, buf.Data[200], 100)
	test.ExpectEquality(t, buf.Data[201], -100)
	test.ExpectEquality(t, buf.Data[n*2-1], -(n - 1))
}
