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
package audio

import (
	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/logger"
)

const logTag = "audio"

// Mixer implementations work with sound; most probably playing it. An example
// of a Mixer that does not play sound but otherwise works with it is the
// digest.Audio type.
type Mixer interface {
	SetAudio(left, right int16) error

	// some mixers may need to conclude and/or dispose of resources gently.
	// for simplicity, the Mixer should be considered unusable after
	// EndMixing() has been called
	EndMixing() error
}

// Sink is the audio capture point for the simulation.
type Sink struct {
	ring       *Ring
	sampleRate int
	mixers     []Mixer
}

// NewSink is the preferred method of initialisation for the Sink type. The
// sample rate is the rate at which Clock() is called in simulated time and is
// passed on to mixers that need it.
func NewSink(capacity int, sampleRate int) (*Sink, error) {
	r, err := NewRing(capacity)
	if err != nil {
		return nil, err
	}
	if sampleRate < 1 {
		return nil, curated.Errorf("audio: invalid sample rate (%d)", sampleRate)
	}
	return &Sink{
		ring:       r,
		sampleRate: sampleRate,
	}, nil
}

// SampleRate returns the value given to NewSink().
func (snk *Sink) SampleRate() int {
	return snk.sampleRate
}

// Ring returns the debug ring buffer.
func (snk *Sink) Ring() *Ring {
	return snk.ring
}

// AddMixer registers an implementation of Mixer.
func (snk *Sink) AddMixer(m Mixer) {
	snk.mixers = append(snk.mixers, m)
}

// Clock records a sample pair.
func (snk *Sink) Clock(left, right int16) error {
	snk.ring.Write(left, right)
	for _, m := range snk.mixers {
		if err := m.SetAudio(left, right); err != nil {
			return curated.Errorf("audio: %v", err)
		}
	}
	return nil
}

// End calls EndMixing() on every registered Mixer. The mixers are forgotten
// afterwards. The first error is returned but every mixer is ended.
func (snk *Sink) End() error {
	var rerr error
	for _, m := range snk.mixers {
		if err := m.EndMixing(); err != nil {
			logger.Logf(logger.Allow, logTag, "end mixing: %v", err)
			if rerr == nil {
				rerr = curated.Errorf("audio: %v", err)
			}
		}
	}
	snk.mixers = nil
	return rerr
}
