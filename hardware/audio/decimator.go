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

import "github.com/jetsetilly/verihost/curated"

// Decimator forwards every Nth sample pair to another Mixer.
type Decimator struct {
	mixer  Mixer
	factor int
	count  int
}

// NewDecimator is the preferred method of initialisation for the Decimator
// type.
func NewDecimator(m Mixer, factor int) (*Decimator, error) {
	if factor < 1 {
		return nil, curated.Errorf("audio: invalid decimation factor (%d)", factor)
	}
	return &Decimator{
		mixer:  m,
		factor: factor,
	}, nil
}

// DecimationFactor returns the factor required to reduce the sample rate
// from one value to another. The result is never less than one.
func DecimationFactor(from int, to int) int {
	if to <= 0 || from <= to {
		return 1
	}
	return (from + to/2) / to
}

// SetAudio implements the Mixer interface.
func (dec *Decimator) SetAudio(left, right int16) error {
	dec.count++
	if dec.count < dec.factor {
		return nil
	}
	dec.count = 0
	return dec.mixer.SetAudio(left, right)
}

// EndMixing implements the Mixer interface.
func (dec *Decimator) EndMixing() error {
	return dec.mixer.EndMixing()
}
