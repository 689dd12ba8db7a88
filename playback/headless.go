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
//go:build headless

package playback

import (
	"github.com/jetsetilly/verihost/curated"
)

// Player implements the audio.Mixer interface. It can not be created in a
// headless build.
type Player struct{}

// New always returns an error in a headless build.
func New(_ int) (*Player, error) {
	return nil, curated.Errorf("playback: %v", "not available in headless build")
}

// SetAudio implements the audio.Mixer interface.
func (ply *Player) SetAudio(left, right int16) error {
	return nil
}

// EndMixing implements the audio.Mixer interface.
func (ply *Player) EndMixing() error {
	return nil
}
