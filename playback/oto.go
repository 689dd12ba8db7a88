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
//go:build !headless

package playback

import (
	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/logger"
)

// the amount of audio that can be queued, in seconds
const queueLength = 0.25

// Player implements the audio.Mixer interface.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	queue  *queue
}

// New is the preferred method of initialisation for the Player type.
func New(sampleRate int) (*Player, error) {
	if sampleRate <= 0 {
		return nil, curated.Errorf("playback: %v", "sample rate must be positive")
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, curated.Errorf("playback: %v", err)
	}
	<-ready

	ply := &Player{
		ctx:   ctx,
		queue: newQueue(int(float64(sampleRate) * queueLength)),
	}
	ply.player = ctx.NewPlayer(ply.queue)
	ply.player.Play()

	logger.Logf(logger.Allow, "playback", "sound device opened at %dHz", sampleRate)

	return ply, nil
}

// SetAudio implements the audio.Mixer interface.
func (ply *Player) SetAudio(left, right int16) error {
	ply.queue.push(left, right)
	return nil
}

// EndMixing implements the audio.Mixer interface.
func (ply *Player) EndMixing() error {
	if ply.player == nil {
		return nil
	}

	err := ply.player.Close()
	ply.player = nil
	if err != nil {
		return curated.Errorf("playback: %v", err)
	}

	if ply.queue.dropped > 0 {
		logger.Logf(logger.Allow, "playback", "%d samples discarded", ply.queue.dropped)
	}

	return nil
}
