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
	"fmt"
	"sync"
	"time"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/television/signal"
	"github.com/jetsetilly/verihost/logger"
)

const logTag = "television"

// number of frames used to calculate the moving average of the frame rate
const fpsWindow = 32

// Television is the frame assembler.
type Television struct {
	spec Spec

	// back buffer is written by Signal(). front buffer is the most recently
	// completed frame
	back  []signal.Colour
	front []signal.Colour

	// cursor position in the back buffer
	col int
	row int

	// the previous vsync value for edge detection
	prevVSync bool

	// number of completed frames
	frameNum int

	// number of samples dropped because they were outside the frame
	dropped int

	// presentation is the front buffer with rotation and flip applied. the
	// critical section protects presentation and its attributes
	crit      sync.Mutex
	rotation  int
	flipV     bool
	presented Frame
	hasFrame  bool

	// timestamps of recent frames for the fps calculation
	now    func() time.Time
	stamps []time.Time
	fps    float32

	frameTriggers []FrameTrigger
}

// NewTelevision is the preferred method of initialisation for the Television
// type.
func NewTelevision(spec Spec) (*Television, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	sz := spec.Width * spec.Height
	tv := &Television{
		spec:     spec,
		back:     make([]signal.Colour, sz),
		front:    make([]signal.Colour, sz),
		rotation: spec.Rotation,
		flipV:    spec.FlipV,
		now:      time.Now,
		stamps:   make([]time.Time, 0, fpsWindow),
	}
	tv.presented.Pixels = make([]signal.Colour, sz)

	logger.Logf(logger.Allow, logTag, "%s (vsync %s edge)", spec, spec.VSyncEdge)

	return tv, nil
}

func (tv *Television) String() string {
	return fmt.Sprintf("frame=%d col=%d row=%d", tv.frameNum, tv.col, tv.row)
}

// GetSpec returns the Spec the television was created with.
func (tv *Television) GetSpec() Spec {
	return tv.spec
}

// SetTimeSource replaces the function used to timestamp frames. Used for
// testing the frame rate calculation.
func (tv *Television) SetTimeSource(now func() time.Time) {
	tv.now = now
}

// AddFrameTrigger registers an implementation of FrameTrigger.
func (tv *Television) AddFrameTrigger(f FrameTrigger) {
	tv.frameTriggers = append(tv.frameTriggers, f)
}

// SetRotation changes the rotation of presented frames. Takes effect on the
// next frame.
func (tv *Television) SetRotation(rotation int) error {
	if !validRotation(rotation) {
		return curated.Errorf(InvalidSpec, fmt.Sprintf("rotation (%d)", rotation))
	}
	tv.crit.Lock()
	defer tv.crit.Unlock()
	tv.rotation = rotation
	return nil
}

// SetFlipV changes the vertical flip of presented frames. Takes effect on the
// next frame.
func (tv *Television) SetFlipV(flip bool) {
	tv.crit.Lock()
	defer tv.crit.Unlock()
	tv.flipV = flip
}

// Signal is called on every cycle that the pixel clock is enabled.
func (tv *Television) Signal(sig signal.Attributes) error {
	var edge bool
	switch tv.spec.VSyncEdge {
	case RisingEdge:
		edge = sig.VSync && !tv.prevVSync
	case FallingEdge:
		edge = !sig.VSync && tv.prevVSync
	}
	tv.prevVSync = sig.VSync

	if edge {
		if err := tv.newFrame(); err != nil {
			return err
		}
	}

	if sig.HBlank || sig.VBlank {
		// leaving the active region of a line
		if tv.col > 0 {
			tv.col = 0
			tv.row++
		}
		return nil
	}

	if tv.col >= tv.spec.Width {
		tv.col = 0
		tv.row++
	}

	if tv.row >= tv.spec.Height {
		tv.dropped++
		return nil
	}

	tv.back[tv.row*tv.spec.Width+tv.col] = sig.Colour
	tv.col++

	return nil
}

func (tv *Television) newFrame() error {
	tv.back, tv.front = tv.front, tv.back
	tv.col = 0
	tv.row = 0
	tv.frameNum++

	if tv.dropped > 0 {
		logger.Logf(logger.Allow, logTag, "frame %d: %d samples outside frame", tv.frameNum, tv.dropped)
		tv.dropped = 0
	}

	tv.measureFPS()

	tv.crit.Lock()
	w, h := present(tv.presented.Pixels, tv.front, tv.spec.Width, tv.spec.Height, tv.rotation, tv.flipV)
	tv.presented.Width = w
	tv.presented.Height = h
	tv.presented.FrameNum = tv.frameNum
	tv.presented.FPS = tv.fps
	tv.hasFrame = true
	frame := tv.presented
	tv.crit.Unlock()

	for _, f := range tv.frameTriggers {
		if err := f.NewFrame(frame); err != nil {
			return curated.Errorf("television: %v", err)
		}
	}

	return nil
}

func (tv *Television) measureFPS() {
	if len(tv.stamps) == fpsWindow {
		copy(tv.stamps, tv.stamps[1:])
		tv.stamps = tv.stamps[:fpsWindow-1]
	}
	tv.stamps = append(tv.stamps, tv.now())

	if len(tv.stamps) < 2 {
		return
	}

	d := tv.stamps[len(tv.stamps)-1].Sub(tv.stamps[0])
	if d <= 0 {
		return
	}
	tv.fps = float32(float64(len(tv.stamps)-1) / d.Seconds())
}

// GetFrame returns the most recently completed frame. The boolean is false if
// no frame has been completed.
func (tv *Television) GetFrame() (Frame, bool) {
	tv.crit.Lock()
	defer tv.crit.Unlock()
	return tv.presented, tv.hasFrame
}

// FrameNum returns the number of completed frames.
func (tv *Television) FrameNum() int {
	return tv.frameNum
}

// GetActualFPS returns the moving average of the frame rate.
func (tv *Television) GetActualFPS() float32 {
	return tv.fps
}

// Cursor returns the current write position in the back buffer.
func (tv *Television) Cursor() (int, int) {
	return tv.col, tv.row
}
