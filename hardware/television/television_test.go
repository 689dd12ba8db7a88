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
package television_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/television"
	"github.com/jetsetilly/verihost/hardware/television/signal"
	"github.com/jetsetilly/verihost/test"
)

// pixel value for position in frame
func colour(frame, x, y int) signal.Colour {
	return signal.Colour(uint32(frame)<<24 | uint32(y)<<12 | uint32(x))
}

// send one frame of W*H unblanked pixels with hblank between lines and a
// vsync pulse in the vertical blank at the end
func sendFrame(t *testing.T, tv *television.Television, frame int, vsyncHigh bool) {
	t.Helper()
	spec := tv.GetSpec()
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			test.DemandSuccess(t, tv.Signal(signal.Attributes{VSync: !vsyncHigh, Colour: colour(frame, x, y)}))
		}
		for i := 0; i < 3; i++ {
			test.DemandSuccess(t, tv.Signal(signal.Attributes{HBlank: true, VSync: !vsyncHigh}))
		}
	}
	for i := 0; i < 4; i++ {
		test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true, VSync: (i == 1) == vsyncHigh}))
	}
}

func TestInvalidSpec(t *testing.T) {
	for _, spec := range []television.Spec{
		{Width: 0, Height: 10},
		{Width: 10, Height: -1},
		{Width: 10, Height: 10, Rotation: 2},
		{Width: 10, Height: 10, VSyncEdge: television.Edge(5)},
	} {
		_, err := television.NewTelevision(spec)
		test.ExpectSuccess(t, curated.Is(err, television.InvalidSpec), spec)
	}
}

func TestFrameAssembly(t *testing.T) {
	for _, edge := range []television.Edge{television.RisingEdge, television.FallingEdge} {
		tv, err := television.NewTelevision(television.Spec{Width: 8, Height: 6, VSyncEdge: edge})
		test.DemandSuccess(t, err)

		high := edge == television.RisingEdge

		for frame := 1; frame <= 3; frame++ {
			sendFrame(t, tv, frame, high)
			test.ExpectEquality(t, tv.FrameNum(), frame, edge)

			f, ok := tv.GetFrame()
			test.DemandSuccess(t, ok)
			test.ExpectEquality(t, f.FrameNum, frame)
			test.ExpectEquality(t, f.Width, 8)
			test.ExpectEquality(t, f.Height, 6)

			// row major order
			for y := 0; y < 6; y++ {
				for x := 0; x < 8; x++ {
					test.ExpectEquality(t, f.Pixels[y*8+x], colour(frame, x, y), edge, x, y)
				}
			}
		}
	}
}

func TestNoVSync(t *testing.T) {
	tv, err := television.NewTelevision(television.Spec{Width: 4, Height: 4})
	test.DemandSuccess(t, err)

	for i := 0; i < 1000; i++ {
		test.DemandSuccess(t, tv.Signal(signal.Attributes{HBlank: i%5 == 4, Colour: signal.RGB(1, 1, 1)}))
	}

	_, ok := tv.GetFrame()
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, tv.FrameNum(), 0)
}

func TestColumnOverflow(t *testing.T) {
	tv, err := television.NewTelevision(television.Spec{Width: 4, Height: 2})
	test.DemandSuccess(t, err)

	// eight pixels with no blanking fill both rows
	for i := 0; i < 8; i++ {
		test.DemandSuccess(t, tv.Signal(signal.Attributes{Colour: signal.Colour(i)}))
	}

	// further pixels are dropped
	for i := 0; i < 8; i++ {
		test.DemandSuccess(t, tv.Signal(signal.Attributes{Colour: signal.Colour(0xff)}))
	}
	test.DemandSuccess(t, tv.Signal(signal.Attributes{VSync: true}))

	f, ok := tv.GetFrame()
	test.DemandSuccess(t, ok)
	for i := 0; i < 8; i++ {
		test.ExpectEquality(t, f.Pixels[i], signal.Colour(i))
	}
}

func TestBackBufferNotCleared(t *testing.T) {
	tv, err := television.NewTelevision(television.Spec{Width: 2, Height: 2})
	test.DemandSuccess(t, err)

	// two complete frames so that both buffers have been written
	for frame := 1; frame <= 2; frame++ {
		for i := 0; i < 4; i++ {
			test.DemandSuccess(t, tv.Signal(signal.Attributes{Colour: signal.Colour(frame*10 + i)}))
		}
		test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true, VSync: true}))
		test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true}))
	}

	// third frame only writes one pixel
	test.DemandSuccess(t, tv.Signal(signal.Attributes{Colour: signal.Colour(99)}))
	test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true, VSync: true}))

	f, ok := tv.GetFrame()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, f.FrameNum, 3)
	test.ExpectEquality(t, f.Pixels[0], signal.Colour(99))
	test.ExpectEquality(t, f.Pixels[1], signal.Colour(11))
	test.ExpectEquality(t, f.Pixels[3], signal.Colour(13))
}

func TestRotation(t *testing.T) {
	// 3x2 frame
	//   0 1 2
	//   3 4 5
	send := func(tv *television.Television) {
		for i := 0; i < 6; i++ {
			test.DemandSuccess(t, tv.Signal(signal.Attributes{Colour: signal.Colour(i)}))
		}
		test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true, VSync: true}))
		test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true}))
	}

	check := func(spec television.Spec, w, h int, expected []signal.Colour) {
		t.Helper()
		tv, err := television.NewTelevision(spec)
		test.DemandSuccess(t, err)
		send(tv)
		f, ok := tv.GetFrame()
		test.DemandSuccess(t, ok)
		test.ExpectEquality(t, f.Width, w)
		test.ExpectEquality(t, f.Height, h)
		test.ExpectEquality(t, fmt.Sprint(f.Pixels), fmt.Sprint(expected))
	}

	check(television.Spec{Width: 3, Height: 2}, 3, 2, []signal.Colour{0, 1, 2, 3, 4, 5})
	check(television.Spec{Width: 3, Height: 2, FlipV: true}, 3, 2, []signal.Colour{3, 4, 5, 0, 1, 2})

	// clockwise
	//   3 0
	//   4 1
	//   5 2
	check(television.Spec{Width: 3, Height: 2, Rotation: 1}, 2, 3, []signal.Colour{3, 0, 4, 1, 5, 2})

	// anti-clockwise
	//   2 5
	//   1 4
	//   0 3
	check(television.Spec{Width: 3, Height: 2, Rotation: -1}, 2, 3, []signal.Colour{2, 5, 1, 4, 0, 3})

	tv, err := television.NewTelevision(television.Spec{Width: 3, Height: 2})
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, tv.SetRotation(3))
	test.ExpectSuccess(t, tv.SetRotation(1))
	tv.SetFlipV(true)
	send(tv)
	f, _ := tv.GetFrame()
	test.ExpectEquality(t, fmt.Sprint(f.Pixels), fmt.Sprint([]signal.Colour{5, 2, 4, 1, 3, 0}))
}

type trigger struct {
	frames []int
}

func (tr *trigger) NewFrame(f television.Frame) error {
	tr.frames = append(tr.frames, f.FrameNum)
	return nil
}

type failingTrigger struct{}

func (failingTrigger) NewFrame(_ television.Frame) error {
	return fmt.Errorf("failed")
}

func TestFrameTrigger(t *testing.T) {
	tv, err := television.NewTelevision(television.Spec{Width: 4, Height: 3})
	test.DemandSuccess(t, err)

	tr := &trigger{}
	tv.AddFrameTrigger(tr)

	for frame := 1; frame <= 4; frame++ {
		sendFrame(t, tv, frame, true)
	}
	test.ExpectEquality(t, fmt.Sprint(tr.frames), "[1 2 3 4]")

	tv.AddFrameTrigger(failingTrigger{})
	for i := 0; i < 12; i++ {
		test.DemandSuccess(t, tv.Signal(signal.Attributes{}))
	}
	test.ExpectFailure(t, tv.Signal(signal.Attributes{VBlank: true, VSync: true}))
}

func TestFPS(t *testing.T) {
	tv, err := television.NewTelevision(television.Spec{Width: 4, Height: 3})
	test.DemandSuccess(t, err)

	now := time.Unix(0, 0)
	tv.SetTimeSource(func() time.Time {
		now = now.Add(time.Second / 50)
		return now
	})

	for frame := 1; frame <= 100; frame++ {
		sendFrame(t, tv, frame, true)
	}

	test.ExpectApproximate(t, tv.GetActualFPS(), 50.0, 0.01)
	f, _ := tv.GetFrame()
	test.ExpectApproximate(t, f.FPS, 50.0, 0.01)
}

func TestImage(t *testing.T) {
	tv, err := television.NewTelevision(television.Spec{Width: 2, Height: 1})
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, tv.Signal(signal.Attributes{Colour: signal.RGB(10, 20, 30)}))
	test.DemandSuccess(t, tv.Signal(signal.Attributes{Colour: signal.RGB(40, 50, 60)}))
	test.DemandSuccess(t, tv.Signal(signal.Attributes{VBlank: true, VSync: true}))

	f, ok := tv.GetFrame()
	test.DemandSuccess(t, ok)

	img := f.Image()
	test.ExpectEquality(t, img.Bounds().Dx(), 2)
	r, g, b, _ := img.At(1, 0).RGBA()
	test.ExpectEquality(t, r>>8, uint32(40))
	test.ExpectEquality(t, g>>8, uint32(50))
	test.ExpectEquality(t, b>>8, uint32(60))
}
