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
// Package screenshot saves frames produced by the television as PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/television"
	"github.com/jetsetilly/verihost/logger"
	"golang.org/x/image/draw"
)

// FileExists is returned by Save() if the named file already exists.
const FileExists = "screenshot: file (%s) already exists"

// Scale returns the frame image scaled by the zoom factor. A zoom of less
// than one is treated as one.
func Scale(frame television.Frame, zoom int) image.Image {
	src := frame.Image()
	if zoom <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, frame.Width*zoom, frame.Height*zoom))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Save frame to the named file, scaled by the zoom factor. An existing file is
// never overwritten.
func Save(frame television.Frame, filename string, zoom int) (rerr error) {
	if _, err := os.Stat(filename); err == nil {
		return curated.Errorf(FileExists, filename)
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("screenshot: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("screenshot: %v", err)
		}
	}()

	if err := png.Encode(f, Scale(frame, zoom)); err != nil {
		return curated.Errorf("screenshot: %v", err)
	}

	logger.Logf(logger.Allow, "screenshot", "frame %d saved to %s", frame.FrameNum, filename)

	return nil
}

// Recorder implements the television.FrameTrigger interface and saves every
// nth frame to a file named after the frame number.
type Recorder struct {
	base  string
	zoom  int
	every int
	saved int
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type. The recorder is registered with the television. Files are named
// base_N.png where N is the frame number.
func NewRecorder(tv *television.Television, base string, zoom int, every int) (*Recorder, error) {
	if every <= 0 {
		return nil, curated.Errorf("screenshot: %v", "frame interval must be positive")
	}
	rec := &Recorder{
		base:  base,
		zoom:  zoom,
		every: every,
	}
	tv.AddFrameTrigger(rec)
	return rec, nil
}

// Saved returns the number of frames saved by the recorder.
func (rec *Recorder) Saved() int {
	return rec.saved
}

// NewFrame implements the television.FrameTrigger interface.
func (rec *Recorder) NewFrame(frame television.Frame) error {
	if frame.FrameNum%rec.every != 0 {
		return nil
	}
	if err := Save(frame, fmt.Sprintf("%s_%d.png", rec.base, frame.FrameNum), rec.zoom); err != nil {
		return err
	}
	rec.saved++
	return nil
}
