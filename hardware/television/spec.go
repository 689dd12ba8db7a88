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

	"github.com/jetsetilly/verihost/curated"
)

// InvalidSpec is returned by NewTelevision() when the Spec is not usable.
const InvalidSpec = "television: invalid spec: %v"

// Edge is the polarity of the vertical sync edge that delimits frames.
type Edge int

// List of valid Edge values.
const (
	RisingEdge Edge = iota
	FallingEdge
)

func (e Edge) String() string {
	switch e {
	case RisingEdge:
		return "rising"
	case FallingEdge:
		return "falling"
	}
	return "unknown"
}

// Spec describes the frames produced by the model.
type Spec struct {
	ID     string
	Width  int
	Height int

	// rotation of the presented frame. -1 is ninety degrees anti-clockwise
	// and 1 is ninety degrees clockwise
	Rotation int
	FlipV    bool

	VSyncEdge Edge
}

func (spec Spec) String() string {
	return fmt.Sprintf("%s %dx%d", spec.ID, spec.Width, spec.Height)
}

func validRotation(r int) bool {
	return r >= -1 && r <= 1
}

func (spec Spec) validate() error {
	if spec.Width <= 0 || spec.Height <= 0 {
		return curated.Errorf(InvalidSpec, fmt.Sprintf("dimensions (%dx%d)", spec.Width, spec.Height))
	}
	if !validRotation(spec.Rotation) {
		return curated.Errorf(InvalidSpec, fmt.Sprintf("rotation (%d)", spec.Rotation))
	}
	if spec.VSyncEdge != RisingEdge && spec.VSyncEdge != FallingEdge {
		return curated.Errorf(InvalidSpec, "vsync edge")
	}
	return nil
}
