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
// Package television assembles the per-cycle video signal of the hardware
// model into complete frames.
//
// The Signal() function is called on every cycle that the model's pixel clock
// enable is asserted. Unblanked samples are written to the back buffer at the
// current cursor position. The cursor moves to the start of the next row when
// blanking is entered, or when the row is full. Samples beyond the last row
// are dropped.
//
// A new frame is detected on the edge of the vertical sync signal. The
// polarity of the edge is part of the Spec because it depends on the model.
// When a new frame is detected the back buffer becomes the front buffer and
// the cursor returns to the top left. The back buffer is not cleared, so
// pixels that are not written in the next frame keep their previous value.
//
// Rotation and vertical flip are applied to the frame returned by GetFrame()
// and to the frame passed to FrameTrigger implementations. They do not affect
// assembly.
package television
