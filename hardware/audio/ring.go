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
	"fmt"

	"github.com/jetsetilly/verihost/curated"
)

// InvalidCapacity is returned when a Ring or Sink is created with a capacity
// less than one.
const InvalidCapacity = "audio: invalid capacity (%d)"

// Ring is a fixed size circular buffer of stereo samples. When the buffer is
// full the oldest sample is overwritten.
type Ring struct {
	left  []int16
	right []int16

	// the index of the next write
	cursor int

	// total number of samples written
	written uint64
}

// NewRing is the preferred method of initialisation for the Ring type.
func NewRing(capacity int) (*Ring, error) {
	if capacity < 1 {
		return nil, curated.Errorf(InvalidCapacity, capacity)
	}
	return &Ring{
		left:  make([]int16, capacity),
		right: make([]int16, capacity),
	}, nil
}

func (r *Ring) String() string {
	return fmt.Sprintf("cursor=%d written=%d", r.cursor, r.written)
}

// Write a sample pair to the ring.
func (r *Ring) Write(left, right int16) {
	r.left[r.cursor] = left
	r.right[r.cursor] = right
	r.cursor++
	if r.cursor >= len(r.left) {
		r.cursor = 0
	}
	r.written++
}

// Capacity of the ring.
func (r *Ring) Capacity() int {
	return len(r.left)
}

// Cursor is the index of the next write. It is also the index of the oldest
// sample once the ring has been filled.
func (r *Ring) Cursor() int {
	return r.cursor
}

// Written returns the total number of samples written to the ring.
func (r *Ring) Written() uint64 {
	return r.written
}

// Channels returns the raw arrays of the ring. Used together with Cursor() for
// plotting. The arrays must not be modified.
func (r *Ring) Channels() ([]int16, []int16) {
	return r.left, r.right
}

// Ordered returns a copy of the samples in the ring from oldest to newest.
// Only samples that have been written are returned.
func (r *Ring) Ordered() ([]int16, []int16) {
	n := len(r.left)
	start := r.cursor
	if r.written < uint64(n) {
		n = int(r.written)
		start = 0
	}

	left := make([]int16, n)
	right := make([]int16, n)
	for i := 0; i < n; i++ {
		j := (start + i) % len(r.left)
		left[i] = r.left[j]
		right[i] = r.right[j]
	}
	return left, right
}

// Clear the ring.
func (r *Ring) Clear() {
	clear(r.left)
	clear(r.right)
	r.cursor = 0
	r.written = 0
}
