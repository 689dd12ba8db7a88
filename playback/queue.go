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
package playback

import (
	"encoding/binary"
	"sync"
)

// bytes per stereo frame of signed 16bit samples
const frameSize = 4

// queue is a bounded FIFO of stereo samples stored in the byte format
// expected by the sound device. it is safe for one producer and one consumer
// on different goroutines.
type queue struct {
	crit    sync.Mutex
	data    []byte
	head    int
	count   int
	dropped int
}

func newQueue(frames int) *queue {
	return &queue{
		data: make([]byte, frames*frameSize),
	}
}

func (q *queue) push(left, right int16) {
	q.crit.Lock()
	defer q.crit.Unlock()

	if q.count == len(q.data) {
		// discard oldest frame
		q.head = (q.head + frameSize) % len(q.data)
		q.count -= frameSize
		q.dropped++
	}

	idx := (q.head + q.count) % len(q.data)
	binary.LittleEndian.PutUint16(q.data[idx:], uint16(left))
	binary.LittleEndian.PutUint16(q.data[idx+2:], uint16(right))
	q.count += frameSize
}

// Read implements the io.Reader interface. it never blocks and the whole of p
// is always filled, with silence if necessary.
func (q *queue) Read(p []byte) (int, error) {
	q.crit.Lock()
	defer q.crit.Unlock()

	n := 0
	for n < len(p) && q.count > 0 {
		c := copy(p[n:], q.data[q.head:min(q.head+q.count, len(q.data))])
		n += c
		q.head = (q.head + c) % len(q.data)
		q.count -= c
	}
	clear(p[n:])

	return len(p), nil
}

func (q *queue) len() int {
	q.crit.Lock()
	defer q.crit.Unlock()
	return q.count / frameSize
}
