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


package rewind

import (
	"fmt"
	"sort"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/hardware/television"
	"github.com/jetsetilly/verihost/logger"
)

// Empty is returned when there are no snapshots to move to.
const Empty = "rewind: no snapshots"

const logTag = "rewind"

// State is a single entry in the rewind history.
type State struct {
	// the television frame number at the time of the snapshot. the
	// television keeps counting frames after a rewind so frame numbers in
	// the history are always increasing
	Frame int

	snapshot *hardware.Snapshot
}

func (s State) String() string {
	return fmt.Sprintf("frame=%d time=%d", s.Frame, s.snapshot.Time())
}

// Time returns the simulation time of the snapshot.
func (s State) Time() uint64 {
	return s.snapshot.Time()
}

// Rewind contains a history of simulation states.
type Rewind struct {
	sim   *hardware.Sim
	Prefs *Preferences

	entries []*State

	// index of the entry most recently taken or plumbed in
	curr int

	// a new frame has been triggered. resolved at the end of the step
	newFrame bool
	frameNum int
}

// NewRewind is the preferred method of initialisation for the Rewind type.
// The simulation model must support save states.
func NewRewind(sim *hardware.Sim) (*Rewind, error) {
	if _, ok := sim.Model.(model.SaveStater); !ok {
		return nil, curated.Errorf("rewind: %v", curated.Errorf(hardware.StateUnsupported))
	}

	r := &Rewind{sim: sim}
	r.Prefs = newPreferences(r)

	sim.TV.AddFrameTrigger(r)
	sim.AddStepHook(r)

	return r, nil
}

func (r *Rewind) String() string {
	if len(r.entries) == 0 {
		return "rewind: empty"
	}
	f := r.GetFrames()
	return fmt.Sprintf("rewind: %d entries (frames %d to %d, current %d)", len(r.entries), f.Start, f.End, f.Current)
}

// Reset forgets every snapshot and takes a snapshot of the current state.
func (r *Rewind) Reset() error {
	r.entries = r.entries[:0]
	r.curr = 0
	r.newFrame = false
	return r.append(r.sim.TV.FrameNum())
}

// NewFrame implements the television.FrameTrigger interface.
func (r *Rewind) NewFrame(frame television.Frame) error {
	r.newFrame = true
	r.frameNum = frame.FrameNum
	return nil
}

// AfterStep implements the hardware.StepHook interface.
func (r *Rewind) AfterStep() error {
	if !r.newFrame {
		return nil
	}
	r.newFrame = false

	if r.frameNum%r.Prefs.Freq.Value() != 0 {
		return nil
	}

	return r.append(r.frameNum)
}

// append a snapshot after the current entry. entries after the current entry
// are forgotten.
func (r *Rewind) append(frame int) error {
	s, err := r.sim.Snapshot()
	if err != nil {
		return curated.Errorf("rewind: %v", err)
	}

	if len(r.entries) > 0 {
		r.entries = r.entries[:r.curr+1]
	}
	r.entries = append(r.entries, &State{Frame: frame, snapshot: s})
	r.curr = len(r.entries) - 1
	r.trim(r.Prefs.MaxEntries.Value())

	return nil
}

// remove the earliest entries so that there are no more than n entries.
func (r *Rewind) trim(n int) {
	drop := len(r.entries) - n
	if drop <= 0 {
		return
	}

	clear(r.entries[:drop])
	r.entries = r.entries[drop:]
	r.curr -= drop
	if r.curr < 0 {
		r.curr = 0
	}
}

// Frames of the current state of the rewind system.
type Frames struct {
	Start   int
	End     int
	Current int
}

// GetFrames returns the frame numbers of the earliest, latest and current
// snapshots. All values are zero if there are no snapshots.
func (r *Rewind) GetFrames() Frames {
	if len(r.entries) == 0 {
		return Frames{}
	}
	return Frames{
		Start:   r.entries[0].Frame,
		End:     r.entries[len(r.entries)-1].Frame,
		Current: r.entries[r.curr].Frame,
	}
}

// Current returns the entry most recently taken or plumbed in. The boolean is
// false if there are no snapshots.
func (r *Rewind) Current() (State, bool) {
	if len(r.entries) == 0 {
		return State{}, false
	}
	return *r.entries[r.curr], true
}

// NumEntries returns the number of snapshots in the history.
func (r *Rewind) NumEntries() int {
	return len(r.entries)
}

func (r *Rewind) plumb(idx int) error {
	if len(r.entries) == 0 {
		return curated.Errorf(Empty)
	}

	s := r.entries[idx]
	if err := r.sim.Plumb(s.snapshot); err != nil {
		return curated.Errorf("rewind: %v", err)
	}
	r.curr = idx

	// a frame that completed during the step before the rewind is not
	// snapshotted
	r.newFrame = false

	logger.Logf(logger.Allow, logTag, "plumbed in %s", s)

	return nil
}

// GotoLast plumbs in the most recent snapshot.
func (r *Rewind) GotoLast() error {
	return r.plumb(len(r.entries) - 1)
}

// GotoFrame plumbs in the latest snapshot taken at or before the frame
// number. If the frame is earlier than any snapshot then the earliest
// snapshot is plumbed in. Returns the frame number of the snapshot.
func (r *Rewind) GotoFrame(frame int) (int, error) {
	if len(r.entries) == 0 {
		return 0, curated.Errorf(Empty)
	}

	idx := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].Frame > frame
	}) - 1
	if idx < 0 {
		idx = 0
	}

	return r.entries[idx].Frame, r.plumb(idx)
}

// Back plumbs in the snapshot n entries before the current entry. Returns the
// frame number of the snapshot.
func (r *Rewind) Back(n int) (int, error) {
	if len(r.entries) == 0 {
		return 0, curated.Errorf(Empty)
	}

	idx := max(r.curr-n, 0)

	return r.entries[idx].Frame, r.plumb(idx)
}
