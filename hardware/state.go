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
package hardware

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/clocks"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/hardware/television"
	"github.com/jetsetilly/verihost/logger"
)

// StateError is returned by RestoreState() when the state file cannot be
// used.
const StateError = "sim: state file: %v"

// Sentinel errors wrapped by StateError when the file content is malformed.
const (
	NotStateFile            = "not a state file"
	UnsupportedStateVersion = "unsupported version (%d)"
	TruncatedState          = "model state truncated (%d of %d bytes)"
)

// the state file begins with the magic bytes followed by the version number
const (
	stateMagic   = "VHST"
	stateVersion = uint16(1)
)

// state is the content of a state file.
type state struct {
	time   uint64
	clocks []clocks.State
	model  []byte
}

func (st state) write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(stateMagic); err != nil {
		return err
	}

	hdr := []any{
		stateVersion,
		st.time,
		uint16(len(st.clocks)),
	}
	for _, v := range hdr {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	for _, c := range st.clocks {
		if err := binary.Write(bw, binary.LittleEndian, int64(c.Phase)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, c.Level); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint64(len(st.model))); err != nil {
		return err
	}
	if _, err := bw.Write(st.model); err != nil {
		return err
	}

	return bw.Flush()
}

func readState(r io.Reader) (state, error) {
	var st state

	br := bufio.NewReader(r)

	magic := make([]byte, len(stateMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return st, err
	}
	if string(magic) != stateMagic {
		return st, curated.Errorf(NotStateFile)
	}

	var version uint16
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return st, err
	}
	if version != stateVersion {
		return st, curated.Errorf(UnsupportedStateVersion, version)
	}

	if err := binary.Read(br, binary.LittleEndian, &st.time); err != nil {
		return st, err
	}

	var n uint16
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return st, err
	}

	st.clocks = make([]clocks.State, n)
	for i := range st.clocks {
		var phase int64
		if err := binary.Read(br, binary.LittleEndian, &phase); err != nil {
			return st, err
		}
		st.clocks[i].Phase = int(phase)
		if err := binary.Read(br, binary.LittleEndian, &st.clocks[i].Level); err != nil {
			return st, err
		}
	}

	var sz uint64
	if err := binary.Read(br, binary.LittleEndian, &sz); err != nil {
		return st, err
	}

	// the length is not trusted. the model state is read through a limited
	// reader so that the allocation never exceeds what the file contains
	lr := io.LimitReader(br, int64(min(sz, math.MaxInt64)))
	data, err := io.ReadAll(lr)
	if err != nil {
		return st, err
	}
	if uint64(len(data)) != sz {
		return st, curated.Errorf(TruncatedState, len(data), sz)
	}
	st.model = data

	return st, nil
}

// capture the simulation time, the clock domains and the model.
func (sim *Sim) capture() (state, error) {
	var st state

	if sim.Model == nil {
		return st, curated.Errorf(ModelReleased)
	}

	ss, ok := sim.Model.(model.SaveStater)
	if !ok {
		return st, curated.Errorf(StateUnsupported)
	}

	data, err := ss.Serialize()
	if err != nil {
		return st, curated.Errorf("sim: %v", err)
	}

	st.time = sim.time
	st.model = data
	for _, c := range sim.Clocks {
		st.clocks = append(st.clocks, c.Snapshot())
	}

	return st, nil
}

// restore a state returned by capture() or read from a state file.
func (sim *Sim) restore(st state) error {
	if sim.Model == nil {
		return curated.Errorf(ModelReleased)
	}

	ss, ok := sim.Model.(model.SaveStater)
	if !ok {
		return curated.Errorf(StateUnsupported)
	}

	if len(st.clocks) != len(sim.Clocks) {
		return curated.Errorf(StateError, fmt.Sprintf("number of clock domains (%d) does not match (%d)", len(st.clocks), len(sim.Clocks)))
	}

	if err := ss.Deserialize(st.model); err != nil {
		return curated.Errorf(StateError, err)
	}

	for i, c := range sim.Clocks {
		c.Plumb(st.clocks[i])
	}
	sim.time = st.time

	// the trace is restarted because simulation time has changed
	if sim.Tracer != nil {
		if err := sim.Tracer.Close(); err != nil {
			return curated.Errorf("sim: %v", err)
		}
	}

	return nil
}

// SaveState writes the simulation time, the state of every clock domain and
// the state of the model to the named file. Download jobs are not saved.
func (sim *Sim) SaveState(filename string) (rerr error) {
	st, err := sim.capture()
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("sim: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("sim: %v", err)
		}
	}()

	if err := st.write(f); err != nil {
		return curated.Errorf("sim: %v", err)
	}

	logger.Logf(logger.Allow, logTag, "saved state to %s (time %d)", filename, sim.time)

	return nil
}

// RestoreState reads a file written by SaveState(). The simulation time, the
// clock domains and the model are overwritten. Queued downloads are not
// affected.
func (sim *Sim) RestoreState(filename string) error {
	if sim.Model == nil {
		return curated.Errorf(ModelReleased)
	}
	if _, ok := sim.Model.(model.SaveStater); !ok {
		return curated.Errorf(StateUnsupported)
	}

	f, err := os.Open(filename)
	if err != nil {
		return curated.Errorf("sim: %v", err)
	}
	defer f.Close()

	st, err := readState(f)
	if err != nil {
		return curated.Errorf(StateError, err)
	}

	if err := sim.restore(st); err != nil {
		return err
	}

	logger.Logf(logger.Allow, logTag, "restored state from %s (time %d)", filename, sim.time)

	return nil
}

// Snapshot is an in-memory copy of the simulation state. Unlike a state file
// it also records the position of the frame assembler.
type Snapshot struct {
	st state
	tv television.State
}

// Time returns the simulation time at which the snapshot was taken.
func (s *Snapshot) Time() uint64 {
	return s.st.time
}

// Snapshot the simulation.
func (sim *Sim) Snapshot() (*Snapshot, error) {
	st, err := sim.capture()
	if err != nil {
		return nil, err
	}
	return &Snapshot{st: st, tv: sim.TV.Snapshot()}, nil
}

// Plumb a Snapshot into the simulation.
func (sim *Sim) Plumb(s *Snapshot) error {
	if err := sim.restore(s.st); err != nil {
		return err
	}
	sim.TV.Plumb(s.tv)
	return nil
}
