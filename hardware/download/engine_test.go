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
package download_test

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/verihost/cartridgeloader"
	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/download"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/test"
)

type received struct {
	index uint8
	addr  uint64
	value uint8
}

// bus is a minimal model that records bytes written on the ioctl bus and
// asserts wait according to a callback
type bus struct {
	ports    map[model.Port]uint64
	wait     func(edge int) bool
	edge     int
	received []received

	// index values seen while download was active
	indexChanges int
	lastIndex    uint64
}

func newBus(wait func(edge int) bool) *bus {
	return &bus{
		ports: make(map[model.Port]uint64),
		wait:  wait,
	}
}

func (b *bus) Set(p model.Port, v uint64) {
	b.ports[p] = v
}

func (b *bus) Get(p model.Port) uint64 {
	return b.ports[p]
}

func (b *bus) Eval() {
	if b.ports[model.Download] == 1 {
		if b.ports[model.Index] != b.lastIndex {
			b.indexChanges++
			b.lastIndex = b.ports[model.Index]
		}
		if b.ports[model.Write] == 1 && b.ports[model.Wait] == 0 {
			b.received = append(b.received, received{
				index: uint8(b.ports[model.Index]),
				addr:  b.ports[model.Address],
				value: uint8(b.ports[model.DataOut]),
			})
		}
	}

	w := false
	if b.wait != nil && b.ports[model.Download] == 1 {
		w = b.wait(b.edge)
	}
	b.ports[model.Wait] = model.Bool(w)
	b.edge++
}

func (b *bus) GotFinish() bool {
	return false
}

// step the engine and the model for one primary clock edge
func step(eng *download.Engine, b *bus) {
	eng.BeforeEval(b)
	b.Eval()
	eng.AfterEval(b)
}

func payload(n int, seed byte) []byte {
	d := make([]byte, n)
	for i := range d {
		d[i] = byte(i) + seed
	}
	return d
}

func TestSingleJob(t *testing.T) {
	eng := download.NewEngine()
	b := newBus(nil)

	eng.Enqueue(download.NewJobFromData("rom", payload(16, 0x40), 5, false))
	test.ExpectEquality(t, eng.Pending(), 1)
	test.ExpectFailure(t, eng.Busy())

	for i := 0; i < 15; i++ {
		step(eng, b)
		test.ExpectEquality(t, b.Get(model.Download), uint64(1))
		test.ExpectSuccess(t, eng.Busy())
	}
	step(eng, b)

	// download is deasserted after the last byte
	test.ExpectFailure(t, eng.Busy())
	test.ExpectEquality(t, b.Get(model.Download), uint64(0))
	test.ExpectEquality(t, b.Get(model.Write), uint64(0))
	test.ExpectEquality(t, eng.Transferred(), 16)

	test.DemandEquality(t, len(b.received), 16)
	for i, r := range b.received {
		test.ExpectEquality(t, r.index, uint8(5))
		test.ExpectEquality(t, r.addr, uint64(i))
		test.ExpectEquality(t, r.value, byte(i)+0x40)
	}

	// nothing happens once idle
	step(eng, b)
	test.ExpectEquality(t, len(b.received), 16)
}

func TestActive(t *testing.T) {
	eng := download.NewEngine()
	b := newBus(nil)

	_, _, ok := eng.Active()
	test.ExpectFailure(t, ok)

	eng.Enqueue(download.NewJobFromData("rom", payload(4, 0), 2, false))
	step(eng, b)
	step(eng, b)

	job, cursor, ok := eng.Active()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, job.Index, uint8(2))
	test.ExpectEquality(t, cursor, 2)
	test.ExpectEquality(t, eng.Pending(), 0)
}

func TestWaitPatterns(t *testing.T) {
	patterns := map[string]func(int) bool{
		"never":     func(int) bool { return false },
		"alternate": func(e int) bool { return e%2 == 0 },
		"mostly":    func(e int) bool { return e%7 != 0 },
		"burst":     func(e int) bool { return e < 100 },
	}

	rnd := rand.New(rand.NewSource(1))
	patterns["random"] = func(int) bool { return rnd.Intn(3) == 0 }

	for name, wait := range patterns {
		eng := download.NewEngine()
		b := newBus(wait)

		data := payload(64, 0x80)
		eng.Enqueue(download.NewJobFromData("rom", data, 1, false))

		var steps int
		for steps = 0; steps < 10000 && (eng.Busy() || eng.Pending() > 0); steps++ {
			step(eng, b)
		}

		test.ExpectFailure(t, eng.Busy(), name)
		test.ExpectEquality(t, eng.Transferred(), len(data), name)
		test.DemandEquality(t, len(b.received), len(data), name)
		for i, r := range b.received {
			test.ExpectEquality(t, r.value, data[i], name)
			test.ExpectEquality(t, r.addr, uint64(i), name)
		}
	}
}

func TestIndefiniteStall(t *testing.T) {
	stalled := true
	eng := download.NewEngine()
	b := newBus(func(int) bool { return stalled })

	eng.Enqueue(download.NewJobFromData("rom", payload(8, 0), 1, false))

	// the first byte is presented before the model asserts wait
	step(eng, b)
	for i := 0; i < 5000; i++ {
		step(eng, b)
		test.ExpectSuccess(t, eng.Busy())
		test.ExpectEquality(t, b.Get(model.Download), uint64(1))
	}
	test.ExpectEquality(t, eng.Transferred(), 1)

	stalled = false
	for i := 0; i < 8; i++ {
		step(eng, b)
	}
	test.ExpectFailure(t, eng.Busy())
	test.ExpectEquality(t, eng.Transferred(), 8)
}

func TestNoInterleaving(t *testing.T) {
	eng := download.NewEngine()
	b := newBus(func(e int) bool { return e%3 == 1 })

	eng.Enqueue(download.NewJobFromData("a", payload(100, 0), 5, false))
	eng.Enqueue(download.NewJobFromData("b", payload(50, 0), 1, false))
	eng.Enqueue(download.NewJobFromData("c", payload(25, 0), 5, false))

	for i := 0; i < 10000 && (eng.Busy() || eng.Pending() > 0); i++ {
		step(eng, b)
	}

	test.DemandEquality(t, len(b.received), 175)

	// bytes arrive in enqueue order with the index changing only between jobs
	expected := []struct {
		index uint8
		n     int
	}{{5, 100}, {1, 50}, {5, 25}}

	i := 0
	for _, e := range expected {
		for addr := 0; addr < e.n; addr++ {
			r := b.received[i]
			test.ExpectEquality(t, r.index, e.index)
			test.ExpectEquality(t, r.addr, uint64(addr))
			i++
		}
	}
	test.ExpectEquality(t, b.indexChanges, 3)
}

func TestExclusive(t *testing.T) {
	eng := download.NewEngine()
	b := newBus(nil)

	eng.Enqueue(download.NewJobFromData("a", payload(4, 0x00), 1, false))
	step(eng, b)
	test.ExpectSuccess(t, eng.Busy())

	eng.Enqueue(download.NewJobFromData("b", payload(4, 0x10), 1, false))
	eng.Enqueue(download.NewJobFromData("c", payload(4, 0x20), 2, false))
	eng.Enqueue(download.NewJobFromData("d", payload(4, 0x30), 1, true))

	// job b is replaced by job d. job a is active and is not affected
	test.ExpectEquality(t, eng.Pending(), 2)

	for i := 0; i < 100; i++ {
		step(eng, b)
	}

	test.DemandEquality(t, len(b.received), 12)
	test.ExpectEquality(t, b.received[3].value, uint8(0x03))
	test.ExpectEquality(t, b.received[4].value, uint8(0x20))
	test.ExpectEquality(t, b.received[8].value, uint8(0x30))
}

func TestSkipMissingSource(t *testing.T) {
	eng := download.NewEngine()
	b := newBus(nil)

	eng.Enqueue(download.NewJob(filepath.Join(t.TempDir(), "missing.rom"), 5, false))
	eng.Enqueue(download.NewJobFromData("empty", nil, 3, false))
	eng.Enqueue(download.NewJobFromData("rom", payload(4, 0x50), 1, false))

	// the missing and empty jobs are skipped in the same step
	step(eng, b)
	test.ExpectSuccess(t, eng.Busy())
	test.ExpectEquality(t, eng.Pending(), 0)
	test.ExpectSuccess(t, curated.Is(eng.LastError(), download.SourceError))

	for i := 0; i < 10; i++ {
		step(eng, b)
	}
	test.DemandEquality(t, len(b.received), 4)
	test.ExpectEquality(t, b.received[0].index, uint8(1))
}

func TestSkipUnresponsiveSource(t *testing.T) {
	hold := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-hold:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(hold)

	timeout := cartridgeloader.HTTPTimeout
	cartridgeloader.HTTPTimeout = 50 * time.Millisecond
	defer func() { cartridgeloader.HTTPTimeout = timeout }()

	eng := download.NewEngine()
	b := newBus(nil)

	eng.Enqueue(download.NewJob(srv.URL+"/rom.bin", 1, false))
	eng.Enqueue(download.NewJobFromData("rom", payload(4, 0x60), 2, false))

	// the unresponsive job is skipped and the next job starts in the same step
	step(eng, b)
	test.ExpectSuccess(t, eng.Busy())
	test.ExpectSuccess(t, curated.Is(eng.LastError(), download.SourceError))

	for i := 0; i < 10; i++ {
		step(eng, b)
	}
	test.DemandEquality(t, len(b.received), 4)
	test.ExpectEquality(t, b.received[0].index, uint8(2))
}

func TestOnlyMissingSource(t *testing.T) {
	eng := download.NewEngine()
	b := newBus(nil)

	eng.Enqueue(download.NewJob(filepath.Join(t.TempDir(), "missing.rom"), 5, false))
	step(eng, b)
	test.ExpectFailure(t, eng.Busy())
	test.ExpectEquality(t, eng.Pending(), 0)
	test.ExpectEquality(t, b.Get(model.Download), uint64(0))
}
