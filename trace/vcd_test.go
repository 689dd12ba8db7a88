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
package trace_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/trace"
	"github.com/jetsetilly/verihost/test"
)

type probed struct {
	ports map[model.Port]uint64
}

func (p *probed) Set(port model.Port, v uint64) { p.ports[port] = v }
func (p *probed) Get(port model.Port) uint64    { return p.ports[port] }
func (p *probed) Eval()                         {}
func (p *probed) GotFinish() bool               { return false }

func (p *probed) Ports() []model.PortInfo {
	return []model.PortInfo{
		{Name: "clk", Width: 1},
		{Name: "data", Width: 8},
	}
}

func TestNotProbable(t *testing.T) {
	var m model.Model = &nopModel{}
	_, err := trace.NewVCD(m)
	test.ExpectSuccess(t, curated.Is(err, trace.NotProbable))
}

type nopModel struct{}

func (nopModel) Set(model.Port, uint64) {}
func (nopModel) Get(model.Port) uint64  { return 0 }
func (nopModel) Eval()                  {}
func (nopModel) GotFinish() bool        { return false }

func TestVCD(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sim.vcd")

	m := &probed{ports: make(map[model.Port]uint64)}
	vcd, err := trace.NewVCD(m)
	test.DemandSuccess(t, err)

	// dumping before opening does nothing
	test.ExpectSuccess(t, vcd.Dump(0))
	test.ExpectSuccess(t, vcd.Flush())
	test.ExpectSuccess(t, vcd.Close())
	test.ExpectFailure(t, vcd.IsOpen())

	test.DemandSuccess(t, vcd.Open(fn))
	test.ExpectSuccess(t, vcd.IsOpen())
	test.ExpectEquality(t, vcd.Filename(), fn)

	test.ExpectSuccess(t, vcd.Dump(0))
	m.Set("clk", 1)
	test.ExpectSuccess(t, vcd.Dump(1))

	// no change so nothing is written for this timestamp
	test.ExpectSuccess(t, vcd.Dump(2))

	m.Set("clk", 0)
	m.Set("data", 0x1a5)
	test.ExpectSuccess(t, vcd.Dump(3))

	test.ExpectFailure(t, vcd.Dump(1))

	test.ExpectSuccess(t, vcd.Flush())
	test.ExpectSuccess(t, vcd.Flush())
	test.ExpectSuccess(t, vcd.Close())
	test.ExpectSuccess(t, vcd.Close())

	b, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	s := string(b)

	test.ExpectSuccess(t, strings.Contains(s, "$var wire 1 ! clk $end\n"))
	test.ExpectSuccess(t, strings.Contains(s, "$var wire 8 \" data $end\n"))
	test.ExpectSuccess(t, strings.Contains(s, "#0\n$dumpvars\n0!\nb0 \"\n$end\n"))
	test.ExpectSuccess(t, strings.Contains(s, "#1\n1!\n#3\n0!\nb10100101 \"\n"))
	test.ExpectFailure(t, strings.Contains(s, "#2\n"))
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	m := &probed{ports: make(map[model.Port]uint64)}
	vcd, err := trace.NewVCD(m)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, vcd.Open(filepath.Join(dir, "a.vcd")))
	test.ExpectSuccess(t, vcd.Dump(10))
	test.DemandSuccess(t, vcd.Open(filepath.Join(dir, "b.vcd")))

	// time can start again in the new file
	test.ExpectSuccess(t, vcd.Dump(0))
	test.ExpectSuccess(t, vcd.Close())

	a, err := os.ReadFile(filepath.Join(dir, "a.vcd"))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(a), "#10\n"))

	test.ExpectFailure(t, vcd.Open(filepath.Join(dir, "missing", "c.vcd")))
	test.ExpectFailure(t, vcd.IsOpen())
}
