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
package hardware_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/govern"
	"github.com/jetsetilly/verihost/hardware"
	"github.com/jetsetilly/verihost/hardware/clocks"
	"github.com/jetsetilly/verihost/hardware/download"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/hardware/model/synthetic"
	"github.com/jetsetilly/verihost/hardware/television"
	"github.com/jetsetilly/verihost/hardware/television/signal"
	"github.com/jetsetilly/verihost/test"
	"github.com/jetsetilly/verihost/trace"
	"github.com/jetsetilly/verihost/userinput"
)

// bench is a model that records how it is driven
type bench struct {
	in  map[model.Port]uint64
	out map[model.Port]uint64

	evals   int
	rising  int
	prevClk bool

	// value of the reset port at every rising edge
	resetAtEdge []bool

	onRising func(b *bench)
	finished bool
}

func newBench() *bench {
	return &bench{
		in:  make(map[model.Port]uint64),
		out: make(map[model.Port]uint64),
	}
}

func (b *bench) Set(p model.Port, v uint64) { b.in[p] = v }
func (b *bench) Get(p model.Port) uint64    { return b.out[p] }
func (b *bench) GotFinish() bool            { return b.finished }

func (b *bench) Eval() {
	b.evals++
	clk := b.in["clk"] != 0
	if clk && !b.prevClk {
		b.rising++
		b.resetAtEdge = append(b.resetAtEdge, b.in[model.Reset] != 0)
		if b.onRising != nil {
			b.onRising(b)
		}
	}
	b.prevClk = clk
	b.out[model.AudioLeft] = uint64(b.evals)
}

func domain(t *testing.T, port model.Port, div int) *clocks.Domain {
	t.Helper()
	d, err := clocks.NewDomain(string(port), port, div)
	test.DemandSuccess(t, err)
	return d
}

func newBenchSim(t *testing.T, b *bench, spec television.Spec, clks ...*clocks.Domain) *hardware.Sim {
	t.Helper()
	if len(clks) == 0 {
		clks = append(clks, domain(t, "clk", 1))
	}
	sim, err := hardware.NewSim(b, nil, spec, 64, clks...)
	test.DemandSuccess(t, err)
	return sim
}

func newSyntheticSim(t *testing.T, cfg synthetic.Config) (*hardware.Sim, *synthetic.Synthetic) {
	t.Helper()
	syn, err := synthetic.NewSynthetic(cfg)
	test.DemandSuccess(t, err)
	spec := television.Spec{Width: cfg.Width, Height: cfg.Height}
	sim, err := hardware.NewSim(syn, nil, spec, 1024, domain(t, cfg.Clock, 1))
	test.DemandSuccess(t, err)
	return sim, syn
}

func TestNewSimErrors(t *testing.T) {
	spec := television.Spec{Width: 4, Height: 4}

	_, err := hardware.NewSim(nil, nil, spec, 16, domain(t, "clk", 1))
	test.ExpectSuccess(t, curated.Is(err, hardware.InvalidSim))

	_, err = hardware.NewSim(newBench(), nil, spec, 16)
	test.ExpectSuccess(t, curated.Is(err, hardware.InvalidSim))

	_, err = hardware.NewSim(newBench(), nil, television.Spec{}, 16, domain(t, "clk", 1))
	test.ExpectSuccess(t, curated.Is(err, television.InvalidSpec))

	_, err = hardware.NewSim(newBench(), nil, spec, 0, domain(t, "clk", 1))
	test.ExpectFailure(t, err)
}

func TestHostWorkOnPrimaryRisingEdge(t *testing.T) {
	b := newBench()
	slow := domain(t, "clk_slow", 4)
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4}, domain(t, "clk", 1), slow)

	for i := 0; i < 40; i++ {
		test.DemandSuccess(t, sim.Step())

		// every domain is driven on every step
		test.ExpectEquality(t, b.in["clk_slow"], model.Bool(slow.Level()))
	}

	// the model is evaluated on every step but time only advances on the
	// primary rising edge
	test.ExpectEquality(t, b.evals, 40)
	test.ExpectEquality(t, b.rising, 20)
	test.ExpectEquality(t, sim.Time(), uint64(20))

	// audio is captured after evaluation on the rising edge
	l, _ := sim.Audio.Ring().Ordered()
	test.DemandEquality(t, len(l), 20)
	for i, v := range l {
		test.ExpectEquality(t, v, int16(i*2+1))
	}
}

func TestSlowPrimaryClock(t *testing.T) {
	b := newBench()
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4}, domain(t, "clk", 3))

	test.DemandSuccess(t, sim.RunSteps(60, nil))
	test.ExpectEquality(t, b.evals, 60)
	test.ExpectEquality(t, sim.Time(), uint64(10))
	test.ExpectEquality(t, b.rising, 10)
}

func TestInitialReset(t *testing.T) {
	b := newBench()
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4})
	test.DemandSuccess(t, sim.Config.InitialReset.Set(3))

	test.DemandSuccess(t, sim.RunSteps(10, nil))
	test.DemandEquality(t, len(b.resetAtEdge), 5)
	for i, r := range b.resetAtEdge {
		test.ExpectEquality(t, r, i < 3, i)
	}

	// reset applies again after a Reset()
	test.DemandSuccess(t, sim.Reset())
	test.ExpectEquality(t, sim.Time(), uint64(0))
	test.DemandSuccess(t, sim.RunSteps(2, nil))
	test.ExpectSuccess(t, b.resetAtEdge[5])
}

func TestColourExpansion(t *testing.T) {
	b := newBench()
	b.onRising = func(b *bench) {
		b.out[model.PixelEnable] = 1
		b.out[model.Red] = 3
		b.out[model.Green] = 1
		b.out[model.Blue] = 2
		b.out[model.VSync] = model.Bool(b.rising == 2)
	}
	sim := newBenchSim(t, b, television.Spec{Width: 1, Height: 1})

	test.DemandSuccess(t, sim.RunSteps(4, nil))

	f, ok := sim.TV.GetFrame()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, f.Pixels[0], signal.RGB(0xff, 0x55, 0xaa))
	test.ExpectEquality(t, uint32(f.Pixels[0]), uint32(0xffaa55ff))
}

func TestPixelEnableGate(t *testing.T) {
	b := newBench()
	b.onRising = func(b *bench) {
		// pixel clock on every other edge
		b.out[model.PixelEnable] = model.Bool(b.rising%2 == 0)
	}
	sim := newBenchSim(t, b, television.Spec{Width: 100, Height: 1})

	test.DemandSuccess(t, sim.RunSteps(20, nil))
	col, _ := sim.TV.Cursor()
	test.ExpectEquality(t, col, 5)
}

// one vsync pulse in ten cycles produces one frame
func TestSingleVSyncPulse(t *testing.T) {
	b := newBench()
	b.onRising = func(b *bench) {
		b.out[model.PixelEnable] = 1
		b.out[model.VSync] = model.Bool(b.rising == 5)
	}
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4})

	for sim.Time() < 10 {
		test.DemandSuccess(t, sim.Step())
	}

	test.ExpectEquality(t, b.rising, 10)
	test.ExpectEquality(t, sim.TV.FrameNum(), 1)
	f, ok := sim.TV.GetFrame()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, f.FrameNum, 1)
}

func TestNoVSyncNoFrame(t *testing.T) {
	b := newBench()
	b.onRising = func(b *bench) {
		b.out[model.PixelEnable] = 1
	}
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4})
	test.DemandSuccess(t, sim.RunSteps(1000, nil))
	_, ok := sim.TV.GetFrame()
	test.ExpectFailure(t, ok)
}

func payload(n int, seed byte) []byte {
	d := make([]byte, n)
	for i := range d {
		d[i] = byte(i*7) + seed
	}
	return d
}

func TestDownloadEndToEnd(t *testing.T) {
	cfg := synthetic.DefaultConfig
	cfg.WaitPattern = []bool{false, false, true, false, true, true}
	sim, syn := newSyntheticSim(t, cfg)

	a := payload(4096, 0x11)
	b := payload(256, 0x99)
	sim.Enqueue(download.NewJobFromData("a", a, 5, false))
	sim.Enqueue(download.NewJobFromData("b", b, 1, false))

	for i := 0; i < 100000 && (sim.Download.Busy() || sim.Download.Pending() > 0); i++ {
		test.DemandSuccess(t, sim.Step())
	}

	test.ExpectFailure(t, sim.Download.Busy())
	test.ExpectEquality(t, sim.Download.Transferred(), 4096+256)

	r := syn.Received()
	test.DemandEquality(t, len(r), 4096+256)
	for i := 0; i < 4096; i++ {
		test.ExpectEquality(t, r[i].Index, uint8(5))
		test.ExpectEquality(t, r[i].Addr, uint32(i))
		test.ExpectEquality(t, r[i].Value, a[i])
	}
	for i := 0; i < 256; i++ {
		test.ExpectEquality(t, r[4096+i].Index, uint8(1))
		test.ExpectEquality(t, r[4096+i].Addr, uint32(i))
		test.ExpectEquality(t, r[4096+i].Value, b[i])
	}
}

func TestSyntheticFrames(t *testing.T) {
	cfg := synthetic.DefaultConfig
	sim, _ := newSyntheticSim(t, cfg)

	frameLen := (cfg.Width + cfg.HBlank) * (cfg.Height + cfg.VBlank)
	test.DemandSuccess(t, sim.RunSteps(frameLen*2*3, nil))
	test.ExpectEquality(t, sim.TV.FrameNum(), 3)

	f, ok := sim.TV.GetFrame()
	test.DemandSuccess(t, ok)

	// green channel is the row number
	for y := 0; y < cfg.Height; y++ {
		_, g, _, _ := f.Pixels[y*cfg.Width].RGBA()
		test.ExpectEquality(t, g, signal.Expand(uint64(y)&cfg.ColourMax, 2), y)
	}
}

func TestInputSampledPerBatch(t *testing.T) {
	b := newBench()
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4})

	sim.Input.Set(userinput.Fire1, true)
	sim.Input.Set(userinput.Left, true)

	// no steps requested so input is not sampled
	ran, err := sim.Batch()
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ran)
	test.ExpectEquality(t, b.in[model.Inputs], uint64(0))

	sim.Config.RequestStep()
	ran, err = sim.Batch()
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, ran)
	test.ExpectEquality(t, b.in[model.Inputs], uint64(0x12))
}

func TestBatch(t *testing.T) {
	b := newBench()
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4})
	test.DemandSuccess(t, sim.Config.MultiStepAmount.Set(8))
	test.DemandSuccess(t, sim.Config.BatchSize.Set(100))

	sim.Config.RequestStep()
	_, err := sim.Batch()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b.evals, 1)

	sim.Config.RequestMultiStep()
	_, err = sim.Batch()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b.evals, 9)

	// both requests in the same batch
	sim.Config.RequestStep()
	sim.Config.RequestMultiStep()
	_, err = sim.Batch()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b.evals, 18)

	test.DemandSuccess(t, sim.Config.RunEnable.Set(true))
	for i := 0; i < 3; i++ {
		_, err = sim.Batch()
		test.DemandSuccess(t, err)
	}
	test.ExpectEquality(t, b.evals, 318)
	test.ExpectEquality(t, sim.State(), govern.Idle)
}

func TestRunStepsContinueCheck(t *testing.T) {
	b := newBench()
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4})

	var states []govern.State
	n := 0
	err := sim.RunSteps(100, func() (govern.State, error) {
		states = append(states, sim.State())
		n++
		if n == 10 {
			return govern.Idle, nil
		}
		return govern.Stepping, nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b.evals, 10)
	test.ExpectEquality(t, states[0], govern.Stepping)
	test.ExpectEquality(t, sim.State(), govern.Idle)
}

type endMixer struct {
	ended bool
}

func (m *endMixer) SetAudio(_, _ int16) error { return nil }
func (m *endMixer) EndMixing() error {
	m.ended = true
	return nil
}

func TestFinish(t *testing.T) {
	cfg := synthetic.DefaultConfig
	cfg.FinishAfter = 10
	sim, syn := newSyntheticSim(t, cfg)

	mix := &endMixer{}
	sim.Audio.AddMixer(mix)

	vcd, err := trace.NewVCD(syn)
	test.DemandSuccess(t, err)
	sim.Tracer = vcd
	test.DemandSuccess(t, sim.Config.TraceFile.Set(filepath.Join(t.TempDir(), "sim.vcd")))
	test.DemandSuccess(t, sim.Config.Trace.Set(true))

	test.DemandSuccess(t, sim.RunSteps(100, nil))

	test.ExpectEquality(t, sim.State(), govern.Finished)
	test.ExpectEquality(t, sim.Time(), uint64(10))
	test.ExpectSuccess(t, syn.Finalised())
	test.ExpectSuccess(t, sim.Model == nil)
	test.ExpectSuccess(t, mix.ended)
	test.ExpectFailure(t, vcd.IsOpen())

	// finished is absorbing
	test.ExpectSuccess(t, sim.Step())
	test.ExpectSuccess(t, sim.RunSteps(10, nil))
	sim.Config.RequestStep()
	ran, err := sim.Batch()
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ran)
	test.ExpectEquality(t, sim.Time(), uint64(10))
	test.ExpectEquality(t, sim.State(), govern.Finished)

	test.ExpectSuccess(t, curated.Is(sim.Reset(), hardware.ModelReleased))
	test.ExpectSuccess(t, curated.Is(sim.SaveState(filepath.Join(t.TempDir(), "state")), hardware.ModelReleased))
	test.ExpectSuccess(t, sim.End())
}

func TestTrace(t *testing.T) {
	sim, syn := newSyntheticSim(t, synthetic.DefaultConfig)

	vcd, err := trace.NewVCD(syn)
	test.DemandSuccess(t, err)
	sim.Tracer = vcd

	fn := filepath.Join(t.TempDir(), "sim.vcd")
	test.DemandSuccess(t, sim.Config.TraceFile.Set(fn))

	// trace is not opened until it is enabled
	test.DemandSuccess(t, sim.RunSteps(10, nil))
	test.ExpectFailure(t, vcd.IsOpen())

	test.DemandSuccess(t, sim.Config.Trace.Set(true))
	test.DemandSuccess(t, sim.RunSteps(10, nil))
	test.ExpectSuccess(t, vcd.IsOpen())
	test.DemandSuccess(t, sim.FlushTrace())

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(data), "#5\n$dumpvars\n"))

	// stopping the trace leaves the file open
	test.DemandSuccess(t, sim.Config.Trace.Set(false))
	test.DemandSuccess(t, sim.RunSteps(10, nil))
	test.ExpectSuccess(t, vcd.IsOpen())

	// a trace file that cannot be created stops the trace
	test.DemandSuccess(t, sim.Config.TraceFile.Set(filepath.Join(t.TempDir(), "missing", "sim.vcd")))
	test.DemandSuccess(t, sim.Config.Trace.Set(true))
	test.DemandSuccess(t, sim.RunSteps(2, nil))
	test.ExpectFailure(t, sim.Config.Trace.Value())

	test.DemandSuccess(t, sim.End())
	test.ExpectFailure(t, vcd.IsOpen())
}

func TestSaveRestore(t *testing.T) {
	cfg := synthetic.DefaultConfig
	cfg.PixelDivider = 2

	a, synA := newSyntheticSim(t, cfg)
	a.Enqueue(download.NewJobFromData("rom", payload(100, 0), 2, false))
	test.DemandSuccess(t, a.RunSteps(1001, nil))
	test.DemandSuccess(t, a.Download.Busy() == false)

	fn := filepath.Join(t.TempDir(), "state")
	test.DemandSuccess(t, a.SaveState(fn))

	b, synB := newSyntheticSim(t, cfg)
	test.DemandSuccess(t, b.RestoreState(fn))
	test.ExpectEquality(t, b.Time(), a.Time())
	test.ExpectEquality(t, len(synB.Received()), 100)

	for i := 0; i < 10000; i++ {
		test.DemandSuccess(t, a.Step())
		test.DemandSuccess(t, b.Step())
		test.DemandEquality(t, b.Time(), a.Time())
		for _, p := range synA.Ports() {
			test.DemandEquality(t, synB.Get(p.Name), synA.Get(p.Name), p.Name, i)
		}
	}

	// the second frame completed after the restore is identical
	test.ExpectEquality(t, b.TV.FrameNum(), a.TV.FrameNum())
	fa, ok := a.TV.GetFrame()
	test.DemandSuccess(t, ok)
	fb, ok := b.TV.GetFrame()
	test.DemandSuccess(t, ok)
	for i := range fa.Pixels {
		test.ExpectEquality(t, fb.Pixels[i], fa.Pixels[i])
	}
}

func TestStateErrors(t *testing.T) {
	dir := t.TempDir()

	b := newBench()
	sim := newBenchSim(t, b, television.Spec{Width: 4, Height: 4})
	test.ExpectSuccess(t, curated.Is(sim.SaveState(filepath.Join(dir, "state")), hardware.StateUnsupported))
	test.ExpectSuccess(t, curated.Is(sim.RestoreState(filepath.Join(dir, "state")), hardware.StateUnsupported))

	ss, _ := newSyntheticSim(t, synthetic.DefaultConfig)
	test.ExpectFailure(t, ss.RestoreState(filepath.Join(dir, "missing")))

	fn := filepath.Join(dir, "bad")
	test.DemandSuccess(t, os.WriteFile(fn, []byte("not a state file"), 0o644))
	err := ss.RestoreState(fn)
	test.ExpectSuccess(t, curated.Is(err, hardware.StateError))
	test.ExpectSuccess(t, curated.Has(err, hardware.NotStateFile))

	// header fields are written in the same order as SaveState()
	header := func(version uint16, modelLen uint64) []byte {
		var b bytes.Buffer
		b.WriteString("VHST")
		for _, v := range []any{version, uint64(0), uint16(1), int64(0), false, modelLen} {
			test.DemandSuccess(t, binary.Write(&b, binary.LittleEndian, v))
		}
		return b.Bytes()
	}

	test.DemandSuccess(t, os.WriteFile(fn, header(99, 0), 0o644))
	err = ss.RestoreState(fn)
	test.ExpectSuccess(t, curated.Is(err, hardware.StateError))
	test.ExpectSuccess(t, curated.Has(err, hardware.UnsupportedStateVersion))

	// a model length far larger than the file is an error and not a panic
	test.DemandSuccess(t, os.WriteFile(fn, header(1, 1<<62), 0o644))
	err = ss.RestoreState(fn)
	test.ExpectSuccess(t, curated.Is(err, hardware.StateError))
	test.ExpectSuccess(t, curated.Has(err, hardware.TruncatedState))

	test.DemandSuccess(t, os.WriteFile(fn, append(header(1, 8), 1, 2, 3), 0o644))
	err = ss.RestoreState(fn)
	test.ExpectSuccess(t, curated.Has(err, hardware.TruncatedState))

	// number of clock domains must match
	test.DemandSuccess(t, ss.SaveState(filepath.Join(dir, "good")))
	m, err := synthetic.NewSynthetic(synthetic.DefaultConfig)
	test.DemandSuccess(t, err)
	two, err := hardware.NewSim(m, nil, television.Spec{Width: 4, Height: 4}, 16,
		domain(t, "clk_sys", 1), domain(t, "clk_other", 2))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, curated.Is(two.RestoreState(filepath.Join(dir, "good")), hardware.StateError))
}

func TestResetKeepsDownloadsAndFrames(t *testing.T) {
	cfg := synthetic.DefaultConfig
	sim, _ := newSyntheticSim(t, cfg)

	frameLen := (cfg.Width + cfg.HBlank) * (cfg.Height + cfg.VBlank)
	test.DemandSuccess(t, sim.RunSteps(frameLen*2+10, nil))
	test.ExpectEquality(t, sim.TV.FrameNum(), 1)

	sim.Enqueue(download.NewJobFromData("rom", payload(10, 0), 1, false))
	test.DemandSuccess(t, sim.Reset())

	test.ExpectEquality(t, sim.Time(), uint64(0))
	test.ExpectFailure(t, sim.Clocks[0].Level())
	test.ExpectEquality(t, sim.Download.Pending(), 1)
	test.ExpectEquality(t, sim.TV.FrameNum(), 1)
	_, ok := sim.TV.GetFrame()
	test.ExpectSuccess(t, ok)
}
