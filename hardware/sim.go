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
	"fmt"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/govern"
	"github.com/jetsetilly/verihost/hardware/audio"
	"github.com/jetsetilly/verihost/hardware/clocks"
	"github.com/jetsetilly/verihost/hardware/download"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/hardware/television"
	"github.com/jetsetilly/verihost/hardware/television/signal"
	"github.com/jetsetilly/verihost/logger"
	"github.com/jetsetilly/verihost/trace"
	"github.com/jetsetilly/verihost/userinput"
)

// Sentinel error patterns returned by the Sim type.
const (
	ModelReleased    = "sim: model has been released"
	StateUnsupported = "sim: model does not support save states"
	InvalidSim       = "sim: %v"
)

const logTag = "sim"

// Sim is the step orchestrator.
type Sim struct {
	// the hardware model. will be nil once the simulation has finished
	Model model.Model

	// the first clock domain is the primary domain
	Clocks []*clocks.Domain

	Download *download.Engine
	TV       *television.Television
	Audio    *audio.Sink
	Input    *userinput.Bitmask
	Config   *Config

	// tracer is optional. if it is nil then the Trace field in Config has no
	// effect
	Tracer trace.Tracer

	// the name of the file the tracer was opened with
	traceFile string

	// simulation time. advanced once per primary clock rising edge
	time uint64

	state govern.State

	stepHooks []StepHook
}

// StepHook is implemented by types that need to be notified at the end of
// every step.
type StepHook interface {
	AfterStep() error
}

// NewSim is the preferred method of initialisation for the Sim type. At least
// one clock domain must be given and the first domain is the primary domain.
func NewSim(m model.Model, cfg *Config, tvSpec television.Spec, ringCapacity int, clks ...*clocks.Domain) (*Sim, error) {
	if m == nil {
		return nil, curated.Errorf(InvalidSim, "no model")
	}
	if len(clks) == 0 {
		return nil, curated.Errorf(InvalidSim, "no clock domains")
	}
	for _, c := range clks {
		if c == nil {
			return nil, curated.Errorf(InvalidSim, "nil clock domain")
		}
	}
	if cfg == nil {
		cfg = NewConfig()
	}

	sim := &Sim{
		Model:    m,
		Clocks:   clks,
		Download: download.NewEngine(),
		Input:    &userinput.Bitmask{},
		Config:   cfg,
		state:    govern.Idle,
	}

	var err error

	sim.TV, err = television.NewTelevision(tvSpec)
	if err != nil {
		return nil, err
	}

	sim.Audio, err = audio.NewSink(ringCapacity, cfg.SampleRate.Value())
	if err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, logTag, "primary clock: %s", clks[0])

	return sim, nil
}

func (sim *Sim) String() string {
	return fmt.Sprintf("%s time=%d", sim.state, sim.time)
}

// State returns the current state of the simulation.
func (sim *Sim) State() govern.State {
	return sim.state
}

// Time returns the current simulation time.
func (sim *Sim) Time() uint64 {
	return sim.time
}

// AddStepHook registers an implementation of StepHook.
func (sim *Sim) AddStepHook(h StepHook) {
	sim.stepHooks = append(sim.stepHooks, h)
}

// Enqueue a download job.
func (sim *Sim) Enqueue(job download.Job) {
	sim.Download.Enqueue(job)
}

// Step the simulation once.
func (sim *Sim) Step() error {
	if sim.state == govern.Finished {
		return nil
	}
	if sim.Model == nil {
		return curated.Errorf(ModelReleased)
	}

	if sim.Model.GotFinish() {
		return sim.finish()
	}

	for _, c := range sim.Clocks {
		c.Tick()
		sim.Model.Set(c.Port, model.Bool(c.Level()))
	}

	rising := sim.Clocks[0].IsRising()

	if rising {
		sim.Model.Set(model.Reset, model.Bool(sim.time < uint64(sim.Config.InitialReset.Value())))
		sim.Download.BeforeEval(sim.Model)
	}

	sim.Model.Eval()

	if rising {
		sim.Download.AfterEval(sim.Model)

		l := int16(sim.Model.Get(model.AudioLeft))
		r := int16(sim.Model.Get(model.AudioRight))
		if err := sim.Audio.Clock(l, r); err != nil {
			return curated.Errorf("sim: %v", err)
		}

		if sim.Model.Get(model.PixelEnable) != 0 {
			if err := sim.TV.Signal(sim.videoSignal()); err != nil {
				return curated.Errorf("sim: %v", err)
			}
		}

		sim.dumpTrace()

		sim.time++
	}

	for _, h := range sim.stepHooks {
		if err := h.AfterStep(); err != nil {
			return curated.Errorf("sim: %v", err)
		}
	}

	if sim.Model.GotFinish() {
		return sim.finish()
	}

	return nil
}

func (sim *Sim) videoSignal() signal.Attributes {
	depth := sim.Config.ColourDepth.Value()
	return signal.Attributes{
		HBlank: sim.Model.Get(model.HBlank) != 0,
		VBlank: sim.Model.Get(model.VBlank) != 0,
		HSync:  sim.Model.Get(model.HSync) != 0,
		VSync:  sim.Model.Get(model.VSync) != 0,
		Colour: signal.RGB(
			signal.Expand(sim.Model.Get(model.Red), depth),
			signal.Expand(sim.Model.Get(model.Green), depth),
			signal.Expand(sim.Model.Get(model.Blue), depth),
		),
	}
}

// dump the trace if trace capture is active. errors are logged and the trace
// is stopped
func (sim *Sim) dumpTrace() {
	if sim.Tracer == nil || !sim.Config.Trace.Value() {
		return
	}

	fn := sim.Config.TraceFile.String()
	if !sim.Tracer.IsOpen() || fn != sim.traceFile {
		if err := sim.Tracer.Open(fn); err != nil {
			logger.Logf(logger.Allow, logTag, "trace: %v", err)
			sim.Config.Trace.Set(false)
			return
		}
		sim.traceFile = fn
	}

	if err := sim.Tracer.Dump(sim.time); err != nil {
		logger.Logf(logger.Allow, logTag, "trace: %v", err)
		sim.Config.Trace.Set(false)
	}
}

// FlushTrace writes any buffered trace data to disk.
func (sim *Sim) FlushTrace() error {
	if sim.Tracer == nil {
		return nil
	}
	return sim.Tracer.Flush()
}

// RunSteps runs the simulation for n steps. The continueCheck function is
// called after every step and the run ends early if it returns any state
// other than govern.Stepping. The continueCheck function can be nil.
func (sim *Sim) RunSteps(n int, continueCheck func() (govern.State, error)) error {
	if sim.state == govern.Finished {
		return nil
	}

	sim.state = govern.Stepping
	defer func() {
		if sim.state == govern.Stepping {
			sim.state = govern.Idle
		}
	}()

	for i := 0; i < n; i++ {
		if err := sim.Step(); err != nil {
			return err
		}
		if sim.state == govern.Finished {
			return nil
		}

		if continueCheck != nil {
			state, err := continueCheck()
			if err != nil {
				return err
			}
			if state != govern.Stepping {
				return nil
			}
		}
	}

	return nil
}

// Batch runs the number of steps indicated by the Config. The input bitmask
// is sampled once at the start of the batch. Returns true if any steps were
// run.
func (sim *Sim) Batch() (bool, error) {
	if sim.state == govern.Finished {
		return false, nil
	}

	n := sim.Config.steps()
	if n == 0 {
		return false, nil
	}

	if sim.Model != nil {
		sim.Model.Set(model.Inputs, sim.Input.Value())
	}

	return true, sim.RunSteps(n, nil)
}

// Reset the simulation time and the clock domains. Queued downloads and
// completed frames are not affected. An open trace is closed and will be
// reopened from the start if trace capture is still active.
func (sim *Sim) Reset() error {
	if sim.state == govern.Finished {
		return curated.Errorf(ModelReleased)
	}

	sim.time = 0
	for _, c := range sim.Clocks {
		c.Reset()
		sim.Model.Set(c.Port, 0)
	}

	logger.Log(logger.Allow, logTag, "reset")

	if sim.Tracer != nil {
		if err := sim.Tracer.Close(); err != nil {
			return curated.Errorf("sim: %v", err)
		}
	}

	return nil
}

// finish is called when the model signals that it has finished
func (sim *Sim) finish() error {
	logger.Logf(logger.Allow, logTag, "model finished at time %d", sim.time)
	return sim.End()
}

// End the simulation. The trace is closed, the model is finalised and
// released and all mixers are ended. The simulation enters the Finished
// state. It is safe to call End() more than once.
func (sim *Sim) End() error {
	if sim.state == govern.Finished {
		return nil
	}
	sim.state = govern.Finished

	var rerr error

	if sim.Tracer != nil {
		if err := sim.Tracer.Close(); err != nil {
			rerr = curated.Errorf("sim: %v", err)
		}
	}

	if f, ok := sim.Model.(model.Finaliser); ok {
		f.Final()
	}
	sim.Model = nil

	if err := sim.Audio.End(); err != nil && rerr == nil {
		rerr = curated.Errorf("sim: %v", err)
	}

	return rerr
}
