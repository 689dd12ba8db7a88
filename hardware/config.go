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
	"sync/atomic"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/prefs"
)

// Config controls the running of the simulation. Values can be changed from
// any goroutine and take effect on the next batch.
type Config struct {
	dsk *prefs.Disk

	// run a full batch every time Batch() is called
	RunEnable prefs.Bool

	// number of steps in a batch when RunEnable is true
	BatchSize prefs.Int

	// number of steps run after RequestMultiStep()
	MultiStepAmount prefs.Int

	// trace capture is active. the trace file is opened on the first step
	// after this becomes true
	Trace     prefs.Bool
	TraceFile prefs.String

	// default filename for SaveState() and RestoreState()
	SaveFile prefs.String

	// the reset port is held high while simulation time is less than this
	// value
	InitialReset prefs.Int

	// width of each colour channel output by the model
	ColourDepth prefs.Int

	// the rate at which the model produces audio samples
	SampleRate prefs.Int

	// one-shot requests consumed by Batch()
	stepRequest      atomic.Bool
	multiStepRequest atomic.Bool
}

// NewConfig is the preferred method of initialisation for the Config type. The
// returned Config has default values and is not associated with a prefs file.
func NewConfig() *Config {
	cfg := &Config{}

	positive := func(name string) func(prefs.Value) error {
		return func(v prefs.Value) error {
			if v.(int) < 1 {
				return curated.Errorf("sim: config: %v", fmt.Sprintf("%s must be positive", name))
			}
			return nil
		}
	}

	cfg.BatchSize.SetHookPre(positive("batch size"))
	cfg.MultiStepAmount.SetHookPre(positive("multi-step amount"))
	cfg.SampleRate.SetHookPre(positive("sample rate"))

	cfg.ColourDepth.SetHookPre(func(v prefs.Value) error {
		if d := v.(int); d < 1 || d > 16 {
			return curated.Errorf("sim: config: %v", fmt.Sprintf("colour depth out of range (%d)", d))
		}
		return nil
	})

	cfg.InitialReset.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return curated.Errorf("sim: config: %v", "initial reset cannot be negative")
		}
		return nil
	})

	cfg.SetDefaults()

	return cfg
}

// SetDefaults reverts all settings to default values.
func (cfg *Config) SetDefaults() {
	cfg.RunEnable.Set(false)
	cfg.BatchSize.Set(150000)
	cfg.MultiStepAmount.Set(1024)
	cfg.Trace.Set(false)
	cfg.TraceFile.Set("sim.vcd")
	cfg.SaveFile.Set("test")
	cfg.InitialReset.Set(0)
	cfg.ColourDepth.Set(2)
	cfg.SampleRate.Set(48000)
}

func (cfg *Config) String() string {
	if cfg.dsk != nil {
		return cfg.dsk.String()
	}
	return fmt.Sprintf("run=%v batch=%d multi=%d trace=%v", cfg.RunEnable.Value(),
		cfg.BatchSize.Value(), cfg.MultiStepAmount.Value(), cfg.Trace.Value())
}

// AttachDisk associates the Config with a prefs file and loads any values in
// that file.
func (cfg *Config) AttachDisk(path string) error {
	var err error

	cfg.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return err
	}

	entries := []struct {
		key string
		p   interface {
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
			String() string
		}
	}{
		{"sim.runEnable", &cfg.RunEnable},
		{"sim.batchSize", &cfg.BatchSize},
		{"sim.multiStepAmount", &cfg.MultiStepAmount},
		{"sim.trace", &cfg.Trace},
		{"sim.traceFile", &cfg.TraceFile},
		{"sim.saveFile", &cfg.SaveFile},
		{"sim.initialReset", &cfg.InitialReset},
		{"sim.colourDepth", &cfg.ColourDepth},
		{"sim.sampleRate", &cfg.SampleRate},
	}

	for _, e := range entries {
		if err := cfg.dsk.Add(e.key, e.p); err != nil {
			return err
		}
	}

	return cfg.dsk.Load()
}

// Load config values from disk.
func (cfg *Config) Load() error {
	if cfg.dsk == nil {
		return curated.Errorf("sim: config: %v", "no prefs file")
	}
	return cfg.dsk.Load()
}

// Save config values to disk.
func (cfg *Config) Save() error {
	if cfg.dsk == nil {
		return curated.Errorf("sim: config: %v", "no prefs file")
	}
	return cfg.dsk.Save()
}

// RequestStep asks for a single step to be run on the next call to Batch().
// Has no effect if RunEnable is true.
func (cfg *Config) RequestStep() {
	cfg.stepRequest.Store(true)
}

// RequestMultiStep asks for MultiStepAmount steps to be run on the next call
// to Batch(). Has no effect if RunEnable is true.
func (cfg *Config) RequestMultiStep() {
	cfg.multiStepRequest.Store(true)
}

// steps returns the number of steps for the next batch. requests are consumed
// whether or not RunEnable is set
func (cfg *Config) steps() int {
	step := cfg.stepRequest.Swap(false)
	multi := cfg.multiStepRequest.Swap(false)

	if cfg.RunEnable.Value() {
		return cfg.BatchSize.Value()
	}

	n := 0
	if step {
		n++
	}
	if multi {
		n += cfg.MultiStepAmount.Value()
	}
	return n
}
