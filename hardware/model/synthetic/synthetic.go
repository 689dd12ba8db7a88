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
package synthetic

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/model"
)

// Config for the synthetic model.
type Config struct {
	// the port that clocks the model
	Clock model.Port

	// size of the active picture area
	Width  int
	Height int

	// number of blanking columns at the end of each line and blanking rows at
	// the end of each frame. sync is asserted at the start of blanking
	HBlank    int
	VBlank    int
	HSyncLen  int
	VSyncLen  int
	SyncHigh  bool
	ColourMax uint64

	// pixel clock enable is asserted every PixelDivider clock edges
	PixelDivider int

	// a new audio sample is generated every AudioDivider clock edges. the
	// value of the left channel increases by AudioStep
	AudioDivider int
	AudioStep    int16

	// the wait pattern is cycled through while a download is active. a true
	// value asserts ioctl_wait for that clock edge
	WaitPattern []bool

	// the model reports that it has finished after this many clock edges. a
	// value of zero means the model never finishes
	FinishAfter uint64
}

// DefaultConfig is a small picture suitable for tests.
var DefaultConfig = Config{
	Clock:        "clk_sys",
	Width:        32,
	Height:       24,
	HBlank:       8,
	VBlank:       4,
	HSyncLen:     4,
	VSyncLen:     2,
	SyncHigh:     true,
	ColourMax:    3,
	PixelDivider: 1,
	AudioDivider: 4,
	AudioStep:    256,
}

// Byte is a single byte received over the download bus.
type Byte struct {
	Index uint8
	Addr  uint32
	Value uint8
}

func (b Byte) String() string {
	return fmt.Sprintf("%d:%04x=%02x", b.Index, b.Addr, b.Value)
}

// inputs to the model. fields are exported for gob encoding
type inputs struct {
	Clk      bool
	Reset    bool
	Download bool
	Index    uint8
	Write    bool
	Addr     uint32
	DataOut  uint8
	Controls uint64
}

// outputs from the model
type outputs struct {
	PixelEnable bool
	Red         uint64
	Green       uint64
	Blue        uint64
	HSync       bool
	VSync       bool
	HBlank      bool
	VBlank      bool
	AudioLeft   int16
	AudioRight  int16
	Wait        bool
}

// everything that is serialised
type state struct {
	In  inputs
	Out outputs

	PrevClk    bool
	Cycle      uint64
	Col        int
	Row        int
	Frame      int
	PixelCount int
	AudioCount int
	WaitIdx    int
	Finished   bool
	Received   []Byte
}

// Synthetic is an implementation of the model.Model interface.
type Synthetic struct {
	cfg   Config
	state state

	finalised bool
}

// InvalidConfig is returned by NewSynthetic() if the configuration cannot
// produce a valid model.
const InvalidConfig = "synthetic: invalid config: %v"

// NewSynthetic is the preferred method of initialisation for the Synthetic
// type.
func NewSynthetic(cfg Config) (*Synthetic, error) {
	if cfg.Clock == "" {
		return nil, curated.Errorf(InvalidConfig, "no clock port")
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, curated.Errorf(InvalidConfig, "picture size")
	}
	if cfg.HBlank < 0 || cfg.VBlank < 0 || cfg.HSyncLen > cfg.HBlank || cfg.VSyncLen > cfg.VBlank {
		return nil, curated.Errorf(InvalidConfig, "blanking")
	}
	if cfg.PixelDivider < 1 || cfg.AudioDivider < 1 {
		return nil, curated.Errorf(InvalidConfig, "divider")
	}

	syn := &Synthetic{cfg: cfg}
	syn.state.Out.HSync = !cfg.SyncHigh
	syn.state.Out.VSync = !cfg.SyncHigh
	return syn, nil
}

func (syn *Synthetic) String() string {
	return fmt.Sprintf("cycle=%d col=%d row=%d frame=%d", syn.state.Cycle, syn.state.Col, syn.state.Row, syn.state.Frame)
}

// Set implements the model.Model interface.
func (syn *Synthetic) Set(port model.Port, value uint64) {
	in := &syn.state.In
	switch port {
	case syn.cfg.Clock:
		in.Clk = value != 0
	case model.Reset:
		in.Reset = value != 0
	case model.Download:
		in.Download = value != 0
	case model.Index:
		in.Index = uint8(value)
	case model.Write:
		in.Write = value != 0
	case model.Address:
		in.Addr = uint32(value)
	case model.DataOut:
		in.DataOut = uint8(value)
	case model.Inputs:
		in.Controls = value
	}
}

// Get implements the model.Model interface.
func (syn *Synthetic) Get(port model.Port) uint64 {
	out := &syn.state.Out
	switch port {
	case model.PixelEnable:
		return model.Bool(out.PixelEnable)
	case model.Red:
		return out.Red
	case model.Green:
		return out.Green
	case model.Blue:
		return out.Blue
	case model.HSync:
		return model.Bool(out.HSync)
	case model.VSync:
		return model.Bool(out.VSync)
	case model.HBlank:
		return model.Bool(out.HBlank)
	case model.VBlank:
		return model.Bool(out.VBlank)
	case model.AudioLeft:
		return uint64(uint16(out.AudioLeft))
	case model.AudioRight:
		return uint64(uint16(out.AudioRight))
	case model.Wait:
		return model.Bool(out.Wait)
	}
	return 0
}

// Eval implements the model.Model interface.
func (syn *Synthetic) Eval() {
	st := &syn.state

	rising := st.In.Clk && !st.PrevClk
	st.PrevClk = st.In.Clk
	if !rising || st.Finished {
		return
	}

	st.Cycle++
	if syn.cfg.FinishAfter > 0 && st.Cycle >= syn.cfg.FinishAfter {
		st.Finished = true
	}

	syn.loader()

	if st.In.Reset {
		st.Col = 0
		st.Row = 0
		st.PixelCount = 0
		st.AudioCount = 0
		st.Out.PixelEnable = false
		st.Out.AudioLeft = 0
		st.Out.AudioRight = 0
		return
	}

	syn.video()
	syn.audio()
}

// accept bytes from the download bus
func (syn *Synthetic) loader() {
	st := &syn.state

	if !st.In.Download {
		st.Out.Wait = false
		st.WaitIdx = 0
		return
	}

	if st.In.Write && !st.Out.Wait {
		st.Received = append(st.Received, Byte{
			Index: st.In.Index,
			Addr:  st.In.Addr,
			Value: st.In.DataOut,
		})
	}

	if len(syn.cfg.WaitPattern) > 0 {
		st.Out.Wait = syn.cfg.WaitPattern[st.WaitIdx%len(syn.cfg.WaitPattern)]
		st.WaitIdx++
	}
}

// advance the beam and output the colour and sync signals for the new
// position
func (syn *Synthetic) video() {
	st := &syn.state

	st.PixelCount++
	if st.PixelCount < syn.cfg.PixelDivider {
		st.Out.PixelEnable = false
		return
	}
	st.PixelCount = 0
	st.Out.PixelEnable = true

	col := st.Col
	row := st.Row

	hb := col >= syn.cfg.Width
	vb := row >= syn.cfg.Height
	hs := hb && col < syn.cfg.Width+syn.cfg.HSyncLen
	vs := vb && row < syn.cfg.Height+syn.cfg.VSyncLen

	st.Out.HBlank = hb
	st.Out.VBlank = vb
	st.Out.HSync = hs == syn.cfg.SyncHigh
	st.Out.VSync = vs == syn.cfg.SyncHigh

	if hb || vb {
		st.Out.Red = 0
		st.Out.Green = 0
		st.Out.Blue = 0
	} else {
		m := syn.cfg.ColourMax
		st.Out.Red = (uint64(col) ^ st.In.Controls) & m
		st.Out.Green = uint64(row) & m
		// blue is tinted by the most recently downloaded byte
		var tint uint64
		if n := len(st.Received); n > 0 {
			tint = uint64(st.Received[n-1].Value)
		}
		st.Out.Blue = (uint64(col+row+st.Frame) ^ tint) & m
	}

	st.Col++
	if st.Col >= syn.cfg.Width+syn.cfg.HBlank {
		st.Col = 0
		st.Row++
		if st.Row >= syn.cfg.Height+syn.cfg.VBlank {
			st.Row = 0
			st.Frame++
		}
	}
}

func (syn *Synthetic) audio() {
	st := &syn.state

	st.AudioCount++
	if st.AudioCount < syn.cfg.AudioDivider {
		return
	}
	st.AudioCount = 0
	st.Out.AudioLeft += syn.cfg.AudioStep
	st.Out.AudioRight = -st.Out.AudioLeft
}

// GotFinish implements the model.Model interface.
func (syn *Synthetic) GotFinish() bool {
	return syn.state.Finished
}

// Final implements the model.Finaliser interface.
func (syn *Synthetic) Final() {
	syn.finalised = true
}

// Finalised returns true if Final() has been called.
func (syn *Synthetic) Finalised() bool {
	return syn.finalised
}

// Received returns a copy of the bytes received over the download bus.
func (syn *Synthetic) Received() []Byte {
	r := make([]Byte, len(syn.state.Received))
	copy(r, syn.state.Received)
	return r
}

// Cycle returns the number of rising clock edges seen by the model.
func (syn *Synthetic) Cycle() uint64 {
	return syn.state.Cycle
}

// Serialize implements the model.SaveStater interface.
func (syn *Synthetic) Serialize() ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(syn.state); err != nil {
		return nil, curated.Errorf("synthetic: %v", err)
	}
	return b.Bytes(), nil
}

// Deserialize implements the model.SaveStater interface.
func (syn *Synthetic) Deserialize(data []byte) error {
	var st state
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return curated.Errorf("synthetic: %v", err)
	}
	syn.state = st
	return nil
}

// Ports implements the model.Prober interface.
func (syn *Synthetic) Ports() []model.PortInfo {
	return []model.PortInfo{
		{Name: syn.cfg.Clock, Width: 1},
		{Name: model.Reset, Width: 1},
		{Name: model.Download, Width: 1},
		{Name: model.Index, Width: 8},
		{Name: model.Write, Width: 1},
		{Name: model.Address, Width: 27},
		{Name: model.DataOut, Width: 8},
		{Name: model.Wait, Width: 1},
		{Name: model.PixelEnable, Width: 1},
		{Name: model.Red, Width: 8},
		{Name: model.Green, Width: 8},
		{Name: model.Blue, Width: 8},
		{Name: model.HSync, Width: 1},
		{Name: model.VSync, Width: 1},
		{Name: model.HBlank, Width: 1},
		{Name: model.VBlank, Width: 1},
		{Name: model.AudioLeft, Width: 16},
		{Name: model.AudioRight, Width: 16},
		{Name: model.Inputs, Width: 12},
	}
}
