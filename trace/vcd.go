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
package trace

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/logger"
)

// NotProbable is returned by NewVCD() if the model does not implement the
// model.Prober interface.
const NotProbable = "trace: model does not list its ports"

const logTag = "trace"

type variable struct {
	port  model.PortInfo
	id    string
	value uint64
}

// VCD is an implementation of the Tracer interface.
type VCD struct {
	m    model.Model
	vars []variable

	filename string
	f        *os.File
	w        *bufio.Writer

	// the first dump after opening writes all values
	first bool

	// timestamp of the most recent dump
	last uint64
}

// NewVCD is the preferred method of initialisation for the VCD type.
func NewVCD(m model.Model) (*VCD, error) {
	p, ok := m.(model.Prober)
	if !ok {
		return nil, curated.Errorf(NotProbable)
	}

	vcd := &VCD{m: m}
	for i, port := range p.Ports() {
		if port.Width < 1 {
			port.Width = 1
		}
		vcd.vars = append(vcd.vars, variable{
			port: port,
			id:   identifier(i),
		})
	}

	return vcd, nil
}

// identifier codes are made from the printable ASCII characters
func identifier(n int) string {
	const first = '!'
	const count = '~' - '!' + 1

	s := []byte{byte(first + n%count)}
	for n /= count; n > 0; n /= count {
		s = append(s, byte(first+n%count))
	}
	return string(s)
}

// IsOpen implements the Tracer interface.
func (vcd *VCD) IsOpen() bool {
	return vcd.f != nil
}

// Filename returns the name of the file the trace is writing to.
func (vcd *VCD) Filename() string {
	return vcd.filename
}

// Open implements the Tracer interface.
func (vcd *VCD) Open(filename string) error {
	if err := vcd.Close(); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("trace: %v", err)
	}

	vcd.filename = filename
	vcd.f = f
	vcd.w = bufio.NewWriter(f)
	vcd.first = true
	vcd.last = 0

	fmt.Fprintf(vcd.w, "$date %s $end\n", time.Now().Format(time.RFC1123))
	fmt.Fprintln(vcd.w, "$version verihost $end")
	fmt.Fprintln(vcd.w, "$timescale 1ns $end")
	fmt.Fprintln(vcd.w, "$scope module top $end")
	for _, v := range vcd.vars {
		fmt.Fprintf(vcd.w, "$var wire %d %s %s $end\n", v.port.Width, v.id, v.port.Name)
	}
	fmt.Fprintln(vcd.w, "$upscope $end")
	fmt.Fprintln(vcd.w, "$enddefinitions $end")

	logger.Logf(logger.Allow, logTag, "opened %s", filename)

	return nil
}

func (vcd *VCD) writeValue(v variable) {
	if v.port.Width == 1 {
		fmt.Fprintf(vcd.w, "%d%s\n", v.value&1, v.id)
		return
	}
	fmt.Fprintf(vcd.w, "b%s %s\n", strconv.FormatUint(v.value, 2), v.id)
}

// Dump implements the Tracer interface.
func (vcd *VCD) Dump(t uint64) error {
	if !vcd.IsOpen() {
		return nil
	}

	if !vcd.first && t < vcd.last {
		return curated.Errorf("trace: %v", fmt.Sprintf("time is going backwards (%d < %d)", t, vcd.last))
	}

	stamped := false
	for i := range vcd.vars {
		v := &vcd.vars[i]
		n := vcd.m.Get(v.port.Name)
		if v.port.Width < 64 {
			n &= (1 << v.port.Width) - 1
		}

		if !vcd.first && n == v.value {
			continue
		}
		v.value = n

		if !stamped && (vcd.first || t != vcd.last) {
			fmt.Fprintf(vcd.w, "#%d\n", t)
			if vcd.first {
				fmt.Fprintln(vcd.w, "$dumpvars")
			}
		}
		stamped = true

		vcd.writeValue(*v)
	}

	if vcd.first {
		if stamped {
			fmt.Fprintln(vcd.w, "$end")
		}
		vcd.first = false
	}

	if stamped {
		vcd.last = t
	}

	return nil
}

// Flush implements the Tracer interface.
func (vcd *VCD) Flush() error {
	if !vcd.IsOpen() {
		return nil
	}
	if err := vcd.w.Flush(); err != nil {
		return curated.Errorf("trace: %v", err)
	}
	return nil
}

// Close implements the Tracer interface.
func (vcd *VCD) Close() error {
	if !vcd.IsOpen() {
		return nil
	}

	ferr := vcd.w.Flush()
	cerr := vcd.f.Close()
	vcd.f = nil
	vcd.w = nil

	logger.Logf(logger.Allow, logTag, "closed %s", vcd.filename)

	if ferr != nil {
		return curated.Errorf("trace: %v", ferr)
	}
	if cerr != nil {
		return curated.Errorf("trace: %v", cerr)
	}
	return nil
}
