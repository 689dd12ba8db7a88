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
package script

import (
	"fmt"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware"
	"github.com/jetsetilly/verihost/hardware/download"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/logger"
	"github.com/jetsetilly/verihost/userinput"
	lua "github.com/yuin/gopher-lua"
)

const logTag = "script"

// Script is a Lua environment bound to a simulation.
type Script struct {
	sim *hardware.Sim
	L   *lua.LState
}

// NewScript is the preferred method of initialisation for the Script type.
// Close() should be called when the script is no longer required.
func NewScript(sim *hardware.Sim) *Script {
	scr := &Script{
		sim: sim,
		L:   lua.NewState(),
	}

	funcs := map[string]lua.LGFunction{
		"queue": scr.queue,
		"reset": scr.reset,
		"run":   scr.run,
		"input": scr.input,
		"save":  scr.save,
		"load":  scr.load,
		"trace": scr.trace,
		"time":  scr.time,
		"frame": scr.frame,
		"busy":  scr.busy,
		"log":   scr.log,
	}
	for name, f := range funcs {
		scr.L.SetGlobal(name, scr.L.NewFunction(f))
	}

	return scr
}

// Close the Lua environment.
func (scr *Script) Close() {
	scr.L.Close()
}

// RunFile executes the named Lua file.
func (scr *Script) RunFile(filename string) error {
	logger.Logf(logger.Allow, logTag, "running %s", filename)
	if err := scr.L.DoFile(filename); err != nil {
		return curated.Errorf("script: %v", err)
	}
	return nil
}

// RunString executes Lua source.
func (scr *Script) RunString(source string) error {
	if err := scr.L.DoString(source); err != nil {
		return curated.Errorf("script: %v", err)
	}
	return nil
}

// Run is a convenience function that creates a Script for the simulation,
// executes the named file and closes the Script.
func Run(sim *hardware.Sim, filename string) error {
	scr := NewScript(sim)
	defer scr.Close()
	return scr.RunFile(filename)
}

// raise a Lua error if err is not nil. returns false if an error was raised
func raise(L *lua.LState, err error) bool {
	if err != nil {
		L.RaiseError("%v", err)
		return false
	}
	return true
}

func (scr *Script) queue(L *lua.LState) int {
	filename := L.CheckString(1)
	index := L.CheckInt(2)
	if index < 0 || index > 255 {
		L.ArgError(2, fmt.Sprintf("index out of range (%d)", index))
		return 0
	}
	exclusive := L.OptBool(3, false)
	scr.sim.Enqueue(download.NewJob(filename, uint8(index), exclusive))
	return 0
}

func (scr *Script) reset(L *lua.LState) int {
	raise(L, scr.sim.Reset())
	return 0
}

func (scr *Script) run(L *lua.LState) int {
	n := L.CheckInt(1)
	if !raise(L, scr.sim.RunSteps(n, nil)) {
		return 0
	}
	L.Push(lua.LNumber(scr.sim.Time()))
	return 1
}

func (scr *Script) input(L *lua.LState) int {
	name := L.CheckString(1)
	in, ok := userinput.Parse(name)
	if !ok {
		L.ArgError(1, fmt.Sprintf("unknown input (%s)", name))
		return 0
	}
	scr.sim.Input.Set(in, L.CheckBool(2))

	// inputs are sampled by batches. a script runs steps directly so the
	// value is forwarded to the model here
	if scr.sim.Model != nil {
		scr.sim.Model.Set(model.Inputs, scr.sim.Input.Value())
	}
	return 0
}

func (scr *Script) filename(L *lua.LState) string {
	return L.OptString(1, scr.sim.Config.SaveFile.String())
}

func (scr *Script) save(L *lua.LState) int {
	raise(L, scr.sim.SaveState(scr.filename(L)))
	return 0
}

func (scr *Script) load(L *lua.LState) int {
	raise(L, scr.sim.RestoreState(scr.filename(L)))
	return 0
}

func (scr *Script) trace(L *lua.LState) int {
	raise(L, scr.sim.Config.Trace.Set(L.CheckBool(1)))
	return 0
}

func (scr *Script) time(L *lua.LState) int {
	L.Push(lua.LNumber(scr.sim.Time()))
	return 1
}

func (scr *Script) frame(L *lua.LState) int {
	L.Push(lua.LNumber(scr.sim.TV.FrameNum()))
	return 1
}

func (scr *Script) busy(L *lua.LState) int {
	L.Push(lua.LBool(scr.sim.Download.Busy() || scr.sim.Download.Pending() > 0))
	return 1
}

func (scr *Script) log(L *lua.LState) int {
	logger.Log(logger.Allow, logTag, L.CheckString(1))
	return 0
}
