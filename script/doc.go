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
// Package script runs Lua scripts that drive a simulation. Scripts are useful
// for regression testing and for setting up a simulation before handing
// control to the console.
//
// The following functions are available to a script:
//
//	queue(file, index [, exclusive])  queue a download job
//	reset()                           reset the simulation
//	run(n)                            run n steps. returns the simulation time
//	input(name, pressed)              set the state of a user input
//	save([file])                      save the simulation state
//	load([file])                      restore the simulation state
//	trace(enable)                     enable or disable trace capture
//	time()                            the simulation time
//	frame()                           the number of completed frames
//	busy()                            true if a download is in progress
//	log(message)                      add a message to the central log
//
// For example:
//
//	queue("boot.rom", 0, true)
//	run(100000)
//	while busy() do run(1000) end
//	input("start1", true)
//	run(5000)
//	input("start1", false)
//	save("after_start")
package script
