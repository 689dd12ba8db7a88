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
// Package console is a line based command interface to a running simulation.
// Commands are read on a separate goroutine and are serviced between batches
// of simulation steps, so the simulation is never stepped concurrently with a
// command.
//
// When the input is a real terminal the terminal is put into raw mode and line
// editing is provided by the golang.org/x/term package. Any other input is
// read one line at a time.
//
// Commands are case insensitive:
//
//	RUN                          continuous stepping in batches
//	STOP                         stop continuous stepping
//	STEP                         a single step
//	MULTI [n]                    multi-step (optionally setting the amount)
//	RESET                        reset the simulation
//	QUEUE <file> <index> [EXCL]  queue a download job
//	SAVE [file]                  save simulation state
//	LOAD [file]                  restore simulation state
//	TRACE <ON|OFF|FLUSH>         control trace capture
//	INPUT <name> [ON|OFF]        set or toggle a user input
//	STATUS                       print simulation status
//	LOG [n]                      print the most recent log entries
//	HELP                         list commands
//	QUIT                         end the console
package console
