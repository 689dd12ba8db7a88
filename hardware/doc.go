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
// Package hardware is the base package for the simulation driver. The Sim
// type ties together the clock domains, the download engine, the television
// and the audio sink, and steps the hardware model.
//
// One step of the simulation ticks every clock domain and drives the level of
// each domain into the model. If the primary domain (the first domain given
// to NewSim()) is rising then the download engine is serviced before the
// model is evaluated. After evaluation, again only if the primary domain is
// rising, the download engine completes its handshake, the audio sample is
// captured, the video signal is sent to the television if the pixel clock is
// enabled, the trace is dumped and the simulation time is advanced.
//
// The Sim can be driven directly with Step() and RunSteps(), or in batches
// with Batch(). The size of a batch is governed by the Config type, which is
// safe to change from another goroutine between batches.
//
// When the model signals that it has finished, the Sim enters the Finished
// state. The trace is closed, the model is finalised and released, and all
// further steps do nothing.
package hardware
