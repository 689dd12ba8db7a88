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
package download

import (
	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/logger"
)

// SourceError is logged when the data for a job cannot be loaded.
const SourceError = "download: source: %v"

const logTag = "download"

// Engine is the download protocol engine.
type Engine struct {
	queue []Job

	// the active job. only valid if busy is true
	active Job
	busy   bool

	// data and cursor of the active job
	data   []byte
	cursor int

	// a byte was presented to the model in BeforeEval()
	presented bool

	// total number of bytes transferred over the lifetime of the engine
	transferred int

	// the most recent error from a job that could not be loaded
	lastErr error
}

// NewEngine is the preferred method of initialisation for the Engine type.
func NewEngine() *Engine {
	return &Engine{}
}

// Enqueue adds a job to the end of the queue. If the job is exclusive then
// any pending jobs with the same index are discarded. An active job is never
// discarded.
func (eng *Engine) Enqueue(job Job) {
	if job.Exclusive {
		n := eng.queue[:0]
		for _, j := range eng.queue {
			if j.Index == job.Index {
				logger.Logf(logger.Allow, logTag, "replaced %s", j)
				continue
			}
			n = append(n, j)
		}
		eng.queue = n
	}
	eng.queue = append(eng.queue, job)
}

// Busy returns true if a job is being transferred.
func (eng *Engine) Busy() bool {
	return eng.busy
}

// Pending returns the number of jobs waiting in the queue.
func (eng *Engine) Pending() int {
	return len(eng.queue)
}

// Transferred returns the total number of bytes transferred.
func (eng *Engine) Transferred() int {
	return eng.transferred
}

// Active returns the active job and the cursor into its data. The boolean is
// false if there is no active job.
func (eng *Engine) Active() (Job, int, bool) {
	if !eng.busy {
		return Job{}, 0, false
	}
	return eng.active, eng.cursor, true
}

// LastError returns the most recent error from a job that was skipped.
func (eng *Engine) LastError() error {
	return eng.lastErr
}

// BeforeEval services the download channel before the model is evaluated. It
// should be called once per primary clock rising edge.
func (eng *Engine) BeforeEval(m model.Model) {
	eng.presented = false

	if !eng.busy {
		if !eng.start(m) {
			return
		}
	}

	if m.Get(model.Wait) != 0 {
		m.Set(model.Write, 0)
		return
	}

	m.Set(model.Address, uint64(eng.cursor))
	m.Set(model.DataOut, uint64(eng.data[eng.cursor]))
	m.Set(model.Write, 1)
	eng.presented = true
}

// start the next job in the queue that can be loaded. returns true if a job
// with data to transfer has been started
func (eng *Engine) start(m model.Model) bool {
	for len(eng.queue) > 0 {
		job := eng.queue[0]
		eng.queue = eng.queue[1:]

		if err := job.Loader.Load(); err != nil {
			eng.lastErr = curated.Errorf(SourceError, err)
			logger.Logf(logger.Allow, logTag, "skipping %s: %v", job, err)
			continue
		}

		if len(job.Loader.Data) == 0 {
			logger.Logf(logger.Allow, logTag, "%s: no data", job)
			continue
		}

		eng.active = job
		eng.data = job.Loader.Data
		eng.cursor = 0
		eng.busy = true

		m.Set(model.Index, uint64(job.Index))
		m.Set(model.Upload, 0)
		m.Set(model.Download, 1)
		m.Set(model.Write, 0)

		logger.Logf(logger.Allow, logTag, "starting %s (%d bytes)", job, len(eng.data))

		return true
	}

	return false
}

// AfterEval completes the handshake after the model has been evaluated. It
// should be called once per primary clock rising edge.
func (eng *Engine) AfterEval(m model.Model) {
	if !eng.busy || !eng.presented {
		return
	}

	eng.presented = false
	eng.cursor++
	eng.transferred++
	m.Set(model.Write, 0)

	if eng.cursor >= len(eng.data) {
		m.Set(model.Download, 0)
		logger.Logf(logger.Allow, logTag, "completed %s", eng.active)
		eng.busy = false
		eng.active = Job{}
		eng.data = nil
		eng.cursor = 0
	}
}
