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
// Package download emulates the byte serial download channel that an FPGA
// host controller uses to send data into the hardware model. Jobs are queued
// with Enqueue() and transferred one at a time, one byte per primary clock
// edge, using the ioctl signals of the model.
//
// The handshake for each byte is:
//
//	BeforeEval(): if ioctl_wait is low, present the byte on ioctl_dout and
//	              its offset on ioctl_addr, and assert ioctl_wr
//	Eval():       the model latches the byte if ioctl_wr is asserted
//	AfterEval():  if a byte was presented, advance the cursor
//
// ioctl_download and ioctl_index are held stable for the entire duration of a
// job. A new job is never started until the previous job has completed.
//
// If a job's data cannot be loaded the job is logged and skipped and the next
// job in the queue is tried.
package download
