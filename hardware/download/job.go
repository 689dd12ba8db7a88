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
	"fmt"

	"github.com/jetsetilly/verihost/cartridgeloader"
)

// Job is a single download request.
type Job struct {
	Loader cartridgeloader.Loader

	// the channel index presented on ioctl_index for the duration of the
	// transfer
	Index uint8

	// an exclusive job replaces any pending jobs with the same index
	Exclusive bool
}

// NewJob creates a job for a file or URL.
func NewJob(filename string, index uint8, exclusive bool) Job {
	return Job{
		Loader:    cartridgeloader.NewLoader(filename),
		Index:     index,
		Exclusive: exclusive,
	}
}

// NewJobFromData creates a job for data already in memory.
func NewJobFromData(name string, data []byte, index uint8, exclusive bool) Job {
	return Job{
		Loader:    cartridgeloader.NewLoaderFromData(name, data),
		Index:     index,
		Exclusive: exclusive,
	}
}

func (j Job) String() string {
	s := fmt.Sprintf("%s [index %d]", j.Loader.ShortName(), j.Index)
	if j.Exclusive {
		s = fmt.Sprintf("%s (exclusive)", s)
	}
	return s
}
