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


package rewind

import (
	"fmt"

	"github.com/jetsetilly/verihost/prefs"
)

// Preferences for the rewind system.
type Preferences struct {
	dsk *prefs.Disk

	// the maximum number of snapshots to store before the earliest snapshots
	// are forgotten
	MaxEntries prefs.Int

	// how often a frame snapshot is taken
	Freq prefs.Int
}

func (p *Preferences) String() string {
	return fmt.Sprintf("max entries=%d freq=%d", p.MaxEntries.Value(), p.Freq.Value())
}

const (
	defaultMaxEntries = 100
	defaultFreq       = 1
)

// newPreferences is the preferred method of initialisation for the Preferences type.
func newPreferences(r *Rewind) *Preferences {
	p := &Preferences{}

	p.MaxEntries.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return fmt.Errorf("rewind: max entries must be positive")
		}
		return nil
	})
	p.MaxEntries.SetHookPost(func(v prefs.Value) error {
		r.trim(v.(int))
		return nil
	})
	p.Freq.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return fmt.Errorf("rewind: snapshot frequency must be positive")
		}
		return nil
	})

	p.MaxEntries.Set(defaultMaxEntries)
	p.Freq.Set(defaultFreq)

	return p
}

// AttachDisk associates the preferences with a prefs file and loads any
// values in that file.
func (p *Preferences) AttachDisk(path string) error {
	var err error

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return err
	}

	if err := p.dsk.Add("rewind.maxEntries", &p.MaxEntries); err != nil {
		return err
	}
	if err := p.dsk.Add("rewind.snapshotFreq", &p.Freq); err != nil {
		return err
	}

	return p.dsk.Load()
}

// Save preferences to disk. Does nothing if the preferences have not been
// attached to a prefs file.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
