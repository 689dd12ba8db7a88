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
package userinput

import (
	"strings"
	"sync/atomic"
)

// Input identifies a single bit in the input bitmask.
type Input int

// List of valid Input values. The value is the bit position in the bitmask.
const (
	Right Input = iota
	Left
	Down
	Up
	Fire1
	Fire2
	Start1
	Start2
	Coin1
	Coin2
	Coin3
	Pause

	NumInputs
)

var names = [NumInputs]string{
	"RIGHT", "LEFT", "DOWN", "UP", "FIRE1", "FIRE2",
	"START1", "START2", "COIN1", "COIN2", "COIN3", "PAUSE",
}

func (i Input) String() string {
	if i < 0 || i >= NumInputs {
		return "unknown"
	}
	return names[i]
}

// Parse returns the Input with the name. Case insensitive.
func Parse(name string) (Input, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Input(i), true
		}
	}
	return 0, false
}

// Bitmask is the packed state of all inputs.
type Bitmask struct {
	v atomic.Uint64
}

// Set the state of an input. Inputs outside the valid range are ignored.
func (b *Bitmask) Set(i Input, pressed bool) {
	if i < 0 || i >= NumInputs {
		return
	}
	bit := uint64(1) << i
	for {
		o := b.v.Load()
		n := o &^ bit
		if pressed {
			n |= bit
		}
		if b.v.CompareAndSwap(o, n) {
			return
		}
	}
}

// Toggle the state of an input.
func (b *Bitmask) Toggle(i Input) {
	b.Set(i, !b.IsPressed(i))
}

// IsPressed returns the state of an input.
func (b *Bitmask) IsPressed(i Input) bool {
	if i < 0 || i >= NumInputs {
		return false
	}
	return b.v.Load()&(1<<i) != 0
}

// Value returns the packed bitmask.
func (b *Bitmask) Value() uint64 {
	return b.v.Load()
}

// Clear releases all inputs.
func (b *Bitmask) Clear() {
	b.v.Store(0)
}

func (b *Bitmask) String() string {
	s := strings.Builder{}
	for i := Input(0); i < NumInputs; i++ {
		if b.IsPressed(i) {
			s.WriteString(i.String())
			s.WriteString(" ")
		}
	}
	return strings.TrimSpace(s.String())
}
