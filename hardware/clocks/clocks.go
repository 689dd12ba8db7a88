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
package clocks

import (
	"fmt"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/hardware/model"
)

// InvalidDivisor is returned by NewDomain() when the divisor is less than one.
const InvalidDivisor = "clocks: invalid divisor for %s (%d)"

// Domain is a single clock signal.
type Domain struct {
	// name of the domain for logging and tracing
	Name string

	// the model port that the level of the clock is driven into
	Port model.Port

	divisor int
	phase   int
	level   bool

	// edge flags are only valid for the most recent call to Tick()
	rising  bool
	falling bool
}

// NewDomain is the preferred method of initialisation for the Domain type.
func NewDomain(name string, port model.Port, divisor int) (*Domain, error) {
	if divisor < 1 {
		return nil, curated.Errorf(InvalidDivisor, name, divisor)
	}
	return &Domain{
		Name:    name,
		Port:    port,
		divisor: divisor,
	}, nil
}

func (d *Domain) String() string {
	return fmt.Sprintf("%s: div=%d phase=%d level=%v", d.Name, d.divisor, d.phase, d.level)
}

// Divisor returns the value given to NewDomain().
func (d *Domain) Divisor() int {
	return d.divisor
}

// Tick advances the phase counter of the domain by one.
func (d *Domain) Tick() {
	d.rising = false
	d.falling = false

	d.phase++
	if d.phase < d.divisor {
		return
	}

	d.phase = 0
	d.level = !d.level
	d.rising = d.level
	d.falling = !d.level
}

// IsRising returns true if the most recent call to Tick() set the level high.
func (d *Domain) IsRising() bool {
	return d.rising
}

// IsFalling returns true if the most recent call to Tick() set the level low.
func (d *Domain) IsFalling() bool {
	return d.falling
}

// Level returns the current level of the clock.
func (d *Domain) Level() bool {
	return d.level
}

// Reset the domain to its initial phase. The level is forced low and no edge
// is reported until the next toggle.
func (d *Domain) Reset() {
	d.phase = 0
	d.level = false
	d.rising = false
	d.falling = false
}

// State is the part of a Domain that is saved and restored with the rest of
// the simulation.
type State struct {
	Phase int
	Level bool
}

// Snapshot returns the current state of the domain.
func (d *Domain) Snapshot() State {
	return State{Phase: d.phase, Level: d.level}
}

// Plumb the domain with a previously taken snapshot. Edge flags are cleared.
func (d *Domain) Plumb(s State) {
	d.phase = s.Phase
	d.level = s.Level
	d.rising = false
	d.falling = false
}
