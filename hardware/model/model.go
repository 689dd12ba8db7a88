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
package model

// Port is the name of a signal on the model.
type Port string

// Model is the minimum set of operations needed to simulate a hardware model.
type Model interface {
	// Set the value of an input port. Ports that the model does not know
	// about should be ignored.
	Set(port Port, value uint64)

	// Get the value of an output port. Ports that the model does not know
	// about should return zero.
	Get(port Port) uint64

	// Eval evaluates the model with the current input values.
	Eval()

	// GotFinish returns true when the model has reached a terminal condition.
	GotFinish() bool
}

// Finaliser is implemented by models that need to be told that simulation
// has finished.
type Finaliser interface {
	Final()
}

// SaveStater is implemented by models whose entire state can be serialised.
// Deserialising the data returned by Serialize() into a fresh instance of the
// same model must result in a model that behaves identically.
type SaveStater interface {
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}

// PortInfo describes one port of the model.
type PortInfo struct {
	Name  Port
	Width int
}

// Prober is implemented by models that can list their ports. It is used by
// trace capture to decide which signals to record.
type Prober interface {
	Ports() []PortInfo
}

// Bool converts a boolean to a port value.
func Bool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
