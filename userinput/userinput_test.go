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
package userinput_test

import (
	"sync"
	"testing"

	"github.com/jetsetilly/verihost/test"
	"github.com/jetsetilly/verihost/userinput"
)

func TestParse(t *testing.T) {
	i, ok := userinput.Parse(" fire1 ")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, i, userinput.Fire1)

	_, ok = userinput.Parse("jump")
	test.ExpectFailure(t, ok)

	for i := userinput.Input(0); i < userinput.NumInputs; i++ {
		p, ok := userinput.Parse(i.String())
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, p, i)
	}
}

func TestBitmask(t *testing.T) {
	var b userinput.Bitmask

	b.Set(userinput.Right, true)
	b.Set(userinput.Pause, true)
	test.ExpectEquality(t, b.Value(), uint64(0x801))
	test.ExpectEquality(t, b.String(), "RIGHT PAUSE")

	b.Toggle(userinput.Right)
	test.ExpectEquality(t, b.Value(), uint64(0x800))
	test.ExpectFailure(t, b.IsPressed(userinput.Right))

	// out of range inputs are ignored
	b.Set(userinput.NumInputs, true)
	b.Set(-1, true)
	test.ExpectEquality(t, b.Value(), uint64(0x800))

	b.Clear()
	test.ExpectEquality(t, b.Value(), uint64(0))
}

func TestConcurrentSet(t *testing.T) {
	var b userinput.Bitmask
	var wg sync.WaitGroup
	for i := userinput.Input(0); i < userinput.NumInputs; i++ {
		wg.Add(1)
		go func(i userinput.Input) {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				b.Set(i, true)
			}
		}(i)
	}
	wg.Wait()
	test.ExpectEquality(t, b.Value(), uint64(0xfff))
}
