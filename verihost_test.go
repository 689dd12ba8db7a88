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
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/verihost/test"
)

// prepare a local resource directory so that the user's config directory is
// not touched
func prepare(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	test.DemandSuccess(t, os.Mkdir(".verihost", 0700))
	return dir
}

func digests(s string) string {
	var d []string
	for _, l := range strings.Split(s, "\n") {
		if strings.Contains(l, "digest:") {
			d = append(d, l)
		}
	}
	return strings.Join(d, "\n")
}

func TestHeadless(t *testing.T) {
	dir := prepare(t)

	rom := filepath.Join(dir, "boot.rom")
	test.DemandSuccess(t, os.WriteFile(rom, []byte{0x10, 0x20, 0x30}, 0644))

	png := filepath.Join(dir, "final.png")
	wav := filepath.Join(dir, "audio.wav")

	out := &test.CompareWriter{}
	r := launch([]string{"headless", "-steps", "20000", "-png", png, "-zoom", "2", "-wav", wav, rom}, out)
	test.DemandEquality(t, r, 0, out.String())

	s := out.String()
	test.ExpectSuccess(t, strings.Contains(s, "cycles: 10000"), s)
	test.ExpectSuccess(t, strings.Contains(s, "downloaded: 3 bytes"), s)
	test.ExpectSuccess(t, strings.Contains(s, "video digest:"), s)
	test.ExpectSuccess(t, strings.Contains(s, "audio digest:"), s)

	_, err := os.Stat(png)
	test.ExpectSuccess(t, err)
	_, err = os.Stat(wav)
	test.ExpectSuccess(t, err)

	// the same run produces the same digests
	out2 := &test.CompareWriter{}
	r = launch([]string{"headless", "-steps", "20000", rom}, out2)
	test.DemandEquality(t, r, 0, out2.String())
	test.ExpectEquality(t, digests(out2.String()), digests(s))

	// a different picture size produces different digests
	out3 := &test.CompareWriter{}
	r = launch([]string{"headless", "-steps", "20000", "-width", "16", rom}, out3)
	test.DemandEquality(t, r, 0, out3.String())
	test.ExpectInequality(t, digests(out3.String()), digests(s))
}

func TestHeadlessState(t *testing.T) {
	dir := prepare(t)
	state := filepath.Join(dir, "state")
	viz := filepath.Join(dir, "state.dot")

	out := &test.CompareWriter{}
	r := launch([]string{"headless", "-steps", "100", "-save", state, "-memviz", viz}, out)
	test.DemandEquality(t, r, 0, out.String())

	_, err := os.Stat(state)
	test.ExpectSuccess(t, err)
	_, err = os.Stat(viz)
	test.ExpectSuccess(t, err)
}

func TestHeadlessScript(t *testing.T) {
	dir := prepare(t)
	lua := filepath.Join(dir, "init.lua")
	test.DemandSuccess(t, os.WriteFile(lua, []byte("run(10)"), 0644))

	out := &test.CompareWriter{}
	r := launch([]string{"headless", "-steps", "10", "-script", lua}, out)
	test.DemandEquality(t, r, 0, out.String())
	test.ExpectSuccess(t, strings.Contains(out.String(), "cycles: 10"), out.String())
}

func TestErrors(t *testing.T) {
	prepare(t)

	out := &test.CompareWriter{}
	test.ExpectEquality(t, launch([]string{"-nosuchflag"}, out), 10)

	out.Clear()
	test.ExpectEquality(t, launch([]string{"headless", "-divisor", "0"}, out), 20)
	test.ExpectSuccess(t, strings.Contains(out.String(), "error in HEADLESS mode"), out.String())

	out.Clear()
	test.ExpectEquality(t, launch([]string{"headless", "-rotate", "2"}, out), 20)

	out.Clear()
	test.ExpectEquality(t, launch([]string{"headless", "-script", "missing.lua"}, out), 20)
}

func TestVersion(t *testing.T) {
	out := &test.CompareWriter{}
	test.ExpectEquality(t, launch([]string{"version"}, out), 0)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "Verihost"))
}

func TestRegress(t *testing.T) {
	dir := prepare(t)

	rom := filepath.Join(dir, "boot.rom")
	test.DemandSuccess(t, os.WriteFile(rom, []byte{0x10, 0x21}, 0644))

	out := &test.CompareWriter{}
	r := launch([]string{"regress", "add", "-steps", "5000", "-notes", "boot", rom}, out)
	test.DemandEquality(t, r, 0, out.String())
	test.ExpectSuccess(t, strings.Contains(out.String(), "added: 000"), out.String())

	out.Clear()
	r = launch([]string{"regress", "list"}, out)
	test.DemandEquality(t, r, 0, out.String())
	test.ExpectSuccess(t, strings.Contains(out.String(), "(boot)"), out.String())

	out.Clear()
	r = launch([]string{"regress", "run"}, out)
	test.DemandEquality(t, r, 0, out.String())
	test.ExpectSuccess(t, strings.Contains(out.String(), "1 succeed, 0 fail"), out.String())

	out.Clear()
	test.ExpectEquality(t, launch([]string{"regress", "add", "-mode", "pictures"}, out), 20)

	out.Clear()
	r = launch([]string{"regress", "delete", "-yes", "0"}, out)
	test.DemandEquality(t, r, 0, out.String())

	out.Clear()
	r = launch([]string{"regress", "list"}, out)
	test.DemandEquality(t, r, 0, out.String())
	test.ExpectSuccess(t, strings.Contains(out.String(), "database is empty"), out.String())
}
