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


package regression

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/database"
	"github.com/jetsetilly/verihost/digest"
	"github.com/jetsetilly/verihost/hardware"
	"github.com/jetsetilly/verihost/hardware/clocks"
	"github.com/jetsetilly/verihost/hardware/download"
	"github.com/jetsetilly/verihost/hardware/model/synthetic"
	"github.com/jetsetilly/verihost/hardware/television"
)

const digestEntryType = "digest"

// separates the download files in the files field
const fileSep = ";"

// the capacity of the audio ring buffer used by the regression run
const ringCapacity = 8192

const (
	digestFieldWidth int = iota
	digestFieldHeight
	digestFieldDivisor
	digestFieldSteps
	digestFieldIndex
	digestFieldMode
	digestFieldFiles
	digestFieldVideo
	digestFieldAudio
	digestFieldNotes
	numDigestFields
)

// DigestRegression is a regression test of a headless run of the synthetic
// model. Files are downloaded to the model in order before the run starts.
type DigestRegression struct {
	Width   int
	Height  int
	Divisor int
	Steps   int
	Index   uint8
	Mode    DigestMode
	Files   []string
	Notes   string

	videoDigest string
	audioDigest string
}

// NewDigestRegression is the preferred method of initialisation for the
// DigestRegression type.
func NewDigestRegression(steps int, mode DigestMode, files ...string) (*DigestRegression, error) {
	if steps < 1 {
		return nil, curated.Errorf("regression: digest: %v", fmt.Sprintf("number of steps must be positive (%d)", steps))
	}
	if mode == DigestUndefined {
		return nil, curated.Errorf("regression: digest: %v", "undefined digest mode")
	}

	return &DigestRegression{
		Width:   synthetic.DefaultConfig.Width,
		Height:  synthetic.DefaultConfig.Height,
		Divisor: 1,
		Steps:   steps,
		Mode:    mode,
		Files:   files,
	}, nil
}

func deserialiseDigestEntry(_ int, fields []string) (database.Entry, error) {
	if len(fields) != numDigestFields {
		return nil, curated.Errorf("regression: digest: %v", "wrong number of fields")
	}

	reg := &DigestRegression{
		Files:       []string{},
		Notes:       fields[digestFieldNotes],
		videoDigest: fields[digestFieldVideo],
		audioDigest: fields[digestFieldAudio],
	}

	var err error

	ints := []struct {
		field int
		dest  *int
	}{
		{digestFieldWidth, &reg.Width},
		{digestFieldHeight, &reg.Height},
		{digestFieldDivisor, &reg.Divisor},
		{digestFieldSteps, &reg.Steps},
	}
	for _, i := range ints {
		*i.dest, err = strconv.Atoi(fields[i.field])
		if err != nil {
			return nil, curated.Errorf("regression: digest: %v", fmt.Sprintf("invalid field (%s)", fields[i.field]))
		}
	}

	idx, err := strconv.ParseUint(fields[digestFieldIndex], 10, 8)
	if err != nil {
		return nil, curated.Errorf("regression: digest: %v", fmt.Sprintf("invalid index (%s)", fields[digestFieldIndex]))
	}
	reg.Index = uint8(idx)

	reg.Mode, err = ParseDigestMode(fields[digestFieldMode])
	if err != nil {
		return nil, curated.Errorf("regression: digest: %v", err)
	}

	if fields[digestFieldFiles] != "" {
		reg.Files = strings.Split(fields[digestFieldFiles], fileSep)
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg DigestRegression) ID() string {
	return digestEntryType
}

// String implements the database.Entry interface.
func (reg DigestRegression) String() string {
	s := strings.Builder{}
	fmt.Fprintf(&s, "[%s/%s] %dx%d steps=%d", reg.ID(), reg.Mode, reg.Width, reg.Height, reg.Steps)
	if reg.Divisor != 1 {
		fmt.Fprintf(&s, " divisor=%d", reg.Divisor)
	}
	if len(reg.Files) > 0 {
		fmt.Fprintf(&s, " [%d] %s", reg.Index, strings.Join(reg.Files, " "))
	}
	if reg.Notes != "" {
		fmt.Fprintf(&s, " (%s)", reg.Notes)
	}
	return s.String()
}

// Serialise implements the database.Entry interface.
func (reg *DigestRegression) Serialise() ([]string, error) {
	for _, f := range reg.Files {
		if strings.Contains(f, fileSep) {
			return nil, curated.Errorf("regression: digest: %v", fmt.Sprintf("illegal filename (%s)", f))
		}
	}

	return []string{
		strconv.Itoa(reg.Width),
		strconv.Itoa(reg.Height),
		strconv.Itoa(reg.Divisor),
		strconv.Itoa(reg.Steps),
		strconv.Itoa(int(reg.Index)),
		reg.Mode.String(),
		strings.Join(reg.Files, fileSep),
		reg.videoDigest,
		reg.audioDigest,
		reg.Notes,
	}, nil
}

// CleanUp implements the database.Entry interface.
func (reg DigestRegression) CleanUp() error {
	return nil
}

// run the synthetic model and return the video and audio digests.
func (reg *DigestRegression) run() (string, string, error) {
	syncfg := synthetic.DefaultConfig
	syncfg.Width = reg.Width
	syncfg.Height = reg.Height

	syn, err := synthetic.NewSynthetic(syncfg)
	if err != nil {
		return "", "", err
	}

	clk, err := clocks.NewDomain("sys", syncfg.Clock, reg.Divisor)
	if err != nil {
		return "", "", err
	}

	spec := television.Spec{
		ID:     "regression",
		Width:  syncfg.Width,
		Height: syncfg.Height,
	}

	sim, err := hardware.NewSim(syn, hardware.NewConfig(), spec, ringCapacity, clk)
	if err != nil {
		return "", "", err
	}

	vdig := digest.NewVideo(sim.TV)
	adig := digest.NewAudio()
	sim.Audio.AddMixer(adig)

	for _, fn := range reg.Files {
		sim.Enqueue(download.NewJob(fn, reg.Index, false))
	}

	if err := sim.RunSteps(reg.Steps, nil); err != nil {
		return "", "", err
	}

	if err := sim.Download.LastError(); err != nil {
		return "", "", err
	}

	// ending the simulation flushes the audio digest
	if err := sim.End(); err != nil {
		return "", "", err
	}

	return vdig.Hash(), adig.Hash(), nil
}

// regress implements the Regressor interface.
func (reg *DigestRegression) regress(newRegression bool, output io.Writer, msg string) (bool, string, error) {
	fmt.Fprintf(output, "%s", msg)

	video, audio, err := reg.run()
	if err != nil {
		return false, "", curated.Errorf("regression: digest: %v", err)
	}

	if newRegression {
		reg.videoDigest = video
		reg.audioDigest = audio
		return true, "", nil
	}

	if reg.Mode.video() && video != reg.videoDigest {
		return false, "video digest mismatch", nil
	}
	if reg.Mode.audio() && audio != reg.audioDigest {
		return false, "audio digest mismatch", nil
	}

	return true, "", nil
}
