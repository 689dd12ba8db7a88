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
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/verihost/console"
	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/digest"
	"github.com/jetsetilly/verihost/govern"
	"github.com/jetsetilly/verihost/hardware"
	"github.com/jetsetilly/verihost/hardware/audio"
	"github.com/jetsetilly/verihost/hardware/clocks"
	"github.com/jetsetilly/verihost/hardware/download"
	"github.com/jetsetilly/verihost/hardware/model"
	"github.com/jetsetilly/verihost/hardware/model/synthetic"
	"github.com/jetsetilly/verihost/hardware/television"
	"github.com/jetsetilly/verihost/logger"
	"github.com/jetsetilly/verihost/modalflag"
	"github.com/jetsetilly/verihost/paths"
	"github.com/jetsetilly/verihost/performance"
	"github.com/jetsetilly/verihost/playback"
	"github.com/jetsetilly/verihost/prefs"
	"github.com/jetsetilly/verihost/regression"
	"github.com/jetsetilly/verihost/rewind"
	"github.com/jetsetilly/verihost/screenshot"
	"github.com/jetsetilly/verihost/script"
	"github.com/jetsetilly/verihost/statsview"
	"github.com/jetsetilly/verihost/trace"
	"github.com/jetsetilly/verihost/version"
	"github.com/jetsetilly/verihost/wavwriter"
)

const prefsFile = "prefs"

// the capacity of the audio ring buffer
const ringCapacity = 8192

func main() {
	// ctrl-c ends the program. the console restores the terminal before
	// exiting
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	go func() {
		<-intChan
		fmt.Println("\r")
		os.Exit(0)
	}()

	os.Exit(launch(os.Args[1:], os.Stdout))
}

// launch the program with the supplied arguments. returns the exit value
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "HEADLESS", "PERFORMANCE", "REGRESS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, output)
	case "HEADLESS":
		err = headless(md, output)
	case "PERFORMANCE":
		err = perform(md, output)
	case "REGRESS":
		err = regress(md, os.Stdin)
	case "VERSION":
		v, r, _ := version.Version()
		fmt.Fprintf(output, "%s %s (%s)\n", version.ApplicationName, v, r)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return 20
	}

	return 0
}

// options common to all simulation modes
type simOptions struct {
	width    *int
	height   *int
	rotate   *int
	flipV    *bool
	divisor  *int
	index    *int
	excl     *bool
	script   *string
	trace    *string
	prefsDsk *bool
	log      *bool
	stats    *bool
}

func addSimOptions(md *modalflag.Modes) *simOptions {
	opts := &simOptions{
		width:    md.AddInt("width", synthetic.DefaultConfig.Width, "width of the visible picture"),
		height:   md.AddInt("height", synthetic.DefaultConfig.Height, "height of the visible picture"),
		rotate:   md.AddInt("rotate", 0, "rotate picture: 1 clockwise, -1 anti-clockwise"),
		flipV:    md.AddBool("flipv", false, "flip picture vertically"),
		divisor:  md.AddInt("divisor", 1, "divisor of the primary clock domain"),
		index:    md.AddInt("index", 0, "download index for files named on the command line"),
		excl:     md.AddBool("exclusive", false, "download jobs are exclusive"),
		script:   md.AddString("script", "", "lua script to run before handing over control"),
		trace:    md.AddString("trace", "", "capture a VCD trace to the named file"),
		prefsDsk: md.AddBool("saveprefs", false, "save preferences on exit"),
		log:      md.AddBool("log", false, "echo log to output"),
		stats:    md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address)),
	}
	md.AddPref("batch", "sim.batchSize", "number of steps in a batch")
	md.AddPref("multi", "sim.multiStepAmount", "number of steps in a multi-step")
	md.AddPref("reset", "sim.initialReset", "hold reset for the number of cycles")
	md.AddPref("depth", "sim.colourDepth", "width of each colour channel in bits")
	md.AddPrefs("prefs", "preferences override: \"key::value; key::value\"")
	return opts
}

// create a simulation of the synthetic model using the command line options.
// the returned function must be called when the simulation is finished with
func newSim(md *modalflag.Modes, opts *simOptions, output io.Writer) (*hardware.Sim, func() error, error) {
	if *opts.log {
		logger.SetEcho(output, false)
	} else {
		logger.SetEcho(nil, false)
	}

	if *opts.stats {
		if statsview.Available() {
			statsview.Launch(output, "")
		} else {
			fmt.Fprintln(output, "* statsview not available in this build")
		}
	}

	cfg := hardware.NewConfig()
	pth, err := paths.ResourcePath("", prefsFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.AttachDisk(pth); err != nil {
		return nil, nil, err
	}

	syncfg := synthetic.DefaultConfig
	syncfg.Width = *opts.width
	syncfg.Height = *opts.height
	syncfg.ColourMax = (1 << cfg.ColourDepth.Value()) - 1

	syn, err := synthetic.NewSynthetic(syncfg)
	if err != nil {
		return nil, nil, err
	}

	clk, err := clocks.NewDomain("sys", model.Port(syncfg.Clock), *opts.divisor)
	if err != nil {
		return nil, nil, err
	}

	spec := television.Spec{
		ID:       "synthetic",
		Width:    syncfg.Width,
		Height:   syncfg.Height,
		Rotation: *opts.rotate,
		FlipV:    *opts.flipV,
	}

	sim, err := hardware.NewSim(syn, cfg, spec, ringCapacity, clk)
	if err != nil {
		return nil, nil, err
	}

	sim.Tracer, err = trace.NewVCD(syn)
	if err != nil {
		return nil, nil, err
	}
	if *opts.trace != "" {
		if err := cfg.TraceFile.Set(*opts.trace); err != nil {
			return nil, nil, err
		}
		if err := cfg.Trace.Set(true); err != nil {
			return nil, nil, err
		}
	}

	if *opts.index < 0 || *opts.index > 255 {
		return nil, nil, curated.Errorf("download index out of range (%d)", *opts.index)
	}
	for _, fn := range md.RemainingArgs() {
		sim.Enqueue(download.NewJob(fn, uint8(*opts.index), *opts.excl))
	}

	if *opts.script != "" {
		if err := script.Run(sim, *opts.script); err != nil {
			return nil, nil, err
		}
	}

	end := func() error {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "verihost", "unused prefs: %s", unused)
		}
		if *opts.prefsDsk {
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		return sim.End()
	}

	return sim, end, nil
}

func run(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	opts := addSimOptions(md)
	sound := md.AddBool("sound", true, "play audio through the sound device")
	wav := md.AddString("wav", "", "record audio to wav file")
	rwnd := md.AddBool("rewind", true, "keep a history of frame snapshots")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sim, end, err := newSim(md, opts, output)
	if err != nil {
		return err
	}

	if *sound {
		ply, err := playback.New(sim.Config.SampleRate.Value())
		if err != nil {
			logger.Log(logger.Allow, "verihost", err)
		} else {
			sim.Audio.AddMixer(ply)
		}
	}

	if *wav != "" {
		aw, err := wavwriter.New(*wav, sim.Config.SampleRate.Value())
		if err != nil {
			return err
		}
		sim.Audio.AddMixer(aw)
	}

	con, err := console.NewTerminalConsole(sim)
	if err != nil {
		return err
	}
	defer con.CleanUp()

	if *rwnd {
		r, err := rewind.NewRewind(sim)
		if err != nil {
			return err
		}
		pth, err := paths.ResourcePath("", prefsFile)
		if err != nil {
			return err
		}
		if err := r.Prefs.AttachDisk(pth); err != nil {
			return err
		}
		if err := r.Reset(); err != nil {
			return err
		}
		con.AttachRewind(r)

		if *opts.prefsDsk {
			defer func() {
				if err := r.Prefs.Save(); err != nil {
					logger.Log(logger.Allow, "verihost", err)
				}
			}()
		}
	}

	if err := con.Run(); err != nil {
		return err
	}

	return end()
}

func headless(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	opts := addSimOptions(md)
	steps := md.AddInt("steps", 1000000, "number of steps to run")
	wav := md.AddString("wav", "", "record audio to wav file")
	wavRate := md.AddInt("wavrate", 0, "sample rate of the wav file (default is the model rate)")
	png := md.AddString("png", "", "save the final frame to a png file")
	zoom := md.AddInt("zoom", 1, "zoom factor of the png file")
	save := md.AddString("save", "", "save the simulation state at the end of the run")
	memvizFile := md.AddString("memviz", "", "write a graphviz description of the simulation state")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sim, end, err := newSim(md, opts, output)
	if err != nil {
		return err
	}

	vdig := digest.NewVideo(sim.TV)
	adig := digest.NewAudio()
	sim.Audio.AddMixer(adig)

	if *wav != "" {
		rate := sim.Config.SampleRate.Value()
		if *wavRate > 0 && *wavRate < rate {
			rate = *wavRate
		}

		aw, err := wavwriter.New(*wav, rate)
		if err != nil {
			return err
		}

		var mix audio.Mixer = aw
		if rate != sim.Config.SampleRate.Value() {
			mix, err = audio.NewDecimator(aw, audio.DecimationFactor(sim.Config.SampleRate.Value(), rate))
			if err != nil {
				return err
			}
		}
		sim.Audio.AddMixer(mix)
	}

	start := time.Now()
	if err := sim.RunSteps(*steps, nil); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if *png != "" {
		if f, ok := sim.TV.GetFrame(); ok {
			if err := screenshot.Save(f, *png, *zoom); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(output, "* no frame to save")
		}
	}

	if *save != "" {
		if err := sim.SaveState(*save); err != nil {
			return err
		}
	}

	if *memvizFile != "" {
		if err := writeMemviz(*memvizFile, sim); err != nil {
			return err
		}
	}

	fmt.Fprintf(output, "cycles: %d (%s)\n", sim.Time(), elapsed.Round(time.Millisecond))
	fmt.Fprintf(output, "frames: %d\n", sim.TV.FrameNum())
	fmt.Fprintf(output, "downloaded: %d bytes\n", sim.Download.Transferred())
	if err := sim.Download.LastError(); err != nil {
		fmt.Fprintf(output, "download error: %v\n", err)
	}
	if sim.State() == govern.Finished {
		fmt.Fprintln(output, "model finished")
	}

	// the audio digest includes samples flushed by the end of mixing
	if err := end(); err != nil {
		return err
	}

	fmt.Fprintf(output, "video digest: %s\n", vdig.Hash())
	fmt.Fprintf(output, "audio digest: %s\n", adig.Hash())

	return nil
}

func writeMemviz(filename string, sim *hardware.Sim) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	memviz.Map(f, sim.Clocks, sim.Download)
	return nil
}

func perform(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	opts := addSimOptions(md)
	duration := md.AddDuration("duration", 5*time.Second, "run duration")
	profile := md.AddString("profile", "none", "create profiling data: NONE, CPU, MEM, TRACE, ALL (comma separated)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	sim, end, err := newSim(md, opts, output)
	if err != nil {
		return err
	}

	if err := performance.Check(output, prf, sim, *duration); err != nil {
		return err
	}

	return end()
}

func regress(md *modalflag.Modes, confirmation io.Reader) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "RUN":
		md.NewMode()
		verbose := md.AddBool("verbose", false, "output more detail (eg. failure reasons)")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		return regression.RegressRun(md.Output, *verbose, md.RemainingArgs())

	case "LIST":
		md.NewMode()

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if len(md.RemainingArgs()) > 0 {
			return curated.Errorf("no additional arguments required for %s mode", md)
		}

		return regression.RegressList(md.Output)

	case "DELETE":
		md.NewMode()
		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return curated.Errorf("database key required for %s mode", md)
		case 1:
			if *answerYes {
				confirmation = strings.NewReader("y")
			}
			return regression.RegressDelete(md.Output, confirmation, md.GetArg(0))
		default:
			return curated.Errorf("only one entry can be deleted at a time")
		}

	case "ADD":
		return regressAdd(md)
	}

	return nil
}

func regressAdd(md *modalflag.Modes) error {
	md.NewMode()
	mode := md.AddString("mode", "both", "digests to compare: VIDEO, AUDIO or BOTH")
	steps := md.AddInt("steps", 100000, "number of steps to run")
	width := md.AddInt("width", synthetic.DefaultConfig.Width, "width of the visible picture")
	height := md.AddInt("height", synthetic.DefaultConfig.Height, "height of the visible picture")
	divisor := md.AddInt("divisor", 1, "divisor of the primary clock domain")
	index := md.AddInt("index", 0, "download index for the named files")
	notes := md.AddString("notes", "", "additional annotation for the database")

	md.AdditionalHelp(
		`Files named on the command line are downloaded to the model, in order, at the start
of the run. Paths are stored in the database as absolute paths.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	dm, err := regression.ParseDigestMode(*mode)
	if err != nil {
		return err
	}

	if *index < 0 || *index > 255 {
		return curated.Errorf("download index out of range (%d)", *index)
	}

	files := make([]string, 0, len(md.RemainingArgs()))
	for _, fn := range md.RemainingArgs() {
		abs, err := filepath.Abs(fn)
		if err != nil {
			return err
		}
		files = append(files, abs)
	}

	reg, err := regression.NewDigestRegression(*steps, dm, files...)
	if err != nil {
		return err
	}
	reg.Width = *width
	reg.Height = *height
	reg.Divisor = *divisor
	reg.Index = uint8(*index)
	reg.Notes = *notes

	return regression.RegressAdd(md.Output, reg)
}
