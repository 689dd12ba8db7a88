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
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/govern"
	"github.com/jetsetilly/verihost/hardware"
	"github.com/jetsetilly/verihost/hardware/download"
	"github.com/jetsetilly/verihost/logger"
	"github.com/jetsetilly/verihost/rewind"
	"github.com/jetsetilly/verihost/userinput"
	"golang.org/x/term"
)

// console keywords
const (
	cmdRun    = "RUN"
	cmdStop   = "STOP"
	cmdStep   = "STEP"
	cmdMulti  = "MULTI"
	cmdReset  = "RESET"
	cmdQueue  = "QUEUE"
	cmdSave   = "SAVE"
	cmdLoad   = "LOAD"
	cmdRewind = "REWIND"
	cmdTrace  = "TRACE"
	cmdInput  = "INPUT"
	cmdStatus = "STATUS"
	cmdLog    = "LOG"
	cmdHelp   = "HELP"
	cmdQuit   = "QUIT"
)

var help = []string{
	cmdRun,
	cmdStop,
	cmdStep,
	cmdMulti + " [n]",
	cmdReset,
	cmdQueue + " <file> <index> [EXCL]",
	cmdSave + " [file]",
	cmdLoad + " [file]",
	cmdRewind + " [n|LAST|FRAME <n>]",
	cmdTrace + " <ON|OFF|FLUSH>",
	cmdInput + " <name> [ON|OFF]",
	cmdStatus,
	cmdLog + " [n]",
	cmdHelp,
	cmdQuit,
}

// UnknownCommand is returned by Command() for unrecognised keywords.
const UnknownCommand = "console: unknown command (%s)"

// InvalidArgs is returned by Command() when the arguments for a command are
// wrong.
const InvalidArgs = "console: %s: %v"

const prompt = "> "

// the number of log entries shown by the LOG command by default
const defaultLogTail = 10

// lineReader is satisfied by term.Terminal.
type lineReader interface {
	ReadLine() (string, error)
}

// scanReader is a lineReader for input that is not a terminal.
type scanReader struct {
	scanner *bufio.Scanner
}

func (s scanReader) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Console services commands for a simulation.
type Console struct {
	sim    *hardware.Sim
	input  lineReader
	output io.Writer

	// rewind is optional
	rewind *rewind.Rewind

	// restores the terminal state on CleanUp()
	restore func()

	quit bool
}

// NewConsole is the preferred method of initialisation for the Console type.
// Commands are read from input and responses are written to output.
func NewConsole(sim *hardware.Sim, input io.Reader, output io.Writer) *Console {
	return &Console{
		sim:     sim,
		input:   scanReader{scanner: bufio.NewScanner(input)},
		output:  output,
		restore: func() {},
	}
}

// NewTerminalConsole creates a Console that uses the process's standard input
// and output. If standard input is a terminal then it is put into raw mode
// and CleanUp() must be called to restore it.
func NewTerminalConsole(sim *hardware.Sim) (*Console, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return NewConsole(sim, os.Stdin, os.Stdout), nil
	}

	st, err := term.MakeRaw(fd)
	if err != nil {
		return nil, curated.Errorf("console: %v", err)
	}

	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(rw, prompt)

	return &Console{
		sim:    sim,
		input:  t,
		output: t,
		restore: func() {
			_ = term.Restore(fd, st)
		},
	}, nil
}

// AttachRewind enables the REWIND command.
func (con *Console) AttachRewind(r *rewind.Rewind) {
	con.rewind = r
}

// CleanUp restores the terminal to its original state.
func (con *Console) CleanUp() {
	con.restore()
}

func (con *Console) printLine(s string, args ...any) {
	con.output.Write([]byte(fmt.Sprintf(s, args...)))
	con.output.Write([]byte("\n"))
}

// Run services commands until the QUIT command, the end of input or the end
// of the simulation. Between commands the simulation is stepped according to
// its Config.
func (con *Console) Run() error {
	lines := make(chan string)

	// the reader stops at the next line once Run() has returned
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		for {
			s, err := con.input.ReadLine()
			if err != nil {
				if err != io.EOF {
					logger.Log(logger.Allow, "console", err)
				}
				return
			}
			select {
			case lines <- s:
			case <-done:
				return
			}
		}
	}()

	for {
		ran, err := con.sim.Batch()
		if err != nil {
			return curated.Errorf("console: %v", err)
		}
		if con.sim.State() == govern.Finished {
			con.printLine("simulation finished at time %d", con.sim.Time())
			return nil
		}

		var line string
		var ok bool

		if ran {
			select {
			case line, ok = <-lines:
			default:
				continue
			}
		} else {
			line, ok = <-lines
		}

		if !ok {
			return nil
		}

		if err := con.Command(line); err != nil {
			con.printLine("* %v", err)
		}
		if con.quit {
			return nil
		}
	}
}

// Command parses and performs a single command.
func (con *Console) Command(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}

	cmd := strings.ToUpper(tokens[0])
	args := tokens[1:]
	cfg := con.sim.Config

	switch cmd {
	case cmdRun:
		return cfg.RunEnable.Set(true)

	case cmdStop:
		return cfg.RunEnable.Set(false)

	case cmdStep:
		cfg.RequestStep()

	case cmdMulti:
		if len(args) > 0 {
			if err := cfg.MultiStepAmount.Set(args[0]); err != nil {
				return curated.Errorf(InvalidArgs, cmd, err)
			}
		}
		cfg.RequestMultiStep()

	case cmdReset:
		return con.sim.Reset()

	case cmdQueue:
		if len(args) < 2 {
			return curated.Errorf(InvalidArgs, cmd, "filename and index required")
		}
		idx, err := strconv.ParseUint(args[1], 0, 8)
		if err != nil {
			return curated.Errorf(InvalidArgs, cmd, err)
		}
		excl := len(args) > 2 && strings.HasPrefix(strings.ToUpper(args[2]), "EXCL")
		job := download.NewJob(args[0], uint8(idx), excl)
		con.sim.Enqueue(job)
		con.printLine("queued %s", job)

	case cmdSave, cmdLoad:
		fn := cfg.SaveFile.String()
		if len(args) > 0 {
			fn = args[0]
		}
		if cmd == cmdSave {
			return con.sim.SaveState(fn)
		}
		return con.sim.RestoreState(fn)

	case cmdRewind:
		return con.rewindCommand(args)

	case cmdTrace:
		if len(args) == 0 {
			con.printLine("trace: %v", cfg.Trace.Value())
			return nil
		}
		switch strings.ToUpper(args[0]) {
		case "ON":
			return cfg.Trace.Set(true)
		case "OFF":
			return cfg.Trace.Set(false)
		case "FLUSH":
			return con.sim.FlushTrace()
		default:
			return curated.Errorf(InvalidArgs, cmd, args[0])
		}

	case cmdInput:
		if len(args) == 0 {
			con.printLine("%s", con.sim.Input)
			return nil
		}
		in, ok := userinput.Parse(args[0])
		if !ok {
			return curated.Errorf(InvalidArgs, cmd, fmt.Sprintf("unknown input %s", args[0]))
		}
		if len(args) == 1 {
			con.sim.Input.Toggle(in)
			return nil
		}
		switch strings.ToUpper(args[1]) {
		case "ON":
			con.sim.Input.Set(in, true)
		case "OFF":
			con.sim.Input.Set(in, false)
		default:
			return curated.Errorf(InvalidArgs, cmd, args[1])
		}

	case cmdStatus:
		con.status()

	case cmdLog:
		n := defaultLogTail
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return curated.Errorf(InvalidArgs, cmd, err)
			}
			n = v
		}
		logger.Tail(con.output, n)

	case cmdHelp:
		for _, h := range help {
			con.printLine("%s", h)
		}

	case cmdQuit:
		con.quit = true

	default:
		return curated.Errorf(UnknownCommand, tokens[0])
	}

	return nil
}

func (con *Console) rewindCommand(args []string) error {
	if con.rewind == nil {
		return curated.Errorf(InvalidArgs, cmdRewind, "rewind not available")
	}

	var fn int
	var err error

	switch {
	case len(args) == 0:
		fn, err = con.rewind.Back(1)
	case strings.ToUpper(args[0]) == "LAST":
		err = con.rewind.GotoLast()
		fn = con.rewind.GetFrames().End
	case strings.ToUpper(args[0]) == "FRAME":
		if len(args) < 2 {
			return curated.Errorf(InvalidArgs, cmdRewind, "frame number required")
		}
		f, perr := strconv.Atoi(args[1])
		if perr != nil {
			return curated.Errorf(InvalidArgs, cmdRewind, perr)
		}
		fn, err = con.rewind.GotoFrame(f)
	default:
		n, perr := strconv.Atoi(args[0])
		if perr != nil || n < 0 {
			return curated.Errorf(InvalidArgs, cmdRewind, args[0])
		}
		fn, err = con.rewind.Back(n)
	}

	if err != nil {
		return err
	}

	con.printLine("rewound to frame %d (time %d)", fn, con.sim.Time())
	return nil
}

func (con *Console) status() {
	sim := con.sim
	con.printLine("state: %s  time: %d", sim.State(), sim.Time())
	con.printLine("frame: %d  fps: %.2f", sim.TV.FrameNum(), sim.TV.GetActualFPS())

	if job, n, ok := sim.Download.Active(); ok {
		con.printLine("download: %s (%d bytes)  pending: %d", job, n, sim.Download.Pending())
	} else {
		con.printLine("download: idle  pending: %d", sim.Download.Pending())
	}
	if err := sim.Download.LastError(); err != nil {
		con.printLine("last download error: %v", err)
	}

	if con.rewind != nil {
		con.printLine("%s", con.rewind)
	}

	con.printLine("input: %s", sim.Input)
	con.printLine("%s", sim.Config)
}
