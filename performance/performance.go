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
package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/govern"
	"github.com/jetsetilly/verihost/hardware"
)

// the number of steps between checks of the timer. checking the timer channel
// is relatively expensive
const performanceBrake = 1000

// Check the performance of the simulation by running it for the specified
// duration. The number of steps and frames per second is written to output.
// Profiles are generated as defined by the Profile argument.
func Check(output io.Writer, profile Profile, sim *hardware.Sim, duration time.Duration) error {
	if duration <= 0 {
		return curated.Errorf("performance: %v", "duration must be positive")
	}

	startTime := sim.Time()
	startFrame := sim.TV.FrameNum()

	runner := func() error {
		timesUp := make(chan bool, 1)
		time.AfterFunc(duration, func() {
			timesUp <- true
		})

		var expired bool
		brake := 0

		for !expired && sim.State() != govern.Finished {
			err := sim.RunSteps(performanceBrake, func() (govern.State, error) {
				brake++
				if brake < performanceBrake {
					return govern.Stepping, nil
				}
				brake = 0
				select {
				case <-timesUp:
					expired = true
					return govern.Idle, nil
				default:
					return govern.Stepping, nil
				}
			})
			if err != nil {
				return err
			}
		}
		return nil
	}

	start := time.Now()
	err := RunProfiler(profile, "performance", runner)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}
	secs := time.Since(start).Seconds()

	steps := sim.Time() - startTime
	frames := sim.TV.FrameNum() - startFrame
	output.Write([]byte(fmt.Sprintf("%.0f cycles/sec (%d cycles in %.2f seconds)\n", CalcRate(int(steps), secs), steps, secs)))
	output.Write([]byte(fmt.Sprintf("%.2f fps (%d frames)\n", CalcRate(frames, secs), frames)))

	return nil
}

// CalcRate takes the number of events and the duration (in seconds) and
// returns the events-per-second.
func CalcRate(n int, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return float64(n) / duration
}
