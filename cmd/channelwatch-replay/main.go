// Command channelwatch-replay plays back a recorded receiver trace,
// either as a scrolling pager transcript or sonified as audio.
package main

/*------------------------------------------------------------------
 *
 * Purpose:   	Replay a recorded (state, received) trace interactively.
 *
 * Description:	--pager formats the trace and pipes it through the
 *		user's pager over a real pseudo-terminal
 *		(github.com/creack/pty). --audio sonifies the trace through
 *		github.com/gordonklaus/portaudio. Single-keypress live control
 *		(space/s/q) lives on cmd/channelwatch-sim's --interactive
 *		instead, since only a live run has a Simulator to step.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	channelwatch "github.com/chwatch/channelwatch/src"
)

func main() {
	pager := pflag.Bool("pager", false, "Replay the trace through the user's pager over a PTY.")
	audio := pflag.Bool("audio", false, "Sonify the trace through the default audio device.")
	receiverIndex := pflag.IntP("receiver", "r", 0, "Which receiver's trace to replay.")
	pflag.Parse()

	sim := channelwatch.NewSimulator(channelwatch.SimulatorConfig{})
	sim.Run(channelwatch.DefaultDwellTime * 20)
	trace := sim.Trace(*receiverIndex)

	switch {
	case *pager:
		if err := replayThroughPager(trace); err != nil {
			fmt.Fprintln(os.Stderr, "channelwatch-replay:", err)
			os.Exit(1)
		}
	case *audio:
		if err := replayAsAudio(trace); err != nil {
			fmt.Fprintln(os.Stderr, "channelwatch-replay:", err)
			os.Exit(1)
		}
	default:
		writeTranscript(os.Stdout, trace)
	}
}

func writeTranscript(w io.Writer, trace []channelwatch.TraceEntry) {
	for i, e := range trace {
		mark := " "
		if e.Received {
			mark = "*"
		}
		fmt.Fprintf(w, "%6d  %-20s %s\n", i, e.State, mark)
	}
}

// replayThroughPager writes the transcript to a real PTY and hands the
// slave side to the user's $PAGER, matching src/kiss.go's pty.Open use.
func replayThroughPager(trace []channelwatch.TraceEntry) error {
	pagerPath := os.Getenv("PAGER")
	if pagerPath == "" {
		pagerPath = "less"
	}

	ptmx, pts, err := pty.Open()
	if err != nil {
		return fmt.Errorf("opening pty: %w", err)
	}
	defer ptmx.Close()
	defer pts.Close()

	cmd := exec.Command(pagerPath)
	cmd.Stdin = pts
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting pager %s: %w", pagerPath, err)
	}

	writeTranscript(ptmx, trace)
	pts.Close()

	return cmd.Wait()
}

// stateFrequencyHz maps a receiver state to a sonification tone.
func stateFrequencyHz(s channelwatch.State) float64 {
	switch s {
	case channelwatch.StateDwell:
		return 220.0
	case channelwatch.StateSwitch:
		return 0.0
	case channelwatch.StateSchedule:
		return 880.0
	case channelwatch.StateSwitchToSchedule:
		return 440.0
	default:
		return 0.0
	}
}

const sampleRate = 44100.0
const samplesPerTick = 256

func replayAsAudio(trace []channelwatch.TraceEntry) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	var phase float64
	buf := make([]float32, samplesPerTick)

	writeTone := func(freqHz float64, clickAt int) {
		for i := range buf {
			sample := float32(0)
			if freqHz > 0 {
				sample = float32(0.2 * math.Sin(phase))
				phase += 2 * math.Pi * freqHz / sampleRate
			}
			if i == clickAt {
				sample += 0.5
			}
			buf[i] = sample
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, len(buf), &buf)
	if err != nil {
		return fmt.Errorf("opening audio stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting audio stream: %w", err)
	}
	defer stream.Stop()

	for _, e := range trace {
		click := -1
		if e.Received {
			click = 0
		}
		writeTone(stateFrequencyHz(e.State), click)
		if err := stream.Write(); err != nil {
			return fmt.Errorf("writing audio buffer: %w", err)
		}
	}
	return nil
}
