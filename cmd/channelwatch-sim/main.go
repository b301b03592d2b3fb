// Command channelwatch-sim runs a single simulation and prints its
// summary, the direct analogue of original_source/Simulator.py run as
// a script with a fixed sender count.
package main

/*------------------------------------------------------------------
 *
 * Purpose:   	Run one simulation to completion and report the result.
 *
 * Description:	Loads YAML configuration, layers command-line overrides
 *		on top (github.com/spf13/pflag, matching every teacher
 *		cmd/<tool>/main.go), and drives channelwatch.Simulator for the
 *		configured step count. --interactive puts the controlling
 *		terminal in raw mode via github.com/pkg/term so a single
 *		keypress (space=pause/resume, s=single-step, q=quit) controls
 *		the live run instead of it running straight to stepLimit.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/term"
	"github.com/spf13/pflag"

	channelwatch "github.com/chwatch/channelwatch/src"
)

func main() {
	fs := pflag.NewFlagSet("channelwatch-sim", pflag.ExitOnError)
	handle := channelwatch.RegisterFlags(fs)
	verbose := fs.BoolP("verbose", "v", false, "Log per-tick transitions to stderr.")
	interactive := fs.Bool("interactive", false, "Control the live run with single keypresses (space=pause, s=step, q=quit).")
	fs.Parse(os.Args[1:])

	cfg, err := channelwatch.LoadConfig(handle.ConfigFile())
	if err != nil {
		fmt.Fprintln(os.Stderr, "channelwatch-sim:", err)
		os.Exit(1)
	}
	handle.ApplyFlags(fs, &cfg)

	mode, err := channelwatch.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "channelwatch-sim:", err)
		os.Exit(1)
	}

	logger := channelwatch.NewDiscardLogger()
	if *verbose {
		logger = channelwatch.NewLogger(os.Stderr, log.DebugLevel)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	simCfg := channelwatch.SimulatorConfig{
		NumChannels: cfg.NumChannels,
		NumSenders:  cfg.NumSenders,
		Mode:        mode,
		SwitchTime:  cfg.SwitchTime,
		DwellTime:   cfg.DwellTime,
		IntervalMS:  cfg.IntervalMS,
		Rand:        rand.New(rand.NewSource(seed)),
		Logger:      logger,
	}

	if cfg.MaxRangeMeters > 0 {
		simCfg.Propagation = &channelwatch.PropagationModel{
			ReceiverSiteLat: cfg.ReceiverSiteLat,
			ReceiverSiteLon: cfg.ReceiverSiteLon,
			MaxRangeMeters:  cfg.MaxRangeMeters,
		}
		channelwatch.WriteReceiverSitePosition(os.Stdout, cfg.ReceiverSiteLat, cfg.ReceiverSiteLon)
	}

	sim := channelwatch.NewSimulator(simCfg)

	stepLimit := cfg.StepLimit
	if stepLimit <= 0 {
		stepLimit = 60_000
	}

	if *interactive {
		if err := runInteractive(sim, stepLimit); err != nil {
			fmt.Fprintln(os.Stderr, "channelwatch-sim:", err)
			os.Exit(1)
		}
	} else {
		sim.Run(stepLimit)
	}

	channelwatch.WriteConsoleSummary(os.Stdout, sim.Bank())
	fmt.Fprintln(os.Stdout)
	channelwatch.WriteSenderTable(os.Stdout, sim.Receivers())
}

// runInteractive puts the controlling terminal in raw mode and lets a
// single keypress drive the live run one tick at a time: space toggles
// pause/resume, s advances exactly one tick while paused, q stops the
// run early. While running (not paused), ticks advance on their own at
// a fixed cadence so the trace can be watched rather than read.
func runInteractive(sim *channelwatch.Simulator, stepLimit int) error {
	t, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return fmt.Errorf("opening controlling terminal: %w", err)
	}
	defer t.Restore()
	defer t.Close()

	fmt.Fprintln(os.Stderr, "space=pause/resume  s=single-step  q=quit")

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := t.Read(buf)
			if err != nil || n == 0 {
				close(keys)
				return
			}
			keys <- buf[0]
		}
	}()

	const tickInterval = 10 * time.Millisecond
	paused := false
	for stepLimit <= 0 || sim.CurTimestep() < stepLimit {
		select {
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			switch k {
			case ' ':
				paused = !paused
			case 's':
				sim.Run(sim.CurTimestep() + 1)
			case 'q':
				return nil
			}
		case <-time.After(tickInterval):
			if !paused {
				sim.Run(sim.CurTimestep() + 1)
			}
		}
	}
	return nil
}
