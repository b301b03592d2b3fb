// Command channelwatch-batch sweeps sender counts 1..40 and appends
// one CSV row per run, the direct analogue of
// original_source/Simulator.py's batch-run mode.
package main

/*------------------------------------------------------------------
 *
 * Purpose:   	Run a sweep of simulations over increasing sender counts
 *		and accumulate their results into one CSV file.
 *
 * Description:	Optionally announces itself over DNS-SD
 *		(github.com/brutella/dnssd, see src/announce.go) so a
 *		fleet-monitoring tool can discover the sweep while it runs,
 *		and names its result file with
 *		github.com/lestrrat-go/strftime if none is configured.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	channelwatch "github.com/chwatch/channelwatch/src"
)

func main() {
	fs := pflag.NewFlagSet("channelwatch-batch", pflag.ExitOnError)
	handle := channelwatch.RegisterFlags(fs)
	maxSenders := fs.Int("max-senders", channelwatch.DefaultNumChannels, "Sweep sender counts from 1 to this many.")
	fs.Parse(os.Args[1:])

	cfg, err := channelwatch.LoadConfig(handle.ConfigFile())
	if err != nil {
		fmt.Fprintln(os.Stderr, "channelwatch-batch:", err)
		os.Exit(1)
	}
	handle.ApplyFlags(fs, &cfg)

	mode, err := channelwatch.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "channelwatch-batch:", err)
		os.Exit(1)
	}

	resultsPath := cfg.ResultsCSV
	if resultsPath == "" {
		name, err := channelwatch.FormatResultFilename(cfg.FilenamePattern, time.Now())
		if err != nil {
			fmt.Fprintln(os.Stderr, "channelwatch-batch:", err)
			os.Exit(1)
		}
		resultsPath = name
	}

	logger := channelwatch.NewLogger(os.Stderr, log.InfoLevel)

	var stopAnnounce func()
	if cfg.AnnounceEnabled {
		stop, err := channelwatch.AnnounceBatchRun(context.Background(), logger, cfg.AnnounceName, 0)
		if err != nil {
			logger.Warn("failed to announce batch run", "error", err)
		} else {
			stopAnnounce = stop
			defer stopAnnounce()
		}
	}

	stepLimit := cfg.StepLimit
	if stepLimit <= 0 {
		stepLimit = 60_000
	}

	for n := 1; n <= *maxSenders; n++ {
		simCfg := channelwatch.SimulatorConfig{
			NumChannels: cfg.NumChannels,
			NumSenders:  n,
			Mode:        mode,
			SwitchTime:  cfg.SwitchTime,
			DwellTime:   cfg.DwellTime,
			IntervalMS:  cfg.IntervalMS,
			Rand:        rand.New(rand.NewSource(int64(n))),
			Logger:      channelwatch.NewDiscardLogger(),
		}

		sim := channelwatch.NewSimulator(simCfg)
		sim.Run(stepLimit)

		sent, received, lost := sim.Bank().Totals()
		row := channelwatch.BatchResultRow{
			NumSenders: n,
			Total:      sent,
			Received:   received,
			Lost:       lost,
		}
		if err := channelwatch.AppendResultsCSV(resultsPath, row); err != nil {
			fmt.Fprintln(os.Stderr, "channelwatch-batch:", err)
			os.Exit(1)
		}
		logger.Info("completed sweep step", "num_senders", n, "lost_rate_percent", row.LostRatePercent())
	}

	fmt.Fprintf(os.Stdout, "results written to %s\n", resultsPath)
}
