package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Read configuration for a simulation run from a YAML file,
 *		with command-line overrides layered on top.
 *
 * Description:	A plain gopkg.in/yaml.v3-decoded struct plus
 *		github.com/spf13/pflag overrides for command-line flags.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the full set of knobs a run can be configured with. Zero
// values are replaced by NewSimulator's own defaults, so an empty
// Config is always valid.
type Config struct {
	NumChannels int    `yaml:"num_channels"`
	NumSenders  int    `yaml:"num_senders"`
	Mode        string `yaml:"mode"`
	SwitchTime  int    `yaml:"switch_time"`
	DwellTime   int    `yaml:"dwell_time"`
	IntervalMS  int    `yaml:"interval_ms"`
	Seed        int64  `yaml:"seed"`
	StepLimit   int    `yaml:"step_limit"`

	ReceiverSiteLat float64 `yaml:"receiver_site_lat"`
	ReceiverSiteLon float64 `yaml:"receiver_site_lon"`
	MaxRangeMeters  float64 `yaml:"max_range_meters"`

	ResultsCSV     string `yaml:"results_csv"`
	FilenamePattern string `yaml:"filename_pattern"`

	AnnounceEnabled bool   `yaml:"announce_enabled"`
	AnnounceName    string `yaml:"announce_name"`
}

// modeNames maps a config file's textual mode name to the Mode
// constant simulator.go understands.
var modeNames = map[string]Mode{
	"r1-rn-polling":                   ModeAllPolling,
	"r1-rn-both-scheduling-and-polling": ModePartitionedBoth,
	"r1-polling-r2-scheduling":        ModeSharedProfilePolling,
	"r1-polling-r2-limited-polling":   ModeSharedKnownLimitedPoll,
}

// ParseMode resolves a config/CLI mode name, defaulting to
// ModeAllPolling for an empty string.
func ParseMode(name string) (Mode, error) {
	if name == "" {
		return ModeAllPolling, nil
	}
	m, ok := modeNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown coexistence mode %q", name)
	}
	return m, nil
}

// LoadConfig reads and decodes a YAML config file. A missing file is
// not an error: it is treated the same as an empty document, since
// every field has a sensible zero-value default.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// RegisterFlags binds pflag overrides for every Config field onto fs,
// matching every teacher cmd/*/main.go's flag-first style. Call
// ApplyFlags after fs.Parse to layer the parsed values back onto cfg.
type flagSet struct {
	configFile      *string
	numChannels     *int
	numSenders      *int
	mode            *string
	switchTime      *int
	dwellTime       *int
	intervalMS      *int
	seed            *int64
	stepLimit       *int
	receiverSiteLat *float64
	receiverSiteLon *float64
	maxRangeMeters  *float64
	resultsCSV      *string
	filenamePattern *string
	announce        *bool
	announceName    *string
}

// RegisterFlags declares the command-line overrides on fs and returns
// a handle ApplyFlags uses to layer parsed values back onto a Config.
func RegisterFlags(fs *pflag.FlagSet) *flagSet {
	return &flagSet{
		configFile:      fs.StringP("config-file", "c", "", "YAML configuration file."),
		numChannels:     fs.IntP("num-channels", "N", 0, "Number of narrowband channels. 0 uses the default of 40."),
		numSenders:      fs.IntP("num-senders", "n", 0, "Number of simulated senders. 0 uses the default of 15."),
		mode:            fs.StringP("mode", "m", "", "Coexistence mode: r1-rn-polling, r1-rn-both-scheduling-and-polling, r1-polling-r2-scheduling, r1-polling-r2-limited-polling."),
		switchTime:      fs.Int("switch-time", 0, "Ticks spent retuning between channels. 0 uses the default of 5."),
		dwellTime:       fs.Int("dwell-time", 0, "Ticks spent dwelling on a poll channel. 0 uses the default of 220."),
		intervalMS:      fs.Int("interval-ms", 0, "Fixed sender emission interval in simulated milliseconds. 0 uses the default of 200."),
		seed:            fs.Int64("seed", 0, "Random seed for channel assignment and initial sender phase."),
		stepLimit:       fs.Int("step-limit", 0, "Number of ticks to run. 0 uses the default of 60000."),
		receiverSiteLat: fs.Float64("receiver-site-lat", 0, "Receiver site latitude, decimal degrees."),
		receiverSiteLon: fs.Float64("receiver-site-lon", 0, "Receiver site longitude, decimal degrees."),
		maxRangeMeters:  fs.Float64("max-range-meters", 0, "Propagation horizon in meters. 0 disables the propagation-loss model."),
		resultsCSV:      fs.String("results-csv", "", "Path to append batch results to."),
		filenamePattern: fs.String("filename-pattern", "", "strftime pattern for result filenames."),
		announce:        fs.Bool("announce", false, "Announce this run over DNS-SD."),
		announceName:    fs.String("announce-name", "", "DNS-SD service name to announce as."),
	}
}

// ApplyFlags layers flags explicitly set by the user on top of cfg,
// leaving file-configured values alone otherwise.
func (f *flagSet) ApplyFlags(fs *pflag.FlagSet, cfg *Config) {
	apply := func(name string, set func()) {
		if fs.Changed(name) {
			set()
		}
	}
	apply("num-channels", func() { cfg.NumChannels = *f.numChannels })
	apply("num-senders", func() { cfg.NumSenders = *f.numSenders })
	apply("mode", func() { cfg.Mode = *f.mode })
	apply("switch-time", func() { cfg.SwitchTime = *f.switchTime })
	apply("dwell-time", func() { cfg.DwellTime = *f.dwellTime })
	apply("interval-ms", func() { cfg.IntervalMS = *f.intervalMS })
	apply("seed", func() { cfg.Seed = *f.seed })
	apply("step-limit", func() { cfg.StepLimit = *f.stepLimit })
	apply("receiver-site-lat", func() { cfg.ReceiverSiteLat = *f.receiverSiteLat })
	apply("receiver-site-lon", func() { cfg.ReceiverSiteLon = *f.receiverSiteLon })
	apply("max-range-meters", func() { cfg.MaxRangeMeters = *f.maxRangeMeters })
	apply("results-csv", func() { cfg.ResultsCSV = *f.resultsCSV })
	apply("filename-pattern", func() { cfg.FilenamePattern = *f.filenamePattern })
	apply("announce", func() { cfg.AnnounceEnabled = *f.announce })
	apply("announce-name", func() { cfg.AnnounceName = *f.announceName })
}

// ConfigFile returns the --config-file flag's value, read before the
// rest of ApplyFlags so LoadConfig can be called first.
func (f *flagSet) ConfigFile() string { return *f.configFile }
