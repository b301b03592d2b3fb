package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Timestep driver composing senders, receivers, and the
 *		channel bank under a selected coexistence mode.
 *
 * Description:	Owns the one ChannelBank for the run's whole lifetime
 *		and drives the fixed per-tick loop order: senders tick, then
 *		receivers step in index order, then the bank's loss sweep,
 *		then the clock advances.
 *
 *------------------------------------------------------------------*/

import (
	"math/rand"
	"strconv"

	"github.com/charmbracelet/log"
)

// Mode selects one of the four receiver coexistence configurations.
type Mode int

const (
	ModeAllPolling              Mode = iota // R1-Rn-polling
	ModePartitionedBoth                     // R1-Rn-both-scheduling-and-polling
	ModeSharedProfilePolling                // R1-polling-R2-scheduling
	ModeSharedKnownLimitedPoll              // R1-polling-R2-limited-polling
)

// DefaultNumChannels, DefaultSwitchTime and DefaultDwellTime are the
// defaults applied when a SimulatorConfig field is left at its zero
// value.
const (
	DefaultNumChannels = 40
	DefaultNumSenders  = 15
	DefaultSwitchTime  = 5
	DefaultDwellTime   = 220
	DefaultIntervalMS  = 200
)

// TraceEntry is one tick's (state, received) pair for a receiver's
// per-tick trace, used for plotting and reporting.
type TraceEntry struct {
	State    State
	Received bool
}

// SimulatorConfig parameterizes NewSimulator.
type SimulatorConfig struct {
	NumChannels int
	NumSenders  int
	Mode        Mode
	SwitchTime  int
	DwellTime   int
	IntervalMS  int

	// Rand, if nil, defaults to a rand.Rand seeded with 1, so a run
	// without one is still reproducible; callers that want a different
	// run pass their own seeded source.
	Rand *rand.Rand

	Logger *log.Logger

	// Propagation, if set, is attached to every sender that is given a
	// position via SenderPositions.
	Propagation *PropagationModel
	// SenderPositions optionally maps a packet ID to a (lon, lat)
	// position; senders not present here have no position.
	SenderPositions map[string][2]float64

	Rig RigController
}

// Simulator constructs one ChannelBank, one Sender per configured
// packet ID, and two Receivers, then drives them tick by tick.
type Simulator struct {
	cfg SimulatorConfig

	curTimestep int
	bank        *ChannelBank
	senders     []*Sender
	receivers   []*Receiver

	traces [][]TraceEntry

	logger *log.Logger
}

// NewSimulator builds a Simulator: N=40 channels (or cfg.NumChannels),
// two receivers with switch_time=5 and dwell_time=220 (or the
// configured overrides), and cfg.NumSenders senders each assigned a
// random channel and a random initial phase in [0, 200].
func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.NumChannels <= 0 {
		cfg.NumChannels = DefaultNumChannels
	}
	if cfg.NumSenders <= 0 {
		cfg.NumSenders = DefaultNumSenders
	}
	if cfg.SwitchTime <= 0 {
		cfg.SwitchTime = DefaultSwitchTime
	}
	if cfg.DwellTime <= 0 {
		cfg.DwellTime = DefaultDwellTime
	}
	if cfg.IntervalMS <= 0 {
		cfg.IntervalMS = DefaultIntervalMS
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	if cfg.Logger == nil {
		cfg.Logger = NewDiscardLogger()
	}

	s := &Simulator{
		cfg:    cfg,
		bank:   NewChannelBank(cfg.NumChannels),
		logger: cfg.Logger,
	}

	s.buildReceivers()
	s.buildSenders()

	s.traces = make([][]TraceEntry, len(s.receivers))

	return s
}

const numReceivers = 2

func (s *Simulator) buildReceivers() {
	cfg := s.cfg

	var sharedProfiles map[string]*SenderProfile
	var sharedKnown *KnownChannelSet
	if cfg.Mode == ModeSharedProfilePolling {
		sharedProfiles = make(map[string]*SenderProfile)
	}
	if cfg.Mode == ModeSharedKnownLimitedPoll {
		sharedKnown = NewKnownChannelSet()
	}

	channelsPerReceiver := cfg.NumChannels / numReceivers

	for i := 0; i < numReceivers; i++ {
		var channels []*Channel
		if cfg.Mode == ModePartitionedBoth {
			start := i * channelsPerReceiver
			end := start + channelsPerReceiver
			if i == numReceivers-1 {
				end = cfg.NumChannels
			}
			channels = s.bank.Slice(start, end)
		} else {
			channels = s.bank.All()
		}

		var profiles map[string]*SenderProfile
		if cfg.Mode == ModeSharedProfilePolling {
			profiles = sharedProfiles
		}
		var known *KnownChannelSet
		if cfg.Mode == ModeSharedKnownLimitedPoll {
			known = sharedKnown
		}

		r := NewReceiver(i, channels, cfg.SwitchTime, cfg.DwellTime, profiles, known)
		r.Rig = cfg.Rig
		r.Logger = s.logger
		s.receivers = append(s.receivers, r)
	}
}

func (s *Simulator) buildSenders() {
	cfg := s.cfg

	for i := 0; i < cfg.NumSenders; i++ {
		packetID := senderPacketID(i)
		channelIndex := cfg.Rand.Intn(cfg.NumChannels)
		ch, err := s.bank.At(channelIndex)
		if err != nil {
			// cfg.Rand.Intn(cfg.NumChannels) can never produce an
			// out-of-range index; this would only fire on a broken Rand.
			panic(err)
		}

		lastEmit := cfg.Rand.Intn(201)
		sender := NewSender(packetID, cfg.IntervalMS, lastEmit, ch, channelIndex)

		if pos, ok := cfg.SenderPositions[packetID]; ok {
			sender.WithPosition(pos[0], pos[1])
			sender.Propagation = cfg.Propagation
		}

		s.senders = append(s.senders, sender)
	}
}

func senderPacketID(i int) string {
	return "SENDER_ID_" + strconv.Itoa(i)
}

// Receivers exposes the simulator's receivers for inspection in tests
// and reporting.
func (s *Simulator) Receivers() []*Receiver { return s.receivers }

// Senders exposes the simulator's senders for inspection in tests and
// reporting.
func (s *Simulator) Senders() []*Sender { return s.senders }

// Bank exposes the channel bank for inspection in tests and reporting.
func (s *Simulator) Bank() *ChannelBank { return s.bank }

// Trace returns the recorded (state, received) sequence for receiver i.
func (s *Simulator) Trace(i int) []TraceEntry { return s.traces[i] }

// CurTimestep returns the current simulated tick.
func (s *Simulator) CurTimestep() int { return s.curTimestep }

// Run advances the simulation for stepLimit ticks, terminating once
// the step count reaches stepLimit. A non-positive stepLimit runs
// forever (the caller is expected to have some other way to stop).
func (s *Simulator) Run(stepLimit int) {
	for stepLimit <= 0 || s.curTimestep < stepLimit {
		s.tick()
	}
}

func (s *Simulator) tick() {
	for _, snd := range s.senders {
		snd.Tick(s.curTimestep)
	}

	for i, r := range s.receivers {
		state, received := s.stepReceiver(i, r)
		s.traces[i] = append(s.traces[i], TraceEntry{State: state, Received: received})
	}

	s.bank.SweepUnlistened()
	s.curTimestep++
}

func (s *Simulator) stepReceiver(i int, r *Receiver) (State, bool) {
	switch s.cfg.Mode {
	case ModeSharedProfilePolling:
		if i == 0 {
			return r.Step(s.curTimestep, ModeFlags{PollingOnly: true})
		}
		return r.StepScheduleOnly(s.curTimestep)
	case ModeAllPolling:
		return r.Step(s.curTimestep, ModeFlags{PollingOnly: true})
	case ModePartitionedBoth:
		return r.Step(s.curTimestep, ModeFlags{})
	case ModeSharedKnownLimitedPoll:
		return r.Step(s.curTimestep, ModeFlags{PollingOnly: true, LimitedPolling: i == 1})
	default:
		return r.Step(s.curTimestep, ModeFlags{})
	}
}
