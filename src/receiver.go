package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Receiver state machine: the four-state control loop that
 *		decides, tick by tick, whether to dwell on a poll channel,
 *		retune, or jump to a predicted sender.
 *
 * Description:	DWELL doubles as IDLE in the pure-schedule variant used
 *		by the "R1-polling-R2-scheduling" coexistence mode. See
 *		simulator.go for how the four coexistence modes wire
 *		receivers to channel subsets and to each other's profile
 *		maps / known-channel sets.
 *
 *------------------------------------------------------------------*/

import (
	"sort"

	"github.com/charmbracelet/log"
)

// State is the receiver's tagged control-plane state. It is a sum
// type, not a string, so transitions are exhaustively switched over.
type State int

const (
	StateDwell State = iota
	StateSwitch
	StateSchedule
	StateSwitchToSchedule
)

// Code returns the state_code used in the per-receiver trace:
// 0=DWELL, 1=SWITCH, 2=SCHEDULE, 3=SWITCH_TO_SCHEDULE.
func (s State) Code() int { return int(s) }

func (s State) String() string {
	switch s {
	case StateDwell:
		return "DWELL"
	case StateSwitch:
		return "SWITCH"
	case StateSchedule:
		return "SCHEDULE"
	case StateSwitchToSchedule:
		return "SWITCH_TO_SCHEDULE"
	default:
		return "UNKNOWN"
	}
}

// scheduleOpportunityWindowMS is the width of the "worth retuning for"
// window around a predicted arrival.
const scheduleOpportunityWindowMS = 20

// KnownChannelSet is an insertion-ordered set of channel (poll) indices
// a receiver has ever observed traffic on. It is a pointer-identity
// type specifically so two receivers can share one set (the
// limited-polling coexistence mode) the same way they can share a map.
type KnownChannelSet struct {
	order []int
	seen  map[int]bool
}

// NewKnownChannelSet returns an empty set.
func NewKnownChannelSet() *KnownChannelSet {
	return &KnownChannelSet{seen: make(map[int]bool)}
}

// Add inserts idx if not already present, preserving insertion order.
func (k *KnownChannelSet) Add(idx int) {
	if k.seen[idx] {
		return
	}
	k.seen[idx] = true
	k.order = append(k.order, idx)
}

// Contains reports whether idx has been added.
func (k *KnownChannelSet) Contains(idx int) bool {
	return k.seen[idx]
}

// Slice returns the set's members in insertion order.
func (k *KnownChannelSet) Slice() []int {
	out := make([]int, len(k.order))
	copy(out, k.order)
	return out
}

// ModeFlags selects which coexistence behavior a given tick's Step
// call should exercise.
type ModeFlags struct {
	PollingOnly    bool
	LimitedPolling bool
}

// Receiver orchestrates DWELL/SWITCH/SCHEDULE/SWITCH_TO_SCHEDULE over
// an assigned channel subset, driven by SenderProfile predictions.
type Receiver struct {
	Index    int
	channels []*Channel

	PollIndex   int
	ActiveIndex int
	State       State

	SwitchTime           int
	SwitchTimer          int
	ExpectedDwellTime    int
	DwellTimer           int
	MaxScheduleTimeout   int
	ScheduleTimer        int
	ScheduleTimeoutCount int

	Profiles    map[string]*SenderProfile
	KnownIndices *KnownChannelSet

	firstSwitchLoop bool

	// Rig is an optional hardware-in-the-loop sink notified each time
	// switchToChannel sets ActiveIndex: for a poll SWITCH that is on the
	// first DWELL tick after the switch completes; for a schedule detour
	// it is when the detour begins, before its SWITCH_TO_SCHEDULE ticks
	// have run, not when they complete. Nil by default (pure
	// simulation); see rig.go.
	Rig RigController

	Logger *log.Logger
}

// NewReceiver builds a Receiver over channels, optionally sharing a
// profile map and/or known-channel set with another receiver. Pass nil
// for either to give the receiver its own.
func NewReceiver(index int, channels []*Channel, switchTime, dwellTime int, profiles map[string]*SenderProfile, known *KnownChannelSet) *Receiver {
	if profiles == nil {
		profiles = make(map[string]*SenderProfile)
	}
	if known == nil {
		known = NewKnownChannelSet()
	}
	return &Receiver{
		Index:              index,
		channels:           channels,
		SwitchTime:         switchTime,
		ExpectedDwellTime:  dwellTime,
		MaxScheduleTimeout: dwellTime,
		Profiles:           profiles,
		KnownIndices:       known,
		Logger:             NewDiscardLogger(),
	}
}

func (r *Receiver) logf() *log.Logger {
	if r.Logger == nil {
		return NewDiscardLogger()
	}
	return r.Logger.With("component", "receiver", "index", r.Index)
}

func (r *Receiver) currentChannel() *Channel {
	return r.channels[r.ActiveIndex]
}

// switchToChannel retunes ActiveIndex to idx, notifying the optional
// hardware sink. Out-of-range idx is a programmer error.
func (r *Receiver) switchToChannel(idx int) error {
	if idx < 0 || idx >= len(r.channels) {
		return &ErrChannelIndexOutOfRange{Index: idx, N: len(r.channels)}
	}
	r.ActiveIndex = idx
	if r.Rig != nil {
		r.Rig.Retuned(r.Index, idx)
	}
	return nil
}

// Step advances the receiver by one tick under the polling+scheduling
// state machine and returns the (state, packet-received) pair to log
// for trace plotting.
func (r *Receiver) Step(now int, flags ModeFlags) (State, bool) {
	if r.State == StateDwell && !flags.PollingOnly {
		r.probeScheduleOpportunity(now)
	}

	switch r.State {
	case StateSwitch:
		return r.stepSwitch(StateDwell)
	case StateSwitchToSchedule:
		return r.stepSwitch(StateSchedule)
	case StateSchedule:
		return r.stepSchedule(now, true)
	case StateDwell:
		return r.stepDwell(now, flags.LimitedPolling)
	default:
		return r.State, false
	}
}

// StepScheduleOnly advances the receiver under the pure-schedule
// variant: only the schedule probe, SWITCH_TO_SCHEDULE, and SCHEDULE
// states are used, and DWELL here means IDLE — a received packet
// returns straight to DWELL/IDLE without ever entering SWITCH.
func (r *Receiver) StepScheduleOnly(now int) (State, bool) {
	if r.State == StateDwell {
		r.probeScheduleOpportunity(now)
	}

	switch r.State {
	case StateSwitchToSchedule:
		return r.stepSwitch(StateSchedule)
	case StateSchedule:
		return r.stepSchedule(now, false)
	default:
		return r.State, false
	}
}

// probeScheduleOpportunity finds the soonest-arriving sender whose
// prediction falls in (0, 20) ms from now, evicting anything stale
// along the way, and detours to its channel if one exists.
func (r *Receiver) probeScheduleOpportunity(now int) {
	const hugeDelta = 100_000

	bestDelta := hugeDelta
	targetChannel := -1
	var stale []string

	ids := make([]string, 0, len(r.Profiles))
	for id := range r.Profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		info := r.Profiles[id]
		delta := info.nextArrivalDelta(now)
		if delta > StaleAfterMS {
			stale = append(stale, id)
			continue
		}
		if delta > 0 && delta < scheduleOpportunityWindowMS && delta < bestDelta {
			bestDelta = delta
			targetChannel = info.ChannelIndex
		}
	}

	for _, id := range stale {
		r.logf().Info("evicting stale sender profile", "sender", id)
		delete(r.Profiles, id)
	}

	if targetChannel == -1 {
		return
	}

	if targetChannel != r.PollIndex {
		r.currentChannel().Listening = false
		r.State = StateSwitchToSchedule
		r.firstSwitchLoop = true
		_ = r.switchToChannel(targetChannel)
	} else {
		r.State = StateSchedule
	}
}

// stepSwitch advances SwitchTimer and, once it reaches SwitchTime,
// transitions to done (either StateDwell or StateSchedule depending on
// which switch this was).
func (r *Receiver) stepSwitch(done State) (State, bool) {
	entryState := r.State
	if r.SwitchTimer < r.SwitchTime {
		if r.firstSwitchLoop {
			r.logf().Debug("switching channel", "to", r.ActiveIndex, "from_state", entryState)
			r.firstSwitchLoop = false
		}
		r.SwitchTimer++
	} else {
		r.SwitchTimer = 0
		r.State = done
		r.firstSwitchLoop = true
	}
	return entryState, false
}

// stepSchedule implements SCHEDULE: listen on ActiveIndex, pop at most
// one packet per tick, and end the schedule on the first packet popped
// or on timeout; packets still queued behind that first one are not
// popped. allowSwitch controls whether a completed
// schedule whose ActiveIndex differs from PollIndex returns to SWITCH
// (full state machine) or straight to DWELL/IDLE (pure-schedule
// variant).
func (r *Receiver) stepSchedule(now int, allowSwitch bool) (State, bool) {
	ch := r.currentChannel()
	ch.Listening = true

	if r.ScheduleTimer < r.MaxScheduleTimeout {
		r.ScheduleTimer++
		if pkt, ok := ch.Pop(); ok {
			r.observePacket(pkt, now)
			ch.Listening = false
			r.ScheduleTimer = 0
			r.transitionAfterSchedule(allowSwitch)
			return StateSchedule, true
		}
		return r.State, false
	}

	ch.Listening = false
	r.ScheduleTimer = 0
	r.ScheduleTimeoutCount++
	r.logf().Info("schedule timed out", "channel", r.ActiveIndex, "timeouts", r.ScheduleTimeoutCount)
	r.transitionAfterSchedule(allowSwitch)
	return r.State, false
}

func (r *Receiver) transitionAfterSchedule(allowSwitch bool) {
	if allowSwitch && r.ActiveIndex != r.PollIndex {
		r.State = StateSwitch
	} else {
		r.State = StateDwell
	}
}

// stepDwell implements DWELL: active_index tracks poll_index, listen,
// and attempt one pop per tick until the dwell budget is spent, then
// advance to the next poll channel.
func (r *Receiver) stepDwell(now int, limitedPolling bool) (State, bool) {
	if r.ActiveIndex != r.PollIndex {
		_ = r.switchToChannel(r.PollIndex)
	}
	ch := r.currentChannel()
	ch.Listening = true

	if r.DwellTimer < r.ExpectedDwellTime {
		r.DwellTimer++
		if pkt, ok := ch.Pop(); ok {
			sendTimes := r.observePacket(pkt, now)
			if sendTimes == 0 {
				// First-ever observation of this sender: extend the
				// dwell so a second packet (and thus a first interval
				// measurement) has a chance to arrive here too.
				r.DwellTimer = 0
			}
			return StateDwell, true
		}
		return StateDwell, false
	}

	ch.Listening = false
	r.DwellTimer = 0
	r.advancePoll(limitedPolling)
	return StateDwell, false
}

// advancePoll selects the next PollIndex.
//
// Limited polling walks the known-channel set BACKWARDS (one position
// earlier, cyclically) rather than forwards. This is retained
// deliberately rather than "corrected" to a forward walk.
func (r *Receiver) advancePoll(limited bool) {
	var next int
	if limited {
		known := r.KnownIndices.Slice()
		if len(known) == 0 {
			next = r.PollIndex
		} else if r.KnownIndices.Contains(r.PollIndex) {
			pos := indexOf(known, r.PollIndex)
			next = known[(pos-1+len(known))%len(known)]
		} else {
			next = known[0]
		}
	} else {
		next = (r.PollIndex + 1) % len(r.channels)
	}

	if next != r.ActiveIndex {
		r.State = StateSwitch
		r.firstSwitchLoop = true
	}
	r.PollIndex = next
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// observePacket records pkt against its sender's profile, returning
// the sender's total SendTimes count after this observation, or 0 if
// this was the first sighting ever.
func (r *Receiver) observePacket(pkt Packet, now int) int {
	r.KnownIndices.Add(r.PollIndex)

	info, exists := r.Profiles[pkt.SenderID]
	if !exists {
		r.Profiles[pkt.SenderID] = newSenderProfile(pkt.SenderID, r.PollIndex, now)
		return 0
	}

	info.Observe(now - info.LastSentMS)
	info.LastSentMS = now
	info.SendTimes++
	info.scheduleNext(now)
	return info.SendTimes
}
