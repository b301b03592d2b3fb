package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Per-observed-sender interval predictor: bounded history,
 *		running minimum, mode, and forward projection of the next
 *		arrival.
 *
 * Description:	A SenderProfile is what one Receiver has learned about
 *		one sender. The bounded history window exists so the
 *		predictor adapts to a sender whose interval drifts, while
 *		the running minimum is never forgotten even after it
 *		ages out of the window — see Observe's retention rule.
 *
 *------------------------------------------------------------------*/

import "sort"

// MaxIntervalHistory is the bounded window size K for a sender's
// interval history.
const MaxIntervalHistory = 100

// InitialMinIntervalMS is the sentinel "no interval observed yet"
// minimum, one hour in simulated milliseconds.
const InitialMinIntervalMS = 3_600_000

// StaleAfterMS is the delta beyond which a profile is considered dead
// and evicted rather than kept around forever.
const StaleAfterMS = 3_600_000

// ScheduleQuietMS is the minimum gap a scheduled wakeup must have over
// "now" to be worth a channel retune; predictions closer than this are
// pushed forward by another MinIntervalMS.
const ScheduleQuietMS = 1000

// SenderProfile is a receiver's accumulated knowledge about one
// observed sender.
type SenderProfile struct {
	ID           string
	ChannelIndex int

	LastSentMS int
	SendTimes  int

	intervalHistory   []int
	intervalFrequency map[int]int
	MinIntervalMS     int

	// NextSendMS is the predicted absolute timestep of the next
	// arrival, or a sentinel < 0 when unset.
	NextSendMS int
}

// newSenderProfile creates a profile for a sender's first observed
// packet. The caller (Receiver.observePacket) is responsible for
// setting ChannelIndex to the channel the packet was heard on.
func newSenderProfile(id string, channelIndex, now int) *SenderProfile {
	return &SenderProfile{
		ID:                id,
		ChannelIndex:      channelIndex,
		LastSentMS:        now,
		SendTimes:         1,
		intervalHistory:   nil,
		intervalFrequency: make(map[int]int),
		MinIntervalMS:     InitialMinIntervalMS,
		NextSendMS:        -1,
	}
}

// Observe folds one newly measured inter-arrival gap into the bounded
// history, updating the running minimum and the frequency table.
//
// Retention rule: when the history is full, the running minimum is
// never the element evicted. If the oldest element equals the running
// minimum, the *second*-oldest is removed instead, so the minimum stays
// anchored in the window indefinitely.
func (p *SenderProfile) Observe(interval int) {
	if interval < p.MinIntervalMS {
		p.MinIntervalMS = interval
	}

	if len(p.intervalHistory) == MaxIntervalHistory {
		if p.intervalHistory[0] == p.MinIntervalMS {
			evicted := p.intervalHistory[1]
			p.intervalFrequency[evicted]--
			p.intervalHistory = append(p.intervalHistory[:1], p.intervalHistory[2:]...)
		} else {
			evicted := p.intervalHistory[0]
			p.intervalFrequency[evicted]--
			p.intervalHistory = p.intervalHistory[1:]
		}
	}

	p.intervalHistory = append(p.intervalHistory, interval)
	p.intervalFrequency[interval]++
}

// LastInterval returns the most recently observed gap, or -1 if none
// has been observed yet.
func (p *SenderProfile) LastInterval() int {
	if len(p.intervalHistory) == 0 {
		return -1
	}
	return p.intervalHistory[len(p.intervalHistory)-1]
}

// AverageInterval returns the mean of the current history window, or
// -1.0 if it is empty.
func (p *SenderProfile) AverageInterval() float64 {
	if len(p.intervalHistory) == 0 {
		return -1.0
	}
	sum := 0
	for _, v := range p.intervalHistory {
		sum += v
	}
	return float64(sum) / float64(len(p.intervalHistory))
}

// Mode returns the interval value with the highest frequency in the
// current window, or -1 if the window is empty. Ties are resolved by
// scanning candidate values in ascending numeric order and keeping the
// first to reach the maximum — deterministic per call, not claimed to
// be the "true" mode under a tie.
func (p *SenderProfile) Mode() int {
	if len(p.intervalFrequency) == 0 {
		return -1
	}
	keys := make([]int, 0, len(p.intervalFrequency))
	for k := range p.intervalFrequency {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	best, bestCount := keys[0], p.intervalFrequency[keys[0]]
	for _, k := range keys[1:] {
		if c := p.intervalFrequency[k]; c > bestCount {
			best, bestCount = k, c
		}
	}
	return best
}

// History returns a copy of the current interval history, oldest
// first.
func (p *SenderProfile) History() []int {
	out := make([]int, len(p.intervalHistory))
	copy(out, p.intervalHistory)
	return out
}

// FrequencySum returns the sum of all frequency-table values, which
// must always equal len(History()).
func (p *SenderProfile) FrequencySum() int {
	sum := 0
	for _, c := range p.intervalFrequency {
		sum += c
	}
	return sum
}

// scheduleNext is called after a non-first observation to (re)compute
// NextSendMS fresh from now: now + MinIntervalMS, pushed forward by
// further whole intervals while the gap would be under ScheduleQuietMS
// — a predicted gap that small doesn't justify a channel retune.
func (p *SenderProfile) scheduleNext(now int) {
	p.NextSendMS = now + p.MinIntervalMS
	for p.NextSendMS-now < ScheduleQuietMS {
		p.NextSendMS += p.MinIntervalMS
	}
}

// nextArrivalDelta projects the next arrival: if a prediction exists,
// roll it forward by whole MinIntervalMS steps
// until it is no longer behind now (a missed schedule), then return
// NextSendMS - now. If no prediction exists yet (NextSendMS < 0), the
// delta is left deeply negative so neither the schedule-opportunity
// nor the stale-eviction check fires on it.
func (p *SenderProfile) nextArrivalDelta(now int) int {
	if p.NextSendMS > 0 {
		for p.NextSendMS < now {
			p.NextSendMS += p.MinIntervalMS
		}
	}
	return p.NextSendMS - now
}
