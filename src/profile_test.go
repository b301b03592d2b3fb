package channelwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_SenderProfile_newSenderProfile(t *testing.T) {
	p := newSenderProfile("A", 3, 1000)

	assert.Equal(t, "A", p.ID)
	assert.Equal(t, 3, p.ChannelIndex)
	assert.Equal(t, 1000, p.LastSentMS)
	assert.Equal(t, 1, p.SendTimes)
	assert.Equal(t, InitialMinIntervalMS, p.MinIntervalMS)
	assert.Equal(t, -1, p.NextSendMS)
	assert.Equal(t, -1, p.LastInterval())
	assert.Equal(t, -1.0, p.AverageInterval())
	assert.Equal(t, -1, p.Mode())
}

func Test_SenderProfile_Observe_tracksMinimum(t *testing.T) {
	p := newSenderProfile("A", 0, 0)

	p.Observe(200)
	assert.Equal(t, 200, p.MinIntervalMS)

	p.Observe(150)
	assert.Equal(t, 150, p.MinIntervalMS)

	p.Observe(300)
	assert.Equal(t, 150, p.MinIntervalMS, "minimum never increases from a larger observation")
}

// Test_SenderProfile_Observe_retentionLaw checks the retention
// invariant: once the history is full, the running minimum is never
// evicted, even when it sits at the oldest position.
func Test_SenderProfile_Observe_retentionLaw(t *testing.T) {
	p := newSenderProfile("A", 0, 0)

	// First interval recorded is the smallest, so it becomes both the
	// running minimum and the oldest history entry.
	p.Observe(50)
	for i := 0; i < MaxIntervalHistory-1; i++ {
		p.Observe(200)
	}
	assert.Equal(t, MaxIntervalHistory, len(p.History()))
	assert.Equal(t, 50, p.MinIntervalMS)
	assert.Contains(t, p.History(), 50)

	// Pushing the window past full must still retain 50 somewhere,
	// rather than evicting it as the oldest element.
	p.Observe(200)
	assert.Equal(t, MaxIntervalHistory, len(p.History()))
	assert.Contains(t, p.History(), 50, "running minimum must never be evicted")
	assert.Equal(t, 50, p.MinIntervalMS)
}

func Test_SenderProfile_FrequencySum_matchesHistoryLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := newSenderProfile("A", 0, 0)
		n := rapid.IntRange(0, 250).Draw(t, "n")
		for i := 0; i < n; i++ {
			interval := rapid.IntRange(1, 1000).Draw(t, "interval")
			p.Observe(interval)
		}
		assert.Equal(t, len(p.History()), p.FrequencySum())
		assert.LessOrEqual(t, len(p.History()), MaxIntervalHistory)
	})
}

func Test_SenderProfile_Mode_tieBrokenDeterministically(t *testing.T) {
	p := newSenderProfile("A", 0, 0)
	p.Observe(100)
	p.Observe(200)

	// Both 100 and 200 occur once; the documented tie-break picks the
	// smaller value.
	assert.Equal(t, 100, p.Mode())
}

func Test_SenderProfile_Mode_picksHighestFrequency(t *testing.T) {
	p := newSenderProfile("A", 0, 0)
	p.Observe(100)
	p.Observe(200)
	p.Observe(200)

	assert.Equal(t, 200, p.Mode())
}

func Test_SenderProfile_scheduleNext_pushesPastQuietWindow(t *testing.T) {
	p := newSenderProfile("A", 0, 0)
	p.MinIntervalMS = 100

	p.scheduleNext(0)
	assert.GreaterOrEqual(t, p.NextSendMS, ScheduleQuietMS)
	assert.Equal(t, 0, (p.NextSendMS)%100, "should land on a whole multiple of MinIntervalMS from now")
}

func Test_SenderProfile_nextArrivalDelta_rollsForwardWhenMissed(t *testing.T) {
	p := newSenderProfile("A", 0, 0)
	p.MinIntervalMS = 100
	p.NextSendMS = 50

	delta := p.nextArrivalDelta(500)
	assert.GreaterOrEqual(t, p.NextSendMS, 500)
	assert.Equal(t, p.NextSendMS-500, delta)
}

func Test_SenderProfile_nextArrivalDelta_unsetNeverLooksStaleOrDue(t *testing.T) {
	p := newSenderProfile("A", 0, 0)

	delta := p.nextArrivalDelta(1000)
	assert.Negative(t, delta, "an unset prediction must not look like a due or stale one")
	assert.LessOrEqual(t, delta, 0)
}
