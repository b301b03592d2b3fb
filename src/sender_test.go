package channelwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func Test_Sender_Tick_firesOnSchedule(t *testing.T) {
	ch := newChannel(0)
	s := NewSender("A", 200, 0, ch, 0)

	_, fired := s.Tick(100)
	assert.False(t, fired, "interval has not elapsed yet")

	_, fired = s.Tick(200)
	assert.False(t, fired, "exactly at the interval boundary should not fire (strict >)")

	p, fired := s.Tick(201)
	require.True(t, fired)
	assert.Equal(t, "A", p.SenderID)
	assert.Equal(t, 1, ch.Pending())
	assert.Equal(t, 201, s.LastEmitMS)
}

func Test_Sender_Tick_disabled(t *testing.T) {
	ch := newChannel(0)
	s := NewSender("A", 200, 0, ch, 0)
	s.Enabled = false

	_, fired := s.Tick(10_000)
	assert.False(t, fired)
	assert.Equal(t, 0, ch.Pending())
}

func Test_Sender_Tick_propagationOutOfRange(t *testing.T) {
	ch := newChannel(0)
	s := NewSender("A", 200, 0, ch, 0)
	s.WithPosition(0, 0) // lon=0, lat=0
	s.Propagation = &PropagationModel{
		ReceiverSiteLat: 50,
		ReceiverSiteLon: 0,
		MaxRangeMeters:  1, // far closer than 0,0 actually is
	}

	_, fired := s.Tick(201)
	assert.False(t, fired, "out-of-range sender should not deliver a packet")
	assert.Equal(t, 0, ch.Pending())
	assert.Equal(t, 201, s.LastEmitMS, "the transmitter still fires on schedule even if nothing arrives")
}

func Test_Sender_Tick_noPositionAlwaysInRange(t *testing.T) {
	ch := newChannel(0)
	s := NewSender("A", 200, 0, ch, 0)
	s.Propagation = &PropagationModel{MaxRangeMeters: 1}

	_, fired := s.Tick(201)
	assert.True(t, fired, "a sender with no assigned position is always in range")
}

// Test_Sender_Tick_intervalHonored checks the periodicity property:
// Tick only ever fires when strictly more than IntervalMS
// has elapsed since the last emission.
func Test_Sender_Tick_intervalHonored(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		interval := rapid.IntRange(1, 5000).Draw(t, "interval")
		ch := newChannel(0)
		s := NewSender("A", interval, 0, ch, 0)

		ticks := rapid.IntRange(0, 200).Draw(t, "ticks")
		lastEmit := 0
		for now := 1; now <= ticks; now++ {
			_, fired := s.Tick(now)
			if fired {
				assert.Greater(t, now-lastEmit, interval)
				lastEmit = now
			}
		}
	})
}
